package handler

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	apimw "github.com/notifyhub/bankapp/internal/api/middleware"
	"github.com/notifyhub/bankapp/internal/domain"
)

// ClientRegistry is the part of the bank the client endpoints need.
type ClientRegistry interface {
	AddClient(c *domain.Client) error
	Clients() []*domain.Client
}

// ClientHandler registers and lists bank clients.
type ClientHandler struct {
	bank   ClientRegistry
	logger *zap.Logger
}

func NewClientHandler(bank ClientRegistry, logger *zap.Logger) *ClientHandler {
	return &ClientHandler{bank: bank, logger: logger}
}

type accountView struct {
	ID          int                `json:"id"`
	Type        domain.AccountType `json:"type"`
	Balance     float64            `json:"balance"`
	MaxWithdraw float64            `json:"max_withdraw"`
}

type clientView struct {
	Name     string        `json:"name"`
	Gender   domain.Gender `json:"gender"`
	City     string        `json:"city,omitempty"`
	Accounts []accountView `json:"accounts"`
}

func toView(c *domain.Client) clientView {
	accounts := c.Accounts()
	v := clientView{
		Name:     c.Name,
		Gender:   c.Gender,
		City:     c.City,
		Accounts: make([]accountView, 0, len(accounts)),
	}
	for _, a := range accounts {
		v.Accounts = append(v.Accounts, accountView{
			ID:          a.ID(),
			Type:        a.Type(),
			Balance:     a.Balance(),
			MaxWithdraw: a.MaximumAmountToWithdraw(),
		})
	}
	return v
}

// Create handles POST /api/v1/clients
//
// Registration runs every listener before the response is written, so a
// 201 means the welcome email has been queued.
func (h *ClientHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req domain.CreateClientRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	c, err := req.ToClient()
	if err != nil {
		mapError(w, err)
		return
	}

	if err := h.bank.AddClient(c); err != nil {
		h.logger.Warn("add client failed",
			zap.String("correlation_id", apimw.GetCorrelationID(r.Context())),
			zap.String("client", c.Name),
			zap.Error(err),
		)
		mapError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, toView(c))
}

// List handles GET /api/v1/clients
func (h *ClientHandler) List(w http.ResponseWriter, r *http.Request) {
	clients := h.bank.Clients()
	views := make([]clientView, 0, len(clients))
	for _, c := range clients {
		views = append(views, toView(c))
	}
	respondJSON(w, http.StatusOK, map[string]any{
		"data":  views,
		"total": len(views),
	})
}
