package domain

// Email is the notification sent when a client registers.
// It is a plain value: two emails with the same fields are the same email.
type Email struct {
	From string `json:"from"`
	To   string `json:"to"`
}

func (e Email) Validate() error {
	if e.From == "" || e.To == "" {
		return ErrInvalidEmail
	}
	return nil
}
