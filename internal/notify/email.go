package notify

import (
	"context"
	"fmt"
	"net/smtp"
	"strings"
)

// Email delivers alerts over SMTP to the service's alert address.
// With no credentials configured, or an alert with no address, delivery is
// skipped silently: absence of configuration is not an error.
type Email struct {
	Host     string
	Port     int
	From     string
	Password string
}

func NewEmail(host string, port int, from, password string) *Email {
	if host == "" || from == "" || password == "" {
		return nil
	}
	if port == 0 {
		port = 587
	}
	return &Email{Host: host, Port: port, From: from, Password: password}
}

func (e *Email) Send(ctx context.Context, a Alert) error {
	if e == nil || a.Email == "" {
		return nil
	}

	var msg strings.Builder
	fmt.Fprintf(&msg, "From: %s\r\n", e.From)
	fmt.Fprintf(&msg, "To: %s\r\n", a.Email)
	fmt.Fprintf(&msg, "Subject: %s\r\n", a.Subject())
	msg.WriteString("\r\n")
	msg.WriteString(a.Body())
	msg.WriteString("\r\n")

	addr := fmt.Sprintf("%s:%d", e.Host, e.Port)
	auth := smtp.PlainAuth("", e.From, e.Password, e.Host)
	if err := smtp.SendMail(addr, auth, e.From, []string{a.Email}, []byte(msg.String())); err != nil {
		return fmt.Errorf("smtp send: %w", err)
	}
	return nil
}
