// Package email is a minimal SMTP-over-TLS sender used by the notification
// dispatcher.
package email

import (
	"crypto/tls"
	"fmt"
	"net/smtp"
	"strings"
)

type SMTPServer struct {
	Host string
	Port string
}

func (s SMTPServer) Addr() string {
	return s.Host + ":" + s.Port
}

type Sender struct {
	Login    string
	Password string
	Server   SMTPServer
}

func buildMessage(from string, to []string, subject, body string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "From: %s\r\n", from)
	if len(to) > 0 {
		fmt.Fprintf(&b, "To: %s\r\n", strings.Join(to, ";"))
	}
	fmt.Fprintf(&b, "Subject: %s\r\n", subject)
	b.WriteString("\r\n" + body)
	return b.String()
}

// Send delivers one message over an implicit-TLS SMTP session.
func (e Sender) Send(to []string, subject, body string) error {
	auth := smtp.PlainAuth("", e.Login, e.Password, e.Server.Host)

	conn, err := tls.Dial("tcp", e.Server.Addr(), &tls.Config{
		ServerName: e.Server.Host,
	})
	if err != nil {
		return fmt.Errorf("tls dial: %w", err)
	}

	client, err := smtp.NewClient(conn, e.Server.Host)
	if err != nil {
		conn.Close()
		return fmt.Errorf("smtp client: %w", err)
	}
	defer client.Close()

	if err := client.Auth(auth); err != nil {
		return fmt.Errorf("smtp auth: %w", err)
	}

	if err := client.Mail(e.Login); err != nil {
		return fmt.Errorf("smtp mail: %w", err)
	}
	for _, rcpt := range to {
		if err := client.Rcpt(rcpt); err != nil {
			return fmt.Errorf("smtp rcpt %s: %w", rcpt, err)
		}
	}

	w, err := client.Data()
	if err != nil {
		return fmt.Errorf("smtp data: %w", err)
	}
	if _, err := w.Write([]byte(buildMessage(e.Login, to, subject, body))); err != nil {
		return fmt.Errorf("smtp write: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("smtp close data: %w", err)
	}

	return client.Quit()
}
