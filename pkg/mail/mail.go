// Package mail sends the desktop's "Kind Msgs" notes over SMTP.
package mail

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"html"
	"mime"
	"mime/multipart"
	"net/smtp"
	"net/textproto"
	"strconv"
	"strings"
)

// DefaultSubject is used when the sender leaves their name blank.
const DefaultSubject = "Kind Message (No Name)"

var (
	ErrNotConfigured = errors.New("mail: email service not configured")
	ErrEmptyMessage  = errors.New("mail: message is required")
)

// SendFunc delivers a raw message. smtp.SendMail satisfies it.
type SendFunc func(addr string, a smtp.Auth, from string, to []string, msg []byte) error

// Config holds the SMTP settings.
type Config struct {
	Host     string
	Port     int
	User     string
	Password string
	// From defaults to User.
	From string
	// To defaults to User.
	To string
	// Send defaults to smtp.SendMail.
	Send SendFunc
}

// Message is a note from a visitor.
type Message struct {
	Name    string `json:"name"`
	Message string `json:"message"`
}

// Subject returns the sender name, or DefaultSubject when it is blank.
func (m Message) Subject() string {
	if name := strings.TrimSpace(m.Name); name != "" {
		return name
	}
	return DefaultSubject
}

// HTML returns the message as an HTML paragraph with line breaks kept.
func (m Message) HTML() string {
	return "<p>" + strings.ReplaceAll(html.EscapeString(m.Message), "\n", "<br>") + "</p>"
}

// Mailer sends messages with a fixed configuration.
type Mailer struct {
	cfg Config
}

// New creates a mailer. Missing credentials leave it unconfigured.
func New(cfg Config) *Mailer {
	if cfg.Host == "" {
		cfg.Host = "smtp.gmail.com"
	}
	if cfg.Port == 0 {
		cfg.Port = 587
	}
	if cfg.From == "" {
		cfg.From = cfg.User
	}
	if cfg.To == "" {
		cfg.To = cfg.User
	}
	if cfg.Send == nil {
		cfg.Send = smtp.SendMail
	}
	return &Mailer{cfg: cfg}
}

// Configured reports whether credentials are set.
func (m *Mailer) Configured() bool {
	return m != nil && m.cfg.User != "" && m.cfg.Password != ""
}

// Send delivers msg to the configured recipient.
func (m *Mailer) Send(ctx context.Context, msg Message) error {
	if !m.Configured() {
		return ErrNotConfigured
	}
	if strings.TrimSpace(msg.Message) == "" {
		return ErrEmptyMessage
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	body, err := m.compose(msg)
	if err != nil {
		return fmt.Errorf("mail: compose: %w", err)
	}
	addr := m.cfg.Host + ":" + strconv.Itoa(m.cfg.Port)
	auth := smtp.PlainAuth("", m.cfg.User, m.cfg.Password, m.cfg.Host)
	if err := m.cfg.Send(addr, auth, m.cfg.From, []string{m.cfg.To}, body); err != nil {
		return fmt.Errorf("mail: send: %w", err)
	}
	return nil
}

// compose builds a multipart/alternative message with text and HTML parts.
func (m *Mailer) compose(msg Message) ([]byte, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	fmt.Fprintf(&buf, "From: %s\r\n", m.cfg.From)
	fmt.Fprintf(&buf, "To: %s\r\n", m.cfg.To)
	fmt.Fprintf(&buf, "Subject: %s\r\n", mime.QEncoding.Encode("utf-8", msg.Subject()))
	buf.WriteString("MIME-Version: 1.0\r\n")
	fmt.Fprintf(&buf, "Content-Type: multipart/alternative; boundary=%s\r\n\r\n", mw.Boundary())

	parts := []struct {
		contentType string
		body        string
	}{
		{"text/plain; charset=utf-8", msg.Message},
		{"text/html; charset=utf-8", msg.HTML()},
	}
	for _, p := range parts {
		w, err := mw.CreatePart(textproto.MIMEHeader{
			"Content-Type":              {p.contentType},
			"Content-Transfer-Encoding": {"8bit"},
		})
		if err != nil {
			return nil, err
		}
		if _, err := w.Write([]byte(p.body)); err != nil {
			return nil, err
		}
	}
	if err := mw.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
