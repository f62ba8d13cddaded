package mail

import (
	"context"
	"errors"
	"net/smtp"
	"strings"
	"testing"
)

type sentMail struct {
	addr string
	from string
	to   []string
	msg  string
}

func recorder(out *[]sentMail, err error) SendFunc {
	return func(addr string, _ smtp.Auth, from string, to []string, msg []byte) error {
		*out = append(*out, sentMail{addr: addr, from: from, to: to, msg: string(msg)})
		return err
	}
}

func TestSubject(t *testing.T) {
	tests := []struct {
		name string
		want string
	}{
		{"Ada", "Ada"},
		{"", DefaultSubject},
		{"   ", DefaultSubject},
	}
	for _, tt := range tests {
		if got := (Message{Name: tt.name}).Subject(); got != tt.want {
			t.Errorf("Subject(%q) = %q, expected %q", tt.name, got, tt.want)
		}
	}
}

func TestHTML(t *testing.T) {
	got := Message{Message: "hi\nthere <3"}.HTML()
	if want := "<p>hi<br>there &lt;3</p>"; got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
}

func TestSendNotConfigured(t *testing.T) {
	var sent []sentMail
	m := New(Config{User: "me@example.com", Send: recorder(&sent, nil)})
	if m.Configured() {
		t.Error("expected mailer without password to be unconfigured")
	}
	err := m.Send(context.Background(), Message{Message: "hello"})
	if !errors.Is(err, ErrNotConfigured) {
		t.Errorf("expected ErrNotConfigured, got %v", err)
	}
	if len(sent) != 0 {
		t.Error("expected nothing sent")
	}
}

func TestSendEmptyMessage(t *testing.T) {
	var sent []sentMail
	m := New(Config{User: "me@example.com", Password: "pw", Send: recorder(&sent, nil)})
	if err := m.Send(context.Background(), Message{Name: "Ada"}); !errors.Is(err, ErrEmptyMessage) {
		t.Errorf("expected ErrEmptyMessage, got %v", err)
	}
}

func TestSend(t *testing.T) {
	var sent []sentMail
	m := New(Config{User: "me@example.com", Password: "pw", Send: recorder(&sent, nil)})

	if err := m.Send(context.Background(), Message{Message: "line one\nline two"}); err != nil {
		t.Fatal(err)
	}
	if len(sent) != 1 {
		t.Fatalf("expected one mail, got %d", len(sent))
	}
	got := sent[0]
	if got.addr != "smtp.gmail.com:587" {
		t.Errorf("unexpected addr %q", got.addr)
	}
	if got.from != "me@example.com" || len(got.to) != 1 || got.to[0] != "me@example.com" {
		t.Errorf("unexpected envelope %q -> %v", got.from, got.to)
	}
	for _, want := range []string{
		"Subject: " + DefaultSubject,
		"<p>line one<br>line two</p>",
		"line one\nline two",
		"multipart/alternative",
	} {
		if !strings.Contains(got.msg, want) {
			t.Errorf("expected message to contain %q", want)
		}
	}
}

func TestSendWrapsTransportError(t *testing.T) {
	var sent []sentMail
	boom := errors.New("connection refused")
	m := New(Config{User: "u", Password: "p", Host: "localhost", Port: 2525, Send: recorder(&sent, boom)})

	err := m.Send(context.Background(), Message{Message: "x"})
	if !errors.Is(err, boom) {
		t.Errorf("expected wrapped transport error, got %v", err)
	}
	if sent[0].addr != "localhost:2525" {
		t.Errorf("unexpected addr %q", sent[0].addr)
	}
}
