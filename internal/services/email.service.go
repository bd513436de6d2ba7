package services

import (
	"bytes"
	"context"
	"fmt"
	"mime"
	"mime/quotedprintable"
	"net/smtp"
	"strconv"
	"strings"
	"time"

	"housemanagement/config"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/google/uuid"
)

// Email is one outgoing message. HTML is optional; when set the message is
// sent as multipart/alternative with Text as the plain part.
type Email struct {
	To      []string
	Subject string
	Text    string
	HTML    string
}

type Mailer interface {
	Send(ctx context.Context, email Email) error
	DefaultFrom() string
}

func NewMailer(cfg config.Config) Mailer {
	if cfg.EmailBackend == "smtp" {
		return NewSMTPMailer(cfg)
	}
	return NewLogMailer(cfg.DefaultFromEmail)
}

type SMTPMailer struct {
	server   string
	host     string
	auth     smtp.Auth
	from     string
	fromName string
	log      logger.Logger
}

func NewSMTPMailer(cfg config.Config) *SMTPMailer {
	var auth smtp.Auth
	if cfg.SMTPUsername != "" {
		auth = smtp.PlainAuth("", cfg.SMTPUsername, cfg.SMTPPassword, cfg.SMTPHost)
	}

	return &SMTPMailer{
		server:   cfg.SMTPHost + ":" + strconv.Itoa(cfg.SMTPPort),
		host:     cfg.SMTPHost,
		auth:     auth,
		from:     cfg.DefaultFromEmail,
		fromName: cfg.DefaultFromName,
		log:      logger.New("SMTPMailer"),
	}
}

func (m *SMTPMailer) DefaultFrom() string {
	return m.from
}

// Send delivers synchronously; failures are returned to the caller.
func (m *SMTPMailer) Send(ctx context.Context, email Email) error {
	log := m.log.TraceFromContext(ctx).Function("Send")

	if len(email.To) == 0 {
		return log.ErrMsg("email has no recipients")
	}

	msg, err := buildMessage(m.fromHeader(), email)
	if err != nil {
		return log.Err("failed to build message", err, "subject", email.Subject)
	}

	if err := smtp.SendMail(m.server, m.auth, m.from, email.To, msg); err != nil {
		return log.Err("failed to send email", err, "subject", email.Subject, "recipients", len(email.To))
	}

	log.Info("email sent", "subject", email.Subject, "recipients", len(email.To))
	return nil
}

func (m *SMTPMailer) fromHeader() string {
	if m.fromName == "" {
		return m.from
	}
	return mime.QEncoding.Encode("utf-8", m.fromName) + " <" + m.from + ">"
}

func buildMessage(from string, email Email) ([]byte, error) {
	var msg bytes.Buffer
	fmt.Fprintf(&msg, "From: %s\r\n", from)
	fmt.Fprintf(&msg, "To: %s\r\n", strings.Join(email.To, ", "))
	fmt.Fprintf(&msg, "Subject: %s\r\n", mime.QEncoding.Encode("utf-8", email.Subject))
	fmt.Fprintf(&msg, "Date: %s\r\n", time.Now().Format(time.RFC1123Z))
	fmt.Fprintf(&msg, "MIME-Version: 1.0\r\n")

	if email.HTML == "" {
		fmt.Fprintf(&msg, "Content-Type: text/plain; charset=UTF-8\r\n")
		fmt.Fprintf(&msg, "Content-Transfer-Encoding: quoted-printable\r\n\r\n")
		if err := writeQuotedPrintable(&msg, email.Text); err != nil {
			return nil, err
		}
		return msg.Bytes(), nil
	}

	boundary := "hm-" + uuid.NewString()
	fmt.Fprintf(&msg, "Content-Type: multipart/alternative; boundary=\"%s\"\r\n\r\n", boundary)

	parts := []struct {
		contentType string
		body        string
	}{
		{"text/plain", email.Text},
		{"text/html", email.HTML},
	}
	for _, part := range parts {
		fmt.Fprintf(&msg, "--%s\r\n", boundary)
		fmt.Fprintf(&msg, "Content-Type: %s; charset=UTF-8\r\n", part.contentType)
		fmt.Fprintf(&msg, "Content-Transfer-Encoding: quoted-printable\r\n\r\n")
		if err := writeQuotedPrintable(&msg, part.body); err != nil {
			return nil, err
		}
		fmt.Fprintf(&msg, "\r\n")
	}
	fmt.Fprintf(&msg, "--%s--\r\n", boundary)

	return msg.Bytes(), nil
}

func writeQuotedPrintable(buf *bytes.Buffer, body string) error {
	w := quotedprintable.NewWriter(buf)
	if _, err := w.Write([]byte(body)); err != nil {
		return err
	}
	return w.Close()
}

// LogMailer records messages instead of sending them.
type LogMailer struct {
	from string
	log  logger.Logger
}

func NewLogMailer(from string) *LogMailer {
	return &LogMailer{from: from, log: logger.New("LogMailer")}
}

func (m *LogMailer) DefaultFrom() string {
	return m.from
}

func (m *LogMailer) Send(ctx context.Context, email Email) error {
	m.log.TraceFromContext(ctx).Function("Send").Info(
		"email",
		"to", strings.Join(email.To, ", "),
		"subject", email.Subject,
		"body", email.Text,
		"multipart", email.HTML != "",
	)
	return nil
}
