package mail

import (
	"bytes"
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"log/slog"
	"mime"
	"net"
	"net/smtp"
	"strconv"
	"strings"
	"time"

	"github.com/phrazzld/todolist/internal/config"
	"github.com/phrazzld/todolist/internal/platform/logger"
	"github.com/phrazzld/todolist/internal/redact"
)

var (
	// ErrNoSender is returned when a batch is sent without a configured sender.
	ErrNoSender = errors.New("mail sender address not configured")

	// ErrNoStartTLS is returned when the server does not offer STARTTLS and
	// plaintext delivery was not explicitly allowed.
	ErrNoStartTLS = errors.New("smtp server does not support STARTTLS")
)

const defaultTimeout = 30 * time.Second

// Message is one plaintext email.
type Message struct {
	To      string
	Subject string
	Body    string
}

// Mailer delivers a batch of messages over a single session.
type Mailer interface {
	Send(ctx context.Context, msgs []Message) error
}

// SMTPMailer implements Mailer with net/smtp.
type SMTPMailer struct {
	host     string
	port     int
	from     string
	password string
	insecure bool
	logger   *slog.Logger
	now      func() time.Time

	// tlsConfig is used for STARTTLS; tests may swap it.
	tlsConfig *tls.Config
}

var _ Mailer = (*SMTPMailer)(nil)

// NewSMTPMailer creates an SMTPMailer from the mail configuration.
// If logger is nil, a default logger will be used.
func NewSMTPMailer(cfg config.MailConfig, logger *slog.Logger) *SMTPMailer {
	if logger == nil {
		logger = slog.Default()
	}
	return &SMTPMailer{
		host:     cfg.Host,
		port:     cfg.Port,
		from:     cfg.SenderEmail,
		password: cfg.SenderPassword,
		insecure: cfg.AllowInsecure,
		logger:   logger.With(slog.String("component", "smtp_mailer")),
		now:      time.Now,
		tlsConfig: &tls.Config{
			ServerName: cfg.Host,
			MinVersion: tls.VersionTLS12,
		},
	}
}

// Send delivers msgs in order. The first failure aborts the batch; messages
// already accepted by the server stay sent.
func (m *SMTPMailer) Send(ctx context.Context, msgs []Message) error {
	if len(msgs) == 0 {
		return nil
	}
	if m.from == "" {
		return ErrNoSender
	}

	log := logger.FromContextOrDefault(ctx, m.logger)
	addr := net.JoinHostPort(m.host, strconv.Itoa(m.port))

	var d net.Dialer
	conn, err := d.DialContext(ctx, "tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to connect to smtp server %s: %w", addr, err)
	}

	deadline, ok := ctx.Deadline()
	if !ok {
		deadline = m.now().Add(defaultTimeout)
	}
	if err := conn.SetDeadline(deadline); err != nil {
		_ = conn.Close()
		return fmt.Errorf("failed to set smtp deadline: %w", err)
	}

	c, err := smtp.NewClient(conn, m.host)
	if err != nil {
		_ = conn.Close()
		return fmt.Errorf("smtp handshake failed: %w", err)
	}
	defer func() { _ = c.Close() }()

	if ok, _ := c.Extension("STARTTLS"); ok {
		if err := c.StartTLS(m.tlsConfig); err != nil {
			return fmt.Errorf("smtp starttls failed: %w", err)
		}
	} else if !m.insecure {
		return fmt.Errorf("%s: %w", addr, ErrNoStartTLS)
	} else {
		log.Warn("sending mail without TLS", slog.String("addr", addr))
	}

	if m.password != "" {
		if ok, _ := c.Extension("AUTH"); ok {
			if err := c.Auth(smtp.PlainAuth("", m.from, m.password, m.host)); err != nil {
				return fmt.Errorf("smtp authentication failed: %s", redact.Error(err))
			}
		}
	}

	for i, msg := range msgs {
		if err := m.deliver(c, msg); err != nil {
			log.Error("failed to deliver message",
				slog.Int("index", i),
				slog.String("to", redact.Email(msg.To)),
				slog.String("error", err.Error()))
			return fmt.Errorf("failed to send message %d of %d: %w", i+1, len(msgs), err)
		}
		log.Debug("message delivered", slog.String("to", redact.Email(msg.To)))
	}

	if err := c.Quit(); err != nil {
		return fmt.Errorf("smtp quit failed: %w", err)
	}

	log.Info("mail batch sent", slog.Int("count", len(msgs)))
	return nil
}

func (m *SMTPMailer) deliver(c *smtp.Client, msg Message) error {
	if err := c.Mail(m.from); err != nil {
		return fmt.Errorf("MAIL FROM: %w", err)
	}
	if err := c.Rcpt(msg.To); err != nil {
		return fmt.Errorf("RCPT TO: %w", err)
	}
	w, err := c.Data()
	if err != nil {
		return fmt.Errorf("DATA: %w", err)
	}
	if _, err := w.Write(m.format(msg)); err != nil {
		_ = w.Close()
		return fmt.Errorf("writing message: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("closing message: %w", err)
	}
	return nil
}

// format renders headers and body with CRLF line endings.
func (m *SMTPMailer) format(msg Message) []byte {
	var b bytes.Buffer
	writeHeader := func(k, v string) {
		b.WriteString(k)
		b.WriteString(": ")
		b.WriteString(v)
		b.WriteString("\r\n")
	}
	writeHeader("From", m.from)
	writeHeader("To", msg.To)
	writeHeader("Subject", mime.QEncoding.Encode("utf-8", msg.Subject))
	writeHeader("Date", m.now().Format(time.RFC1123Z))
	writeHeader("MIME-Version", "1.0")
	writeHeader("Content-Type", "text/plain; charset=UTF-8")
	b.WriteString("\r\n")

	body := strings.ReplaceAll(msg.Body, "\r\n", "\n")
	b.WriteString(strings.ReplaceAll(body, "\n", "\r\n"))
	return b.Bytes()
}
