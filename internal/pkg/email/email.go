package email

import (
	"bytes"
	"context"
	"crypto/tls"
	"embed"
	"fmt"
	"html/template"
	"log/slog"
	"net"
	"net/smtp"
	"strings"
	"time"

	"github.com/cmlabs-hris/hris-attendance-go/internal/config"
)

//go:embed templates/*.html
var templateFS embed.FS

// EmailService defines the interface for sending emails
type EmailService interface {
	SendPunchConfirmation(ctx context.Context, to string, data PunchEmailData) error
	SendOpenPunchDigest(ctx context.Context, to []string, data OpenPunchDigestData) error
}

type emailServiceImpl struct {
	cfg       config.SMTPConfig
	templates *template.Template
}

// NewEmailService creates a new email service instance
func NewEmailService(cfg config.SMTPConfig) (EmailService, error) {
	tmpl, err := template.ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse email templates: %w", err)
	}

	return &emailServiceImpl{
		cfg:       cfg,
		templates: tmpl,
	}, nil
}

type PunchEmailData struct {
	EmployeeName string
	CompanyName  string
	Action       string
	Timestamp    string
	Latitude     string
	Longitude    string
	Subject      string
}

// SendPunchConfirmation tells the employee their punch was recorded.
func (s *emailServiceImpl) SendPunchConfirmation(ctx context.Context, to string, data PunchEmailData) error {
	var body bytes.Buffer
	if err := s.templates.ExecuteTemplate(&body, "punch.html", data); err != nil {
		return fmt.Errorf("failed to execute template: %w", err)
	}

	subject := fmt.Sprintf("Attendance %s recorded at %s", data.Action, data.Timestamp)
	return s.sendHTML(ctx, []string{to}, subject, body.String())
}

type OpenPunchEntry struct {
	EmployeeName string
	Mobile       string
	InTime       string
}

type OpenPunchDigestData struct {
	CompanyName string
	Date        string
	Entries     []OpenPunchEntry
}

// SendOpenPunchDigest lists employees who never punched OUT.
func (s *emailServiceImpl) SendOpenPunchDigest(ctx context.Context, to []string, data OpenPunchDigestData) error {
	var body bytes.Buffer
	if err := s.templates.ExecuteTemplate(&body, "open_punch.html", data); err != nil {
		return fmt.Errorf("failed to execute template: %w", err)
	}

	return s.sendHTML(ctx, to, fmt.Sprintf("No OUT punch report for %s", data.Date), body.String())
}

// sendHTML makes a single delivery attempt bounded by ctx.
func (s *emailServiceImpl) sendHTML(ctx context.Context, to []string, subject, htmlBody string) error {
	// Skip sending if SMTP is not configured
	if s.cfg.Host == "" {
		slog.Warn("SMTP not configured, skipping email send", "to", to, "subject", subject)
		return nil
	}
	if len(to) == 0 {
		return nil
	}

	from := s.cfg.From

	headers := fmt.Sprintf("From: %s <%s>\r\n", s.cfg.FromName, from)
	headers += fmt.Sprintf("To: %s\r\n", strings.Join(to, ", "))
	headers += fmt.Sprintf("Subject: %s\r\n", subject)
	headers += "MIME-Version: 1.0\r\n"
	headers += "Content-Type: text/html; charset=\"UTF-8\"\r\n"
	headers += "\r\n"

	message := []byte(headers + htmlBody)
	addr := fmt.Sprintf("%s:%d", s.cfg.Host, s.cfg.Port)

	if err := s.deliver(ctx, addr, from, to, message); err != nil {
		slog.Error("Failed to send email", "to", to, "subject", subject, "error", err)
		return fmt.Errorf("failed to send email: %w", err)
	}

	slog.Info("Email sent successfully", "to", to, "subject", subject)
	return nil
}

// deliver is smtp.SendMail with the dial and the whole session bounded by ctx.
func (s *emailServiceImpl) deliver(ctx context.Context, addr, from string, to []string, msg []byte) error {
	var d net.Dialer
	conn, err := d.DialContext(ctx, "tcp", addr)
	if err != nil {
		return fmt.Errorf("dial %s: %w", addr, err)
	}
	if deadline, ok := ctx.Deadline(); ok {
		_ = conn.SetDeadline(deadline)
	} else {
		_ = conn.SetDeadline(time.Now().Add(30 * time.Second))
	}

	c, err := smtp.NewClient(conn, s.cfg.Host)
	if err != nil {
		conn.Close()
		return err
	}
	defer c.Close()

	if ok, _ := c.Extension("STARTTLS"); ok {
		if err := c.StartTLS(&tls.Config{ServerName: s.cfg.Host}); err != nil {
			return fmt.Errorf("starttls: %w", err)
		}
	}
	if s.cfg.Username != "" {
		if ok, _ := c.Extension("AUTH"); ok {
			auth := smtp.PlainAuth("", s.cfg.Username, s.cfg.Password, s.cfg.Host)
			if err := c.Auth(auth); err != nil {
				return fmt.Errorf("auth: %w", err)
			}
		}
	}

	if err := c.Mail(from); err != nil {
		return err
	}
	for _, rcpt := range to {
		if err := c.Rcpt(rcpt); err != nil {
			return err
		}
	}

	w, err := c.Data()
	if err != nil {
		return err
	}
	if _, err := w.Write(msg); err != nil {
		return err
	}
	if err := w.Close(); err != nil {
		return err
	}
	return c.Quit()
}
