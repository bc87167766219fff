// -----------------------------------------------------------------------
// Mailer Service - SMTP delivery of assembled report documents as a
// multipart/related message with an inline chart image
// -----------------------------------------------------------------------

package mailer

import (
	"context"
	"crypto/rand"
	"crypto/tls"
	"encoding/base64"
	"fmt"
	"net/smtp"
	"strings"

	"github.com/google/uuid"
	"github.com/ternarybob/arbor"

	"github.com/ternarybob/marketbrief/internal/common"
	"github.com/ternarybob/marketbrief/internal/models"
	"github.com/ternarybob/marketbrief/internal/services/report"
)

// Service sends report emails using the configured SMTP relay.
type Service struct {
	config common.MailConfig
	logger arbor.ILogger
}

// NewService creates a new mailer service.
func NewService(config common.MailConfig, logger arbor.ILogger) *Service {
	return &Service{
		config: config,
		logger: logger,
	}
}

// Deliver transmits the document to all recipients in one SMTP
// transaction. Any transport or authentication failure is logged and
// reported as false; delivery problems never propagate as errors.
func (s *Service) Deliver(ctx context.Context, doc models.ReportDocument) bool {
	if err := s.send(ctx, doc); err != nil {
		s.logger.Error().
			Str("host", s.config.Host).
			Strs("recipients", doc.Recipients).
			Err(err).
			Msg("Failed to send email")
		return false
	}

	s.logger.Info().
		Strs("recipients", doc.Recipients).
		Str("subject", doc.Subject).
		Msg("Email sent successfully")
	return true
}

// SendTest sends a plain text email to verify SMTP configuration.
func (s *Service) SendTest(ctx context.Context, to string) error {
	doc := models.ReportDocument{
		Subject:    "MarketBrief Test Email",
		HTMLBody:   "<p>This is a test email from MarketBrief to verify your SMTP configuration is working correctly.</p>",
		Recipients: []string{to},
	}

	if err := s.send(ctx, doc); err != nil {
		s.logger.Error().Err(err).Str("to", to).Msg("Failed to send test email")
		return err
	}

	s.logger.Info().Str("to", to).Msg("Test email sent successfully")
	return nil
}

func (s *Service) send(ctx context.Context, doc models.ReportDocument) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if s.config.Host == "" {
		return fmt.Errorf("SMTP host not configured")
	}
	if s.config.Username == "" || s.config.Password == "" {
		return fmt.Errorf("SMTP credentials not configured")
	}
	if s.config.From == "" {
		return fmt.Errorf("from email not configured")
	}
	if len(doc.Recipients) == 0 {
		return fmt.Errorf("no recipients configured")
	}

	msg := s.buildMessage(doc)

	addr := fmt.Sprintf("%s:%d", s.config.Host, s.config.Port)
	auth := smtp.PlainAuth("", s.config.Username, s.config.Password, s.config.Host)

	if s.config.UseTLS {
		// TLS connection (Gmail, etc.)
		return s.sendWithTLS(addr, auth, doc.Recipients, msg)
	}

	// Plain SMTP
	return smtp.SendMail(addr, auth, s.config.From, doc.Recipients, []byte(msg))
}

// buildMessage builds a multipart/related MIME message: the HTML body plus
// an optional inline chart image part tagged with the content ID the body
// references.
func (s *Service) buildMessage(doc models.ReportDocument) string {
	boundary := generateBoundary()

	var msg strings.Builder
	msg.WriteString(fmt.Sprintf("From: %s <%s>\r\n", s.config.FromName, s.config.From))
	msg.WriteString(fmt.Sprintf("To: %s\r\n", strings.Join(doc.Recipients, ", ")))
	msg.WriteString(fmt.Sprintf("Subject: %s\r\n", doc.Subject))
	msg.WriteString(fmt.Sprintf("Message-ID: <%s@marketbrief>\r\n", uuid.New().String()))
	msg.WriteString("MIME-Version: 1.0\r\n")
	msg.WriteString(fmt.Sprintf("Content-Type: multipart/related; boundary=\"%s\"\r\n", boundary))
	msg.WriteString("\r\n")

	// HTML part - base64 encoded so long styled lines stay within the
	// RFC 5322 998-char limit
	msg.WriteString(fmt.Sprintf("--%s\r\n", boundary))
	msg.WriteString("Content-Type: text/html; charset=\"UTF-8\"\r\n")
	msg.WriteString("Content-Transfer-Encoding: base64\r\n")
	msg.WriteString("\r\n")
	msg.WriteString(encodeBase64WithLineBreaks(doc.HTMLBody))
	msg.WriteString("\r\n")

	// Inline chart part, referenced from the body via cid
	if len(doc.ChartPNG) > 0 {
		msg.WriteString(fmt.Sprintf("--%s\r\n", boundary))
		msg.WriteString("Content-Type: image/png; name=\"market_chart.png\"\r\n")
		msg.WriteString("Content-Transfer-Encoding: base64\r\n")
		msg.WriteString(fmt.Sprintf("Content-ID: <%s>\r\n", report.ChartContentID))
		msg.WriteString("Content-Disposition: inline; filename=\"market_chart.png\"\r\n")
		msg.WriteString("\r\n")
		msg.WriteString(encodeBase64WithLineBreaks(string(doc.ChartPNG)))
		msg.WriteString("\r\n")
	}

	msg.WriteString(fmt.Sprintf("--%s--\r\n", boundary))

	return msg.String()
}

// sendWithTLS sends email using TLS connection (required for Gmail)
func (s *Service) sendWithTLS(addr string, auth smtp.Auth, recipients []string, msg string) error {
	host := strings.Split(addr, ":")[0]

	conn, err := tls.Dial("tcp", addr, &tls.Config{
		ServerName: host,
	})
	if err != nil {
		// Fallback to STARTTLS if direct TLS fails
		return s.sendWithSTARTTLS(addr, auth, recipients, msg)
	}
	defer conn.Close()

	client, err := smtp.NewClient(conn, host)
	if err != nil {
		return fmt.Errorf("failed to create SMTP client: %w", err)
	}
	defer client.Close()

	return s.transmit(client, auth, recipients, msg)
}

// sendWithSTARTTLS sends email using STARTTLS upgrade
func (s *Service) sendWithSTARTTLS(addr string, auth smtp.Auth, recipients []string, msg string) error {
	host := strings.Split(addr, ":")[0]

	client, err := smtp.Dial(addr)
	if err != nil {
		return fmt.Errorf("failed to connect to SMTP server: %w", err)
	}
	defer client.Close()

	tlsConfig := &tls.Config{
		ServerName: host,
	}
	if err := client.StartTLS(tlsConfig); err != nil {
		return fmt.Errorf("failed to start TLS: %w", err)
	}

	return s.transmit(client, auth, recipients, msg)
}

// transmit runs the authenticated SMTP transaction on an open client.
func (s *Service) transmit(client *smtp.Client, auth smtp.Auth, recipients []string, msg string) error {
	if err := client.Auth(auth); err != nil {
		return fmt.Errorf("SMTP authentication failed: %w", err)
	}

	if err := client.Mail(s.config.From); err != nil {
		return fmt.Errorf("failed to set mail from: %w", err)
	}

	for _, rcpt := range recipients {
		if err := client.Rcpt(rcpt); err != nil {
			return fmt.Errorf("failed to set mail recipient %s: %w", rcpt, err)
		}
	}

	w, err := client.Data()
	if err != nil {
		return fmt.Errorf("failed to start data: %w", err)
	}

	if _, err := w.Write([]byte(msg)); err != nil {
		return fmt.Errorf("failed to write message: %w", err)
	}

	if err := w.Close(); err != nil {
		return fmt.Errorf("failed to close data writer: %w", err)
	}

	return client.Quit()
}

// generateBoundary creates a unique MIME boundary string
func generateBoundary() string {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		// Fallback to a simple boundary if random fails
		return "marketbrief_boundary_fallback"
	}
	return fmt.Sprintf("marketbrief_%x", b)
}

// encodeBase64WithLineBreaks encodes content as base64 with 76-char line
// breaks per RFC 2045 for MIME content.
func encodeBase64WithLineBreaks(content string) string {
	encoded := base64.StdEncoding.EncodeToString([]byte(content))

	var result strings.Builder
	const lineLen = 76

	for i := 0; i < len(encoded); i += lineLen {
		end := i + lineLen
		if end > len(encoded) {
			end = len(encoded)
		}
		result.WriteString(encoded[i:end])
		if end < len(encoded) {
			result.WriteString("\r\n")
		}
	}

	return result.String()
}
