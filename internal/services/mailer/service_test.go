package mailer

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/arbor"

	"github.com/ternarybob/marketbrief/internal/common"
	"github.com/ternarybob/marketbrief/internal/models"
	"github.com/ternarybob/marketbrief/internal/services/report"
)

func testConfig() common.MailConfig {
	return common.MailConfig{
		Host:       "127.0.0.1",
		Port:       1, // nothing listens here
		Username:   "sender@example.com",
		Password:   "app-password",
		From:       "sender@example.com",
		FromName:   "MarketBrief",
		UseTLS:     false,
		Recipients: []string{"reader@example.com"},
	}
}

func testDocument() models.ReportDocument {
	return models.ReportDocument{
		Subject:    "Daily Market Brief – 21 Aug 2026",
		HTMLBody:   "<html><body>brief</body></html>",
		ChartPNG:   []byte{0x89, 'P', 'N', 'G'},
		Recipients: []string{"reader@example.com", "second@example.com"},
	}
}

func TestDeliver(t *testing.T) {
	t.Run("Unreachable host returns false without panicking", func(t *testing.T) {
		svc := NewService(testConfig(), arbor.NewLogger())

		assert.False(t, svc.Deliver(context.Background(), testDocument()))
	})

	t.Run("Unreachable TLS host returns false", func(t *testing.T) {
		config := testConfig()
		config.UseTLS = true
		svc := NewService(config, arbor.NewLogger())

		assert.False(t, svc.Deliver(context.Background(), testDocument()))
	})

	t.Run("Missing credentials return false", func(t *testing.T) {
		config := testConfig()
		config.Password = ""
		svc := NewService(config, arbor.NewLogger())

		assert.False(t, svc.Deliver(context.Background(), testDocument()))
	})

	t.Run("No recipients returns false", func(t *testing.T) {
		svc := NewService(testConfig(), arbor.NewLogger())
		doc := testDocument()
		doc.Recipients = nil

		assert.False(t, svc.Deliver(context.Background(), doc))
	})

	t.Run("Cancelled context returns false", func(t *testing.T) {
		svc := NewService(testConfig(), arbor.NewLogger())
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		assert.False(t, svc.Deliver(ctx, testDocument()))
	})
}

func TestBuildMessage(t *testing.T) {
	svc := NewService(testConfig(), arbor.NewLogger())

	t.Run("Multipart related with inline chart part", func(t *testing.T) {
		msg := svc.buildMessage(testDocument())

		assert.Contains(t, msg, "From: MarketBrief <sender@example.com>\r\n")
		assert.Contains(t, msg, "To: reader@example.com, second@example.com\r\n")
		assert.Contains(t, msg, "Subject: Daily Market Brief – 21 Aug 2026\r\n")
		assert.Contains(t, msg, "MIME-Version: 1.0\r\n")
		assert.Contains(t, msg, `Content-Type: multipart/related; boundary=`)
		assert.Contains(t, msg, `Content-Type: text/html; charset="UTF-8"`)
		assert.Contains(t, msg, "Content-ID: <"+report.ChartContentID+">\r\n")
		assert.Contains(t, msg, `Content-Disposition: inline; filename="market_chart.png"`)
		assert.Contains(t, msg, "Message-ID: <")
	})

	t.Run("Chart absent omits the image part", func(t *testing.T) {
		doc := testDocument()
		doc.ChartPNG = nil
		msg := svc.buildMessage(doc)

		assert.NotContains(t, msg, "Content-ID:")
		assert.NotContains(t, msg, "image/png")
	})

	t.Run("Body is base64 with RFC 2045 line length", func(t *testing.T) {
		doc := testDocument()
		doc.HTMLBody = strings.Repeat("<p>very long styled paragraph</p>", 100)
		msg := svc.buildMessage(doc)

		require.Contains(t, msg, "Content-Transfer-Encoding: base64")
		for _, line := range strings.Split(msg, "\r\n") {
			assert.LessOrEqual(t, len(line), 998)
		}
	})
}
