package report

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/arbor"
)

var testClock = func() time.Time {
	return time.Date(2026, time.August, 21, 18, 30, 0, 0, time.UTC)
}

func TestAssemble(t *testing.T) {
	svc := NewService(arbor.NewLogger(), WithClock(testClock))
	recipients := []string{"reader@example.com"}

	t.Run("Subject carries fixed label and date", func(t *testing.T) {
		doc, err := svc.Assemble("narrative", "<table></table>", nil, recipients)
		require.NoError(t, err)

		assert.Equal(t, "Daily Market Brief – 21 Aug 2026", doc.Subject)
	})

	t.Run("Body embeds narrative, table and header date", func(t *testing.T) {
		doc, err := svc.Assemble("📊 Market Summary", "<table><tr><td>Nifty 50</td></tr></table>", nil, recipients)
		require.NoError(t, err)

		assert.Contains(t, doc.HTMLBody, "Daily Market Brief")
		assert.Contains(t, doc.HTMLBody, "Friday, August 21, 2026")
		assert.Contains(t, doc.HTMLBody, "📊 Market Summary")
		// Table fragment passes through unescaped
		assert.Contains(t, doc.HTMLBody, "<table><tr><td>Nifty 50</td></tr></table>")
	})

	t.Run("Chart present links the content ID", func(t *testing.T) {
		chart := []byte{0x89, 'P', 'N', 'G'}
		doc, err := svc.Assemble("n", "<table></table>", chart, recipients)
		require.NoError(t, err)

		assert.Contains(t, doc.HTMLBody, `src="cid:`+ChartContentID+`"`)
		assert.Equal(t, chart, doc.ChartPNG)
	})

	t.Run("Chart absent omits the image element", func(t *testing.T) {
		doc, err := svc.Assemble("n", "<table></table>", nil, recipients)
		require.NoError(t, err)

		assert.NotContains(t, doc.HTMLBody, "<img")
		assert.NotContains(t, doc.HTMLBody, "cid:")
		assert.Nil(t, doc.ChartPNG)
	})

	t.Run("Recipients carried through", func(t *testing.T) {
		doc, err := svc.Assemble("n", "<table></table>", nil, []string{"a@example.com", "b@example.com"})
		require.NoError(t, err)

		assert.Equal(t, []string{"a@example.com", "b@example.com"}, doc.Recipients)
	})
}
