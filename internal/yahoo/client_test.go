package yahoo

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const chartJSON = `{
  "chart": {
    "result": [{
      "timestamp": [1755907200, 1755993600, 1756080000, 1756166400, 1756252800],
      "indicators": {
        "quote": [{
          "close": [24800.25, 24910.10, null, 24850.55, 24967.80]
        }]
      }
    }],
    "error": null
  }
}`

func TestDailyCloses(t *testing.T) {
	t.Run("Parses closes and skips nulls", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/v8/finance/chart/^NSEI", r.URL.Path)
			assert.Equal(t, "1d", r.URL.Query().Get("interval"))
			assert.Equal(t, "5d", r.URL.Query().Get("range"))
			assert.NotEmpty(t, r.Header.Get("User-Agent"))
			fmt.Fprint(w, chartJSON)
		}))
		defer server.Close()

		client := NewClient(WithBaseURL(server.URL))
		closes, err := client.DailyCloses(context.Background(), "^NSEI", 5)
		require.NoError(t, err)

		// The null close is skipped, not zero-filled
		require.Len(t, closes, 4)
		assert.Equal(t, 24800.25, closes[0].Price)
		assert.Equal(t, 24967.80, closes[3].Price)
		assert.True(t, closes[0].Date.Before(closes[3].Date))
	})

	t.Run("Non-200 returns APIError", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "not found", http.StatusNotFound)
		}))
		defer server.Close()

		client := NewClient(WithBaseURL(server.URL))
		_, err := client.DailyCloses(context.Background(), "^BAD", 5)

		var apiErr *APIError
		require.ErrorAs(t, err, &apiErr)
		assert.Equal(t, http.StatusNotFound, apiErr.StatusCode)
		assert.Equal(t, "^BAD", apiErr.Symbol)
	})

	t.Run("Provider-level error surfaces", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprint(w, `{"chart":{"result":null,"error":{"code":"Not Found","description":"No data found, symbol may be delisted"}}}`)
		}))
		defer server.Close()

		client := NewClient(WithBaseURL(server.URL))
		_, err := client.DailyCloses(context.Background(), "^GONE", 5)

		var apiErr *APIError
		require.ErrorAs(t, err, &apiErr)
		assert.Contains(t, apiErr.Message, "delisted")
	})

	t.Run("Empty result errors", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprint(w, `{"chart":{"result":[],"error":null}}`)
		}))
		defer server.Close()

		client := NewClient(WithBaseURL(server.URL))
		_, err := client.DailyCloses(context.Background(), "^EMPTY", 5)
		assert.Error(t, err)
	})

	t.Run("Unreachable server errors", func(t *testing.T) {
		client := NewClient(WithBaseURL("http://127.0.0.1:1"))
		_, err := client.DailyCloses(context.Background(), "^NSEI", 5)
		assert.Error(t, err)
	})
}
