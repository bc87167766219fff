package collector

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/arbor"

	"github.com/ternarybob/marketbrief/internal/models"
	"github.com/ternarybob/marketbrief/internal/yahoo"
)

// fakeSource returns canned close histories per symbol.
type fakeSource struct {
	closes map[string][]yahoo.Close
	errs   map[string]error
	calls  []string
}

func (f *fakeSource) DailyCloses(ctx context.Context, symbol string, days int) ([]yahoo.Close, error) {
	f.calls = append(f.calls, symbol)
	if err, ok := f.errs[symbol]; ok {
		return nil, err
	}
	return f.closes[symbol], nil
}

func history(prices ...float64) []yahoo.Close {
	closes := make([]yahoo.Close, len(prices))
	base := time.Date(2026, 8, 17, 0, 0, 0, 0, time.UTC)
	for i, p := range prices {
		closes[i] = yahoo.Close{Date: base.AddDate(0, 0, i), Price: p}
	}
	return closes
}

func newTestService(source HistorySource, indices []models.IndexConfig) *Service {
	return NewService(source, indices, 5, 5*time.Second, arbor.NewLogger())
}

func TestFetchAll(t *testing.T) {
	t.Run("Derives quote from last two closes", func(t *testing.T) {
		source := &fakeSource{closes: map[string][]yahoo.Close{
			"^A": history(95, 97, 99, 100, 110),
		}}
		svc := newTestService(source, []models.IndexConfig{{Name: "A", Symbol: "^A"}})

		quotes := svc.FetchAll(context.Background())
		require.Len(t, quotes, 1)

		assert.Equal(t, 110.0, quotes[0].Current)
		assert.Equal(t, 100.0, quotes[0].Previous)
		assert.Equal(t, 10.0, quotes[0].Change)
		assert.Equal(t, 10.0, quotes[0].ChangePct)
	})

	t.Run("Preserves configuration order", func(t *testing.T) {
		source := &fakeSource{closes: map[string][]yahoo.Close{
			"^NSEI":  history(98, 100),
			"^BSESN": history(205, 200),
			"^GSPC":  history(5000, 5050),
		}}
		svc := newTestService(source, []models.IndexConfig{
			{Name: "Nifty 50", Symbol: "^NSEI"},
			{Name: "Sensex", Symbol: "^BSESN"},
			{Name: "S&P 500", Symbol: "^GSPC"},
		})

		quotes := svc.FetchAll(context.Background())
		require.Len(t, quotes, 3)
		assert.Equal(t, []string{"Nifty 50", "Sensex", "S&P 500"},
			[]string{quotes[0].Name, quotes[1].Name, quotes[2].Name})
	})

	t.Run("Skips index with insufficient history", func(t *testing.T) {
		source := &fakeSource{closes: map[string][]yahoo.Close{
			"^A": history(100),
			"^B": history(98, 100),
		}}
		svc := newTestService(source, []models.IndexConfig{
			{Name: "A", Symbol: "^A"},
			{Name: "B", Symbol: "^B"},
		})

		quotes := svc.FetchAll(context.Background())
		require.Len(t, quotes, 1)
		assert.Equal(t, "B", quotes[0].Name)
	})

	t.Run("Provider error does not abort the batch", func(t *testing.T) {
		source := &fakeSource{
			closes: map[string][]yahoo.Close{"^B": history(98, 100)},
			errs:   map[string]error{"^A": fmt.Errorf("connection refused")},
		}
		svc := newTestService(source, []models.IndexConfig{
			{Name: "A", Symbol: "^A"},
			{Name: "B", Symbol: "^B"},
		})

		quotes := svc.FetchAll(context.Background())
		require.Len(t, quotes, 1)
		assert.Equal(t, "B", quotes[0].Name)
		// Both indices were attempted
		assert.Equal(t, []string{"^A", "^B"}, source.calls)
	})

	t.Run("Zero previous close skips index", func(t *testing.T) {
		source := &fakeSource{closes: map[string][]yahoo.Close{
			"^A": history(0, 100),
		}}
		svc := newTestService(source, []models.IndexConfig{{Name: "A", Symbol: "^A"}})

		assert.Empty(t, svc.FetchAll(context.Background()))
	})

	t.Run("All indices failing yields empty set", func(t *testing.T) {
		source := &fakeSource{errs: map[string]error{
			"^A": fmt.Errorf("timeout"),
			"^B": fmt.Errorf("timeout"),
		}}
		svc := newTestService(source, []models.IndexConfig{
			{Name: "A", Symbol: "^A"},
			{Name: "B", Symbol: "^B"},
		})

		assert.Empty(t, svc.FetchAll(context.Background()))
	})
}
