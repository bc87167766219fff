// -----------------------------------------------------------------------
// Content Service - narrative summary and HTML performance table
// -----------------------------------------------------------------------

package content

import (
	"fmt"
	"html"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/ternarybob/arbor"

	"github.com/ternarybob/marketbrief/internal/models"
)

// FallbackNarrative is returned when no market data is available.
const FallbackNarrative = "Unable to generate market summary due to data unavailability."

// Sign colors and glyphs shared by the table and chart styling.
const (
	ColorPositive = "#27ae60"
	ColorNegative = "#e74c3c"
	ColorNeutral  = "#95a5a6"

	glyphUp   = "▲"
	glyphDown = "▼"
	glyphFlat = "•"
)

// Service renders the narrative summary and the HTML table.
type Service struct {
	logger arbor.ILogger
	now    func() time.Time
}

// Option configures the Service.
type Option func(*Service)

// WithClock overrides the time source, for tests.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

// NewService creates a new content service.
func NewService(logger arbor.ILogger, opts ...Option) *Service {
	s := &Service{
		logger: logger,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Narrative composes the human-readable market summary.
//
// Sentiment is "positive" when the average change is above zero but
// "negative" only below -0.3; everything in between reads "mixed". The
// asymmetry matches the long-standing report wording and is intentional.
func (s *Service) Narrative(quotes []models.IndexQuote, insights *models.MarketInsights) string {
	if len(quotes) == 0 || insights == nil {
		return FallbackNarrative
	}

	sentiment := "mixed"
	if insights.AvgChangePct > 0 {
		sentiment = "positive"
	} else if insights.AvgChangePct < -0.3 {
		sentiment = "negative"
	}

	var parts []string

	parts = append(parts, fmt.Sprintf("📊 Market Summary for %s\n", s.now().Format("January 02, 2006")))

	parts = append(parts, fmt.Sprintf(
		"Markets showed %s sentiment today with %d indices up and %d down.",
		sentiment, insights.PositiveCount, insights.NegativeCount))

	if indianAvg := insights.RegionalAvg[models.RegionIndia]; indianAvg != 0 {
		direction := "declined"
		if indianAvg > 0 {
			direction = "gained"
		}
		parts = append(parts, fmt.Sprintf(
			"Indian markets %s with an average change of %.2f%%.", direction, indianAvg))
	}

	if usAvg := insights.RegionalAvg[models.RegionUS]; usAvg != 0 {
		direction := "retreated"
		if usAvg > 0 {
			direction = "advanced"
		}
		parts = append(parts, fmt.Sprintf(
			"US markets %s with an average change of %.2f%%.", direction, usAvg))
	}

	// Top performer keeps its literal "+" prefix regardless of sign.
	parts = append(parts, fmt.Sprintf(
		"\n🔥 Top Performer: %s (+%.2f%%)", insights.Best.Name, insights.Best.ChangePct))
	parts = append(parts, fmt.Sprintf(
		"📉 Worst Performer: %s (%.2f%%)", insights.Worst.Name, insights.Worst.ChangePct))

	return strings.Join(parts, "\n")
}

// Table renders the per-index HTML table fragment, one row per quote in
// input order.
func (s *Service) Table(quotes []models.IndexQuote) string {
	if len(quotes) == 0 {
		return "<p>No data available</p>"
	}

	var b strings.Builder

	b.WriteString(`<table style="border-collapse: collapse; width: 100%; margin: 20px 0;">` + "\n")
	b.WriteString(`<thead>` + "\n")
	b.WriteString(`<tr style="background-color: #2c3e50; color: white;">` + "\n")
	b.WriteString(`<th style="padding: 12px; text-align: left; border: 1px solid #ddd;">Index</th>` + "\n")
	b.WriteString(`<th style="padding: 12px; text-align: right; border: 1px solid #ddd;">Current</th>` + "\n")
	b.WriteString(`<th style="padding: 12px; text-align: right; border: 1px solid #ddd;">Change</th>` + "\n")
	b.WriteString(`<th style="padding: 12px; text-align: right; border: 1px solid #ddd;">Change %</th>` + "\n")
	b.WriteString(`</tr>` + "\n")
	b.WriteString(`</thead>` + "\n")
	b.WriteString(`<tbody>` + "\n")

	for _, q := range quotes {
		color := ColorNeutral
		glyph := glyphFlat
		switch {
		case q.ChangePct > 0:
			color = ColorPositive
			glyph = glyphUp
		case q.ChangePct < 0:
			color = ColorNegative
			glyph = glyphDown
		}

		change := q.Change
		if change < 0 {
			change = -change
		}

		b.WriteString(`<tr style="border-bottom: 1px solid #ddd;">` + "\n")
		b.WriteString(fmt.Sprintf(`<td style="padding: 10px; border: 1px solid #ddd;">%s</td>`+"\n", html.EscapeString(q.Name)))
		b.WriteString(fmt.Sprintf(`<td style="padding: 10px; text-align: right; border: 1px solid #ddd;">%s</td>`+"\n",
			humanize.FormatFloat("#,###.##", q.Current)))
		b.WriteString(fmt.Sprintf(`<td style="padding: 10px; text-align: right; border: 1px solid #ddd; color: %s;">%s %.2f</td>`+"\n",
			color, glyph, change))
		b.WriteString(fmt.Sprintf(`<td style="padding: 10px; text-align: right; border: 1px solid #ddd; color: %s; font-weight: bold;">%+.2f%%</td>`+"\n",
			color, q.ChangePct))
		b.WriteString(`</tr>` + "\n")
	}

	b.WriteString(`</tbody>` + "\n")
	b.WriteString(`</table>` + "\n")

	return b.String()
}
