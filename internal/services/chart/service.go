// -----------------------------------------------------------------------
// Chart Service - renders the run's performance as a horizontal bar
// chart PNG for inline embedding in the report email
// -----------------------------------------------------------------------

package chart

import (
	"bytes"
	"fmt"
	"math"

	"github.com/fogleman/gg"
	"github.com/ternarybob/arbor"

	"github.com/ternarybob/marketbrief/internal/models"
)

const (
	width  = 1200
	height = 600

	marginLeft   = 220.0
	marginRight  = 90.0
	marginTop    = 70.0
	marginBottom = 60.0

	colorPositive = "#27ae60"
	colorNegative = "#e74c3c"
)

// Service renders performance charts.
type Service struct {
	logger arbor.ILogger
}

// NewService creates a new chart service.
func NewService(logger arbor.ILogger) *Service {
	return &Service{logger: logger}
}

// Render produces a horizontal bar chart, one bar per quote in input order
// top to bottom, bar length proportional to the percent change. Returns
// (nil, nil) for an empty quote set.
func (s *Service) Render(quotes []models.IndexQuote) ([]byte, error) {
	if len(quotes) == 0 {
		return nil, nil
	}

	dc := gg.NewContext(width, height)
	dc.SetRGB(1, 1, 1)
	dc.Clear()

	plotW := float64(width) - marginLeft - marginRight
	plotH := float64(height) - marginTop - marginBottom

	// Symmetric scale around zero so bar length stays proportional to the
	// percent change on both sides.
	maxAbs := 0.0
	for _, q := range quotes {
		if abs := math.Abs(q.ChangePct); abs > maxAbs {
			maxAbs = abs
		}
	}
	if maxAbs == 0 {
		maxAbs = 1
	}
	scale := (plotW / 2) / maxAbs
	zeroX := marginLeft + plotW/2

	rowH := plotH / float64(len(quotes))
	barH := rowH * 0.6

	for i, q := range quotes {
		barColor := colorNegative
		if q.ChangePct > 0 {
			barColor = colorPositive
		}

		yCenter := marginTop + rowH*float64(i) + rowH/2
		barLen := q.ChangePct * scale

		x := zeroX
		w := barLen
		if w < 0 {
			x = zeroX + barLen
			w = -barLen
		}

		dc.SetHexColor(barColor)
		dc.DrawRectangle(x, yCenter-barH/2, w, barH)
		dc.Fill()

		// Index name on the left margin
		dc.SetRGB(0.1, 0.1, 0.1)
		dc.DrawStringAnchored(q.Name, marginLeft-12, yCenter, 1, 0.5)

		// Signed percent label just past the bar end, on the side the bar
		// extends toward
		label := fmt.Sprintf("%+.2f%%", q.ChangePct)
		if q.ChangePct >= 0 {
			dc.DrawStringAnchored(label, zeroX+barLen+6, yCenter, 0, 0.5)
		} else {
			dc.DrawStringAnchored(label, zeroX+barLen-6, yCenter, 1, 0.5)
		}
	}

	// Zero reference line
	dc.SetRGB(0, 0, 0)
	dc.SetLineWidth(1)
	dc.DrawLine(zeroX, marginTop, zeroX, marginTop+plotH)
	dc.Stroke()

	// Title and axis label
	dc.DrawStringAnchored("Market Performance Overview", float64(width)/2, marginTop/2, 0.5, 0.5)
	dc.DrawStringAnchored("Change (%)", float64(width)/2, float64(height)-marginBottom/2, 0.5, 0.5)

	var buf bytes.Buffer
	if err := dc.EncodePNG(&buf); err != nil {
		return nil, fmt.Errorf("failed to encode chart PNG: %w", err)
	}

	s.logger.Debug().
		Int("indices", len(quotes)).
		Int("bytes", buf.Len()).
		Msg("Performance chart rendered")

	return buf.Bytes(), nil
}
