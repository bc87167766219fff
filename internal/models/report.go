package models

// ReportDocument is the assembled email for one run, built once by the
// report service and consumed exactly once by the mailer.
type ReportDocument struct {
	Subject    string
	HTMLBody   string
	ChartPNG   []byte // nil when chart rendering was skipped or failed
	Recipients []string
}

// IndexConfig maps a display name to its quote provider symbol.
// Order in configuration is the order quotes are fetched and reported in.
type IndexConfig struct {
	Name   string `toml:"name" validate:"required"`
	Symbol string `toml:"symbol" validate:"required"`
}
