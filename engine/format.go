package engine

import (
	"math"
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// ============================================================================
// FORMATTING UTILITIES
// ============================================================================
// Printers and casers are built per call: a cases.Caser carries state and
// is not safe for concurrent use.
// ============================================================================

// FormatNumber renders v with thousands separators and at most two fraction
// digits ("1,234.5").
func FormatNumber(v float64) string {
	return message.NewPrinter(language.English).Sprint(number.Decimal(v, number.MaxFractionDigits(2)))
}

// FormatInt formats an integer with comma separators.
func FormatInt(n int) string {
	return message.NewPrinter(language.English).Sprint(number.Decimal(n))
}

// RoundTo2 rounds to 2 decimal places.
func RoundTo2(v float64) float64 {
	return math.Round(v*100) / 100
}

// ColumnLabel turns a snake_case field name into a Title Case header.
func ColumnLabel(key string) string {
	return cases.Title(language.English, cases.NoLower).String(strings.ReplaceAll(key, "_", " "))
}

// MonthTickLabel shortens a month key for a line-chart axis: "2024-01" and
// "2024-01-01" both become "Jan 24". Anything else is returned unchanged.
func MonthTickLabel(key string) string {
	for _, layout := range []string{"2006-01", "2006-01-02"} {
		if t, err := time.Parse(layout, key); err == nil {
			return t.Format("Jan 06")
		}
	}
	return key
}
