package filters

import (
	"strings"
	"time"
)

// MonthKeyLayout is the key format of a month option (first of the month).
const MonthKeyLayout = "2006-01-02"

// MonthLabelLayout is the human label of a month option.
const MonthLabelLayout = "Jan 2006"

// dateLayouts are tried in order when parsing a backend date bound.
var dateLayouts = []string{
	"2006-01-02 15:04:05",
	"2006-01-02",
	time.RFC3339,
}

// MonthOption is one selectable month.
type MonthOption struct {
	Key   string `json:"key"`
	Label string `json:"label"`
}

// DateRange is the backend-reported span of available data.
type DateRange struct {
	MinDate string `json:"min_date"`
	MaxDate string `json:"max_date"`
}

// Months enumerates the selectable months of the range.
func (d DateRange) Months() []MonthOption {
	return MonthRange(d.MinDate, d.MaxDate)
}

// MonthRange lists every calendar month intersecting [min, max], including the
// months that contain the endpoints. Missing, malformed or inverted input
// yields an empty list.
func MonthRange(min, max string) []MonthOption {
	from, ok := parseDate(min)
	if !ok {
		return []MonthOption{}
	}
	to, ok := parseDate(max)
	if !ok || to.Before(from) {
		return []MonthOption{}
	}

	cur := time.Date(from.Year(), from.Month(), 1, 0, 0, 0, 0, time.UTC)
	last := time.Date(to.Year(), to.Month(), 1, 0, 0, 0, 0, time.UTC)

	var out []MonthOption
	for !cur.After(last) {
		out = append(out, MonthOption{
			Key:   cur.Format(MonthKeyLayout),
			Label: cur.Format(MonthLabelLayout),
		})
		cur = cur.AddDate(0, 1, 0)
	}
	return out
}

func parseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
