// Package query parses the common list query string: skip, take, historysize, expand,
// since and match. Malformed values are treated as absent.
package query

import (
	"net/url"
	"strconv"
	"strings"
	"time"
)

// DefaultHistorySize is the number of status entries returned per entity when the
// request names none.
const DefaultHistorySize = 1

// Params is the parsed query string of a list request.
type Params struct {
	Skip        uint64
	Take        uint64 // 0 means no limit
	HistorySize uint64
	Expand      Expansion
	Since       *time.Time
	Match       string
}

// Parse reads the list parameters from values.
func Parse(values url.Values) Params {
	p := Params{
		Skip:        parseUint(values.Get("skip")),
		Take:        parseUint(values.Get("take")),
		HistorySize: parseUint(values.Get("historysize")),
		Expand:      ParseExpansion(values["expand"]),
		Since:       parseTime(values.Get("since")),
		Match:       values.Get("match"),
	}
	if p.HistorySize == 0 {
		p.HistorySize = DefaultHistorySize
	}
	return p
}

// Window returns the pagination window.
func (p Params) Window() Window {
	return Window{Skip: p.Skip, Take: p.Take}
}

// Matches reports whether id passes the match filter.
func (p Params) Matches(id string) bool {
	return p.Match == "" || strings.Contains(id, p.Match)
}

// After reports whether ts passes the since filter.
func (p Params) After(ts time.Time) bool {
	return p.Since == nil || !ts.Before(*p.Since)
}

func parseUint(raw string) uint64 {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0
	}
	v, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return 0
	}
	return v
}

var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02",
}

func parseTime(raw string) *time.Time {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	for _, layout := range timeLayouts {
		if ts, err := time.Parse(layout, raw); err == nil {
			ts = ts.UTC()
			return &ts
		}
	}
	return nil
}
