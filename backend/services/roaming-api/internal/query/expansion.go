package query

import "strings"

// Mode selects how a related resource is serialized.
type Mode int

const (
	// ShowIDOnly serializes the related resource by identifier.
	ShowIDOnly Mode = iota
	// Expand serializes the related resource in full.
	Expand
)

// Expansion holds the explicit expand flags of a request keyed by lower-cased relation.
type Expansion map[string]Mode

// ParseExpansion reads expand values such as "operators,brands,-evses". A leading minus
// forces ShowIDOnly. Repeated parameters are merged; the last mention wins.
func ParseExpansion(values []string) Expansion {
	out := Expansion{}
	for _, value := range values {
		for _, item := range strings.Split(value, ",") {
			item = strings.ToLower(strings.TrimSpace(item))
			if item == "" || item == "-" {
				continue
			}
			if strings.HasPrefix(item, "-") {
				out[item[1:]] = ShowIDOnly
				continue
			}
			out[item] = Expand
		}
	}
	return out
}

// Mode returns the mode of relation, falling back to def when the request is silent.
func (e Expansion) Mode(relation string, def Mode) Mode {
	if mode, ok := e[strings.ToLower(relation)]; ok {
		return mode
	}
	return def
}

// Expanded is Mode(relation, def) == Expand.
func (e Expansion) Expanded(relation string, def Mode) bool {
	return e.Mode(relation, def) == Expand
}
