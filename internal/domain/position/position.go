// Package position maps raw position codes onto canonical comparison groups.
package position

import (
	"fmt"
	"sort"
	"strings"
)

// Canonical groups.
const (
	Cornerback = "CB"
	Safety     = "SAF"
)

// DefaultSynonyms maps accepted raw codes to their canonical group.
func DefaultSynonyms() map[string]string {
	return map[string]string{
		"CB":  Cornerback,
		"SAF": Safety,
		"S":   Safety,
		"FS":  Safety,
		"SS":  Safety,
	}
}

// Normalizer resolves raw codes against a synonym table.
type Normalizer struct {
	synonyms map[string]string
}

// NewNormalizer builds a Normalizer. Keys and values are upper-cased and
// trimmed; a nil or empty table falls back to DefaultSynonyms.
func NewNormalizer(synonyms map[string]string) *Normalizer {
	if len(synonyms) == 0 {
		synonyms = DefaultSynonyms()
	}
	n := &Normalizer{synonyms: make(map[string]string, len(synonyms))}
	for raw, canon := range synonyms {
		n.synonyms[key(raw)] = key(canon)
	}
	return n
}

// Normalize returns the canonical group for raw, or ErrUnrecognized.
func (n *Normalizer) Normalize(raw string) (string, error) {
	if canon, ok := n.synonyms[key(raw)]; ok && canon != "" {
		return canon, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnrecognized, raw)
}

// Groups returns the distinct canonical groups, sorted.
func (n *Normalizer) Groups() []string {
	seen := make(map[string]struct{}, len(n.synonyms))
	out := make([]string, 0, len(n.synonyms))
	for _, canon := range n.synonyms {
		if _, ok := seen[canon]; ok || canon == "" {
			continue
		}
		seen[canon] = struct{}{}
		out = append(out, canon)
	}
	sort.Strings(out)
	return out
}

func key(s string) string { return strings.ToUpper(strings.TrimSpace(s)) }
