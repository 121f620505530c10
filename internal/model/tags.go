package model

import (
	"strings"

	"github.com/samber/lo"
)

// Tags is an ordered set of tag names without the leading "@".
// A Tags value produced by this package is never nil.
type Tags []string

// NewTags normalises names: strips "@", drops blanks and duplicates.
func NewTags(names ...string) Tags {
	out := make(Tags, 0, len(names))
	for _, n := range names {
		n = strings.TrimPrefix(strings.TrimSpace(n), "@")
		if n == "" {
			continue
		}
		out = append(out, n)
	}
	return Tags(lo.Uniq([]string(out)))
}

// Union keeps first-occurrence order across all sets.
func Union(sets ...Tags) Tags {
	var all []string
	for _, s := range sets {
		all = append(all, s...)
	}
	return NewTags(all...)
}

func (t Tags) Has(name string) bool {
	return lo.Contains([]string(t), strings.TrimPrefix(name, "@"))
}

func (t Tags) Empty() bool { return len(t) == 0 }
