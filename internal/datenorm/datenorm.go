// Package datenorm parses the free-text dates found in outreach sheets and
// orders records by them.
package datenorm

import (
	"slices"
	"strings"
	"time"

	"golang.org/x/text/unicode/norm"
)

// Key is a sortable date. A zero Key is unorderable and sorts after every
// parsed date.
type Key struct {
	Time  time.Time
	Valid bool
}

var separators = strings.NewReplacer(
	"年", "/",
	".", "/",
	"月", "/",
	"日", "",
	"-", "/",
)

// layouts are tried in order after separators have been folded to "/".
var layouts = []string{
	"2006/1/2",
	"2006/1/2 15:04:05",
	"2006/1/2 15:04",
	"2006/1/2T15:04:05",
	"2006/1",
	"1/2/2006",
	"1/2/2006 15:04",
	"1/2/06",
	"1/2/06 15:04",
	"01/02/06",
	"2006",
}

// Normalize folds Japanese date separators into "/" and returns the result.
// Full-width digits and slashes are folded to ASCII first.
func Normalize(s string) string {
	s = norm.NFKC.String(strings.TrimSpace(s))
	s = separators.Replace(s)
	s = strings.TrimSuffix(s, "/")
	return strings.TrimSpace(s)
}

// Parse returns the ordering key for s. It never fails; anything it cannot
// read yields an invalid Key.
func Parse(s string) Key {
	n := Normalize(s)
	if n == "" {
		return Key{}
	}
	for _, layout := range layouts {
		if t, err := time.Parse(layout, n); err == nil {
			return Key{Time: t, Valid: true}
		}
	}
	return Key{}
}

// Compare orders keys ascending with invalid keys last.
func Compare(a, b Key) int {
	switch {
	case a.Valid && b.Valid:
		return a.Time.Compare(b.Time)
	case a.Valid:
		return -1
	case b.Valid:
		return 1
	default:
		return 0
	}
}

// SortStable orders items ascending by (parsed date, raw date string). Items
// whose date cannot be parsed go last. It returns how many were unparseable.
func SortStable[T any](items []T, raw func(T) string) int {
	type keyed struct {
		item T
		raw  string
		key  Key
	}

	undated := 0
	ks := make([]keyed, len(items))
	for i, item := range items {
		r := raw(item)
		k := Parse(r)
		if !k.Valid {
			undated++
		}
		ks[i] = keyed{item: item, raw: r, key: k}
	}

	slices.SortStableFunc(ks, func(a, b keyed) int {
		if c := Compare(a.key, b.key); c != 0 {
			return c
		}
		return strings.Compare(a.raw, b.raw)
	})

	for i := range ks {
		items[i] = ks[i].item
	}
	return undated
}
