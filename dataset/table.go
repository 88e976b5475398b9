// Package dataset loads and reshapes Last.fm listening data: the
// user–artist play-count table and the user-profile table, their
// filtered and joined forms, and the dense user-by-artist interaction
// matrix the recommenders consume.
package dataset

import (
	"sort"
	"strings"

	"github.com/recsys-go/memrec/pkg/errors"
)

// PlayEvent is one row of the listening table: how many times a user
// played an artist.
type PlayEvent struct {
	UserID     string
	ArtistID   string
	ArtistName string
	Plays      float64
}

// Profile is one row of the user-profile table.
type Profile struct {
	UserID     string
	Gender     string
	Age        int // -1 when missing
	Country    string
	Registered string
}

// PlayTable is a slice of play events with relational helpers.
type PlayTable []PlayEvent

// ProfileTable is a slice of user profiles with relational helpers.
type ProfileTable []Profile

// Len returns the number of rows.
func (t PlayTable) Len() int { return len(t) }

// Len returns the number of rows.
func (t ProfileTable) Len() int { return len(t) }

// Filter returns the profiles matching the given demographic subset.
// Empty gender or country matches everything; country comparison is
// case-insensitive, gender is compared on its lowercased first letter
// ("f" matches "f" and "Female").
func (t ProfileTable) Filter(gender, country string) ProfileTable {
	gender = strings.ToLower(gender)
	country = strings.ToLower(country)

	var out ProfileTable
	for _, p := range t {
		if gender != "" {
			g := strings.ToLower(p.Gender)
			if g == "" || g[:1] != gender[:1] {
				continue
			}
		}
		if country != "" && strings.ToLower(p.Country) != country {
			continue
		}
		out = append(out, p)
	}
	return out
}

// UserSet returns the set of user IDs present in the table.
func (t ProfileTable) UserSet() map[string]struct{} {
	set := make(map[string]struct{}, len(t))
	for _, p := range t {
		set[p.UserID] = struct{}{}
	}
	return set
}

// FilterUsers returns the play events whose user is in the given set.
func (t PlayTable) FilterUsers(users map[string]struct{}) PlayTable {
	var out PlayTable
	for _, e := range t {
		if _, ok := users[e.UserID]; ok {
			out = append(out, e)
		}
	}
	return out
}

// Join inner-joins the play table with the profile table on user ID.
// The result keeps one play event per matching row, in play-table order.
func (t PlayTable) Join(profiles ProfileTable) PlayTable {
	return t.FilterUsers(profiles.UserSet())
}

// TotalPlaysByArtist aggregates total play counts per artist name.
func (t PlayTable) TotalPlaysByArtist() map[string]float64 {
	totals := make(map[string]float64)
	for _, e := range t {
		totals[e.ArtistName] += e.Plays
	}
	return totals
}

// TopArtists returns the n artist names with the highest total play
// counts, in descending order. Ties break alphabetically so the result
// is deterministic.
func (t PlayTable) TopArtists(n int) []string {
	totals := t.TotalPlaysByArtist()

	names := make([]string, 0, len(totals))
	for name := range totals {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		ti, tj := totals[names[i]], totals[names[j]]
		if ti != tj {
			return ti > tj
		}
		return names[i] < names[j]
	})

	if n > 0 && n < len(names) {
		names = names[:n]
	}
	return names
}

// FilterArtists returns the play events whose artist name is in the
// given list.
func (t PlayTable) FilterArtists(artists []string) PlayTable {
	set := make(map[string]struct{}, len(artists))
	for _, a := range artists {
		set[a] = struct{}{}
	}

	var out PlayTable
	for _, e := range t {
		if _, ok := set[e.ArtistName]; ok {
			out = append(out, e)
		}
	}
	return out
}

// Users returns the distinct user IDs of the table, sorted.
func (t PlayTable) Users() []string {
	set := make(map[string]struct{})
	for _, e := range t {
		set[e.UserID] = struct{}{}
	}
	return sortedKeys(set)
}

// Artists returns the distinct artist names of the table, sorted.
func (t PlayTable) Artists() []string {
	set := make(map[string]struct{})
	for _, e := range t {
		set[e.ArtistName] = struct{}{}
	}
	return sortedKeys(set)
}

// Head returns the first n rows, for ad hoc inspection.
func (t PlayTable) Head(n int) PlayTable {
	if n > len(t) {
		n = len(t)
	}
	return t[:n]
}

func sortedKeys(set map[string]struct{}) []string {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func validateNonEmpty(op string, n int) error {
	if n == 0 {
		return errors.Wrap(errors.ErrEmptyData, op)
	}
	return nil
}
