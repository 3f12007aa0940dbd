package movie

import (
	"cmp"
	"slices"
	"time"
)

const releaseDateLayout = "2006-01-02"

// Filter returns the records rated at least minRating, in their original
// order. A nil minRating keeps everything. The input is never modified.
func Filter(records []Record, minRating *float64) []Record {
	out := make([]Record, 0, len(records))
	for _, r := range records {
		if minRating == nil || r.VoteAverage >= *minRating {
			out = append(out, r)
		}
	}
	return out
}

// SortRecords returns a stably sorted copy of records.
//
// Release dates are compared as calendar dates. Records with a missing or
// unparsable date go after every dated record whichever the direction, and
// keep their relative order.
func SortRecords(records []Record, s Sort) []Record {
	out := slices.Clone(records)
	if out == nil {
		out = make([]Record, 0)
	}

	switch s.Field {
	case SortByReleaseDate:
		type keyed struct {
			rec Record
			key dateKey
		}
		tmp := make([]keyed, len(out))
		for i := range out {
			tmp[i] = keyed{rec: out[i], key: parseReleaseDate(out[i].ReleaseDate)}
		}
		slices.SortStableFunc(tmp, func(a, b keyed) int {
			switch {
			case !a.key.ok && !b.key.ok:
				return 0
			case !a.key.ok:
				return 1
			case !b.key.ok:
				return -1
			}
			c := a.key.t.Compare(b.key.t)
			if !s.Ascending {
				c = -c
			}
			return c
		})
		for i := range tmp {
			out[i] = tmp[i].rec
		}
	default:
		slices.SortStableFunc(out, func(a, b Record) int {
			c := cmp.Compare(a.VoteAverage, b.VoteAverage)
			if !s.Ascending {
				c = -c
			}
			return c
		})
	}
	return out
}

type dateKey struct {
	t  time.Time
	ok bool
}

func parseReleaseDate(s string) dateKey {
	if len(s) > len(releaseDateLayout) {
		s = s[:len(releaseDateLayout)]
	}
	t, err := time.Parse(releaseDateLayout, s)
	if err != nil {
		return dateKey{}
	}
	return dateKey{t: t, ok: true}
}

// Paginate returns page pageIndex (0-based) of pageSize records. Pages past
// the end, negative indexes and non-positive sizes yield an empty slice.
func Paginate(records []Record, pageIndex, pageSize int) []Record {
	if pageSize <= 0 || pageIndex < 0 {
		return []Record{}
	}
	start := pageIndex * pageSize
	if start >= len(records) {
		return []Record{}
	}
	end := min(start+pageSize, len(records))
	return slices.Clone(records[start:end])
}

// PageCount returns how many pages of pageSize the records fill.
func PageCount(n, pageSize int) int {
	if n <= 0 || pageSize <= 0 {
		return 0
	}
	return (n + pageSize - 1) / pageSize
}
