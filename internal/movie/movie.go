// Package movie turns raw TMDB search results into records and derives
// filtered, sorted and paginated views over them.
package movie

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/reelscout/reelscout/internal/tmdb"
)

// DefaultPosterSize is the image size used for result cards.
const DefaultPosterSize = "w400"

var ErrInvalidSortField = errors.New("invalid sort field")

// Record is one normalized movie returned by a search.
type Record struct {
	ID               int     `json:"id"`
	Title            string  `json:"title,omitempty"`
	Overview         string  `json:"overview,omitempty"`
	Popularity       float64 `json:"popularity,omitempty"`
	PosterPath       string  `json:"posterPath,omitempty"`
	ReleaseDate      string  `json:"releaseDate,omitempty"`
	VoteAverage      float64 `json:"voteAverage,omitempty"`
	VoteCount        int     `json:"voteCount,omitempty"`
	OriginalLanguage string  `json:"originalLanguage,omitempty"`
	OriginalTitle    string  `json:"originalTitle,omitempty"`
	BackdropPath     string  `json:"backdropPath,omitempty"`
	Adult            bool    `json:"adult,omitempty"`
	Video            bool    `json:"video,omitempty"`
}

// SortField selects the key records are ordered by.
type SortField int

const (
	SortByRating SortField = iota
	SortByReleaseDate
)

func (f SortField) String() string {
	switch f {
	case SortByRating:
		return "rating"
	case SortByReleaseDate:
		return "release_date"
	default:
		return fmt.Sprintf("SortField(%d)", int(f))
	}
}

// Label is the human-readable name shown in sort selectors.
func (f SortField) Label() string {
	switch f {
	case SortByRating:
		return "Rating"
	case SortByReleaseDate:
		return "Release Date"
	default:
		return f.String()
	}
}

// MarshalText encodes the field by its canonical name.
func (f SortField) MarshalText() ([]byte, error) {
	switch f {
	case SortByRating, SortByReleaseDate:
		return []byte(f.String()), nil
	default:
		return nil, fmt.Errorf("%w: %d", ErrInvalidSortField, int(f))
	}
}

// UnmarshalText accepts anything ParseSortField does.
func (f *SortField) UnmarshalText(text []byte) error {
	parsed, err := ParseSortField(string(text))
	if err != nil {
		return err
	}
	*f = parsed
	return nil
}

// ParseSortField parses a sort field name. Matching ignores case, spaces and
// underscores, so "rating", "release_date", "releaseDate" and "Release Date"
// are all accepted.
func ParseSortField(s string) (SortField, error) {
	key := strings.ToLower(strings.NewReplacer(" ", "", "_", "", "-", "").Replace(strings.TrimSpace(s)))
	switch key {
	case "rating":
		return SortByRating, nil
	case "releasedate":
		return SortByReleaseDate, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrInvalidSortField, s)
	}
}

// Sort is a sort order over records.
type Sort struct {
	Field     SortField `json:"field"`
	Ascending bool      `json:"ascending"`
}

// DefaultSort orders by rating, highest first.
func DefaultSort() Sort {
	return Sort{Field: SortByRating, Ascending: false}
}

// Normalize maps a raw search result onto a Record. Nullable raw fields
// become zero values.
func Normalize(raw tmdb.MovieResult) Record {
	r := Record{
		ID:               raw.ID,
		Title:            raw.Title,
		Overview:         raw.Overview,
		Popularity:       raw.Popularity,
		ReleaseDate:      raw.ReleaseDate,
		VoteAverage:      raw.VoteAverage,
		VoteCount:        raw.VoteCount,
		OriginalLanguage: raw.OriginalLanguage,
		OriginalTitle:    raw.OriginalTitle,
		Adult:            raw.Adult,
		Video:            raw.Video,
	}
	if raw.PosterPath != nil {
		r.PosterPath = *raw.PosterPath
	}
	if raw.BackdropPath != nil {
		r.BackdropPath = *raw.BackdropPath
	}
	return r
}

// NormalizeAll normalizes a whole result list, preserving order.
func NormalizeAll(raw []tmdb.MovieResult) []Record {
	records := make([]Record, len(raw))
	for i, item := range raw {
		records[i] = Normalize(item)
	}
	return records
}

// PosterURL composes the card image URL. An empty path yields an empty URL.
func PosterURL(imageBaseURL, size, path string) string {
	if path == "" {
		return ""
	}
	if size == "" {
		size = DefaultPosterSize
	}
	return strings.TrimRight(imageBaseURL, "/") + "/" + size + path
}

// Year returns the release year, or 0 when the date is missing.
func Year(r Record) int {
	if len(r.ReleaseDate) < 4 {
		return 0
	}
	year, err := strconv.Atoi(r.ReleaseDate[:4])
	if err != nil {
		return 0
	}
	return year
}
