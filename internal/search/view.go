package search

import (
	"github.com/reelscout/reelscout/internal/movie"
)

// View is the read-only projection of a State that renderers consume.
type View struct {
	Status     Status         `json:"status"`
	Query      string         `json:"query"`
	Items      []movie.Record `json:"items"`
	Page       int            `json:"page"`
	PageCount  int            `json:"pageCount"`
	PageSize   int            `json:"pageSize"`
	Total      int            `json:"total"`
	Matching   int            `json:"matching"`
	MinRating  *float64       `json:"minRating"`
	Sort       movie.Sort     `json:"sort"`
	HasResults bool           `json:"hasResults"`
	Err        string         `json:"error,omitempty"`
}

// Project derives the View of s.
func Project(s State) View {
	v := View{
		Status:    s.Status,
		Query:     s.Query,
		Items:     []movie.Record{},
		Page:      s.Page,
		PageSize:  s.PageSize,
		MinRating: s.MinRating,
		Sort:      s.Sort,
	}

	switch s.Status {
	case StatusSuccess:
		working := Working(s)
		v.Total = len(s.Results)
		v.Matching = len(working)
		v.PageCount = movie.PageCount(len(working), s.PageSize)
		v.Items = movie.Paginate(working, s.Page, s.PageSize)
		v.HasResults = v.Total > 0
	case StatusFailure:
		v.Err = s.Err
	case StatusInitial, StatusInProgress:
	}
	return v
}

// Status helpers for templates.

func (v View) IsInitial() bool    { return v.Status == StatusInitial }
func (v View) IsInProgress() bool { return v.Status == StatusInProgress }
func (v View) IsSuccess() bool    { return v.Status == StatusSuccess }
func (v View) IsFailure() bool    { return v.Status == StatusFailure }
