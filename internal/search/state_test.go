package search

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reelscout/reelscout/internal/movie"
)

func records(ratings ...float64) []movie.Record {
	out := make([]movie.Record, len(ratings))
	for i, r := range ratings {
		out[i] = movie.Record{ID: i + 1, VoteAverage: r}
	}
	return out
}

func succeeded(t *testing.T, recs []movie.Record) State {
	t.Helper()
	s, ok := Submit(NewState(5), "batman")
	require.True(t, ok)
	s = Complete(s, s.Generation, recs)
	require.Equal(t, StatusSuccess, s.Status)
	return s
}

func TestStatus_String(t *testing.T) {
	assert.Equal(t, "initial", StatusInitial.String())
	assert.Equal(t, "in_progress", StatusInProgress.String())
	assert.Equal(t, "success", StatusSuccess.String())
	assert.Equal(t, "failure", StatusFailure.String())
	assert.Equal(t, "Status(9)", Status(9).String())
}

func TestStatus_TextRoundTrip(t *testing.T) {
	for _, s := range []Status{StatusInitial, StatusInProgress, StatusSuccess, StatusFailure} {
		text, err := s.MarshalText()
		require.NoError(t, err)

		var got Status
		require.NoError(t, got.UnmarshalText(text))
		assert.Equal(t, s, got)
	}

	var s Status
	assert.Error(t, s.UnmarshalText([]byte("pending")))
}

func TestNewState(t *testing.T) {
	s := NewState(0)
	assert.Equal(t, StatusInitial, s.Status)
	assert.Equal(t, DefaultPageSize, s.PageSize)
	assert.Equal(t, movie.DefaultSort(), s.Sort)
	assert.Empty(t, s.Results)
	assert.Nil(t, s.MinRating)
	assert.Zero(t, s.Page)
}

func TestSubmit(t *testing.T) {
	s := NewState(5)
	next, ok := Submit(s, "batman")

	require.True(t, ok)
	assert.Equal(t, StatusInProgress, next.Status)
	assert.Equal(t, "batman", next.Query)
	assert.Equal(t, uint64(1), next.Generation)
	// input untouched
	assert.Equal(t, StatusInitial, s.Status)
	assert.Empty(t, s.Query)
}

func TestSubmit_IgnoredWhileInProgress(t *testing.T) {
	s, _ := Submit(NewState(5), "batman")
	again, ok := Submit(s, "superman")

	assert.False(t, ok)
	assert.Equal(t, s, again)
	assert.Equal(t, "batman", again.Query)
}

func TestSubmit_AllowedAfterTerminalStatus(t *testing.T) {
	s := succeeded(t, records(7))
	next, ok := Submit(s, "dune")
	assert.True(t, ok)
	assert.Equal(t, uint64(2), next.Generation)

	failed := Fail(next, next.Generation, errors.New("boom"))
	_, ok = Submit(failed, "dune")
	assert.True(t, ok)
}

func TestComplete_ResetsPage(t *testing.T) {
	s := succeeded(t, records(1, 2, 3, 4, 5, 6, 7))
	s = SetPage(s, 1)
	require.Equal(t, 1, s.Page)

	s, _ = Submit(s, "again")
	s = Complete(s, s.Generation, records(5, 6))
	assert.Equal(t, 0, s.Page)
	assert.Len(t, s.Results, 2)
}

func TestComplete_DropsStaleGeneration(t *testing.T) {
	s, _ := Submit(NewState(5), "batman")
	stale := Complete(s, s.Generation-1, records(7))
	assert.Equal(t, StatusInProgress, stale.Status)
	assert.Empty(t, stale.Results)
}

func TestComplete_IgnoredWhenNotInProgress(t *testing.T) {
	s := succeeded(t, records(7))
	again := Complete(s, s.Generation, records(1, 2))
	assert.Len(t, again.Results, 1)
}

func TestFail_ClearsResults(t *testing.T) {
	s := succeeded(t, records(7, 8))
	s, _ = Submit(s, "broken")
	s = Fail(s, s.Generation, &LookupError{Query: "broken", Err: errors.New("connection refused")})

	assert.Equal(t, StatusFailure, s.Status)
	assert.Empty(t, s.Results)
	assert.Contains(t, s.Err, "connection refused")
	assert.Empty(t, Project(s).Items)
}

func TestFail_DropsStaleGeneration(t *testing.T) {
	s, _ := Submit(NewState(5), "batman")
	stale := Fail(s, s.Generation+1, errors.New("late"))
	assert.Equal(t, StatusInProgress, stale.Status)
}

func TestSetMinRating_NonDestructive(t *testing.T) {
	s := succeeded(t, records(7.1, 5.0, 8.9))

	tight := 8.0
	s = SetMinRating(s, &tight)
	assert.Len(t, Working(s), 1)

	loose := 5.0
	s = SetMinRating(s, &loose)
	assert.Len(t, Working(s), 3)

	s = SetMinRating(s, nil)
	assert.Len(t, Working(s), 3)
	assert.Len(t, s.Results, 3)
}

func TestSetMinRating_CopiesValue(t *testing.T) {
	s := succeeded(t, records(7.1, 5.0, 8.9))
	v := 6.0
	s = SetMinRating(s, &v)
	v = 9.5
	assert.Equal(t, 6.0, *s.MinRating)
}

func TestFilterAndSort_ResetPage(t *testing.T) {
	s := succeeded(t, records(1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12))
	s = SetPage(s, 2)
	require.Equal(t, 2, s.Page)

	minRating := 2.0
	assert.Zero(t, SetMinRating(s, &minRating).Page)
	assert.Zero(t, SetSort(s, movie.Sort{Field: movie.SortByReleaseDate}).Page)
}

func TestSetPage_Clamps(t *testing.T) {
	s := succeeded(t, records(1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12))

	assert.Equal(t, 2, SetPage(s, 2).Page)
	assert.Equal(t, 2, SetPage(s, 99).Page)
	assert.Equal(t, 0, SetPage(s, -3).Page)
	assert.Equal(t, 0, SetPage(NewState(5), 4).Page)
}

func TestWorking_Scenarios(t *testing.T) {
	s := succeeded(t, records(7.1, 5.0, 8.9))

	// default sort is rating, descending
	assert.Equal(t, []float64{8.9, 7.1, 5.0}, ratingsOf(Working(s)))

	minRating := 6.0
	s = SetMinRating(s, &minRating)
	s = SetSort(s, movie.Sort{Field: movie.SortByRating, Ascending: true})
	assert.Equal(t, []float64{7.1, 8.9}, ratingsOf(Working(s)))
}

func TestProject_Success(t *testing.T) {
	s := succeeded(t, records(1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12))
	s = SetSort(s, movie.Sort{Field: movie.SortByRating, Ascending: true})
	s = SetPage(s, 2)

	v := Project(s)
	assert.Equal(t, StatusSuccess, v.Status)
	assert.Equal(t, 12, v.Total)
	assert.Equal(t, 12, v.Matching)
	assert.Equal(t, 3, v.PageCount)
	assert.Equal(t, 2, v.Page)
	assert.Equal(t, []float64{11, 12}, ratingsOf(v.Items))
	assert.True(t, v.HasResults)
	assert.True(t, v.IsSuccess())
}

func TestProject_EmptySuccess(t *testing.T) {
	v := Project(succeeded(t, nil))
	assert.True(t, v.IsSuccess())
	assert.False(t, v.HasResults)
	assert.NotNil(t, v.Items)
	assert.Zero(t, v.PageCount)
}

func TestProject_NonSuccessHasNoItems(t *testing.T) {
	initial := Project(NewState(5))
	assert.True(t, initial.IsInitial())
	assert.Empty(t, initial.Items)

	s, _ := Submit(NewState(5), "x")
	inProgress := Project(s)
	assert.True(t, inProgress.IsInProgress())
	assert.Empty(t, inProgress.Items)
}

func ratingsOf(recs []movie.Record) []float64 {
	out := make([]float64, len(recs))
	for i, r := range recs {
		out[i] = r.VoteAverage
	}
	return out
}
