// Package mock provides an offline TMDB client for developer mode and tests.
package mock

import (
	"context"
	"strings"
	"time"

	"github.com/reelscout/reelscout/internal/tmdb"
)

// TMDBClient is a mock implementation of the TMDB client. It answers searches
// from a fixed catalogue of raw results.
type TMDBClient struct {
	// Delay is applied before every search to make the loading state visible.
	Delay time.Duration
	// Err, when set, is returned by every search and by Test.
	Err error
}

// NewTMDBClient creates a new mock TMDB client.
func NewTMDBClient() *TMDBClient {
	return &TMDBClient{}
}

func (c *TMDBClient) Name() string {
	return "tmdb-mock"
}

func (c *TMDBClient) IsConfigured() bool {
	return true
}

func (c *TMDBClient) Test(ctx context.Context) error {
	return c.Err
}

// SearchMovies returns every fixture whose title contains the query,
// case-insensitively, in catalogue order.
func (c *TMDBClient) SearchMovies(ctx context.Context, query string) ([]tmdb.MovieResult, error) {
	if c.Delay > 0 {
		select {
		case <-time.After(c.Delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if c.Err != nil {
		return nil, c.Err
	}

	query = strings.ToLower(strings.TrimSpace(query))
	results := make([]tmdb.MovieResult, 0)
	if query == "" {
		return results, nil
	}

	for i := range mockMovies {
		movie := mockMovies[i]
		if strings.Contains(strings.ToLower(movie.Title), query) {
			results = append(results, movie)
		}
	}
	return results, nil
}

// Movies returns a copy of the whole fixture catalogue.
func Movies() []tmdb.MovieResult {
	out := make([]tmdb.MovieResult, len(mockMovies))
	copy(out, mockMovies)
	return out
}

func path(p string) *string { return &p }

var mockMovies = []tmdb.MovieResult{
	{ID: 603, Title: "The Matrix", OriginalTitle: "The Matrix", OriginalLanguage: "en", Overview: "Set in the 22nd century, The Matrix tells the story of a computer hacker who joins a group of underground insurgents fighting the vast and powerful computers who now rule the earth.", ReleaseDate: "1999-03-31", PosterPath: path("/p96dm7sCMn4VYAStA6siNz30G1r.jpg"), BackdropPath: path("/tlm8UkiQsitc8rSuIAscQDCnP8d.jpg"), VoteAverage: 8.2, VoteCount: 26104, Popularity: 98.4},
	{ID: 604, Title: "The Matrix Reloaded", OriginalTitle: "The Matrix Reloaded", OriginalLanguage: "en", Overview: "Six months after the events depicted in The Matrix, Neo has proved to be a good omen for the free humans.", ReleaseDate: "2003-05-15", PosterPath: path("/9TGHDvWrqKBzwDxDodHYXEmOE6J.jpg"), VoteAverage: 7.0, VoteCount: 11213, Popularity: 45.1},
	{ID: 605, Title: "The Matrix Revolutions", OriginalTitle: "The Matrix Revolutions", OriginalLanguage: "en", Overview: "The human city of Zion defends itself against the massive invasion of the machines as Neo fights to end the war at another front.", ReleaseDate: "2003-11-05", PosterPath: path("/t1wm4PgOQ8e4z1C6tk1yDYrps4v.jpg"), VoteAverage: 6.7, VoteCount: 9801, Popularity: 38.7},
	{ID: 624860, Title: "The Matrix Resurrections", OriginalTitle: "The Matrix Resurrections", OriginalLanguage: "en", Overview: "Plagued by strange memories, Neo's life takes an unexpected turn when he finds himself back inside the Matrix.", ReleaseDate: "2021-12-16", PosterPath: path("/8c4a8kE7PizaGQQnditMmI1xbRp.jpg"), VoteAverage: 6.4, VoteCount: 6120, Popularity: 52.9},
	{ID: 55931, Title: "The Animatrix", OriginalTitle: "The Animatrix", OriginalLanguage: "en", Overview: "Nine animated stories set in the world of The Matrix.", ReleaseDate: "2003-06-02", PosterPath: nil, VoteAverage: 7.1, VoteCount: 1444, Popularity: 12.3},
	{ID: 550, Title: "Fight Club", OriginalTitle: "Fight Club", OriginalLanguage: "en", Overview: "A ticking-time-bomb insomniac and a slippery soap salesman channel primal male aggression into a shocking new form of therapy.", ReleaseDate: "1999-10-15", PosterPath: path("/pB8BM7pdSp6B6Ih7QZ4DrQ3PmJK.jpg"), BackdropPath: path("/5TiwfWEaPSwD20uwXjCTUqpQX70.jpg"), VoteAverage: 8.4, VoteCount: 29811, Popularity: 73.6},
	{ID: 680, Title: "Pulp Fiction", OriginalTitle: "Pulp Fiction", OriginalLanguage: "en", Overview: "A burger-loving hit man, his philosophical partner, a drug-addled gangster's moll and a washed-up boxer converge in this sprawling, comedic crime caper.", ReleaseDate: "1994-09-10", PosterPath: path("/vQWk5YBFWF4bZaofAbv0tShwBvQ.jpg"), VoteAverage: 8.5, VoteCount: 27902, Popularity: 81.2},
	{ID: 155, Title: "The Dark Knight", OriginalTitle: "The Dark Knight", OriginalLanguage: "en", Overview: "Batman raises the stakes in his war on crime.", ReleaseDate: "2008-07-16", PosterPath: path("/qJ2tW6WMUDux911r6m7haRef0WH.jpg"), BackdropPath: path("/cfT29Im5VDvjE0RpyKOSdCKZal7.jpg"), VoteAverage: 8.5, VoteCount: 32406, Popularity: 110.5},
	{ID: 272, Title: "Batman Begins", OriginalTitle: "Batman Begins", OriginalLanguage: "en", Overview: "Driven by tragedy, billionaire Bruce Wayne dedicates his life to uncovering and defeating the corruption that plagues his home, Gotham City.", ReleaseDate: "2005-06-10", PosterPath: path("/4MpN4kIEqUjW8OPtOQJXlTdHiJV.jpg"), VoteAverage: 7.7, VoteCount: 20876, Popularity: 62.4},
	{ID: 268, Title: "Batman", OriginalTitle: "Batman", OriginalLanguage: "en", Overview: "Batman must face his most ruthless nemesis when a deformed madman calling himself the Joker seizes control of Gotham's criminal underworld.", ReleaseDate: "1989-06-21", PosterPath: path("/cij4dd21v2Rk2YtUQbV5kW69WB2.jpg"), VoteAverage: 7.2, VoteCount: 8012, Popularity: 41.3},
	{ID: 414906, Title: "The Batman", OriginalTitle: "The Batman", OriginalLanguage: "en", Overview: "In his second year of fighting crime, Batman uncovers corruption in Gotham City that connects to his own family.", ReleaseDate: "2022-03-01", PosterPath: path("/74xTEgt7R36Fpooo50r9T25onhq.jpg"), VoteAverage: 7.7, VoteCount: 10233, Popularity: 95.8},
	{ID: 1003600, Title: "Batman: Untitled Sequel", OriginalTitle: "Batman: Untitled Sequel", OriginalLanguage: "en", Overview: "", ReleaseDate: "", PosterPath: nil, VoteAverage: 0, VoteCount: 0, Popularity: 3.1},
	{ID: 27205, Title: "Inception", OriginalTitle: "Inception", OriginalLanguage: "en", Overview: "Cobb, a skilled thief who commits corporate espionage by infiltrating the subconscious of his targets is offered a chance to regain his old life.", ReleaseDate: "2010-07-15", PosterPath: path("/xlaY2zyzMfkhk0HSC5VUwzoZPU1.jpg"), VoteAverage: 8.4, VoteCount: 36512, Popularity: 99.0},
	{ID: 157336, Title: "Interstellar", OriginalTitle: "Interstellar", OriginalLanguage: "en", Overview: "The adventures of a group of explorers who make use of a newly discovered wormhole to surpass the limitations on human space travel.", ReleaseDate: "2014-11-05", PosterPath: path("/gEU2QniE6E77NI6lCU6MxlNBvIx.jpg"), VoteAverage: 8.4, VoteCount: 34771, Popularity: 140.2},
	{ID: 438631, Title: "Dune", OriginalTitle: "Dune", OriginalLanguage: "en", Overview: "Paul Atreides, a brilliant and gifted young man born into a great destiny beyond his understanding, must travel to the most dangerous planet in the universe.", ReleaseDate: "2021-09-15", PosterPath: path("/d5NXSklXo0qyIYkgV94XAgMIckC.jpg"), VoteAverage: 7.8, VoteCount: 12089, Popularity: 77.7},
	{ID: 693134, Title: "Dune: Part Two", OriginalTitle: "Dune: Part Two", OriginalLanguage: "en", Overview: "Follow the mythic journey of Paul Atreides as he unites with Chani and the Fremen while on a path of revenge.", ReleaseDate: "2024-02-27", PosterPath: path("/1pdfLvkbY9ohJlCjQH2CZjjYVvJ.jpg"), VoteAverage: 8.2, VoteCount: 6555, Popularity: 201.6},
	{ID: 841, Title: "Dune", OriginalTitle: "Dune", OriginalLanguage: "en", Overview: "In the year 10,191, the most precious substance in the universe is the spice Melange.", ReleaseDate: "1984-12-14", PosterPath: path("/a3nDwAnKAl0jsSmsGaHdhAY1BL0.jpg"), VoteAverage: 6.3, VoteCount: 3012, Popularity: 30.2},
	{ID: 872585, Title: "Oppenheimer", OriginalTitle: "Oppenheimer", OriginalLanguage: "en", Overview: "The story of J. Robert Oppenheimer's role in the development of the atomic bomb during World War II.", ReleaseDate: "2023-07-19", PosterPath: path("/8Gxv8gSFCU0XGDykEGv7zR1n2ua.jpg"), VoteAverage: 8.1, VoteCount: 9450, Popularity: 88.3},
	{ID: 545611, Title: "Everything Everywhere All at Once", OriginalTitle: "Everything Everywhere All at Once", OriginalLanguage: "en", Overview: "An aging Chinese immigrant is swept up in an insane adventure, where she alone can save what's important to her by connecting with the lives she could have led.", ReleaseDate: "2022-03-24", PosterPath: path("/u68AjlvlutfEIcpmbYpKcdi09ut.jpg"), VoteAverage: 7.8, VoteCount: 6771, Popularity: 40.8},
	{ID: 1022789, Title: "Inside Out 2", OriginalTitle: "Inside Out 2", OriginalLanguage: "en", Overview: "Teenager Riley's mind headquarters is undergoing a sudden demolition to make room for something entirely unexpected: new Emotions!", ReleaseDate: "2024-06-11", PosterPath: path("/vpnVM9B6NMmQpWeZvzLvDESb2QY.jpg"), VoteAverage: 7.6, VoteCount: 4890, Popularity: 160.4},
}
