package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/reelscout/reelscout/internal/movie"
	"github.com/reelscout/reelscout/internal/search"
)

// Prompt is shown until a search returns records.
const Prompt = "Search the movies in the search bar to get movie details"

// Styles
var (
	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("39")).
			Bold(true)

	movieTitleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("255")).
			Bold(true)

	mutedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("244"))

	ratingStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214"))

	failureStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")).
			Bold(true)

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("203"))

	focusedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("39"))

	cardStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240")).
			Padding(0, 1)
)

func spinnerStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(lipgloss.Color("39"))
}

// View implements tea.Model.
func (m *Model) View() string {
	v := search.Project(m.state)

	var b strings.Builder
	b.WriteString(titleStyle.Render("reelscout"))
	b.WriteString("\n\n")
	b.WriteString(m.renderInput(FocusQuery, m.queryInput.View()))
	b.WriteString("\n")

	if v.HasResults {
		b.WriteString(m.renderInput(FocusRating, m.ratingInput.View()))
		b.WriteString("\n")
		if m.ratingErr != "" {
			b.WriteString(errorStyle.Render(m.ratingErr))
			b.WriteString("\n")
		}
	}
	b.WriteString("\n")

	b.WriteString(m.renderBody(v))
	b.WriteString("\n")
	b.WriteString(m.renderFooter(v))
	return b.String()
}

func (m *Model) renderInput(f Focus, s string) string {
	if m.focus == f {
		return focusedStyle.Render("> ") + s
	}
	return "  " + s
}

func (m *Model) renderBody(v search.View) string {
	switch v.Status {
	case search.StatusInProgress:
		return m.spinner.View() + " Searching…\n"
	case search.StatusFailure:
		return failureStyle.Render("Failure") + "\n" +
			mutedStyle.Render("Something went wrong while searching. Try again.") + "\n"
	case search.StatusInitial, search.StatusSuccess:
	}

	if len(v.Items) == 0 {
		return mutedStyle.Render(Prompt) + "\n"
	}

	width := max(m.width-4, 20)
	cards := make([]string, 0, len(v.Items))
	for _, r := range v.Items {
		cards = append(cards, cardStyle.Width(width).Render(renderRecord(r, width-2)))
	}
	return lipgloss.JoinVertical(lipgloss.Left, cards...) + "\n"
}

func renderRecord(r movie.Record, width int) string {
	title := r.Title
	if y := movie.Year(r); y > 0 {
		title = fmt.Sprintf("%s (%d)", r.Title, y)
	}
	lines := []string{movieTitleStyle.Render(title)}

	meta := "Release date: " + r.ReleaseDate
	if r.ReleaseDate == "" {
		meta = "Release date: unknown"
	}
	lines = append(lines, mutedStyle.Render(meta))

	lines = append(lines, ratingStyle.Render(fmt.Sprintf("RATING : %.1f (%s votes)",
		r.VoteAverage, humanize.Comma(int64(r.VoteCount)))))

	if r.Overview != "" {
		lines = append(lines, truncate(r.Overview, width*2))
	}
	lines = append(lines, mutedStyle.Render("Popularity: "+humanize.CommafWithDigits(r.Popularity, 2)))
	return strings.Join(lines, "\n")
}

func (m *Model) renderFooter(v search.View) string {
	var parts []string
	if v.HasResults {
		parts = append(parts,
			fmt.Sprintf("page %d/%d", v.Page+1, max(v.PageCount, 1)),
			fmt.Sprintf("%d of %d", v.Matching, v.Total),
			"sort: "+sortLabel(v.Sort),
		)
	}
	parts = append(parts, helpText(m.focus, v.HasResults))
	return mutedStyle.Render(strings.Join(parts, " │ "))
}

func sortLabel(s movie.Sort) string {
	order := "desc"
	if s.Ascending {
		order = "asc"
	}
	return s.Field.Label() + " " + order
}

func helpText(f Focus, hasResults bool) string {
	switch {
	case f == FocusResults:
		return "s sort • o order • ←/→ page • tab focus • esc quit"
	case hasResults:
		return "enter apply • tab focus • esc quit"
	default:
		return "enter search • esc quit"
	}
}

// truncate shortens s to n runes with a trailing ellipsis.
func truncate(s string, n int) string {
	runes := []rune(s)
	if n <= 1 || len(runes) <= n {
		return s
	}
	return string(runes[:n-1]) + "…"
}
