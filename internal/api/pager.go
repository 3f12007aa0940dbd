package api

const (
	pagerRange  = 3 // page links around the current page
	pagerMargin = 1 // page links kept at each end
)

// pager is the pagination bar of the index page. Page numbers are 1-based;
// Prev and Next are 0 when there is no such page.
type pager struct {
	Show  bool
	Prev  int
	Next  int
	Links []pageLink
}

type pageLink struct {
	Number  int
	Current bool
	Gap     bool
}

// buildPager lays out the links for the 0-based page out of count pages.
func buildPager(page, count int) pager {
	if count <= 1 {
		return pager{}
	}

	p := pager{Show: true}
	if page > 0 {
		p.Prev = page
	}
	if page < count-1 {
		p.Next = page + 2
	}

	start := page - pagerRange/2
	if start < 0 {
		start = 0
	}
	end := start + pagerRange - 1
	if end > count-1 {
		end = count - 1
		start = max(0, end-pagerRange+1)
	}

	gap := false
	for i := 0; i < count; i++ {
		visible := i < pagerMargin || i >= count-pagerMargin || (i >= start && i <= end)
		if visible {
			p.Links = append(p.Links, pageLink{Number: i + 1, Current: i == page})
			gap = false
			continue
		}
		if !gap {
			p.Links = append(p.Links, pageLink{Gap: true})
			gap = true
		}
	}
	return p
}
