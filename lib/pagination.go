package lib

import (
	"catalog_server/structs"
	"strconv"
)

const (
	previousLabel = "&laquo; Previous"
	nextLabel     = "Next &raquo;"
	dotsLabel     = "..."

	// pages shown on each side of the current page in the link strip
	onEachSide = 3
)

// BuildPaginator assembles the length-aware paginator payload for one page of items
func BuildPaginator[T any](items []T, total, page, perPage int, path string) *structs.Paginator[T] {
	if perPage < 1 {
		perPage = 10
	}
	if page < 1 {
		page = 1
	}
	if items == nil {
		items = []T{}
	}

	lastPage := max((total+perPage-1)/perPage, 1)

	p := &structs.Paginator[T]{
		CurrentPage:  page,
		Data:         items,
		FirstPageURL: pageURL(path, 1),
		LastPage:     lastPage,
		LastPageURL:  pageURL(path, lastPage),
		Path:         path,
		PerPage:      perPage,
		Total:        total,
	}

	if len(items) > 0 {
		from := (page-1)*perPage + 1
		to := from + len(items) - 1
		p.From = &from
		p.To = &to
	}

	if page > 1 {
		prev := pageURL(path, page-1)
		p.PrevPageURL = &prev
	}
	if page < lastPage {
		next := pageURL(path, page+1)
		p.NextPageURL = &next
	}

	p.Links = buildLinks(p, path)
	return p
}

func buildLinks[T any](p *structs.Paginator[T], path string) []structs.PaginationLink {
	links := []structs.PaginationLink{{URL: p.PrevPageURL, Label: previousLabel}}

	for _, element := range linkWindow(p.CurrentPage, p.LastPage) {
		if element == 0 {
			links = append(links, structs.PaginationLink{Label: dotsLabel})
			continue
		}
		url := pageURL(path, element)
		links = append(links, structs.PaginationLink{
			URL:    &url,
			Label:  strconv.Itoa(element),
			Active: element == p.CurrentPage,
		})
	}

	return append(links, structs.PaginationLink{URL: p.NextPageURL, Label: nextLabel})
}

// linkWindow returns the page numbers of the link strip; 0 marks a "..." gap
func linkWindow(current, last int) []int {
	if last < onEachSide*2+8 {
		return pageRange(1, last)
	}

	window := onEachSide + 4

	var out []int
	switch {
	case current <= window:
		out = append(out, pageRange(1, window+onEachSide)...)
		out = append(out, 0)
		out = append(out, pageRange(last-1, last)...)
	case current > last-window:
		out = append(out, pageRange(1, 2)...)
		out = append(out, 0)
		out = append(out, pageRange(last-(window+(onEachSide-1)), last)...)
	default:
		out = append(out, pageRange(1, 2)...)
		out = append(out, 0)
		out = append(out, pageRange(current-onEachSide, current+onEachSide)...)
		out = append(out, 0)
		out = append(out, pageRange(last-1, last)...)
	}
	return out
}

func pageRange(from, to int) []int {
	out := make([]int, 0, to-from+1)
	for i := from; i <= to; i++ {
		out = append(out, i)
	}
	return out
}

func pageURL(path string, page int) string {
	return path + "?page=" + strconv.Itoa(page)
}
