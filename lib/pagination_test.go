package lib

import (
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const productsPath = "http://catalog.test/products"

func labels[T any](t *testing.T, items []T, total, page int) []string {
	t.Helper()
	p := BuildPaginator(items, total, page, 10, productsPath)

	out := make([]string, 0, len(p.Links))
	for _, link := range p.Links {
		out = append(out, link.Label)
	}
	return out
}

func pages(from, to int) []string {
	var out []string
	for i := from; i <= to; i++ {
		out = append(out, strconv.Itoa(i))
	}
	return out
}

func strip(parts ...[]string) []string {
	out := []string{previousLabel}
	for _, part := range parts {
		out = append(out, part...)
	}
	return append(out, nextLabel)
}

func TestBuildPaginatorFirstPage(t *testing.T) {
	items := make([]int, 10)
	p := BuildPaginator(items, 25, 1, 10, productsPath)

	assert.Equal(t, 1, p.CurrentPage)
	assert.Equal(t, 3, p.LastPage)
	assert.Equal(t, 25, p.Total)
	assert.Equal(t, 10, p.PerPage)
	assert.Equal(t, productsPath, p.Path)
	assert.Equal(t, productsPath+"?page=1", p.FirstPageURL)
	assert.Equal(t, productsPath+"?page=3", p.LastPageURL)
	assert.Nil(t, p.PrevPageURL)
	require.NotNil(t, p.NextPageURL)
	assert.Equal(t, productsPath+"?page=2", *p.NextPageURL)
	require.NotNil(t, p.From)
	require.NotNil(t, p.To)
	assert.Equal(t, 1, *p.From)
	assert.Equal(t, 10, *p.To)

	require.Len(t, p.Links, 5)
	assert.Nil(t, p.Links[0].URL)
	assert.True(t, p.Links[1].Active)
	assert.False(t, p.Links[2].Active)
	require.NotNil(t, p.Links[4].URL)
	assert.Equal(t, productsPath+"?page=2", *p.Links[4].URL)
}

func TestBuildPaginatorLastPartialPage(t *testing.T) {
	items := make([]int, 5)
	p := BuildPaginator(items, 25, 3, 10, productsPath)

	require.NotNil(t, p.From)
	assert.Equal(t, 21, *p.From)
	assert.Equal(t, 25, *p.To)
	assert.Nil(t, p.NextPageURL)
	assert.Nil(t, p.Links[len(p.Links)-1].URL)
	require.NotNil(t, p.PrevPageURL)
	assert.Equal(t, productsPath+"?page=2", *p.PrevPageURL)
}

func TestBuildPaginatorEmpty(t *testing.T) {
	p := BuildPaginator[int](nil, 0, 1, 10, productsPath)

	assert.Equal(t, 1, p.LastPage)
	assert.NotNil(t, p.Data)
	assert.Empty(t, p.Data)
	assert.Nil(t, p.From)
	assert.Nil(t, p.To)
	assert.Nil(t, p.PrevPageURL)
	assert.Nil(t, p.NextPageURL)
	assert.Equal(t, strip(pages(1, 1)), labels[int](t, nil, 0, 1))
}

func TestBuildPaginatorBeyondLastPage(t *testing.T) {
	p := BuildPaginator[int](nil, 15, 5, 10, productsPath)

	assert.Equal(t, 5, p.CurrentPage)
	assert.Equal(t, 2, p.LastPage)
	assert.Empty(t, p.Data)
	assert.Nil(t, p.From)
	assert.Nil(t, p.NextPageURL)
	require.NotNil(t, p.PrevPageURL)
	assert.Equal(t, productsPath+"?page=4", *p.PrevPageURL)
}

func TestBuildPaginatorLinkWindows(t *testing.T) {
	tests := []struct {
		name  string
		total int
		page  int
		want  []string
	}{
		{
			name:  "few pages lists all",
			total: 130, // 13 pages
			page:  6,
			want:  strip(pages(1, 13)),
		},
		{
			name:  "close to beginning",
			total: 200, // 20 pages
			page:  7,
			want:  strip(pages(1, 10), []string{"..."}, pages(19, 20)),
		},
		{
			name:  "close to end",
			total: 200,
			page:  14,
			want:  strip(pages(1, 2), []string{"..."}, pages(11, 20)),
		},
		{
			name:  "middle",
			total: 200,
			page:  10,
			want:  strip(pages(1, 2), []string{"..."}, pages(7, 13), []string{"..."}, pages(19, 20)),
		},
		{
			name:  "fourteen pages on page eight",
			total: 140,
			page:  8,
			want:  strip(pages(1, 2), []string{"..."}, pages(5, 14)),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, labels(t, make([]int, 10), tt.total, tt.page))
		})
	}
}

func TestBuildPaginatorSeparatorsHaveNoURL(t *testing.T) {
	p := BuildPaginator(make([]int, 10), 200, 10, 10, productsPath)

	active := 0
	for _, link := range p.Links {
		if link.Label == dotsLabel {
			assert.Nil(t, link.URL)
			assert.False(t, link.Active)
		}
		if link.Active {
			active++
			assert.Equal(t, "10", link.Label)
		}
	}
	assert.Equal(t, 1, active)
}
