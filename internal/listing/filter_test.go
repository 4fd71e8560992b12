package listing

import (
	"testing"

	"github.com/lomoval/strikeboard/internal/storage"
	"github.com/stretchr/testify/require"
)

func item(id, title, location string) Item {
	return Item{Event: storage.Event{ID: id, Title: title, Location: location}}
}

func ids(items []Item) []string {
	result := make([]string, 0, len(items))
	for _, i := range items {
		result = append(result, i.ID)
	}
	return result
}

func TestFilter(t *testing.T) {
	paris := item("1", "Paris Rally", "Paris")
	lyon := item("2", "Lyon March", "Lyon")
	dockers := item("3", "Dockers strike", "Le Havre")
	dockers.CategoryID = "ports"
	dockers.Favorite = true
	rail := item("4", "Rail walkout", "Gare de Lyon, PARIS")
	rail.CategoryID = "transport"

	all := []Item{paris, lyon, dockers, rail}

	tests := []struct {
		name     string
		query    Query
		expected []string
	}{
		{name: "empty query matches all", query: Query{}, expected: []string{"1", "2", "3", "4"}},
		{name: "case insensitive on title", query: Query{Text: "par"}, expected: []string{"1", "4"}},
		{name: "matches location", query: Query{Text: "havre"}, expected: []string{"3"}},
		{name: "category", query: Query{CategoryID: "transport"}, expected: []string{"4"}},
		{name: "favorites only", query: Query{FavoritesOnly: true}, expected: []string{"3"}},
		{name: "predicates combined", query: Query{Text: "lyon", CategoryID: "transport"}, expected: []string{"4"}},
		{name: "no match", query: Query{Text: "marseille"}, expected: []string{}},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.expected, ids(Filter(all, tt.query)))
		})
	}
}

func TestFilterParisLyon(t *testing.T) {
	events := []Item{item("1", "Paris Rally", "Paris"), item("2", "Lyon March", "Lyon")}

	filtered := Filter(events, Query{Text: "par"})

	require.Len(t, filtered, 1)
	require.Equal(t, "Paris Rally", filtered[0].Title)
}

func TestFilterIsIdempotent(t *testing.T) {
	fav := item("3", "Dockers", "Le Havre")
	fav.Favorite = true
	all := []Item{item("1", "Paris Rally", "Paris"), item("2", "Lyon March", "Lyon"), fav}

	for _, q := range []Query{{}, {Text: "a"}, {FavoritesOnly: true}, {Text: "r", CategoryID: "x"}} {
		once := Filter(all, q)
		require.Equal(t, once, Filter(once, q))
	}
}
