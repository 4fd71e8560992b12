package listing

import (
	"time"

	"github.com/lomoval/strikeboard/internal/storage"
	"golang.org/x/text/language"
)

// Item is an event annotated for display.
type Item struct {
	storage.Event
	Status       Status `json:"status"`
	CategoryName string `json:"categoryName"`
	// CommentCount is not populated by the list; comments are loaded per event.
	CommentCount int `json:"commentCount"`
}

type Options struct {
	Query  Query
	Sort   SortKey
	Locale language.Tag
}

// Assemble builds the render list: classify, filter, sort, then resolve
// category names. An unknown category resolves to an empty name.
func Assemble(events []storage.Event, categories []storage.Category, opts Options, now time.Time) []Item {
	items := make([]Item, 0, len(events))
	for _, e := range events {
		items = append(items, Item{Event: e, Status: Classify(e.StartTime, e.EndTime, now)})
	}

	items = SortLocale(Filter(items, opts.Query), opts.Sort, opts.Locale)

	names := make(map[string]string, len(categories))
	for _, c := range categories {
		names[c.ID] = c.Name
	}
	for i := range items {
		items[i].CategoryName = names[items[i].CategoryID]
	}
	return items
}
