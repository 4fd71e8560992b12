package listing

import (
	"cmp"
	"fmt"
	"slices"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

type SortKey string

const (
	SortDate         SortKey = "date"
	SortLocation     SortKey = "location"
	SortStatus       SortKey = "status"
	SortParticipants SortKey = "participants"
	SortFavorites    SortKey = "favorites"
)

func ParseSortKey(s string) (SortKey, error) {
	switch key := SortKey(strings.ToLower(s)); key {
	case SortDate, SortLocation, SortStatus, SortParticipants, SortFavorites:
		return key, nil
	case "":
		return SortDate, nil
	default:
		return "", fmt.Errorf("unknown sort key %q", s)
	}
}

// Sort returns a stably ordered copy of items. Locations are compared with
// the root collation.
func Sort(items []Item, key SortKey) []Item {
	return SortLocale(items, key, language.Und)
}

// SortLocale is Sort with locations compared by the collation of tag.
//
// Status is ordered by its label, so completed < ongoing < upcoming.
// Unknown keys keep the input order.
func SortLocale(items []Item, key SortKey, tag language.Tag) []Item {
	sorted := slices.Clone(items)

	var compare func(a, b Item) int
	switch key {
	case SortDate:
		compare = func(a, b Item) int { return a.StartTime.Compare(b.StartTime) }
	case SortLocation:
		// Collators are not safe for concurrent use.
		collator := collate.New(tag)
		compare = func(a, b Item) int { return collator.CompareString(a.Location, b.Location) }
	case SortStatus:
		compare = func(a, b Item) int { return strings.Compare(string(a.Status), string(b.Status)) }
	case SortParticipants:
		compare = func(a, b Item) int { return cmp.Compare(b.ParticipantsCount, a.ParticipantsCount) }
	case SortFavorites:
		compare = func(a, b Item) int { return cmp.Compare(favoriteRank(a), favoriteRank(b)) }
	default:
		return sorted
	}

	slices.SortStableFunc(sorted, compare)
	return sorted
}

func favoriteRank(item Item) int {
	if item.Favorite {
		return 0
	}
	return 1
}
