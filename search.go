package gamesdk

import (
	"github.com/opd-ai/gamesdk/interfaces"
	"github.com/opd-ai/gamesdk/textbuf"
)

type searchFilter struct {
	comparison Comparison
	cast       Cast
	value      []byte
}

type searchSort struct {
	cast  Cast
	value []byte
}

// SearchQuery collects lobby search criteria for LobbySearch. Filters and
// sorts are keyed by metadata key, so a later Filter on the same key
// replaces the earlier one. Use "metadata.<key>" to address lobby metadata,
// or one of owner_id, capacity, slots and member_count.
type SearchQuery struct {
	filters  map[string]searchFilter
	sorts    map[string]searchSort
	limit    *uint32
	distance *Distance
	consumed bool
}

// NewSearchQuery returns a query that matches every lobby.
func NewSearchQuery() *SearchQuery {
	return &SearchQuery{
		filters: make(map[string]searchFilter),
		sorts:   make(map[string]searchSort),
	}
}

// Filter keeps lobbies whose key compares to value.
func (q *SearchQuery) Filter(key string, comparison Comparison, cast Cast, value string) *SearchQuery {
	q.filters[string(textbuf.Terminate(key))] = searchFilter{
		comparison: comparison,
		cast:       cast,
		value:      textbuf.Terminate(value),
	}
	return q
}

// Sort orders results by how close key is to value.
func (q *SearchQuery) Sort(key string, cast Cast, value string) *SearchQuery {
	q.sorts[string(textbuf.Terminate(key))] = searchSort{cast: cast, value: textbuf.Terminate(value)}
	return q
}

// Limit caps the number of results.
func (q *SearchQuery) Limit(limit uint32) *SearchQuery {
	q.limit = &limit
	return q
}

// Distance bounds the search geographically.
func (q *SearchQuery) Distance(distance Distance) *SearchQuery {
	q.distance = &distance
	return q
}

func (q *SearchQuery) consume() error {
	if q.consumed {
		return ErrTransactionConsumed
	}
	q.consumed = true
	return nil
}

// process replays filters, sorts, limit and distance in that order.
func (q *SearchQuery) process(native interfaces.ILobbySearchQuery) error {
	for k, f := range q.filters {
		key := []byte(k)
		if err := resultError("search filter", native.Filter(key, int32(f.comparison), int32(f.cast), f.value)); err != nil {
			return err
		}
	}
	for k, s := range q.sorts {
		key := []byte(k)
		if err := resultError("search sort", native.Sort(key, int32(s.cast), s.value)); err != nil {
			return err
		}
	}
	if q.limit != nil {
		if err := resultError("search limit", native.Limit(*q.limit)); err != nil {
			return err
		}
	}
	if q.distance != nil {
		if err := resultError("search distance", native.Distance(int32(*q.distance))); err != nil {
			return err
		}
	}
	return nil
}
