package repository

import (
	"sort"

	"github.com/photosync/photolist/internal/models"
)

// DefaultMaxLists is the number of lists kept when no capacity is configured
const DefaultMaxLists = 10

// EnforceCapacity keeps the limit most recently accessed lists and returns them
// together with the evicted ones. Kept lists stay in their original order.
// On equal access times the list that comes first is evicted first.
// A limit below one is treated as one.
func EnforceCapacity(lists []models.PhotoList, limit int) (kept, evicted []models.PhotoList) {
	if limit < 1 {
		limit = 1
	}
	if len(lists) <= limit {
		return lists, nil
	}

	order := make([]int, len(lists))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return lists[order[a]].LastAccessedAt.Before(lists[order[b]].LastAccessedAt)
	})

	drop := make(map[int]struct{}, len(lists)-limit)
	for _, idx := range order[:len(lists)-limit] {
		drop[idx] = struct{}{}
	}

	kept = make([]models.PhotoList, 0, limit)
	for i, l := range lists {
		if _, ok := drop[i]; ok {
			evicted = append(evicted, l)
			continue
		}
		kept = append(kept, l)
	}
	return kept, evicted
}
