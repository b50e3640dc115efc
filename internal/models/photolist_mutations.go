package models

import "time"

// The functions below never modify their input; each returns a new list value
// whose photo slice is not shared with the original.

// AddPhotos appends the incoming photos whose hothash is not already in the
// list, keeping incoming order. When incoming repeats a hash the first
// occurrence wins.
func AddPhotos(l PhotoList, incoming []Photo, now time.Time) PhotoList {
	existing := make(map[string]struct{}, len(l.Photos))
	for _, p := range l.Photos {
		existing[p.Hothash] = struct{}{}
	}

	out := l.Clone()
	added := 0
	for _, p := range incoming {
		if _, ok := existing[p.Hothash]; ok {
			continue
		}
		existing[p.Hothash] = struct{}{}
		out.Photos = append(out.Photos, clonePhotos([]Photo{p})...)
		added++
	}

	out.TotalCount = l.TotalCount + added
	out.Modified = true
	out.LastAccessedAt = now
	return out
}

// RemovePhotos drops every photo whose hothash is in hothashes. The total
// count collapses to what is left in memory.
func RemovePhotos(l PhotoList, hothashes []string, now time.Time) PhotoList {
	drop := make(map[string]struct{}, len(hothashes))
	for _, h := range hothashes {
		drop[h] = struct{}{}
	}

	out := l.Clone()
	kept := out.Photos[:0]
	for _, p := range out.Photos {
		if _, ok := drop[p.Hothash]; !ok {
			kept = append(kept, p)
		}
	}
	out.Photos = kept
	out.TotalCount = len(kept)
	out.Modified = true
	out.LastAccessedAt = now
	return out
}

// ReplacePhotos swaps in a new photo set, as when refreshing from the source.
// Repeated hothashes are dropped. It leaves Modified untouched.
func ReplacePhotos(l PhotoList, photos []Photo, now time.Time) PhotoList {
	out := l.Clone()
	out.Photos = uniquePhotos(photos)
	out.TotalCount = len(out.Photos)
	out.LastAccessedAt = now
	return out
}

// MarkAccessed refreshes the eviction key
func MarkAccessed(l PhotoList, now time.Time) PhotoList {
	out := l.Clone()
	out.LastAccessedAt = now
	return out
}

// MarkModified sets the dirty flag and refreshes the eviction key
func MarkModified(l PhotoList, modified bool, now time.Time) PhotoList {
	out := l.Clone()
	out.Modified = modified
	out.LastAccessedAt = now
	return out
}
