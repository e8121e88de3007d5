package matching

import "sort"

// Registry holds the live search profiles, at most one per ProfileKey.
// It does no locking of its own; Engine serializes access.
type Registry struct {
	profiles map[ProfileKey]*SearchProfile
	order    map[ProfileKey]uint64 // insertion sequence, for stable feeds
	seq      uint64
}

func NewRegistry() *Registry {
	return &Registry{
		profiles: make(map[ProfileKey]*SearchProfile),
		order:    make(map[ProfileKey]uint64),
	}
}

// Upsert stores p, replacing any profile with the same key. It returns the
// replaced profile, if any.
func (r *Registry) Upsert(p *SearchProfile) (replaced *SearchProfile) {
	key := p.Key()
	replaced = r.profiles[key]
	r.seq++
	r.profiles[key] = p
	r.order[key] = r.seq
	return replaced
}

// Remove deletes the profile for (userID, *listingID), or every profile of
// userID when listingID is nil. It returns the removed keys.
func (r *Registry) Remove(userID string, listingID *string) []ProfileKey {
	if listingID != nil {
		key := ProfileKey{UserID: userID, ListingID: *listingID}
		if _, ok := r.profiles[key]; !ok {
			return nil
		}
		r.delete(key)
		return []ProfileKey{key}
	}

	var removed []ProfileKey
	for key := range r.profiles {
		if key.UserID == userID {
			removed = append(removed, key)
		}
	}
	for _, key := range removed {
		r.delete(key)
	}
	sort.Slice(removed, func(i, j int) bool { return removed[i].ListingID < removed[j].ListingID })
	return removed
}

func (r *Registry) delete(key ProfileKey) {
	delete(r.profiles, key)
	delete(r.order, key)
}

func (r *Registry) Get(key ProfileKey) (*SearchProfile, bool) {
	p, ok := r.profiles[key]
	return p, ok
}

func (r *Registry) Len() int { return len(r.profiles) }

// Others returns every resident profile except the one stored under key,
// in insertion order.
func (r *Registry) Others(key ProfileKey) []*SearchProfile {
	out := make([]*SearchProfile, 0, len(r.profiles))
	for k, p := range r.profiles {
		if k != key {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return r.order[out[i].Key()] < r.order[out[j].Key()] })
	return out
}

// Feed returns every profile not owned by excludingUserID, most recently
// active first. An empty excludingUserID excludes nobody.
func (r *Registry) Feed(excludingUserID string) []*SearchProfile {
	out := make([]*SearchProfile, 0, len(r.profiles))
	for k, p := range r.profiles {
		if excludingUserID != "" && k.UserID == excludingUserID {
			continue
		}
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].LastActive.Equal(out[j].LastActive) {
			return out[i].LastActive.After(out[j].LastActive)
		}
		return r.order[out[i].Key()] < r.order[out[j].Key()]
	})
	return out
}
