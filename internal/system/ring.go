package system

import (
	"sort"

	"github.com/eliteGoblin/wasp/internal/domain"
)

// Ring is an ordered list of application references.
// The quick ring keeps insertion order with the home app in slot 0; the
// launcher ring is re-sorted by name after every insertion.
type Ring struct {
	apps []domain.Application
}

func (r *Ring) Len() int { return len(r.apps) }

// At returns the app in slot i, or nil when i is out of range.
func (r *Ring) At(i int) domain.Application {
	if i < 0 || i >= len(r.apps) {
		return nil
	}
	return r.apps[i]
}

// Index returns the slot holding app, or -1.
func (r *Ring) Index(app domain.Application) int {
	if app == nil {
		return -1
	}
	for i, a := range r.apps {
		if a == app {
			return i
		}
	}
	return -1
}

func (r *Ring) Append(app domain.Application) {
	r.apps = append(r.apps, app)
}

// SetHome stores app in slot 0 and returns the app it replaced, if any.
func (r *Ring) SetHome(app domain.Application) domain.Application {
	if len(r.apps) == 0 {
		r.apps = append(r.apps, app)
		return nil
	}
	old := r.apps[0]
	r.apps[0] = app
	return old
}

// RemoveFirst drops the first app with the given name and returns it.
// A miss returns nil.
func (r *Ring) RemoveFirst(name string) domain.Application {
	for i, a := range r.apps {
		if a.Name() == name {
			r.apps = append(r.apps[:i], r.apps[i+1:]...)
			return a
		}
	}
	return nil
}

// SortByName orders the ring by name, keeping equal names in insertion order.
func (r *Ring) SortByName() {
	sort.SliceStable(r.apps, func(i, j int) bool {
		return r.apps[i].Name() < r.apps[j].Name()
	})
}

// Apps returns a copy of the ring.
func (r *Ring) Apps() []domain.Application {
	out := make([]domain.Application, len(r.apps))
	copy(out, r.apps)
	return out
}

// Names returns the app names in ring order.
func (r *Ring) Names() []string {
	names := make([]string, len(r.apps))
	for i, a := range r.apps {
		names[i] = a.Name()
	}
	return names
}
