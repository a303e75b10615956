package apps

import (
	"github.com/eliteGoblin/wasp/internal/domain"
	"github.com/eliteGoblin/wasp/internal/widgets"
)

const softwarePage = 5

type softwareItem struct {
	entry Entry
	box   *widgets.Checkbox
}

// Software enables and disables launcher apps. Choices are stored so they
// survive a restart.
type Software struct {
	Base
	catalog *Catalog
	prefs   domain.PreferenceStore
	items   []softwareItem
	page    int
	scroll  *widgets.ScrollIndicator
}

// SoftwareFactory builds the Software app over catalog.
func SoftwareFactory(catalog *Catalog, prefs domain.PreferenceStore) domain.AppFactory {
	return domain.AppFactory{Name: "Software", New: func(sys domain.System) domain.Application {
		return &Software{
			Base:    newBase(sys, "Software", softwareIcon),
			catalog: catalog,
			prefs:   prefs,
		}
	}}
}

func (s *Software) Foreground() error {
	installed := make(map[string]bool)
	for _, app := range s.sys.LauncherRing() {
		installed[app.Name()] = true
	}

	s.items = s.items[:0]
	y := 0
	for _, e := range s.catalog.Entries(KindApp) {
		// Software cannot disable itself.
		if e.Name() == s.Name() {
			continue
		}
		box := widgets.NewCheckbox(0, y, e.Name())
		box.State = installed[e.Name()]
		s.items = append(s.items, softwareItem{entry: e, box: box})
		y += 40
		if y > 160 {
			y = 0
		}
	}

	s.page = 0
	s.scroll = widgets.NewScrollIndicator(0)
	s.paint()
	s.sys.RequestEvent(domain.MaskTouch | domain.MaskSwipeUpDown)
	return nil
}

func (s *Software) Background() error {
	s.items = nil
	return nil
}

func (s *Software) Page() int { return s.page }

func (s *Software) lastPage() int {
	if len(s.items) == 0 {
		return 0
	}
	return (len(s.items) - 1) / softwarePage
}

func (s *Software) pageItems() []softwareItem {
	i := s.page * softwarePage
	j := min(i+softwarePage, len(s.items))
	return s.items[i:j]
}

// Swipe pages through the list, wrapping at both ends.
func (s *Software) Swipe(event domain.TouchEvent) (bool, error) {
	last := s.lastPage()
	switch event.Type {
	case domain.EventDown:
		if s.page > 0 {
			s.page--
		} else {
			s.page = last
		}
	case domain.EventUp:
		if s.page < last {
			s.page++
		} else {
			s.page = 0
		}
	}

	mute := s.sys.Watch().Display.Mute
	mute(true)
	s.paint()
	mute(false)
	return false, nil
}

// Touch toggles the checkbox under the finger and installs or removes the
// matching app.
func (s *Software) Touch(event domain.TouchEvent) error {
	for _, item := range s.pageItems() {
		if !item.box.Touch(event) {
			continue
		}
		name := item.entry.Name()
		value := prefOff
		if item.box.State {
			s.sys.Register(item.entry.Factory, domain.RegisterOptions{})
			value = prefOn
		} else {
			s.sys.Unregister(name)
		}
		item.box.Update(s.draw(), s.sys.Theme())
		return setPref(s.prefs, appPrefKey(name), value)
	}
	return nil
}

func (s *Software) paint() {
	s.clear()
	theme := s.sys.Theme()
	s.scroll.Up = s.lastPage() > 0
	s.scroll.Down = s.scroll.Up
	s.scroll.Draw(s.draw(), theme)
	for _, item := range s.pageItems() {
		item.box.Draw(s.draw(), theme)
	}
}
