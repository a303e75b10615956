package apps

import (
	"github.com/eliteGoblin/wasp/internal/domain"
	"github.com/eliteGoblin/wasp/internal/widgets"
)

// Faces chooses the watch face. Every swipe installs the next face as the
// home app and shows its preview.
type Faces struct {
	Base
	catalog *Catalog
	prefs   domain.PreferenceStore
	choices []Entry
	choice  int
	scroll  *widgets.ScrollIndicator
}

// FacesFactory builds the watch face chooser over catalog.
func FacesFactory(catalog *Catalog, prefs domain.PreferenceStore) domain.AppFactory {
	return domain.AppFactory{Name: "Faces", New: func(sys domain.System) domain.Application {
		return &Faces{Base: newBase(sys, "Faces", facesIcon), catalog: catalog, prefs: prefs}
	}}
}

func (f *Faces) Foreground() error {
	f.choices = f.catalog.Faces()
	f.choice = 0
	if home := f.sys.Home(); home != nil {
		for i, e := range f.choices {
			if e.Name() == home.Name() {
				f.choice = i
				break
			}
		}
	}
	f.scroll = widgets.NewScrollIndicator(0)
	f.scroll.Up, f.scroll.Down = true, true

	if err := f.update(); err != nil {
		return err
	}
	f.sys.RequestEvent(domain.MaskSwipeUpDown)
	return nil
}

// Background stores the choice and buzzes, since the change of home app is
// otherwise easy to miss.
func (f *Faces) Background() error {
	var err error
	if f.choice < len(f.choices) {
		err = setPref(f.prefs, prefFace, f.choices[f.choice].Name())
	}
	f.choices = nil
	f.vibrate()
	return err
}

// Choice returns the name of the selected face.
func (f *Faces) Choice() string {
	if f.choice >= len(f.choices) {
		return ""
	}
	return f.choices[f.choice].Name()
}

func (f *Faces) Swipe(event domain.TouchEvent) (bool, error) {
	n := len(f.choices)
	if n == 0 {
		return false, nil
	}
	switch event.Type {
	case domain.EventDown:
		f.choice = (f.choice + n - 1) % n
	case domain.EventUp:
		f.choice = (f.choice + 1) % n
	}

	mute := f.sys.Watch().Display.Mute
	mute(true)
	err := f.update()
	mute(false)
	return false, err
}

func (f *Faces) update() error {
	f.clear()
	if len(f.choices) == 0 {
		return nil
	}
	f.sys.Register(f.choices[f.choice].Factory, domain.RegisterOptions{WatchFace: true})
	if p, ok := f.sys.Home().(domain.Previewer); ok {
		if err := p.Preview(); err != nil {
			return err
		}
	}
	f.scroll.Draw(f.draw(), f.sys.Theme())
	return nil
}
