package apps

import (
	"fmt"
	"sort"

	"github.com/eliteGoblin/wasp/internal/domain"
)

// Kind says where an app normally lives.
type Kind int

const (
	KindApp  Kind = iota // launcher ring, toggled by Software
	KindFace             // watch face, chosen by Faces
	KindQuick            // quick ring
)

func (k Kind) String() string {
	switch k {
	case KindFace:
		return "face"
	case KindQuick:
		return "quick"
	default:
		return "app"
	}
}

// Entry describes one installable application.
type Entry struct {
	Factory domain.AppFactory
	Kind    Kind
	// Enabled apps are registered at start up unless a stored preference
	// says otherwise.
	Enabled bool
}

func (e Entry) Name() string { return e.Factory.Name }

// Catalog holds every application the firmware knows how to build.
type Catalog struct {
	entries map[string]Entry
}

// NewCatalog creates an empty catalog.
func NewCatalog(entries ...Entry) *Catalog {
	c := &Catalog{entries: make(map[string]Entry)}
	for _, e := range entries {
		c.Register(e)
	}
	return c
}

// NewDefaultCatalog creates the catalog of bundled applications.
// prefs may be nil, in which case Software and Faces do not persist.
func NewDefaultCatalog(prefs domain.PreferenceStore, music MusicSender) *Catalog {
	c := NewCatalog(
		Entry{Factory: ClockFactory(), Kind: KindFace, Enabled: true},
		Entry{Factory: ChronoFactory(), Kind: KindFace},
		Entry{Factory: StopwatchFactory(), Kind: KindQuick, Enabled: true},
		Entry{Factory: WeatherFactory(), Kind: KindApp},
		Entry{Factory: MusicFactory(music), Kind: KindApp},
		Entry{Factory: TorchFactory(), Kind: KindApp, Enabled: true},
		Entry{Factory: TimerFactory(), Kind: KindApp},
		Entry{Factory: CalculatorFactory(), Kind: KindApp},
	)
	c.Register(Entry{Factory: FacesFactory(c, prefs), Kind: KindApp, Enabled: true})
	c.Register(Entry{Factory: SoftwareFactory(c, prefs), Kind: KindApp, Enabled: true})
	return c
}

// Register adds or replaces an entry.
func (c *Catalog) Register(e Entry) {
	c.entries[e.Name()] = e
}

// Get returns an entry by app name.
func (c *Catalog) Get(name string) (Entry, bool) {
	e, ok := c.entries[name]
	return e, ok
}

// List returns all app names, sorted.
func (c *Catalog) List() []string {
	names := make([]string, 0, len(c.entries))
	for name := range c.entries {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Entries returns the entries of the given kind sorted by name.
func (c *Catalog) Entries(kind Kind) []Entry {
	var out []Entry
	for _, name := range c.List() {
		if e := c.entries[name]; e.Kind == kind {
			out = append(out, e)
		}
	}
	return out
}

// Faces returns the watch faces sorted by name.
func (c *Catalog) Faces() []Entry { return c.Entries(KindFace) }

// Install registers the start up set on sys: the stored (or first) watch
// face, every quick ring app, and each launcher app that is enabled.
func (c *Catalog) Install(sys domain.System, prefs domain.PreferenceStore) error {
	entries, err := c.Describe(prefs)
	if err != nil {
		return err
	}
	// The face must land in slot 0 before the quick ring grows.
	for _, kind := range []Kind{KindFace, KindQuick, KindApp} {
		for _, e := range entries {
			if !e.Enabled || e.Kind != kind {
				continue
			}
			sys.Register(e.Factory, domain.RegisterOptions{
				WatchFace: kind == KindFace,
				QuickRing: kind == KindQuick,
			})
		}
	}
	return nil
}

// Describe returns every entry sorted by name, with Enabled resolved
// against the stored preferences: exactly one face, all quick ring apps,
// and the launcher apps switched on.
func (c *Catalog) Describe(prefs domain.PreferenceStore) ([]Entry, error) {
	face, err := c.face(prefs)
	if err != nil {
		return nil, err
	}

	var out []Entry
	for _, name := range c.List() {
		e := c.entries[name]
		switch e.Kind {
		case KindFace:
			e.Enabled = name == face
		case KindQuick:
			e.Enabled = true
		default:
			v, ok, err := getPref(prefs, appPrefKey(name))
			if err != nil {
				return nil, err
			}
			if ok {
				e.Enabled = v == prefOn
			}
		}
		out = append(out, e)
	}
	return out, nil
}

// face picks the stored watch face, else the first enabled one, else the
// first by name.
func (c *Catalog) face(prefs domain.PreferenceStore) (string, error) {
	faces := c.Faces()
	if len(faces) == 0 {
		return "", nil
	}
	name, ok, err := getPref(prefs, prefFace)
	if err != nil {
		return "", err
	}
	if ok {
		if e, found := c.Get(name); found && e.Kind == KindFace {
			return name, nil
		}
	}
	for _, f := range faces {
		if f.Enabled {
			return f.Name(), nil
		}
	}
	return faces[0].Name(), nil
}

const (
	prefFace = "face"
	prefOn   = "on"
	prefOff  = "off"
)

func appPrefKey(name string) string { return "app." + name }

func getPref(prefs domain.PreferenceStore, key string) (string, bool, error) {
	if prefs == nil {
		return "", false, nil
	}
	v, ok, err := prefs.Get(key)
	if err != nil {
		return "", false, fmt.Errorf("read preference %s: %w", key, err)
	}
	return v, ok, nil
}

func setPref(prefs domain.PreferenceStore, key, value string) error {
	if prefs == nil {
		return nil
	}
	if err := prefs.Set(key, value); err != nil {
		return fmt.Errorf("store preference %s: %w", key, err)
	}
	return nil
}
