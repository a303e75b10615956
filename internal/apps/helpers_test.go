package apps

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/eliteGoblin/wasp/internal/domain"
	"github.com/eliteGoblin/wasp/internal/infra"
	"github.com/eliteGoblin/wasp/internal/system"
)

var testEpoch = time.Date(2024, 3, 9, 12, 0, 0, 0, time.UTC)

type testSystem struct {
	*system.Manager
	sim *infra.SimWatch
	rtc *infra.ManualRTC
}

// newTestSystem builds a manager on simulated hardware with the shell
// apps wired in. Apps still need registering.
func newTestSystem(t *testing.T) *testSystem {
	t.Helper()
	rtc := infra.NewManualRTC(testEpoch)
	sim := infra.NewSimWatch(rtc)
	m := system.NewManager(system.DefaultConfig(), sim.Watch(), zap.NewNop()).
		WithLauncher(LauncherFactory()).
		WithFallback(TorchFactory())
	return &testSystem{Manager: m, sim: sim, rtc: rtc}
}

// startDefault installs the default catalog and activates the home app.
func startDefault(t *testing.T, prefs domain.PreferenceStore, music MusicSender) (*testSystem, *Catalog) {
	t.Helper()
	ts := newTestSystem(t)
	catalog := NewDefaultCatalog(prefs, music)
	require.NoError(t, catalog.Install(ts, prefs))
	require.NoError(t, ts.SecondaryInit())
	return ts, catalog
}

// switchTo activates the ring app called name.
func (ts *testSystem) switchTo(t *testing.T, name string) domain.Application {
	t.Helper()
	for _, app := range append(ts.QuickRing(), ts.LauncherRing()...) {
		if app.Name() == name {
			require.NoError(t, ts.Switch(app))
			return app
		}
	}
	t.Fatalf("%s is not registered", name)
	return nil
}

func (ts *testSystem) touch(t *testing.T, event domain.TouchEvent) {
	t.Helper()
	require.NoError(t, ts.HandleTouch(event))
}

func swipe(kind domain.EventType) domain.TouchEvent { return domain.TouchEvent{Type: kind} }

func tap(x, y int) domain.TouchEvent {
	return domain.TouchEvent{Type: domain.EventTouch, X: x, Y: y}
}

// mockPreferences is an in-memory preference store.
type mockPreferences struct {
	values map[string]string
	err    error
}

func newMockPreferences() *mockPreferences {
	return &mockPreferences{values: make(map[string]string)}
}

func (p *mockPreferences) Get(key string) (string, bool, error) {
	if p.err != nil {
		return "", false, p.err
	}
	v, ok := p.values[key]
	return v, ok, nil
}

func (p *mockPreferences) Set(key, value string) error {
	if p.err != nil {
		return p.err
	}
	p.values[key] = value
	return nil
}

func (p *mockPreferences) All() (map[string]string, error) {
	out := make(map[string]string, len(p.values))
	for k, v := range p.values {
		out[k] = v
	}
	return out, p.err
}

func (p *mockPreferences) Close() error { return nil }

var errStore = errors.New("store unavailable")

// stubApp is a bare application for filling rings.
type stubApp struct{ name string }

func (a *stubApp) Name() string      { return a.name }
func (a *stubApp) Icon() domain.Icon { return nil }
func (a *stubApp) Foreground() error { return nil }
func (a *stubApp) Background() error { return nil }

func stubFactory(name string) domain.AppFactory {
	return domain.AppFactory{Name: name, New: func(domain.System) domain.Application {
		return &stubApp{name: name}
	}}
}
