package apps

import (
	"github.com/eliteGoblin/wasp/internal/domain"
	"github.com/eliteGoblin/wasp/internal/widgets"
)

const (
	launcherCell    = 74
	launcherColumns = 3
	launcherPage    = launcherColumns * launcherColumns
)

// Launcher shows the launcher ring as pages of a 3x3 icon grid.
type Launcher struct {
	Base
	page   int
	scroll *widgets.ScrollIndicator
}

// LauncherFactory builds the launcher. It is never placed in a ring.
func LauncherFactory() domain.AppFactory {
	return domain.AppFactory{Name: "Launcher", New: func(sys domain.System) domain.Application {
		return &Launcher{Base: newBase(sys, "Launcher", nil), scroll: widgets.NewScrollIndicator(6)}
	}}
}

func (l *Launcher) Foreground() error {
	l.page = 0
	l.paint()
	l.sys.RequestEvent(domain.MaskTouch | domain.MaskSwipeUpDown)
	return nil
}

func (l *Launcher) Background() error { return nil }

func (l *Launcher) Page() int { return l.page }

func (l *Launcher) numPages() int {
	return (len(l.sys.LauncherRing()) + launcherPage - 1) / launcherPage
}

// Swipe pages through the grid. Up moves forward; down moves back and
// leaves for the home app from the first page.
func (l *Launcher) Swipe(event domain.TouchEvent) (bool, error) {
	i := l.page
	if event.Type == domain.EventUp {
		i++
		if i >= l.numPages() {
			l.vibrate()
			return false, nil
		}
	} else {
		i--
		if i < 0 {
			return false, l.sys.Switch(l.sys.Home())
		}
	}
	l.page = i
	l.paint()
	return false, nil
}

// Touch starts the app under the finger.
func (l *Launcher) Touch(event domain.TouchEvent) error {
	col := gridCell(event.X)
	row := gridCell(event.Y)
	if app := l.pageApps(l.page)[row*launcherColumns+col]; app != nil {
		return l.sys.Switch(app)
	}
	l.vibrate()
	return nil
}

// gridCell maps a coordinate to a grid column or row. Touches off the
// panel land on the nearest edge cell.
func gridCell(v int) int {
	return max(0, min(v/launcherCell, launcherColumns-1))
}

func (l *Launcher) pageApps(page int) []domain.Application {
	ring := l.sys.LauncherRing()
	out := make([]domain.Application, launcherPage)
	for i := range out {
		if j := page*launcherPage + i; j < len(ring) {
			out[i] = ring[j]
		}
	}
	return out
}

func (l *Launcher) paint() {
	l.clear()
	theme := l.sys.Theme()
	for i, app := range l.pageApps(l.page) {
		if app == nil {
			continue
		}
		icon := app.Icon()
		if icon == nil {
			icon = appIcon
		}
		x := (i % launcherColumns) * launcherCell
		y := (i / launcherColumns) * launcherCell
		l.draw().Blit(icon, x+14, y+14, theme.Bright())
	}
	l.scroll.Up = l.page > 0
	l.scroll.Down = l.page < l.numPages()-1
	l.scroll.Draw(l.draw(), theme)
}
