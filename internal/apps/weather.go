package apps

import (
	"fmt"
	"strconv"

	"github.com/eliteGoblin/wasp/internal/domain"
)

// Weather shows the latest report pushed by the phone.
type Weather struct {
	Base
	shown map[string]string
}

// WeatherFactory builds Weather.
func WeatherFactory() domain.AppFactory {
	return domain.AppFactory{Name: "Weather", New: func(sys domain.System) domain.Application {
		return &Weather{Base: newBase(sys, "Weather", weatherIcon)}
	}}
}

func (w *Weather) Foreground() error {
	w.shown = nil
	w.paint()
	w.sys.RequestTick(1000)
	return nil
}

func (w *Weather) Background() error { return nil }

func (w *Weather) Tick(int) error {
	w.sys.Bar().Update()
	if !sameFields(w.shown, w.sys.WeatherInfo()) {
		w.paint()
	}
	return nil
}

func (w *Weather) paint() {
	info := w.sys.WeatherInfo()
	w.shown = info

	w.clear()
	w.sys.Bar().Draw()
	draw := w.draw()
	draw.SetColor(w.sys.Theme().Bright(), 0)
	if info == nil {
		draw.String("No weather data", 0, 108, screenSize)
		return
	}
	temp, wind := FormatWeather(info, w.sys.Units())
	draw.String(temp, 0, 60, screenSize)
	draw.String(info["txt"], 0, 108, screenSize)
	draw.SetColor(w.sys.Theme().Mid(), 0)
	draw.String(wind, 0, 150, screenSize)
	draw.String(info["loc"], 0, 190, screenSize)
}

// FormatWeather renders the temperature (reported in Kelvin) and the wind
// speed (reported in km/h) for the configured units.
func FormatWeather(info map[string]string, units string) (temp, wind string) {
	if k, err := strconv.ParseFloat(info["temp"], 64); err == nil {
		c := k - 273.15
		if units == "Imperial" {
			temp = fmt.Sprintf("%.0f°F", c*9/5+32)
		} else {
			temp = fmt.Sprintf("%.0f°C", c)
		}
	}
	if v, err := strconv.ParseFloat(info["wind"], 64); err == nil {
		if units == "Imperial" {
			wind = fmt.Sprintf("Wind: %.0fmph", v*0.621371)
		} else {
			wind = fmt.Sprintf("Wind: %.0fkm/h", v)
		}
	}
	return temp, wind
}

func sameFields(a, b map[string]string) bool {
	if len(a) != len(b) || (a == nil) != (b == nil) {
		return false
	}
	for k, v := range a {
		if b[k] != v {
			return false
		}
	}
	return true
}
