package system

import (
	"github.com/eliteGoblin/wasp/internal/domain"
)

// The setters below are called by the phone command decoder. They only
// store the latest value; apps read them on their own schedule.

// Notify stores a notification, replacing any earlier one with the same id.
func (m *Manager) Notify(id int, fields map[string]string) {
	n := domain.Notification{ID: id, Fields: copyFields(fields)}
	for i := range m.notifications {
		if m.notifications[i].ID == id {
			m.notifications[i] = n
			return
		}
	}
	m.notifications = append(m.notifications, n)
}

// Unnotify drops the notification with id. Unknown ids are ignored.
func (m *Manager) Unnotify(id int) {
	for i := range m.notifications {
		if m.notifications[i].ID == id {
			m.notifications = append(m.notifications[:i], m.notifications[i+1:]...)
			return
		}
	}
}

// Notifications returns the pending notifications, oldest first.
func (m *Manager) Notifications() []domain.Notification {
	out := make([]domain.Notification, len(m.notifications))
	copy(out, m.notifications)
	return out
}

func (m *Manager) SetWeatherInfo(fields map[string]string) {
	m.weather = copyFields(fields)
}

func (m *Manager) WeatherInfo() map[string]string { return copyFields(m.weather) }

func (m *Manager) SetMusicInfo(fields map[string]string) {
	m.music = copyFields(fields)
}

func (m *Manager) MusicInfo() map[string]string { return copyFields(m.music) }

// ToggleMusic records the playback state from a musicstate command.
func (m *Manager) ToggleMusic(fields map[string]string) {
	if fields["state"] == string(domain.MusicPlay) {
		m.musicState = domain.MusicPlay
	} else {
		m.musicState = domain.MusicPause
	}
}

func (m *Manager) MusicState() domain.MusicState { return m.musicState }

func copyFields(fields map[string]string) map[string]string {
	if fields == nil {
		return nil
	}
	out := make(map[string]string, len(fields))
	for k, v := range fields {
		out[k] = v
	}
	return out
}
