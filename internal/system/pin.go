package system

import "github.com/eliteGoblin/wasp/internal/domain"

// PinHandler turns a level-triggered pin into edge events.
type PinHandler struct {
	pin   domain.Pin
	value bool
}

// NewPinHandler samples the current level so that the first call to
// GetEvent only reports a real change.
func NewPinHandler(pin domain.Pin) *PinHandler {
	return &PinHandler{pin: pin, value: pin.Value()}
}

// GetEvent returns the new level and true when the pin changed since the
// previous call.
func (h *PinHandler) GetEvent() (bool, bool) {
	v := h.pin.Value()
	if v == h.value {
		return false, false
	}
	h.value = v
	return v, true
}
