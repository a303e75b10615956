package apps

import "time"

const (
	screenSize    = 240
	feedbackPulse = 50 * time.Millisecond
)

// 2-bit RLE launcher icons: header (bits, width, height) followed by runs.
var (
	torchIcon     = []byte{0x02, 0x40, 0x40, 0x3f, 0xff, 0xc0, 0x8a, 0x3f, 0xff, 0x7f}
	softwareIcon  = []byte{0x02, 0x40, 0x40, 0x3f, 0xc1, 0x9c, 0x81, 0x3f, 0xff, 0x7f}
	facesIcon     = []byte{0x02, 0x40, 0x40, 0x1e, 0x81, 0xe4, 0x3c, 0xf0, 0x2f, 0x7f}
	stopwatchIcon = []byte{0x02, 0x40, 0x40, 0x3f, 0xff, 0xdd, 0xc1, 0x4a, 0x36, 0x7f}
	weatherIcon   = []byte{0x02, 0x40, 0x40, 0x3f, 0xc4, 0x91, 0xd2, 0x3f, 0xff, 0x7f}
	musicIcon     = []byte{0x02, 0x40, 0x40, 0x3f, 0x9a, 0xc6, 0x8e, 0x3f, 0xff, 0x7f}
	timerIcon     = []byte{0x02, 0x40, 0x40, 0x3f, 0xff, 0x95, 0x9c, 0x25, 0x9a, 0x7f}
	calcIcon      = []byte{0x02, 0x40, 0x40, 0x3f, 0xff, 0x89, 0xac, 0x57, 0x04, 0x7f}
	appIcon       = []byte{0x02, 0x40, 0x40, 0x3f, 0xff, 0x80, 0x80, 0x3f, 0xff, 0x7f}
)
