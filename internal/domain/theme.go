package domain

// Theme is the system colour palette, stored as RGB565 values.
type Theme [11]uint16

// DefaultTheme is the palette the watch boots with.
var DefaultTheme = Theme{
	0x7bef, // ble
	0x7bef, // scroll indicator
	0x7bef, // battery
	0xe73c, // status clock
	0x7bef, // notify icon
	0xffff, // bright
	0xfe20, // mid
	0xfb80, // ui
	0xff00, // spot1
	0xddd0, // spot2
	0x000f, // contrast
}

func (t Theme) BLE() uint16             { return t[0] }
func (t Theme) ScrollIndicator() uint16 { return t[1] }
func (t Theme) Battery() uint16         { return t[2] }
func (t Theme) StatusClock() uint16     { return t[3] }
func (t Theme) NotifyIcon() uint16      { return t[4] }
func (t Theme) Bright() uint16          { return t[5] }
func (t Theme) Mid() uint16             { return t[6] }
func (t Theme) UI() uint16              { return t[7] }
func (t Theme) Spot1() uint16           { return t[8] }
func (t Theme) Spot2() uint16           { return t[9] }
func (t Theme) Contrast() uint16        { return t[10] }

