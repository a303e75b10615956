package apps

import "github.com/eliteGoblin/wasp/internal/domain"

// Torch turns the screen into a flashlight. It is also the home app of
// last resort when no watch face was registered.
type Torch struct {
	Base
	activated  bool
	brightness int
}

// TorchFactory builds Torch.
func TorchFactory() domain.AppFactory {
	return domain.AppFactory{Name: "Torch", New: func(sys domain.System) domain.Application {
		return &Torch{Base: newBase(sys, "Torch", torchIcon)}
	}}
}

func (t *Torch) Foreground() error {
	t.brightness = t.sys.Brightness()
	t.paint()
	t.sys.RequestTick(1000)
	t.sys.RequestEvent(domain.MaskTouch | domain.MaskButton)
	return nil
}

func (t *Torch) Background() error {
	t.activated = false
	t.sys.SetBrightness(t.brightness)
	return nil
}

// Tick keeps the display on while the torch is in use.
func (t *Torch) Tick(int) error {
	t.sys.KeepAwake()
	return nil
}

func (t *Torch) Touch(domain.TouchEvent) error {
	t.toggle()
	return nil
}

func (t *Torch) Press(_ int, state bool) (bool, error) {
	if state {
		t.toggle()
	}
	return false, nil
}

func (t *Torch) Activated() bool { return t.activated }

func (t *Torch) toggle() {
	t.activated = !t.activated
	t.paint()
}

func (t *Torch) paint() {
	draw := t.draw()
	if t.activated {
		draw.Fill(0xffff, 0, 0, screenSize, screenSize)
		t.paintTorch(0, 0)
		t.sys.SetBrightness(3)
		return
	}
	t.clear()
	t.paintTorch(t.sys.Theme().Spot1(), 0xffff)
	t.sys.SetBrightness(t.brightness)
}

func (t *Torch) paintTorch(torch, light uint16) {
	draw := t.draw()
	draw.Fill(torch, 108, 107, 24, 9)
	for i := 0; i < 7; i++ {
		draw.Line(109+i, 116+i, 130-i, 116+i, 1, torch)
	}
	draw.Fill(torch, 116, 123, 8, 15)
	draw.Line(105, 94, 113, 102, 2, light)
	draw.Line(125, 102, 133, 94, 2, light)
	draw.Line(119, 89, 119, 100, 2, light)
}
