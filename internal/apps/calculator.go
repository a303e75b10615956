package apps

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/dop251/goja"

	"github.com/eliteGoblin/wasp/internal/domain"
)

const (
	calcKeyWidth  = 47
	calcKeyHeight = 48
	calcColumns   = 5
	calcRows      = 4
	calcDigits    = 12
	calcTimeout   = 100 * time.Millisecond
)

// calcKeys is the keypad, row by row.
const calcKeys = "789+(" +
	"456-)" +
	"123*^" +
	"C0./="

// ErrExpression is returned for keypad input that does not evaluate to a
// finite number.
var ErrExpression = errors.New("cannot evaluate expression")

// Calculator is a keypad calculator. The top row shows the input, with a
// backspace area on its right.
type Calculator struct {
	Base
	output string
}

// CalculatorFactory builds Calculator.
func CalculatorFactory() domain.AppFactory {
	return domain.AppFactory{Name: "Calc", New: func(sys domain.System) domain.Application {
		return &Calculator{Base: newBase(sys, "Calc", calcIcon)}
	}}
}

func (c *Calculator) Foreground() error {
	c.paint()
	c.update()
	c.sys.RequestEvent(domain.MaskTouch)
	return nil
}

func (c *Calculator) Background() error { return nil }

// Output is the text on the display line.
func (c *Calculator) Output() string { return c.output }

// Touch presses the key under the finger. A failed evaluation vibrates
// and keeps the input.
func (c *Calculator) Touch(event domain.TouchEvent) error {
	if event.Y < calcKeyHeight {
		if event.X > 200 && c.output != "" {
			c.output = c.output[:len(c.output)-1]
		}
		c.update()
		return nil
	}

	col := max(0, min(event.X/calcKeyWidth, calcColumns-1))
	row := max(0, min(event.Y/calcKeyHeight-1, calcRows-1))
	switch key := calcKeys[row*calcColumns+col]; key {
	case 'C':
		c.output = ""
	case '=':
		v, err := Evaluate(c.output)
		if err != nil {
			c.vibrate()
			break
		}
		c.output = v[:min(len(v), calcDigits)]
	default:
		c.output += string(key)
	}
	c.update()
	return nil
}

// Evaluate computes an arithmetic expression typed on the keypad, where ^
// raises to a power.
func Evaluate(expr string) (string, error) {
	if strings.TrimSpace(expr) == "" {
		return "", ErrExpression
	}

	vm := goja.New()
	timer := time.AfterFunc(calcTimeout, func() { vm.Interrupt("timeout") })
	defer timer.Stop()

	// Strict mode rejects legacy octal literals such as 010.
	v, err := vm.RunString(`"use strict";` + strings.ReplaceAll(expr, "^", "**"))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrExpression, err)
	}
	if f := v.ToFloat(); math.IsNaN(f) || math.IsInf(f, 0) {
		return "", fmt.Errorf("%w: %s", ErrExpression, v)
	}
	return v.String(), nil
}

func (c *Calculator) paint() {
	c.clear()
	draw := c.draw()
	theme := c.sys.Theme()

	draw.Fill(theme.Contrast(), 141, 48, 239-141, 235-48)
	draw.Fill(theme.UI(), 0, 48, 140, 235-48)
	for i := 1; i <= calcRows; i++ {
		draw.Line(0, i*calcKeyWidth, 239, i*calcKeyWidth, 1, theme.Mid())
		draw.Line(i*calcKeyWidth, calcKeyWidth, i*calcKeyWidth, 235, 1, theme.Mid())
	}

	draw.SetColor(theme.Bright(), 0)
	for i := 0; i < len(calcKeys); i++ {
		x, y := i%calcColumns, i/calcColumns
		draw.String(string(calcKeys[i]), x*calcKeyWidth+14, y*calcKeyWidth+60, 0)
	}
	draw.String("<", 215, 10, 0)
}

func (c *Calculator) update() {
	out := c.output
	if len(out) > calcDigits {
		out = out[len(out)-calcDigits:]
	}
	draw := c.draw()
	draw.Fill(0, 0, 0, 200, calcKeyHeight-1)
	draw.SetColor(c.sys.Theme().Bright(), 0)
	draw.String(out, 0, 14, 200)
}
