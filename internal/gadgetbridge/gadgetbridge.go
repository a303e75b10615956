// Package gadgetbridge decodes the phone companion protocol. Each command
// is one line of JSON, optionally wrapped as GB({...}), carrying its kind
// in the "t" field.
package gadgetbridge

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/eliteGoblin/wasp/internal/domain"
)

var (
	// ErrMalformed is returned for lines that are not a JSON object.
	ErrMalformed = errors.New("malformed command")
	// ErrMissingField is returned when a command lacks a required field.
	ErrMissingField = errors.New("missing field")
)

// Command is one decoded phone command.
type Command struct {
	Type   string
	Fields map[string]any
}

// Target is the part of the manager the phone writes to. Every method
// only stores the latest value; apps pick changes up on their next tick.
type Target interface {
	Watch() *domain.Watch
	NotifyPulse() time.Duration
	Notify(id int, fields map[string]string)
	Unnotify(id int)
	SetWeatherInfo(fields map[string]string)
	SetMusicInfo(fields map[string]string)
	ToggleMusic(fields map[string]string)
}

// Parse decodes one line.
func Parse(line string) (Command, error) {
	line = strings.TrimSpace(line)
	if strings.HasPrefix(line, "GB(") && strings.HasSuffix(line, ")") {
		line = line[len("GB(") : len(line)-1]
	}

	var fields map[string]any
	if err := json.Unmarshal([]byte(line), &fields); err != nil {
		return Command{}, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if fields == nil {
		return Command{}, fmt.Errorf("%w: not an object", ErrMalformed)
	}
	t, ok := fields["t"].(string)
	if !ok {
		return Command{}, fmt.Errorf("%w: t", ErrMissingField)
	}
	delete(fields, "t")
	return Command{Type: t, Fields: fields}, nil
}

// Decoder applies phone commands to a Target.
type Decoder struct {
	target Target
	logger *zap.Logger
}

// NewDecoder creates a decoder writing to target.
func NewDecoder(target Target, logger *zap.Logger) *Decoder {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Decoder{target: target, logger: logger}
}

// Handle parses and applies one line. Unknown commands are ignored.
// It must run on the goroutine that owns the manager.
func (d *Decoder) Handle(line string) error {
	cmd, err := Parse(line)
	if err != nil {
		return err
	}
	return d.Apply(cmd)
}

// Apply executes a decoded command.
func (d *Decoder) Apply(cmd Command) error {
	vib := d.target.Watch().Vibrator

	switch cmd.Type {
	case "find":
		on, _ := cmd.Fields["n"].(bool)
		vib.Pin(on)

	case "vibrate":
		ms, err := intField(cmd.Fields, "n")
		if err != nil {
			return err
		}
		vib.Pulse(time.Duration(ms) * time.Millisecond)

	case "notify":
		id, err := intField(cmd.Fields, "id")
		if err != nil {
			return err
		}
		delete(cmd.Fields, "id")
		d.target.Notify(id, stringFields(cmd.Fields))
		vib.Pulse(d.target.NotifyPulse())

	case "notify-":
		id, err := intField(cmd.Fields, "id")
		if err != nil {
			return err
		}
		d.target.Unnotify(id)

	case "musicstate":
		d.target.ToggleMusic(stringFields(cmd.Fields))

	case "musicinfo":
		d.target.SetMusicInfo(stringFields(cmd.Fields))

	case "weather":
		d.target.SetWeatherInfo(stringFields(cmd.Fields))

	default:
		d.logger.Debug("ignoring phone command", zap.String("type", cmd.Type))
		return nil
	}

	d.logger.Debug("phone command applied", zap.String("type", cmd.Type))
	return nil
}

func intField(fields map[string]any, key string) (int, error) {
	switch v := fields[key].(type) {
	case float64:
		return int(v), nil
	case string:
		n, err := strconv.Atoi(v)
		if err != nil {
			return 0, fmt.Errorf("field %s: %w", key, err)
		}
		return n, nil
	case nil:
		return 0, fmt.Errorf("%w: %s", ErrMissingField, key)
	default:
		return 0, fmt.Errorf("field %s: unexpected %T", key, v)
	}
}

// stringFields flattens JSON values to their text form, which is all the
// apps ever display.
func stringFields(fields map[string]any) map[string]string {
	out := make(map[string]string, len(fields))
	for k, v := range fields {
		switch v := v.(type) {
		case nil:
			out[k] = ""
		case string:
			out[k] = v
		case float64:
			out[k] = strconv.FormatFloat(v, 'f', -1, 64)
		case bool:
			out[k] = strconv.FormatBool(v)
		default:
			b, _ := json.Marshal(v)
			out[k] = string(b)
		}
	}
	return out
}
