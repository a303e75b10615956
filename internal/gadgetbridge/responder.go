package gadgetbridge

import (
	"encoding/json"
	"io"
	"sync"
)

// Responder writes messages back to the phone, one JSON object per line
// terminated by CRLF.
type Responder struct {
	mu sync.Mutex
	w  io.Writer
}

// NewResponder creates a responder writing to w.
func NewResponder(w io.Writer) *Responder {
	return &Responder{w: w}
}

// Info sends an informational message.
func (r *Responder) Info(msg string) error {
	return r.send(map[string]string{"t": "info", "msg": msg})
}

// Error reports a command failure.
func (r *Responder) Error(msg string) error {
	return r.send(map[string]string{"t": "error", "msg": msg})
}

// Music asks the phone's player to run cmd. It has the shape of
// apps.MusicSender.
func (r *Responder) Music(cmd string) error {
	return r.send(map[string]string{"t": "music", "n": cmd})
}

func (r *Responder) send(msg map[string]string) error {
	b, err := json.Marshal(msg)
	if err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	_, err = r.w.Write(append(b, '\r', '\n'))
	return err
}
