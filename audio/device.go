package audio

import "io"

// Source is what a Device pulls frames from. *Engine implements it.
type Source interface {
	io.Reader
	Render(dst []float32)
	SampleRate() int
	Channels() int
}

// Device is an audio output. Open may start pulling from src immediately.
type Device interface {
	Name() string
	Open(src Source) error
	Close() error
}

type offlineDevice struct{}

// Offline returns a device that outputs nothing. The engine clock only
// moves when the caller renders, which is what tests and file rendering
// want.
func Offline() Device {
	return offlineDevice{}
}

func (offlineDevice) Name() string          { return "offline" }
func (offlineDevice) Open(src Source) error { return nil }
func (offlineDevice) Close() error          { return nil }
