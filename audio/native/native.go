//go:build !js
// +build !js

// Package native plays engine output through the operating system's audio
// stack.
package native

import (
	"fmt"

	"github.com/hajimehoshi/oto/v2"
	"github.com/simukka/guessnote/audio"
)

const formatFloat32LE = 0 // oto.FormatFloat32LE

// Device is an oto backed output. Only one may be open per process.
type Device struct {
	bufferFrames int
	ctx          *oto.Context
	player       oto.Player
}

// New returns a device that buffers roughly bufferFrames frames. Zero keeps
// oto's default.
func New(bufferFrames int) *Device {
	return &Device{bufferFrames: bufferFrames}
}

func (d *Device) Name() string { return "oto" }

// Open starts a player that pulls from src until Close.
func (d *Device) Open(src audio.Source) error {
	if d.player != nil {
		return nil
	}
	ctx, ready, err := oto.NewContext(src.SampleRate(), src.Channels(), formatFloat32LE)
	if err != nil {
		return fmt.Errorf("creating oto context: %w", err)
	}
	<-ready

	d.ctx = ctx
	d.player = ctx.NewPlayer(src)
	if d.bufferFrames > 0 {
		if bs, ok := d.player.(interface{ SetBufferSize(int) }); ok {
			bs.SetBufferSize(d.bufferFrames * src.Channels() * 4)
		}
	}
	d.player.Play()
	return nil
}

func (d *Device) Close() error {
	if d.player == nil {
		return nil
	}
	err := d.player.Close()
	d.player = nil
	if err != nil {
		return fmt.Errorf("closing oto player: %w", err)
	}
	return nil
}
