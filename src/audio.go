package main

import (
	"log/slog"
	"time"

	"github.com/faiface/beep"
	"github.com/faiface/beep/effects"
	"github.com/faiface/beep/generators"
	"github.com/faiface/beep/speaker"
)

const (
	sampleRate    = beep.SampleRate(44100)
	toneFrequency = 300
	minBeepLength = 100 * time.Millisecond
)

// buzzer plays a square tone while the sound timer is running.
type buzzer struct {
	enabled bool
	beeping bool
	started time.Time
}

func newBuzzer(logger *slog.Logger) *buzzer {
	if err := speaker.Init(sampleRate, 1800); err != nil {
		logger.Warn("audio unavailable, running silent", slog.Any("error", err))
		return &buzzer{}
	}
	return &buzzer{enabled: true}
}

func (b *buzzer) update(on bool) {
	if !b.enabled {
		return
	}
	if on {
		b.start()
	} else {
		b.stop()
	}
}

func (b *buzzer) start() {
	if b.beeping {
		return
	}
	tone, err := generators.SquareTone(sampleRate, toneFrequency)
	if err != nil {
		return
	}
	speaker.Play(&effects.Volume{
		Streamer: tone,
		Base:     2,
		Volume:   -3,
		Silent:   false,
	})
	b.beeping = true
	b.started = time.Now()
}

// stop silences the tone, keeping very short beeps audible for minBeepLength.
func (b *buzzer) stop() {
	if b.beeping && time.Since(b.started) > minBeepLength {
		speaker.Clear()
		b.beeping = false
	}
}

func (b *buzzer) close() {
	if b.enabled && b.beeping {
		speaker.Clear()
		b.beeping = false
	}
}
