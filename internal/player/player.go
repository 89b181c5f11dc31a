package player

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
	"github.com/gopxl/beep/speaker"
	"github.com/gopxl/beep/wav"
)

var ErrNotLoaded = errors.New("no audio loaded")

// Player wraps one WAV resource in a minimal transport: play/pause, seek,
// mute, and position/duration tracking. Loading a new resource replaces the
// previous one. When the audio device cannot be initialized the player
// reports the error and the caller degrades to script-only display.
type Player struct {
	file     *os.File
	streamer beep.StreamSeekCloser
	format   beep.Format
	ctrl     *beep.Ctrl
	volume   *effects.Volume
}

func New() *Player {
	return &Player{}
}

// Load opens a downloaded WAV file and prepares it for playback, paused at
// the start.
func (p *Player) Load(path string) error {
	p.Close()

	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open audio: %w", err)
	}
	streamer, format, err := wav.Decode(f)
	if err != nil {
		f.Close()
		return fmt.Errorf("decode audio: %w", err)
	}

	if err := speaker.Init(format.SampleRate, format.SampleRate.N(time.Second/10)); err != nil {
		streamer.Close()
		f.Close()
		return fmt.Errorf("init audio device: %w", err)
	}

	ctrl := &beep.Ctrl{Streamer: streamer, Paused: true}
	volume := &effects.Volume{Streamer: ctrl, Base: 2}

	p.file = f
	p.streamer = streamer
	p.format = format
	p.ctrl = ctrl
	p.volume = volume

	speaker.Play(volume)
	return nil
}

func (p *Player) Loaded() bool { return p.streamer != nil }

// TogglePlay flips between playing and paused and reports whether playback
// is now active. A stream that already ran to the end rewinds first.
func (p *Player) TogglePlay() (bool, error) {
	if p.ctrl == nil {
		return false, ErrNotLoaded
	}
	speaker.Lock()
	defer speaker.Unlock()
	if p.ctrl.Paused && p.streamer.Position() >= p.streamer.Len() {
		if err := p.streamer.Seek(0); err != nil {
			return false, fmt.Errorf("rewind audio: %w", err)
		}
	}
	p.ctrl.Paused = !p.ctrl.Paused
	return !p.ctrl.Paused, nil
}

// Pause stops playback without discarding position.
func (p *Player) Pause() {
	if p.ctrl == nil {
		return
	}
	speaker.Lock()
	p.ctrl.Paused = true
	speaker.Unlock()
}

func (p *Player) Playing() bool {
	if p.ctrl == nil {
		return false
	}
	speaker.Lock()
	defer speaker.Unlock()
	return !p.ctrl.Paused
}

// ToggleMute flips the mute state and reports whether audio is now muted.
func (p *Player) ToggleMute() (bool, error) {
	if p.volume == nil {
		return false, ErrNotLoaded
	}
	speaker.Lock()
	p.volume.Silent = !p.volume.Silent
	muted := p.volume.Silent
	speaker.Unlock()
	return muted, nil
}

func (p *Player) Muted() bool {
	if p.volume == nil {
		return false
	}
	speaker.Lock()
	defer speaker.Unlock()
	return p.volume.Silent
}

// SeekBy moves the playhead by delta, clamped to the stream bounds.
func (p *Player) SeekBy(delta time.Duration) error {
	if p.streamer == nil {
		return ErrNotLoaded
	}
	speaker.Lock()
	defer speaker.Unlock()

	pos := p.streamer.Position() + p.format.SampleRate.N(delta)
	if pos < 0 {
		pos = 0
	}
	if max := p.streamer.Len() - 1; pos > max {
		pos = max
	}
	if err := p.streamer.Seek(pos); err != nil {
		return fmt.Errorf("seek audio: %w", err)
	}
	return nil
}

// Position reports the current playhead time.
func (p *Player) Position() time.Duration {
	if p.streamer == nil {
		return 0
	}
	speaker.Lock()
	defer speaker.Unlock()
	return p.format.SampleRate.D(p.streamer.Position())
}

// Duration reports the total stream length.
func (p *Player) Duration() time.Duration {
	if p.streamer == nil {
		return 0
	}
	speaker.Lock()
	defer speaker.Unlock()
	return p.format.SampleRate.D(p.streamer.Len())
}

// Ended reports whether the playhead has reached the end of the stream.
func (p *Player) Ended() bool {
	if p.streamer == nil {
		return false
	}
	speaker.Lock()
	defer speaker.Unlock()
	return p.streamer.Position() >= p.streamer.Len()
}

// Close releases the loaded stream. Safe to call with nothing loaded.
func (p *Player) Close() {
	if p.ctrl != nil {
		speaker.Lock()
		p.ctrl.Paused = true
		speaker.Unlock()
		speaker.Clear()
	}
	if p.streamer != nil {
		p.streamer.Close()
		p.streamer = nil
	}
	if p.file != nil {
		p.file.Close()
		p.file = nil
	}
	p.ctrl = nil
	p.volume = nil
}
