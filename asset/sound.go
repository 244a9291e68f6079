package asset

import (
	"time"

	"github.com/gopxl/beep"

	"github.com/lixenwraith/posaudio/constant"
)

// Sound is a fully decoded one-shot or looping sample held in memory
// Immutable after construction; safe to share across voices
type Sound struct {
	name string
	buf  *beep.Buffer
	loop bool
}

// NewSound wraps a decoded buffer
func NewSound(name string, buf *beep.Buffer) *Sound {
	return &Sound{name: name, buf: buf}
}

// SoundFromSamples copies stereo frames into a new sound at rate
func SoundFromSamples(name string, rate beep.SampleRate, samples [][2]float64) *Sound {
	buf := beep.NewBuffer(stereoFormat(rate))
	buf.Append(sliceStreamer(samples))
	return NewSound(name, buf)
}

// Looped returns a view of s that repeats until stopped; the buffer is shared
func (s *Sound) Looped() *Sound {
	return &Sound{name: s.name, buf: s.buf, loop: true}
}

// Loops reports whether playback repeats
func (s *Sound) Loops() bool { return s.loop }

// Name implements audio.Sound
func (s *Sound) Name() string { return s.name }

// Format returns the buffer format; SampleRate drives resampling in the mixer
func (s *Sound) Format() beep.Format { return s.buf.Format() }

// Len returns the length in frames
func (s *Sound) Len() int { return s.buf.Len() }

// Duration returns the playback length at unity pitch
func (s *Sound) Duration() time.Duration {
	return s.buf.Format().SampleRate.D(s.buf.Len())
}

// Streamer returns a fresh independent reader over the whole sound
func (s *Sound) Streamer() beep.StreamSeeker {
	return s.buf.Streamer(0, s.buf.Len())
}

// Playback returns the stream a voice plays: endless for looped sounds
func (s *Sound) Playback() beep.Streamer {
	if s.loop && s.buf.Len() > 0 {
		return beep.Loop(-1, s.Streamer())
	}
	return s.Streamer()
}

func stereoFormat(rate beep.SampleRate) beep.Format {
	return beep.Format{SampleRate: rate, NumChannels: 2, Precision: constant.AudioPrecision}
}

// sliceStreamer drains samples once
func sliceStreamer(samples [][2]float64) beep.Streamer {
	return beep.StreamerFunc(func(dst [][2]float64) (int, bool) {
		if len(samples) == 0 {
			return 0, false
		}
		n := copy(dst, samples)
		samples = samples[n:]
		return n, true
	})
}
