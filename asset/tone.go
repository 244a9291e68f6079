package asset

import (
	"fmt"
	"math"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/generators"

	"github.com/lixenwraith/posaudio/constant"
	"github.com/lixenwraith/posaudio/vmath"
)

// Tone renders a sine tone with attack/release shaping
func Tone(name string, freq float64, duration time.Duration, rate beep.SampleRate) (*Sound, error) {
	sine, err := generators.SineTone(rate, freq)
	if err != nil {
		return nil, fmt.Errorf("tone %s: %w", name, err)
	}
	return render(name, sine, duration, rate), nil
}

// Chord mixes sine tones at equal weight
func Chord(name string, freqs []float64, duration time.Duration, rate beep.SampleRate) (*Sound, error) {
	if len(freqs) == 0 {
		return nil, fmt.Errorf("chord %s: %w", name, ErrEmpty)
	}

	parts := make([]beep.Streamer, 0, len(freqs))
	for _, f := range freqs {
		sine, err := generators.SineTone(rate, f)
		if err != nil {
			return nil, fmt.Errorf("chord %s: %w", name, err)
		}
		parts = append(parts, gain(sine, 1/float64(len(freqs))))
	}
	return render(name, beep.Mix(parts...), duration, rate), nil
}

// Noise renders white noise with attack/release shaping
func Noise(name string, duration time.Duration, rate beep.SampleRate, seed uint64) *Sound {
	rng := vmath.NewFastRand(seed)
	noise := beep.StreamerFunc(func(samples [][2]float64) (int, bool) {
		for i := range samples {
			v := rng.Bipolar()
			samples[i] = [2]float64{v, v}
		}
		return len(samples), true
	})
	return render(name, noise, duration, rate)
}

func render(name string, src beep.Streamer, duration time.Duration, rate beep.SampleRate) *Sound {
	total := rate.N(duration)
	shaped := newEnvelope(beep.Take(total, src), total,
		rate.N(constant.AudioToneAttack), rate.N(constant.AudioToneRelease))

	buf := beep.NewBuffer(stereoFormat(rate))
	buf.Append(shaped)
	return NewSound(name, buf)
}

func gain(s beep.Streamer, g float64) beep.Streamer {
	return beep.StreamerFunc(func(samples [][2]float64) (int, bool) {
		n, ok := s.Stream(samples)
		for i := range samples[:n] {
			samples[i][0] *= g
			samples[i][1] *= g
		}
		return n, ok
	})
}

// envelope applies linear attack and release to a finite stream
type envelope struct {
	streamer beep.Streamer
	position int
	attack   int
	release  int
	total    int
}

func newEnvelope(s beep.Streamer, total, attack, release int) *envelope {
	if attack+release > total {
		attack, release = total/2, total-total/2
	}
	return &envelope{streamer: s, attack: attack, release: release, total: total}
}

func (e *envelope) Stream(samples [][2]float64) (n int, ok bool) {
	n, ok = e.streamer.Stream(samples)

	for i := 0; i < n; i++ {
		vol := 1.0
		if e.position < e.attack {
			vol = float64(e.position) / float64(e.attack)
		}
		if remaining := e.total - e.position; remaining < e.release {
			vol = math.Min(vol, float64(remaining)/float64(e.release))
		}

		samples[i][0] *= vol
		samples[i][1] *= vol
		e.position++
	}
	return n, ok
}

func (e *envelope) Err() error { return e.streamer.Err() }
