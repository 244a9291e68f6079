package main

import (
	"fmt"
	"log"
	"time"

	"github.com/gopxl/beep"

	"github.com/lixenwraith/posaudio/asset"
	"github.com/lixenwraith/posaudio/constant"
)

// emitterSpec describes a procedural ambient emitter
type emitterSpec struct {
	name   string
	glyph  rune
	freqs  []float64
	noise  bool
	volume uint8
	radius float64
	pitch  uint8
	dx, dy int // offset from the player start, in cells
}

var emitterSpecs = []emitterSpec{
	{name: "hum", glyph: 'H', freqs: []float64{55, 110}, volume: 220, radius: 1800, pitch: 64, dx: -14, dy: -4},
	{name: "whine", glyph: 'W', freqs: []float64{880}, volume: 120, radius: 1200, pitch: 64, dx: 12, dy: -6},
	{name: "choir", glyph: 'C', freqs: []float64{262, 330, 392}, volume: 180, radius: 2200, pitch: 64, dx: 16, dy: 6},
	{name: "wind", glyph: 'N', noise: true, volume: 90, radius: 2500, pitch: 64, dx: -10, dy: 7},
	{name: "drone", glyph: 'D', freqs: []float64{147, 220}, volume: 200, radius: 1500, pitch: 96, dx: 0, dy: -9},
}

// oneShots are the fire sounds, by key
var oneShots = map[string]float64{
	"blip":  1320,
	"alarm": 660,
}

// musicChords are the sections of the procedural song
var musicChords = [][]float64{
	{220, 277, 330},
	{196, 247, 294},
	{175, 220, 262},
	{165, 208, 247},
}

const (
	emitterLoop   = 2 * time.Second
	oneShotLength = 250 * time.Millisecond
	sectionLength = 2 * time.Second
)

// buildLibrary registers the procedural sounds and preloads dir when set
// Files from dir replace procedural sounds of the same name
func buildLibrary(dir string, rate beep.SampleRate, logger *log.Logger) (*asset.Library, error) {
	lib := asset.NewLibrary(dir)

	for _, spec := range emitterSpecs {
		var (
			s   *asset.Sound
			err error
		)
		if spec.noise {
			s = asset.Noise(spec.name, emitterLoop, rate, 1)
		} else {
			s, err = asset.Chord(spec.name, spec.freqs, emitterLoop, rate)
		}
		if err != nil {
			return nil, fmt.Errorf("emitter %s: %w", spec.name, err)
		}
		lib.Add(s)
	}

	for name, freq := range oneShots {
		s, err := asset.Tone(name, freq, oneShotLength, rate)
		if err != nil {
			return nil, fmt.Errorf("one-shot %s: %w", name, err)
		}
		lib.Add(s)
	}

	if dir != "" {
		n, err := lib.Preload()
		logger.Printf("sandbox: preloaded %d sounds from %s", n, dir)
		if err != nil && n == 0 {
			return nil, err
		}
		if err != nil {
			logger.Printf("sandbox: some sounds failed: %v", err)
		}
	}
	return lib, nil
}

// loadSong decodes path with sections every sectionLength, or renders the procedural song
func loadSong(path string, rate beep.SampleRate) (*asset.Track, error) {
	if path != "" {
		marks := make([]time.Duration, 0, 16)
		for i := 1; i < 16; i++ {
			marks = append(marks, time.Duration(i)*sectionLength)
		}
		return asset.LoadTrack(path, marks...)
	}

	buf := beep.NewBuffer(beep.Format{SampleRate: rate, NumChannels: 2, Precision: constant.AudioPrecision})
	marks := make([]time.Duration, 0, len(musicChords))
	for i, chord := range musicChords {
		s, err := asset.Chord(fmt.Sprintf("section-%d", i), chord, sectionLength, rate)
		if err != nil {
			return nil, err
		}
		if i > 0 {
			marks = append(marks, rate.D(buf.Len()))
		}
		buf.Append(s.Streamer())
	}
	return asset.NewTrack("procedural", buf, marks...), nil
}
