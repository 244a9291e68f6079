package mixer

import (
	"errors"
	"io"
	"log"
	"math"
	"sync"
	"testing"

	"github.com/gopxl/beep"

	"github.com/lixenwraith/posaudio/asset"
	"github.com/lixenwraith/posaudio/audio"
	"github.com/lixenwraith/posaudio/constant"
)

const tolerance = 1e-3

type foreignSound struct{}

func (foreignSound) Name() string { return "foreign" }

func newTestMixer() *BeepMixer {
	return NewBeepMixer(DefaultMixerConfig(), log.New(io.Discard, "", 0))
}

func constantFrames(n int, l, r float64) [][2]float64 {
	frames := make([][2]float64, n)
	for i := range frames {
		frames[i] = [2]float64{l, r}
	}
	return frames
}

func constantSound(n int, l, r float64) *asset.Sound {
	return asset.SoundFromSamples("const", beep.SampleRate(constant.AudioSampleRate), constantFrames(n, l, r))
}

func constantTrack(name string, rate beep.SampleRate, n int, v float64) *asset.Track {
	frames := constantFrames(n, v, v)
	buf := beep.NewBuffer(beep.Format{SampleRate: rate, NumChannels: 2, Precision: constant.AudioPrecision})
	buf.Append(beep.StreamerFunc(func(dst [][2]float64) (int, bool) {
		if len(frames) == 0 {
			return 0, false
		}
		c := copy(dst, frames)
		frames = frames[c:]
		return c, true
	}))
	return asset.NewTrack(name, buf)
}

func pull(m *BeepMixer, n int) [][2]float64 {
	out := make([][2]float64, n)
	got, ok := m.Stream(out)
	if got != n || !ok {
		panic("root stream drained")
	}
	return out
}

func near(a, b float64) bool { return math.Abs(a-b) < tolerance }

// TestStreamSilentWhenIdle verifies the root stream never drains
func TestStreamSilentWhenIdle(t *testing.T) {
	m := newTestMixer()
	out := make([][2]float64, 100)
	out[3] = [2]float64{1, 1}

	n, ok := m.Stream(out)
	if n != 100 || !ok {
		t.Fatalf("Expected (100, true), got (%d, %v)", n, ok)
	}
	for i, f := range out {
		if f != [2]float64{} {
			t.Fatalf("Frame %d: expected silence, got %v", i, f)
		}
	}
}

// TestPlaySoundMixes verifies volume reaches the output
func TestPlaySoundMixes(t *testing.T) {
	m := newTestMixer()
	h := m.PlaySound(1, constantSound(1000, 0.5, -0.5), 0.5, 0, 1)
	if h == 0 {
		t.Fatal("Expected non-zero handle")
	}

	out := pull(m, 64)
	if !near(out[10][0], 0.25) || !near(out[10][1], -0.25) {
		t.Errorf("Expected [0.25 -0.25], got %v", out[10])
	}

	h2 := m.PlaySound(2, constantSound(1000, 0.5, -0.5), 0.5, 0, 1)
	if h2 == h {
		t.Error("Expected distinct handles")
	}
	if s := m.Stats(); s.Active != 2 || s.Played != 2 {
		t.Errorf("Expected 2 active and played, got %+v", s)
	}
}

// TestPlaySoundRefusesForeignSound verifies unknown sound types get no handle
func TestPlaySoundRefusesForeignSound(t *testing.T) {
	m := newTestMixer()
	if h := m.PlaySound(1, foreignSound{}, 1, 0, 1); h != 0 {
		t.Errorf("Expected zero handle, got %d", h)
	}
	if h := m.PlaySound(1, nil, 1, 0, 1); h != 0 {
		t.Errorf("Expected zero handle for nil, got %d", h)
	}
	if s := m.Stats(); s.Refused != 2 || s.Active != 0 {
		t.Errorf("Expected 2 refused, got %+v", s)
	}
}

// TestSoundCompletes verifies completion detection and reaping
func TestSoundCompletes(t *testing.T) {
	m := newTestMixer()
	h := m.PlaySound(1, constantSound(100, 0.5, 0.5), 1, 0, 1)

	if m.SoundFinished(h) {
		t.Fatal("Expected sound still playing")
	}

	out := pull(m, 300)
	if !m.SoundFinished(h) {
		t.Error("Expected sound finished after its length")
	}
	if out[250] != [2]float64{} {
		t.Errorf("Expected silence after end, got %v", out[250])
	}

	m.Advance()
	s := m.Stats()
	if s.Active != 0 || s.Reaped != 1 || s.Frames != 1 {
		t.Errorf("Expected reaped channel, got %+v", s)
	}
	if !m.SoundFinished(h) {
		t.Error("Expected reaped handle to read finished")
	}
}

// TestStopSound verifies stop silences the voice and is idempotent
func TestStopSound(t *testing.T) {
	m := newTestMixer()
	h := m.PlaySound(1, constantSound(1000, 0.5, 0.5), 1, 0, 1)
	pull(m, 10)

	m.StopSound(h)
	m.StopSound(h)

	if !m.SoundFinished(h) {
		t.Error("Expected stopped sound to read finished")
	}
	out := pull(m, 10)
	if out[5] != [2]float64{} {
		t.Errorf("Expected silence, got %v", out[5])
	}
	if s := m.Stats(); s.Stopped != 1 || s.Active != 0 {
		t.Errorf("Expected one stop, got %+v", s)
	}
}

// TestUnknownHandle verifies commands tolerate stale handles
func TestUnknownHandle(t *testing.T) {
	m := newTestMixer()
	m.UpdateSound(42, 1, 0, 1)
	m.StopSound(42)
	if !m.SoundFinished(42) {
		t.Error("Expected unknown handle to read finished")
	}
}

// TestUpdateSound verifies pan and volume changes apply to a running voice
func TestUpdateSound(t *testing.T) {
	m := newTestMixer()
	h := m.PlaySound(1, constantSound(1000, 0.5, 0.5), 1, 0, 1)
	pull(m, 10)

	m.UpdateSound(h, 1, 1, 1)
	out := pull(m, 10)
	if !near(out[5][0], 0) || !near(out[5][1], 0.5) {
		t.Errorf("Expected hard right [0 0.5], got %v", out[5])
	}

	m.UpdateSound(h, 1, -1, 1)
	out = pull(m, 10)
	if !near(out[5][0], 0.5) || !near(out[5][1], 0) {
		t.Errorf("Expected hard left [0.5 0], got %v", out[5])
	}

	m.UpdateSound(h, 0, 0, 1)
	out = pull(m, 10)
	if out[5] != [2]float64{} {
		t.Errorf("Expected silent voice, got %v", out[5])
	}
	if m.SoundFinished(h) {
		t.Error("Expected silent voice to keep playing")
	}
}

// TestPitchShortensPlayback verifies pitch drives the resampler
func TestPitchShortensPlayback(t *testing.T) {
	m := newTestMixer()
	h := m.PlaySound(1, constantSound(1000, 0.5, 0.5), 1, 0, 2)

	pull(m, 600)
	if !m.SoundFinished(h) {
		t.Error("Expected double pitch sound done after half its length")
	}
}

// TestBusVolumes verifies bus gains and clamping
func TestBusVolumes(t *testing.T) {
	m := newTestMixer()
	m.PlaySound(1, constantSound(1000, 0.5, 0.5), 1, 0, 1)

	m.SetSoundVolume(0.5)
	out := pull(m, 10)
	if !near(out[5][0], 0.25) {
		t.Errorf("Expected bus-scaled 0.25, got %f", out[5][0])
	}

	m.SetSoundVolume(2)
	m.SetMusicVolume(-1)
	music, sound := m.Volumes()
	if music != 0 || sound != 1 {
		t.Errorf("Expected clamped (0, 1), got (%f, %f)", music, sound)
	}
}

// TestPlayMusic verifies looping, replacement and stop
func TestPlayMusic(t *testing.T) {
	m := newTestMixer()
	m.PlayMusic(constantTrack("theme", beep.SampleRate(constant.AudioSampleRate), 100, 0.2), 0)

	out := pull(m, 350)
	for _, i := range []int{0, 99, 100, 250, 349} {
		if !near(out[i][0], 0.2) {
			t.Errorf("Frame %d: expected looping 0.2, got %f", i, out[i][0])
		}
	}
	if s := m.Stats(); s.Music != "theme" || s.Section != 0 {
		t.Errorf("Expected theme section 0, got %+v", s)
	}

	m.SetMusicVolume(0.5)
	out = pull(m, 10)
	if !near(out[5][0], 0.1) {
		t.Errorf("Expected music bus 0.1, got %f", out[5][0])
	}

	m.PlayMusic(nil, 0)
	out = pull(m, 10)
	if out[5] != [2]float64{} {
		t.Errorf("Expected silence after stop, got %v", out[5])
	}
	if s := m.Stats(); s.Music != "" {
		t.Errorf("Expected no music, got %q", s.Music)
	}
}

// TestPlayMusicResamples verifies tracks at a foreign rate still play
func TestPlayMusicResamples(t *testing.T) {
	m := newTestMixer()
	m.PlayMusic(constantTrack("low", 22050, 2000, 0.2), 7)

	out := pull(m, 1000)
	if !near(out[500][0], 0.2) {
		t.Errorf("Expected resampled 0.2, got %f", out[500][0])
	}
	if s := m.Stats(); s.Section != 0 {
		t.Errorf("Expected out-of-range section recorded as 0, got %d", s.Section)
	}

	m.PlayMusic(foreignTrack{}, 0)
	if s := m.Stats(); s.Music != "" {
		t.Errorf("Expected foreign track refused, got %q", s.Music)
	}
}

type foreignTrack struct{}

func (foreignTrack) Name() string { return "foreign" }

// TestRatio verifies pitch clamping and rate conversion
func TestRatio(t *testing.T) {
	m := newTestMixer()
	tests := []struct {
		src   beep.SampleRate
		pitch float64
		want  float64
	}{
		{44100, 1, 1},
		{22050, 1, 0.5},
		{22050, 2, 1},
		{44100, 0, constant.AudioPitchMin},
		{44100, -3, constant.AudioPitchMin},
		{44100, 100, constant.AudioPitchMax},
		{44100, math.NaN(), 1},
	}
	for _, tt := range tests {
		if got := m.ratio(tt.src, tt.pitch); math.Abs(got-tt.want) > 1e-12 {
			t.Errorf("ratio(%d, %v): expected %v, got %v", tt.src, tt.pitch, tt.want, got)
		}
	}
}

// TestStartRejectsDoubleStart verifies the running guard
func TestStartRejectsDoubleStart(t *testing.T) {
	m := newTestMixer()
	m.running.Store(true)
	if err := m.Start(); !errors.Is(err, ErrAlreadyRunning) {
		t.Errorf("Expected ErrAlreadyRunning, got %v", err)
	}
	m.running.Store(false)

	// Stop without Start is a no-op
	m.Stop()
	if m.IsRunning() {
		t.Error("Expected mixer not running")
	}
}

// TestMixerConfigFrom verifies audio config mapping
func TestMixerConfigFrom(t *testing.T) {
	cfg := audio.DefaultAudioConfig()
	cfg.SampleRate = 48000
	mc := MixerConfigFrom(cfg)
	if mc.SampleRate != 48000 || mc.BufferDuration != cfg.BufferDuration {
		t.Errorf("Unexpected config %+v", mc)
	}
	if MixerConfigFrom(nil) != DefaultMixerConfig() {
		t.Error("Expected defaults for nil config")
	}

	m := NewBeepMixer(MixerConfig{Quality: 99}, nil)
	if m.config != DefaultMixerConfig() {
		t.Errorf("Expected invalid fields replaced, got %+v", m.config)
	}
}

// TestConcurrentPull verifies commands and the sample pull interleave safely
func TestConcurrentPull(t *testing.T) {
	m := newTestMixer()
	stop := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		buf := make([][2]float64, 128)
		for {
			select {
			case <-stop:
				return
			default:
				m.Stream(buf)
			}
		}
	}()

	for i := 1; i <= 200; i++ {
		h := m.PlaySound(i, constantSound(64, 0.1, 0.1), 0.5, 0, 1)
		m.UpdateSound(h, 0.4, 0.2, 1.5)
		if i%3 == 0 {
			m.StopSound(h)
		}
		m.Advance()
	}
	close(stop)
	wg.Wait()

	if s := m.Stats(); s.Played != 200 {
		t.Errorf("Expected 200 played, got %d", s.Played)
	}
}

var _ audio.Mixer = (*BeepMixer)(nil)

// TestLoopedSoundNeverFinishes verifies looped sounds play until stopped
func TestLoopedSoundNeverFinishes(t *testing.T) {
	m := newTestMixer()
	h := m.PlaySound(1, constantSound(50, 0.5, 0.5).Looped(), 1, 0, 1)

	out := pull(m, 400)
	if m.SoundFinished(h) {
		t.Error("Expected looped sound still playing")
	}
	if !near(out[300][0], 0.5) {
		t.Errorf("Expected looping output, got %v", out[300])
	}

	m.StopSound(h)
	if !m.SoundFinished(h) {
		t.Error("Expected stopped loop finished")
	}
}
