package mixer

import (
	"errors"
	"fmt"
	"log"
	"math"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
	"github.com/gopxl/beep/speaker"

	"github.com/lixenwraith/posaudio/asset"
	"github.com/lixenwraith/posaudio/audio"
	"github.com/lixenwraith/posaudio/constant"
)

// Sentinel errors
var (
	ErrAlreadyRunning     = errors.New("mixer already running")
	ErrBackendUnavailable = errors.New("audio device unavailable")
)

// MixerConfig holds output device settings
type MixerConfig struct {
	SampleRate     beep.SampleRate
	BufferDuration time.Duration
	// Quality is the beep resampler quality, 1-64
	Quality int
}

// DefaultMixerConfig returns the stock output settings
func DefaultMixerConfig() MixerConfig {
	return MixerConfig{
		SampleRate:     beep.SampleRate(constant.AudioSampleRate),
		BufferDuration: constant.AudioBufferDuration,
		Quality:        constant.AudioResampleQuality,
	}
}

// MixerConfigFrom derives output settings from the audio config
func MixerConfigFrom(cfg *audio.AudioConfig) MixerConfig {
	mc := DefaultMixerConfig()
	if cfg == nil {
		return mc
	}
	if cfg.SampleRate > 0 {
		mc.SampleRate = beep.SampleRate(cfg.SampleRate)
	}
	if cfg.BufferDuration > 0 {
		mc.BufferDuration = cfg.BufferDuration
	}
	return mc
}

// channel is one playing sound and the effect chain that shapes it
type channel struct {
	key     int
	name    string
	srcRate beep.SampleRate

	ctrl      *beep.Ctrl
	volume    *effects.Volume
	pan       *effects.Pan
	resampler *beep.Resampler

	done atomic.Bool
}

// Stats is a snapshot of mixer counters
type Stats struct {
	Active  int
	Played  uint64
	Reaped  uint64
	Stopped uint64
	Refused uint64
	Frames  uint64

	Music   string
	Section int
}

// BeepMixer implements audio.Mixer on top of beep
// Sounds and music are mixed on separate buses with independent volume
// The root streamer is pulled by the speaker goroutine; commands lock against it
type BeepMixer struct {
	mu     sync.Mutex
	config MixerConfig
	logger *log.Logger

	sounds beep.Mixer
	music  beep.Mixer

	channels   map[audio.Handle]*channel
	nextHandle audio.Handle

	musicVolume float64
	soundVolume float64
	musicName   string
	section     int

	scratch [][2]float64
	stats   Stats

	running atomic.Bool
}

// NewBeepMixer creates a mixer; no device is opened until Start
func NewBeepMixer(cfg MixerConfig, logger *log.Logger) *BeepMixer {
	if cfg.SampleRate <= 0 {
		cfg.SampleRate = beep.SampleRate(constant.AudioSampleRate)
	}
	if cfg.BufferDuration <= 0 {
		cfg.BufferDuration = constant.AudioBufferDuration
	}
	if cfg.Quality < 1 || cfg.Quality > 64 {
		cfg.Quality = constant.AudioResampleQuality
	}
	if logger == nil {
		logger = log.Default()
	}

	return &BeepMixer{
		config:      cfg,
		logger:      logger,
		channels:    make(map[audio.Handle]*channel),
		musicVolume: 1,
		soundVolume: 1,
		scratch:     make([][2]float64, constant.AudioMixChunk),
	}
}

// Format returns the output format
func (m *BeepMixer) Format() beep.Format {
	return beep.Format{SampleRate: m.config.SampleRate, NumChannels: 2, Precision: constant.AudioPrecision}
}

// Streamer returns the root stream for an external sink
func (m *BeepMixer) Streamer() beep.Streamer {
	return m
}

// Stream mixes both buses into samples; never drains
func (m *BeepMixer) Stream(samples [][2]float64) (int, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	clear(samples)
	if cap(m.scratch) < len(samples) {
		m.scratch = make([][2]float64, len(samples))
	}
	buf := m.scratch[:len(samples)]

	m.mixBus(&m.sounds, m.soundVolume, samples, buf)
	m.mixBus(&m.music, m.musicVolume, samples, buf)
	return len(samples), true
}

func (m *BeepMixer) mixBus(bus *beep.Mixer, gain float64, dst, buf [][2]float64) {
	if bus.Len() == 0 || gain <= 0 {
		return
	}
	clear(buf)
	n, _ := bus.Stream(buf)
	for i := range buf[:n] {
		dst[i][0] += buf[i][0] * gain
		dst[i][1] += buf[i][1] * gain
	}
}

// Err implements beep.Streamer
func (m *BeepMixer) Err() error { return nil }

// PlaySound implements audio.Mixer
func (m *BeepMixer) PlaySound(key int, sound audio.Sound, volume, pan, pitch float64) audio.Handle {
	s, ok := sound.(*asset.Sound)
	if !ok || s == nil {
		m.logger.Printf("mixer: refusing sound %T", sound)
		m.mu.Lock()
		m.stats.Refused++
		m.mu.Unlock()
		return 0
	}

	ch := &channel{
		key:     key,
		name:    s.Name(),
		srcRate: s.Format().SampleRate,
	}
	ch.resampler = beep.ResampleRatio(m.config.Quality, m.ratio(ch.srcRate, pitch), s.Playback())
	ch.pan = &effects.Pan{Streamer: ch.resampler, Pan: clampPan(pan)}
	ch.volume = &effects.Volume{Streamer: ch.pan, Base: 2}
	setVolume(ch.volume, volume)
	ch.ctrl = &beep.Ctrl{Streamer: beep.Seq(ch.volume, beep.Callback(func() {
		ch.done.Store(true)
	}))}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.nextHandle++
	h := m.nextHandle
	m.channels[h] = ch
	m.sounds.Add(ch.ctrl)
	m.stats.Played++
	return h
}

// UpdateSound implements audio.Mixer
func (m *BeepMixer) UpdateSound(h audio.Handle, volume, pan, pitch float64) {
	m.mu.Lock()
	defer m.mu.Unlock()

	ch, ok := m.channels[h]
	if !ok {
		return
	}
	setVolume(ch.volume, volume)
	ch.pan.Pan = clampPan(pan)
	ch.resampler.SetRatio(m.ratio(ch.srcRate, pitch))
}

// StopSound implements audio.Mixer
func (m *BeepMixer) StopSound(h audio.Handle) {
	m.mu.Lock()
	defer m.mu.Unlock()

	ch, ok := m.channels[h]
	if !ok {
		return
	}
	ch.ctrl.Streamer = nil
	ch.done.Store(true)
	delete(m.channels, h)
	m.stats.Stopped++
}

// SoundFinished implements audio.Mixer; unknown handles count as finished
func (m *BeepMixer) SoundFinished(h audio.Handle) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	ch, ok := m.channels[h]
	return !ok || ch.done.Load()
}

// PlayMusic implements audio.Mixer
func (m *BeepMixer) PlayMusic(track audio.Track, section int) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.music.Clear()
	m.musicName = ""
	m.section = 0
	if track == nil {
		return
	}

	t, ok := track.(*asset.Track)
	if !ok || t == nil {
		m.logger.Printf("mixer: refusing track %T", track)
		return
	}
	s := t.Streamer(section)
	if s == nil {
		m.logger.Printf("mixer: track %s section %d is empty", t.Name(), section)
		return
	}
	if rate := t.Format().SampleRate; rate != m.config.SampleRate {
		s = beep.Resample(m.config.Quality, rate, m.config.SampleRate, s)
	}

	m.music.Add(&beep.Ctrl{Streamer: s})
	m.musicName = t.Name()
	if section >= 0 && section < t.Sections() {
		m.section = section
	}
}

// SetMusicVolume implements audio.Mixer
func (m *BeepMixer) SetMusicVolume(volume float64) {
	m.mu.Lock()
	m.musicVolume = clamp01(volume)
	m.mu.Unlock()
}

// SetSoundVolume implements audio.Mixer
func (m *BeepMixer) SetSoundVolume(volume float64) {
	m.mu.Lock()
	m.soundVolume = clamp01(volume)
	m.mu.Unlock()
}

// Volumes returns the current bus volumes
func (m *BeepMixer) Volumes() (music, sound float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.musicVolume, m.soundVolume
}

// Advance implements audio.Mixer; reaps completed channels
func (m *BeepMixer) Advance() {
	m.mu.Lock()
	defer m.mu.Unlock()

	for h, ch := range m.channels {
		if ch.done.Load() {
			delete(m.channels, h)
			m.stats.Reaped++
		}
	}
	m.stats.Frames++
}

// Stats returns a snapshot of the counters
func (m *BeepMixer) Stats() Stats {
	m.mu.Lock()
	defer m.mu.Unlock()

	s := m.stats
	s.Active = len(m.channels)
	s.Music = m.musicName
	s.Section = m.section
	return s
}

// Start opens the output device and plays the root stream
func (m *BeepMixer) Start() error {
	if !m.running.CompareAndSwap(false, true) {
		return ErrAlreadyRunning
	}

	sr := m.config.SampleRate
	if err := speaker.Init(sr, sr.N(m.config.BufferDuration)); err != nil {
		m.running.Store(false)
		return fmt.Errorf("%w: %v", ErrBackendUnavailable, err)
	}
	speaker.Play(m)

	m.logger.Printf("mixer: started at %d Hz, buffer %v", sr, m.config.BufferDuration)
	return nil
}

// Stop detaches from the device and silences both buses
func (m *BeepMixer) Stop() {
	if !m.running.CompareAndSwap(true, false) {
		return
	}

	// speaker holds its own lock while pulling Stream
	speaker.Clear()

	m.mu.Lock()
	defer m.mu.Unlock()

	for h, ch := range m.channels {
		ch.ctrl.Streamer = nil
		ch.done.Store(true)
		delete(m.channels, h)
	}
	m.sounds.Clear()
	m.music.Clear()
	m.musicName = ""
	m.logger.Printf("mixer: stopped")
}

// IsRunning reports whether the device is open
func (m *BeepMixer) IsRunning() bool {
	return m.running.Load()
}

// ratio converts a pitch multiplier to a resampler ratio at the output rate
func (m *BeepMixer) ratio(src beep.SampleRate, pitch float64) float64 {
	if math.IsNaN(pitch) {
		pitch = 1
	}
	pitch = max(constant.AudioPitchMin, min(constant.AudioPitchMax, pitch))
	return pitch * float64(src) / float64(m.config.SampleRate)
}

// setVolume maps linear gain onto the base-2 exponent effects.Volume expects
func setVolume(v *effects.Volume, gain float64) {
	gain = clamp01(gain)
	v.Silent = gain <= 0
	if v.Silent {
		v.Volume = 0
		return
	}
	v.Volume = math.Log2(gain)
}

func clampPan(p float64) float64 {
	if math.IsNaN(p) {
		return 0
	}
	return max(-1, min(1, p))
}

func clamp01(v float64) float64 {
	if math.IsNaN(v) {
		return 0
	}
	return max(0, min(1, v))
}
