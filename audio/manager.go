package audio

import (
	"fmt"
	"log"

	"github.com/lixenwraith/posaudio/constant"
	"github.com/lixenwraith/posaudio/vmath"
)

// Manager owns the voice table and drives the mixer once per frame
//
// Not safe for concurrent use: RequestPlay, NoteOwnerDestroyed, SetViewport and
// Update must all run on the frame goroutine, between frames
type Manager struct {
	config *AudioConfig
	mixer  Mixer
	logger *log.Logger

	table    *VoiceTable
	viewport Viewport

	// freeSlot decreases for every free-slot request; synthetic owners are negative
	freeSlot int

	music MusicController

	musicVolume uint8
	soundVolume uint8
}

// frame is the listener context resolved once per call
type frame struct {
	controller Controller
	world      World
	target     vmath.Vec3F
	realtime   bool
}

// NewManager creates a manager driving mixer
// A nil cfg uses DefaultAudioConfig; a nil logger uses log.Default
func NewManager(mixer Mixer, cfg *AudioConfig, logger *log.Logger) (*Manager, error) {
	if mixer == nil {
		return nil, ErrMixerRequired
	}
	if cfg == nil {
		cfg = DefaultAudioConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = log.Default()
	}

	return &Manager{
		config:      cfg,
		mixer:       mixer,
		logger:      logger,
		table:       NewVoiceTable(cfg.Channels),
		music:       MusicController{useDigital: cfg.UseDigitalMusic},
		musicVolume: cfg.MusicVolume,
		soundVolume: cfg.SoundVolume,
	}, nil
}

// currentFrame resolves the listener target; false without a usable viewport
func (m *Manager) currentFrame() (frame, bool) {
	if m.viewport == nil {
		return frame{}, false
	}
	c := m.viewport.Controller()
	if c == nil {
		return frame{}, false
	}

	var target Actor = c
	if vt := c.ViewTarget(); vt != nil {
		target = vt
	}

	return frame{
		controller: c,
		world:      m.viewport.World(),
		target:     target.Location(),
		realtime:   m.viewport.Realtime(),
	}, true
}

// SetViewport switches the listener
// Every voice and the music track are stopped, and the table is resized to the configured channel count
// Viewport implementations must be comparable (pointer types)
func (m *Manager) SetViewport(vp Viewport) {
	if m.viewport == vp {
		return
	}

	for i := 0; i < m.table.Len(); i++ {
		m.Stop(i)
	}

	if m.viewport != nil {
		m.music.Stop(m.mixer)
	}

	m.viewport = vp
	if vp == nil {
		m.logger.Printf("audio: viewport cleared")
		return
	}

	if c := vp.Controller(); c != nil {
		if c.Song() != nil && c.MusicTransition() == TransitionNone {
			c.SetMusicTransition(TransitionInstant)
		}
	}

	m.table.Resize(m.config.Channels)
	m.logger.Printf("audio: viewport set, %d channels", m.config.Channels)
}

// Viewport returns the current listener context, nil if none
func (m *Manager) Viewport() Viewport {
	return m.viewport
}

// Update runs one audio frame against the listener transform
func (m *Manager) Update(listener vmath.Mat4) {
	if f, ok := m.currentFrame(); ok {
		m.startAmbience(f)
		m.updateAmbience(f)
		m.updateSounds(f, listener)
		m.music.Update(m.mixer, f.controller)
	}

	m.mixer.SetMusicVolume(float64(m.musicVolume) / constant.AudioVolumeScale)
	m.mixer.SetSoundVolume(float64(m.soundVolume) / constant.AudioVolumeScale)
	m.mixer.Advance()
}

// SetMusicVolume sets global music volume (0-255), applied on the next Update
func (m *Manager) SetMusicVolume(v uint8) {
	m.musicVolume = v
}

// SetSoundVolume sets global sound volume (0-255), applied on the next Update
func (m *Manager) SetSoundVolume(v uint8) {
	m.soundVolume = v
}

// MusicVolume returns the global music volume (0-255)
func (m *Manager) MusicVolume() uint8 {
	return m.musicVolume
}

// SoundVolume returns the global sound volume (0-255)
func (m *Manager) SoundVolume() uint8 {
	return m.soundVolume
}

// BreakpointTriggered silences sound output immediately
// Used when a debugger halts the simulation mid-frame
func (m *Manager) BreakpointTriggered() {
	m.mixer.SetSoundVolume(0)
	m.mixer.Advance()
}

// Channels returns the voice table size
func (m *Manager) Channels() int {
	return m.table.Len()
}

// Voice returns a copy of slot i
func (m *Manager) Voice(i int) Voice {
	return *m.table.At(i)
}

// Voices appends a copy of every slot to dst in index order
func (m *Manager) Voices(dst []Voice) []Voice {
	for i := 0; i < m.table.Len(); i++ {
		dst = append(dst, *m.table.At(i))
	}
	return dst
}

// ActiveVoices returns the number of occupied slots
func (m *Manager) ActiveVoices() int {
	return m.table.Occupied()
}

// Music returns the music controller state
func (m *Manager) Music() (MusicState, Track, int) {
	return m.music.State()
}

// Stats appends one diagnostic line per channel to lines
func (m *Manager) Stats(lines []string) []string {
	for i := 0; i < m.table.Len(); i++ {
		v := m.table.At(i)
		switch {
		case v.Handle != 0:
			lines = append(lines, fmt.Sprintf("Channel %2d: Vol: %05.2f %s", i, v.CurrentVolume, v.Sound.Name()))
		case i >= 10:
			lines = append(lines, fmt.Sprintf("Channel %d:  None", i))
		default:
			lines = append(lines, fmt.Sprintf("Channel %d: None", i))
		}
	}
	return lines
}
