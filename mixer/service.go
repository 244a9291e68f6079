package mixer

import (
	"log"
	"sync/atomic"

	"github.com/lixenwraith/posaudio/audio"
	"github.com/lixenwraith/posaudio/constant"
)

// Service wraps BeepMixer as a service.Service
// Handles graceful degradation when no audio device is available: the mixer
// keeps accepting commands and mixing, only the device output is missing
type Service struct {
	config   *audio.AudioConfig
	logger   *log.Logger
	mixer    *BeepMixer
	disabled atomic.Bool
}

// NewService creates a new mixer service
func NewService() *Service {
	return &Service{}
}

// Name implements service.Service
func (s *Service) Name() string {
	return "mixer"
}

// Dependencies implements service.Service
func (s *Service) Dependencies() []string {
	return nil
}

// Init implements service.Service
// Recognized args: *audio.AudioConfig (default: DefaultAudioConfig), *log.Logger
func (s *Service) Init(args ...any) error {
	for _, arg := range args {
		switch v := arg.(type) {
		case *audio.AudioConfig:
			s.config = v
		case *log.Logger:
			s.logger = v
		}
	}
	if s.config == nil {
		s.config = audio.DefaultAudioConfig()
	}

	s.mixer = NewBeepMixer(MixerConfigFrom(s.config), s.logger)
	s.mixer.SetMusicVolume(float64(s.config.MusicVolume) / constant.AudioVolumeScale)
	s.mixer.SetSoundVolume(float64(s.config.SoundVolume) / constant.AudioVolumeScale)
	return nil
}

// Start implements service.Service
// Opens the device unless audio is disabled; device failure is not an error
func (s *Service) Start() error {
	if s.mixer == nil || !s.config.Enabled {
		s.disabled.Store(true)
		return nil
	}

	if err := s.mixer.Start(); err != nil {
		s.mixer.logger.Printf("mixer: running silent: %v", err)
		s.disabled.Store(true)
	}
	return nil
}

// Stop implements service.Service
func (s *Service) Stop() error {
	if s.mixer != nil {
		s.mixer.Stop()
	}
	return nil
}

// IsDisabled returns true if no device output is active
func (s *Service) IsDisabled() bool {
	return s.disabled.Load()
}

// Mixer returns the backend as audio.Mixer; nil before Init
func (s *Service) Mixer() audio.Mixer {
	if s.mixer == nil {
		return nil
	}
	return s.mixer
}

// Beep returns the concrete backend for stats and direct streaming
func (s *Service) Beep() *BeepMixer {
	return s.mixer
}
