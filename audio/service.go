package audio

import (
	"fmt"
	"log"
	"sync"
	"sync/atomic"

	"github.com/lixenwraith/posaudio/vmath"
)

// MixerProvider supplies the backend once its own service has initialized
type MixerProvider interface {
	Mixer() Mixer
}

// AudioService wraps Manager as a service.Service
// Depends on the "mixer" service for its backend
type AudioService struct {
	provider MixerProvider
	config   *AudioConfig
	logger   *log.Logger

	mu      sync.Mutex
	manager *Manager
	running atomic.Bool
}

// NewService creates a new audio service backed by provider
func NewService(provider MixerProvider) *AudioService {
	return &AudioService{provider: provider}
}

// Name implements service.Service
func (s *AudioService) Name() string {
	return "audio"
}

// Dependencies implements service.Service
func (s *AudioService) Dependencies() []string {
	return []string{"mixer"}
}

// Init implements service.Service
// Recognized args: *AudioConfig (default: LoadAudioConfig), *log.Logger
func (s *AudioService) Init(args ...any) error {
	for _, arg := range args {
		switch v := arg.(type) {
		case *AudioConfig:
			s.config = v
		case *log.Logger:
			s.logger = v
		}
	}
	if s.config == nil {
		s.config = LoadAudioConfig()
	}
	if s.provider == nil {
		return ErrMixerRequired
	}

	manager, err := NewManager(s.provider.Mixer(), s.config, s.logger)
	if err != nil {
		return fmt.Errorf("audio service: %w", err)
	}

	s.mu.Lock()
	s.manager = manager
	s.mu.Unlock()
	return nil
}

// Start implements service.Service
func (s *AudioService) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.manager == nil {
		return fmt.Errorf("audio service: %w", ErrServiceStopped)
	}
	s.running.Store(true)
	return nil
}

// Stop implements service.Service
// Detaches the viewport, which stops every voice and the music
func (s *AudioService) Stop() error {
	if !s.running.CompareAndSwap(true, false) {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.manager.SetViewport(nil)
	s.manager.Update(vmath.Identity4())
	return nil
}

// IsRunning reports whether the manager accepts work
func (s *AudioService) IsRunning() bool {
	return s.running.Load()
}

// Manager returns the manager while the service is running
func (s *AudioService) Manager() (*Manager, error) {
	if !s.running.Load() {
		return nil, ErrServiceStopped
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.manager, nil
}
