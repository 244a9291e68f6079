package audio

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/lixenwraith/posaudio/constant"
)

// AudioConfig holds manager and backend settings
type AudioConfig struct {
	Enabled bool

	// Channels is the voice table size
	Channels int

	// MusicVolume and SoundVolume are 0-255
	MusicVolume uint8
	SoundVolume uint8

	AmbientFactor   float64
	DopplerSpeed    float64
	ReverseStereo   bool
	UseDigitalMusic bool

	SampleRate     int
	BufferDuration time.Duration
}

// DefaultAudioConfig returns the stock configuration
func DefaultAudioConfig() *AudioConfig {
	return &AudioConfig{
		Enabled:         true,
		Channels:        constant.AudioChannels,
		MusicVolume:     constant.AudioMusicVolume,
		SoundVolume:     constant.AudioSoundVolume,
		AmbientFactor:   constant.AudioAmbientFactor,
		DopplerSpeed:    constant.AudioDopplerSpeed,
		ReverseStereo:   false,
		UseDigitalMusic: true,
		SampleRate:      constant.AudioSampleRate,
		BufferDuration:  constant.AudioBufferDuration,
	}
}

// Validate checks ranges that the manager relies on
func (c *AudioConfig) Validate() error {
	if c.Channels < 1 || c.Channels > constant.AudioMaxChannels {
		return fmt.Errorf("%w: channels %d out of range [1, %d]", ErrInvalidConfig, c.Channels, constant.AudioMaxChannels)
	}
	if c.DopplerSpeed <= 0 {
		return fmt.Errorf("%w: doppler speed must be positive, got %f", ErrInvalidConfig, c.DopplerSpeed)
	}
	if c.AmbientFactor < 0 {
		return fmt.Errorf("%w: ambient factor must not be negative, got %f", ErrInvalidConfig, c.AmbientFactor)
	}
	if c.SampleRate <= 0 {
		return fmt.Errorf("%w: sample rate must be positive, got %d", ErrInvalidConfig, c.SampleRate)
	}
	if c.BufferDuration <= 0 {
		return fmt.Errorf("%w: buffer duration must be positive, got %v", ErrInvalidConfig, c.BufferDuration)
	}
	return nil
}

// LoadAudioConfig loads audio configuration from environment variables
// Unparseable values are ignored and keep their defaults
func LoadAudioConfig() *AudioConfig {
	cfg := DefaultAudioConfig()

	if enabled := os.Getenv("POSAUDIO_ENABLED"); enabled != "" {
		if val, err := strconv.ParseBool(enabled); err == nil {
			cfg.Enabled = val
		}
	}

	if channels := os.Getenv("POSAUDIO_CHANNELS"); channels != "" {
		if val, err := strconv.Atoi(channels); err == nil && val > 0 && val <= constant.AudioMaxChannels {
			cfg.Channels = val
		}
	}

	// Volumes are 0-255, values beyond are clamped
	if volume := os.Getenv("POSAUDIO_MUSIC_VOLUME"); volume != "" {
		if val, err := strconv.Atoi(volume); err == nil {
			cfg.MusicVolume = clampByte(val)
		}
	}
	if volume := os.Getenv("POSAUDIO_SOUND_VOLUME"); volume != "" {
		if val, err := strconv.Atoi(volume); err == nil {
			cfg.SoundVolume = clampByte(val)
		}
	}

	if factor := os.Getenv("POSAUDIO_AMBIENT_FACTOR"); factor != "" {
		if val, err := strconv.ParseFloat(factor, 64); err == nil && val >= 0 {
			cfg.AmbientFactor = val
		}
	}

	if speed := os.Getenv("POSAUDIO_DOPPLER_SPEED"); speed != "" {
		if val, err := strconv.ParseFloat(speed, 64); err == nil && val > 0 {
			cfg.DopplerSpeed = val
		}
	}

	if reverse := os.Getenv("POSAUDIO_REVERSE_STEREO"); reverse != "" {
		if val, err := strconv.ParseBool(reverse); err == nil {
			cfg.ReverseStereo = val
		}
	}

	if digital := os.Getenv("POSAUDIO_DIGITAL_MUSIC"); digital != "" {
		if val, err := strconv.ParseBool(digital); err == nil {
			cfg.UseDigitalMusic = val
		}
	}

	if sampleRate := os.Getenv("POSAUDIO_SAMPLE_RATE"); sampleRate != "" {
		if val, err := strconv.Atoi(sampleRate); err == nil && val > 0 {
			cfg.SampleRate = val
		}
	}

	return cfg
}

func clampByte(v int) uint8 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v)
}

// SaveAudioConfig exports configuration to environment variables for child processes
func SaveAudioConfig(cfg *AudioConfig) error {
	if cfg == nil {
		return fmt.Errorf("%w: nil config", ErrInvalidConfig)
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	vars := map[string]string{
		"POSAUDIO_ENABLED":        strconv.FormatBool(cfg.Enabled),
		"POSAUDIO_CHANNELS":       strconv.Itoa(cfg.Channels),
		"POSAUDIO_MUSIC_VOLUME":   strconv.Itoa(int(cfg.MusicVolume)),
		"POSAUDIO_SOUND_VOLUME":   strconv.Itoa(int(cfg.SoundVolume)),
		"POSAUDIO_AMBIENT_FACTOR": strconv.FormatFloat(cfg.AmbientFactor, 'g', -1, 64),
		"POSAUDIO_DOPPLER_SPEED":  strconv.FormatFloat(cfg.DopplerSpeed, 'g', -1, 64),
		"POSAUDIO_REVERSE_STEREO": strconv.FormatBool(cfg.ReverseStereo),
		"POSAUDIO_DIGITAL_MUSIC":  strconv.FormatBool(cfg.UseDigitalMusic),
		"POSAUDIO_SAMPLE_RATE":    strconv.Itoa(cfg.SampleRate),
	}
	for k, v := range vars {
		if err := os.Setenv(k, v); err != nil {
			return fmt.Errorf("set %s: %w", k, err)
		}
	}
	return nil
}
