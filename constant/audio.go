package constant

import "time"

// Audio Hardware Settings
const (
	AudioSampleRate     = 44100
	AudioBufferDuration = 50 * time.Millisecond

	// AudioResampleQuality is the beep resampler quality for pitch and rate conversion
	AudioResampleQuality = 3
)

// Voice Table
const (
	// AudioChannels is the default number of concurrently playable voices
	AudioChannels = 16

	// AudioMaxChannels bounds configurable channel count
	AudioMaxChannels = 256
)

// Global Volume (0-255 scale, normalized before reaching the mixer)
const (
	AudioVolumeScale   = 255.0
	AudioMusicVolume   = 160
	AudioSoundVolume   = 200
	AudioAmbientFactor = 0.7
)

// Spatialization
const (
	// AudioHeadroomScale reserves mix headroom across simultaneous voices
	AudioHeadroomScale = 0.25

	// AudioDopplerSpeed is the speed of sound in world units per second
	AudioDopplerSpeed = 9000.0
	AudioDopplerMin   = 0.5
	AudioDopplerMax   = 2.0

	// AudioNearFieldFraction of radius below which panning collapses toward center
	AudioNearFieldFraction = 0.1

	// AudioPanScale maps a pan angle in radians to [-1, 1] before clamping (7/8 / π)
	AudioPanScale = 7.0 / 8.0
)

// Actor Sound Attributes
const (
	// AudioPitchUnit is the actor pitch value that maps to 1.0
	AudioPitchUnit = 64.0

	// AudioAmbientRefreshGain scales ambient volume once the voice is established
	AudioAmbientRefreshGain = 2.0

	// AudioSectionUnset is the song section sentinel that maps to section 0
	AudioSectionUnset = 255
)

// Rotation
const (
	// AudioRotatorUnits per full turn of an actor rotator component
	AudioRotatorUnits = 65536
)

// Backend
const (
	// AudioPrecision is the bytes per sample of decoded asset buffers
	AudioPrecision = 2

	// AudioPitchMin and AudioPitchMax bound the resampler ratio multiplier
	AudioPitchMin = 1.0 / 64.0
	AudioPitchMax = 4.0

	// AudioMixChunk is the scratch size the root streamer pulls per bus read
	AudioMixChunk = 512
)

// Procedural Tones
const (
	AudioToneAttack  = 5 * time.Millisecond
	AudioToneRelease = 40 * time.Millisecond
)

// Sandbox
const (
	// AudioFrameInterval is the sandbox update period
	AudioFrameInterval = 33 * time.Millisecond
)
