package audio

import (
	"errors"

	"github.com/lixenwraith/posaudio/vmath"
)

// Handle identifies a playing sound inside the mixer backend
// Zero means no backend channel
type Handle uint64

// Sound is a playable sound asset; the manager only references it
type Sound interface {
	Name() string
}

// Track is a music asset with addressable sections
type Track interface {
	Name() string
}

// Mixer is the audio backend driven by the manager
// Calls are fire-and-forget; implementations must tolerate unknown handles
type Mixer interface {
	// PlayMusic starts track at section, replacing current music; nil track stops music
	PlayMusic(track Track, section int)
	SetMusicVolume(volume float64)
	SetSoundVolume(volume float64)

	// PlaySound starts a voice; key is a stable non-zero request key
	// Returns zero Handle on failure
	PlaySound(key int, sound Sound, volume, pan, pitch float64) Handle
	UpdateSound(h Handle, volume, pan, pitch float64)
	StopSound(h Handle)
	SoundFinished(h Handle) bool

	// Advance is called once per frame after all commands are issued
	Advance()
}

// Actor is a world object that can emit or own sounds
type Actor interface {
	Location() vmath.Vec3F
	Velocity() vmath.Vec3F

	// AmbientSound returns the looping emitter sound, nil if none
	AmbientSound() Sound
	// SoundVolume is 0-255
	SoundVolume() uint8
	// SoundRadius is the audible radius in world units
	SoundRadius() float64
	// SoundPitch is 64 for unity pitch
	SoundPitch() uint8
}

// World exposes the actor list with stable per-actor indices
// ActorAt may return nil for vacated indices
type World interface {
	ActorCount() int
	ActorAt(index int) Actor
}

// Transition is a pending music change request
type Transition uint8

const (
	TransitionNone Transition = iota
	TransitionInstant
	TransitionSegue
	TransitionFade
	TransitionFastFade
	TransitionSlowFade
)

// Controller is the viewport's possessed actor
type Controller interface {
	Actor

	// ViewTarget returns the actor spatialization is relative to, nil for self
	ViewTarget() Actor

	MusicTransition() Transition
	SetMusicTransition(t Transition)
	Song() Track
	// SongSection is the requested section, AudioSectionUnset for none
	SongSection() int
}

// Viewport is the listener context for one frame
type Viewport interface {
	Controller() Controller
	World() World
	// Realtime is true when the viewport is live and the level is unpaused
	Realtime() bool
}

// Sentinel errors
var (
	ErrInvalidConfig  = errors.New("invalid audio config")
	ErrMixerRequired  = errors.New("audio manager requires a mixer")
	ErrServiceStopped = errors.New("audio service not running")
)
