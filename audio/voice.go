package audio

import (
	"github.com/lixenwraith/posaudio/vmath"
)

// VoiceState tracks the two-phase start of a voice
type VoiceState int

const (
	VoiceEmpty   VoiceState = iota
	VoicePending            // Admitted, no backend channel yet
	VoiceActive             // Backend channel started
)

func (s VoiceState) String() string {
	switch s {
	case VoicePending:
		return "pending"
	case VoiceActive:
		return "active"
	default:
		return "empty"
	}
}

// Voice is one slot of the voice table
type Voice struct {
	Identity Identity
	// Owner is a non-owning back-reference; cleared on actor destruction
	Owner    Actor
	Sound    Sound
	Location vmath.Vec3F

	Volume float64
	Radius float64
	Pitch  float64

	// Priority is recomputed each frame and drives eviction
	Priority float64

	Handle        Handle
	CurrentVolume float64
}

// State reports the voice lifecycle phase
func (v Voice) State() VoiceState {
	switch {
	case v.Identity.IsEmpty():
		return VoiceEmpty
	case v.Handle == 0:
		return VoicePending
	default:
		return VoiceActive
	}
}

// Occupied reports whether the slot holds a sound
func (v Voice) Occupied() bool {
	return !v.Identity.IsEmpty()
}

func (v *Voice) reset() {
	*v = Voice{}
}
