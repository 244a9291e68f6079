package audio

import (
	"github.com/lixenwraith/posaudio/constant"
)

// MusicState is the music controller phase
type MusicState int

const (
	MusicIdle MusicState = iota
	MusicPlaying
)

func (s MusicState) String() string {
	if s == MusicPlaying {
		return "playing"
	}
	return "idle"
}

// MusicController switches tracks on controller transition requests
// Switching is a hard cut: stop, then start
type MusicController struct {
	state      MusicState
	track      Track
	section    int
	useDigital bool
}

// Update consumes a pending transition on c
func (mc *MusicController) Update(mixer Mixer, c Controller) {
	if c == nil || c.MusicTransition() == TransitionNone {
		return
	}

	if mc.state == MusicPlaying {
		mixer.PlayMusic(nil, 0)
		mc.state, mc.track, mc.section = MusicIdle, nil, 0
	}

	song := c.Song()
	section := c.SongSection()
	if section == constant.AudioSectionUnset || section < 0 {
		section = 0
	}

	if song != nil && mc.useDigital {
		mixer.PlayMusic(song, section)
		mc.state, mc.track, mc.section = MusicPlaying, song, section
	}

	c.SetMusicTransition(TransitionNone)
}

// Stop silences music unconditionally and returns to idle
func (mc *MusicController) Stop(mixer Mixer) {
	mixer.PlayMusic(nil, 0)
	mc.state, mc.track, mc.section = MusicIdle, nil, 0
}

// State returns the phase and, when playing, the track and section
func (mc *MusicController) State() (MusicState, Track, int) {
	return mc.state, mc.track, mc.section
}
