package audio

import (
	"github.com/lixenwraith/posaudio/constant"
	"github.com/lixenwraith/posaudio/vmath"
)

// ambientIdentity is the deterministic identity of an actor's ambient emitter
func ambientIdentity(actorIndex int) Identity {
	return Identity{Category: CategoryAmbient, Owner: actorIndex, Interruptable: true}
}

// inRange reports whether target lies within the actor's sound radius
func inRange(target vmath.Vec3F, a Actor) bool {
	r := a.SoundRadius()
	if !validRadius(r) {
		return false
	}
	return vmath.V3FDistSq(target, a.Location()) <= r*r
}

// startAmbience requests ambient voices for in-range emitters that are not yet playing
func (m *Manager) startAmbience(f frame) {
	if !f.realtime || f.world == nil {
		return
	}

	for idx, n := 0, f.world.ActorCount(); idx < n; idx++ {
		a := f.world.ActorAt(idx)
		if a == nil {
			continue
		}
		sound := a.AmbientSound()
		if sound == nil || !inRange(f.target, a) {
			continue
		}

		id := ambientIdentity(idx)
		if _, playing := m.table.Find(id); playing {
			continue
		}

		volume := m.config.AmbientFactor * float64(a.SoundVolume()) / constant.AudioVolumeScale
		pitch := float64(a.SoundPitch()) / constant.AudioPitchUnit
		m.RequestPlay(a, id, sound, a.Location(), volume, a.SoundRadius(), pitch)
	}
}

// updateAmbience stops ambient voices that lost range, source or realtime and refreshes the rest
func (m *Manager) updateAmbience(f frame) {
	for i := 0; i < m.table.Len(); i++ {
		v := m.table.At(i)
		if !v.Occupied() || v.Identity.Category != CategoryAmbient {
			continue
		}

		if !f.realtime {
			m.Stop(i)
			continue
		}

		// Ownerless ambience keeps its requested parameters and is range-checked at its location
		a := v.Owner
		if a == nil {
			if !validRadius(v.Radius) || vmath.V3FDistSq(f.target, v.Location) > v.Radius*v.Radius {
				m.Stop(i)
			}
			continue
		}
		if a.AmbientSound() != v.Sound || !inRange(f.target, a) {
			m.Stop(i)
			continue
		}

		v.Volume = constant.AudioAmbientRefreshGain * m.config.AmbientFactor * float64(a.SoundVolume()) / constant.AudioVolumeScale
		v.Radius = a.SoundRadius()
		v.Pitch = float64(a.SoundPitch()) / constant.AudioPitchUnit
	}
}
