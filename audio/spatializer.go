package audio

import (
	"math"

	"github.com/lixenwraith/posaudio/constant"
	"github.com/lixenwraith/posaudio/vmath"
)

// Spatial is the mixer parameter set of one voice for one frame
type Spatial struct {
	Pan     float64 // [-1, 1], negative is left
	Volume  float64 // [0, 1], before headroom scaling
	Doppler float64 // [0.5, 2], pitch multiplier
}

// Spatialize computes pan, attenuated volume and Doppler for v
// listener maps world space to listener space; target is the listener target location
func Spatialize(listener vmath.Mat4, target vmath.Vec3F, v *Voice, reverseStereo bool, dopplerSpeed float64) Spatial {
	p := listener.TransformPoint(v.Location)
	size := vmath.V3FMag(p)

	panAngle := math.Atan2(p.X, math.Abs(p.Z))
	if !vmath.Finite(panAngle) {
		panAngle = 0
	}

	attenuation := 0.0
	if validRadius(v.Radius) {
		// Despatialize near-field sounds so they do not snap between ears
		center := constant.AudioNearFieldFraction * v.Radius
		if size < center {
			panAngle *= size / center
		}
		attenuation = vmath.Clamp(1-size/v.Radius, 0, 1)
	}

	pan := vmath.Clamp(panAngle*constant.AudioPanScale/math.Pi, -1, 1)
	if reverseStereo {
		pan = -pan
	}

	return Spatial{
		Pan:     pan,
		Volume:  vmath.Clamp(v.Volume*attenuation, 0, 1),
		Doppler: doppler(v.Owner, target, dopplerSpeed),
	}
}

// doppler derives the pitch factor from the owner's radial velocity
func doppler(owner Actor, target vmath.Vec3F, dopplerSpeed float64) float64 {
	if owner == nil || !(dopplerSpeed > 0) {
		return 1
	}
	dir := vmath.V3FNormalize(vmath.V3FSub(owner.Location(), target))
	speed := vmath.V3FDot(owner.Velocity(), dir)
	if !vmath.Finite(speed) {
		return 1
	}
	return vmath.Clamp(1-speed/dopplerSpeed, constant.AudioDopplerMin, constant.AudioDopplerMax)
}

// updateSounds spatializes every voice and issues lazy starts, updates and completions
func (m *Manager) updateSounds(f frame, listener vmath.Mat4) {
	for i := 0; i < m.table.Len(); i++ {
		v := m.table.At(i)
		if !v.Occupied() {
			continue
		}

		if v.Handle != 0 && m.mixer.SoundFinished(v.Handle) {
			m.Stop(i)
			continue
		}

		if v.Owner != nil {
			v.Location = v.Owner.Location()
		}

		v.Priority = soundPriority(f.target, v.Location, v.Volume, v.Radius)

		s := Spatialize(listener, f.target, v, m.config.ReverseStereo, m.config.DopplerSpeed)
		v.CurrentVolume = s.Volume

		volume := s.Volume * constant.AudioHeadroomScale
		pitch := v.Pitch * s.Doppler

		if v.Handle != 0 {
			m.mixer.UpdateSound(v.Handle, volume, s.Pan, pitch)
			continue
		}

		h := m.mixer.PlaySound(i+1, v.Sound, volume, s.Pan, pitch)
		if h == 0 {
			m.logger.Printf("audio: channel %d: mixer refused %q, slot cleared", i, v.Sound.Name())
			m.table.Reset(i)
			continue
		}
		v.Handle = h
	}
}
