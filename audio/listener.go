package audio

import (
	"github.com/lixenwraith/posaudio/constant"
	"github.com/lixenwraith/posaudio/vmath"
)

// Rotator is an actor orientation in rotator units (65536 per turn)
type Rotator struct {
	Pitch, Yaw, Roll int32
}

func rotatorDegrees(v int32) float64 {
	return float64(v) * 360 / constant.AudioRotatorUnits
}

func (r Rotator) PitchDegrees() float64 { return rotatorDegrees(r.Pitch) }
func (r Rotator) YawDegrees() float64   { return rotatorDegrees(r.Yaw) }
func (r Rotator) RollDegrees() float64  { return rotatorDegrees(r.Roll) }

// listenerAxes converts world axes to listener axes: forward +Z, right +X
var listenerAxes = vmath.Mat4{
	-1, 0, 0, 0,
	0, 0, 1, 0,
	0, -1, 0, 0,
	0, 0, 0, 1,
}

// NewListenerTransform builds the world-to-listener matrix for a camera
func NewListenerTransform(location vmath.Vec3F, rotation Rotator) vmath.Mat4 {
	rotate := vmath.Rotate4(vmath.Radians(rotation.RollDegrees()), 0, 1, 0).
		Mul(vmath.Rotate4(vmath.Radians(rotation.PitchDegrees()), -1, 0, 0)).
		Mul(vmath.Rotate4(vmath.Radians(rotation.YawDegrees()-90), 0, 0, -1))
	translate := vmath.Translate4(vmath.V3FScale(location, -1))
	return listenerAxes.Mul(rotate).Mul(translate)
}
