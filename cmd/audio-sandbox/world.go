package main

import (
	"math"

	"github.com/lixenwraith/posaudio/audio"
	"github.com/lixenwraith/posaudio/constant"
	"github.com/lixenwraith/posaudio/vmath"
)

// cellSize is world units per screen cell
const cellSize = 100.0

// cellLocation converts a grid cell to world units
func cellLocation(x, y int) vmath.Vec3F {
	return vmath.Vec3F{X: float64(x) * cellSize, Y: float64(y) * cellSize}
}

// actor is a sandbox object placed on the grid
type actor struct {
	name  string
	glyph rune
	loc   vmath.Vec3F
	vel   vmath.Vec3F

	ambient audio.Sound
	volume  uint8
	radius  float64
	pitch   uint8
}

func (a *actor) Location() vmath.Vec3F    { return a.loc }
func (a *actor) Velocity() vmath.Vec3F    { return a.vel }
func (a *actor) AmbientSound() audio.Sound { return a.ambient }
func (a *actor) SoundVolume() uint8       { return a.volume }
func (a *actor) SoundRadius() float64     { return a.radius }
func (a *actor) SoundPitch() uint8        { return a.pitch }

// cell returns the grid position of the actor
func (a *actor) cell() (x, y int) {
	return int(math.Round(a.loc.X / cellSize)), int(math.Round(a.loc.Y / cellSize))
}

// world holds actors at stable indices; destroyed actors leave a nil hole
type world struct {
	actors []*actor
	paused bool
}

func (w *world) ActorCount() int { return len(w.actors) }

func (w *world) ActorAt(i int) audio.Actor {
	if i < 0 || i >= len(w.actors) || w.actors[i] == nil {
		return nil
	}
	return w.actors[i]
}

// spawn adds a at the next index
func (w *world) spawn(a *actor) int {
	w.actors = append(w.actors, a)
	return len(w.actors) - 1
}

// indexOf returns the stable index of a, -1 if absent
func (w *world) indexOf(a *actor) int {
	for i, o := range w.actors {
		if o == a && a != nil {
			return i
		}
	}
	return -1
}

// destroy vacates index i and returns the removed actor
func (w *world) destroy(i int) *actor {
	if i < 0 || i >= len(w.actors) {
		return nil
	}
	a := w.actors[i]
	w.actors[i] = nil
	return a
}

// nearestEmitter finds the closest live actor with an ambient sound
func (w *world) nearestEmitter(p vmath.Vec3F) int {
	best, bestDist := -1, math.Inf(1)
	for i, a := range w.actors {
		if a == nil || a.ambient == nil {
			continue
		}
		if d := vmath.V3FDistSq(p, a.loc); d < bestDist {
			best, bestDist = i, d
		}
	}
	return best
}

// pawn is a possessable listener with music state
type pawn struct {
	actor

	yaw    int32
	target *actor

	transition audio.Transition
	song       audio.Track
	section    int
}

func newPawn(name string, glyph rune, x, y int) *pawn {
	return &pawn{
		actor: actor{
			name:  name,
			glyph: glyph,
			loc:   cellLocation(x, y),
		},
		section: constant.AudioSectionUnset,
	}
}

func (p *pawn) ViewTarget() audio.Actor {
	if p.target == nil {
		return nil
	}
	return p.target
}

func (p *pawn) MusicTransition() audio.Transition      { return p.transition }
func (p *pawn) SetMusicTransition(t audio.Transition) { p.transition = t }
func (p *pawn) Song() audio.Track                      { return p.song }
func (p *pawn) SongSection() int                       { return p.section }

// move shifts the pawn by whole cells; velocity covers one frame for Doppler
func (p *pawn) move(dx, dy int) {
	delta := vmath.Vec3F{X: float64(dx) * cellSize, Y: float64(dy) * cellSize}
	p.loc = vmath.V3FAdd(p.loc, delta)
	p.vel = vmath.V3FScale(delta, 1/constant.AudioFrameInterval.Seconds())
}

// settle clears per-frame velocity after the audio update consumed it
func (p *pawn) settle() {
	p.vel = vmath.Vec3F{}
}

// turn rotates by delta rotator units, wrapping at a full turn
func (p *pawn) turn(delta int32) {
	p.yaw = int32((int64(p.yaw) + int64(delta)) % constant.AudioRotatorUnits)
	if p.yaw < 0 {
		p.yaw += constant.AudioRotatorUnits
	}
}

// heading returns the facing glyph for the current yaw
func (p *pawn) heading() rune {
	arrows := []rune{'→', '↘', '↓', '↙', '←', '↖', '↑', '↗'}
	octant := (int(p.yaw) + constant.AudioRotatorUnits/16) / (constant.AudioRotatorUnits / 8)
	return arrows[octant%8]
}

// listener builds the world-to-listener transform at the pawn
func (p *pawn) listener() vmath.Mat4 {
	return audio.NewListenerTransform(p.loc, audio.Rotator{Yaw: p.yaw})
}

// viewport binds a pawn to the shared world
type viewport struct {
	pawn  *pawn
	world *world
}

func (v *viewport) Controller() audio.Controller { return v.pawn }
func (v *viewport) World() audio.World           { return v.world }
func (v *viewport) Realtime() bool               { return !v.world.paused }
