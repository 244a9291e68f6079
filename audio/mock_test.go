package audio

import (
	"io"
	"log"
	"math"
	"testing"

	"github.com/lixenwraith/posaudio/vmath"
)

// --- Sounds ---

type testSound struct{ name string }

func (s *testSound) Name() string { return s.name }

type testTrack struct{ name string }

func (t *testTrack) Name() string { return t.name }

// --- Recording mixer ---

type mixerCall struct {
	Op      string
	Handle  Handle
	Key     int
	Sound   Sound
	Track   Track
	Section int
	Volume  float64
	Pan     float64
	Pitch   float64
}

type recordingMixer struct {
	calls    []mixerCall
	next     Handle
	finished map[Handle]bool
	stopped  map[Handle]bool
	refuse   bool

	musicVolume float64
	soundVolume float64
	advances    int
}

func newRecordingMixer() *recordingMixer {
	return &recordingMixer{
		finished: make(map[Handle]bool),
		stopped:  make(map[Handle]bool),
	}
}

func (r *recordingMixer) PlayMusic(track Track, section int) {
	r.calls = append(r.calls, mixerCall{Op: "PlayMusic", Track: track, Section: section})
}

func (r *recordingMixer) SetMusicVolume(v float64) { r.musicVolume = v }
func (r *recordingMixer) SetSoundVolume(v float64) { r.soundVolume = v }

func (r *recordingMixer) PlaySound(key int, s Sound, volume, pan, pitch float64) Handle {
	if r.refuse {
		r.calls = append(r.calls, mixerCall{Op: "PlaySound", Key: key, Sound: s})
		return 0
	}
	r.next++
	r.calls = append(r.calls, mixerCall{Op: "PlaySound", Handle: r.next, Key: key, Sound: s, Volume: volume, Pan: pan, Pitch: pitch})
	return r.next
}

func (r *recordingMixer) UpdateSound(h Handle, volume, pan, pitch float64) {
	r.calls = append(r.calls, mixerCall{Op: "UpdateSound", Handle: h, Volume: volume, Pan: pan, Pitch: pitch})
}

func (r *recordingMixer) StopSound(h Handle) {
	r.stopped[h] = true
	r.calls = append(r.calls, mixerCall{Op: "StopSound", Handle: h})
}

func (r *recordingMixer) SoundFinished(h Handle) bool {
	return r.finished[h]
}

func (r *recordingMixer) Advance() { r.advances++ }

func (r *recordingMixer) count(op string) int {
	n := 0
	for _, c := range r.calls {
		if c.Op == op {
			n++
		}
	}
	return n
}

func (r *recordingMixer) last(op string) (mixerCall, bool) {
	for i := len(r.calls) - 1; i >= 0; i-- {
		if r.calls[i].Op == op {
			return r.calls[i], true
		}
	}
	return mixerCall{}, false
}

func (r *recordingMixer) reset() {
	r.calls = r.calls[:0]
}

// --- World ---

type testActor struct {
	loc     vmath.Vec3F
	vel     vmath.Vec3F
	ambient Sound
	volume  uint8
	radius  float64
	pitch   uint8
}

func (a *testActor) Location() vmath.Vec3F { return a.loc }
func (a *testActor) Velocity() vmath.Vec3F { return a.vel }
func (a *testActor) AmbientSound() Sound    { return a.ambient }
func (a *testActor) SoundVolume() uint8     { return a.volume }
func (a *testActor) SoundRadius() float64   { return a.radius }
func (a *testActor) SoundPitch() uint8      { return a.pitch }

type testWorld struct {
	actors []*testActor
}

func (w *testWorld) ActorCount() int { return len(w.actors) }

func (w *testWorld) ActorAt(i int) Actor {
	if w.actors[i] == nil {
		return nil
	}
	return w.actors[i]
}

type testController struct {
	testActor
	viewTarget *testActor
	transition Transition
	song       Track
	section    int
}

func (c *testController) ViewTarget() Actor {
	if c.viewTarget == nil {
		return nil
	}
	return c.viewTarget
}

func (c *testController) MusicTransition() Transition      { return c.transition }
func (c *testController) SetMusicTransition(t Transition) { c.transition = t }
func (c *testController) Song() Track                      { return c.song }
func (c *testController) SongSection() int                 { return c.section }

type testViewport struct {
	controller *testController
	world      *testWorld
	realtime   bool
}

func (v *testViewport) Controller() Controller { return v.controller }
func (v *testViewport) World() World           { return v.world }
func (v *testViewport) Realtime() bool         { return v.realtime }

// --- Fixture ---

type fixture struct {
	mixer    *recordingMixer
	manager  *Manager
	viewport *testViewport
	world    *testWorld
}

func newFixture(t *testing.T, channels int) *fixture {
	t.Helper()

	cfg := DefaultAudioConfig()
	cfg.Channels = channels

	mixer := newRecordingMixer()
	m, err := NewManager(mixer, cfg, log.New(io.Discard, "", 0))
	if err != nil {
		t.Fatalf("NewManager failed: %v", err)
	}

	world := &testWorld{}
	vp := &testViewport{
		controller: &testController{section: 255},
		world:      world,
		realtime:   true,
	}
	m.SetViewport(vp)
	mixer.reset()

	return &fixture{mixer: mixer, manager: m, viewport: vp, world: world}
}

// snapshot copies the table for byte-for-byte comparison
func (f *fixture) snapshot() []Voice {
	out := make([]Voice, f.manager.Channels())
	for i := range out {
		out[i] = f.manager.Voice(i)
	}
	return out
}

func sameTable(a, b []Voice) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// fill occupies every slot with a free-slot sound at priority p (volume p, at the listener)
func (f *fixture) fill(t *testing.T, p float64) {
	t.Helper()
	for i := 0; i < f.manager.Channels(); i++ {
		if !f.manager.RequestPlay(nil, FreeSlot(true), &testSound{name: "fill"}, vmath.Vec3F{}, p, 1000, 1) {
			t.Fatalf("fill request %d rejected", i)
		}
	}
}

func almost(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}
