package main

import (
	"fmt"
	"log"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/lixenwraith/posaudio/asset"
	"github.com/lixenwraith/posaudio/audio"
	"github.com/lixenwraith/posaudio/constant"
	"github.com/lixenwraith/posaudio/mixer"
	"github.com/lixenwraith/posaudio/vmath"
)

const (
	turnStep     = constant.AudioRotatorUnits / 8
	fireRadius   = 3000.0
	volumeStep   = 16
	statusExpiry = 2 * time.Second
)

var (
	styleDefault  = tcell.StyleDefault
	styleEmitter  = tcell.StyleDefault.Foreground(tcell.ColorYellow).Bold(true)
	styleSilent   = tcell.StyleDefault.Foreground(tcell.ColorGray)
	styleListener = tcell.StyleDefault.Foreground(tcell.ColorGreen).Reverse(true)
	styleObserver = tcell.StyleDefault.Foreground(tcell.ColorBlue)
	styleOverlay  = tcell.StyleDefault.Foreground(tcell.ColorWhite).Background(tcell.ColorNavy)
	styleStatus   = tcell.StyleDefault.Foreground(tcell.ColorBlack).Background(tcell.ColorSilver)
)

const helpLine = "hjkl/arrows move  q/e turn  space fire  f alarm  m music  p pause  x destroy  v view  s stats  +/- vol  Esc quit"

// Sandbox is the interactive positional audio demo
type Sandbox struct {
	screen        tcell.Screen
	width, height int

	manager *audio.Manager
	backend *mixer.BeepMixer
	logger  *log.Logger

	world    *world
	player   *pawn
	observer *pawn
	views    [2]*viewport
	active   int

	song  *asset.Track
	blip  *asset.Sound
	alarm *asset.Sound

	showStats  bool
	voices     []audio.Voice
	status     string
	statusTime time.Time
}

// NewSandbox populates the world from lib and attaches the first viewport
// backend may be nil; it only feeds the stats overlay
func NewSandbox(screen tcell.Screen, manager *audio.Manager, backend *mixer.BeepMixer,
	lib *asset.Library, song *asset.Track, logger *log.Logger) (*Sandbox, error) {
	if logger == nil {
		logger = log.Default()
	}

	s := &Sandbox{
		screen:  screen,
		manager: manager,
		backend: backend,
		logger:  logger,
		world:   &world{},
		song:    song,
	}
	s.width, s.height = screen.Size()

	var err error
	if s.blip, err = lib.Get("blip"); err != nil {
		return nil, err
	}
	if s.alarm, err = lib.Get("alarm"); err != nil {
		return nil, err
	}

	s.player = newPawn("player", '@', 0, 0)
	s.observer = newPawn("observer", 'O', 20, 8)
	s.world.spawn(&s.player.actor)
	s.world.spawn(&s.observer.actor)
	if song != nil {
		s.player.song = song
		s.observer.song = song
	}

	for _, spec := range emitterSpecs {
		snd, err := lib.Get(spec.name)
		if err != nil {
			return nil, fmt.Errorf("emitter %s: %w", spec.name, err)
		}
		s.world.spawn(&actor{
			name:    spec.name,
			glyph:   spec.glyph,
			loc:     cellLocation(spec.dx, spec.dy),
			ambient: snd.Looped(),
			volume:  spec.volume,
			radius:  spec.radius,
			pitch:   spec.pitch,
		})
	}

	s.views[0] = &viewport{pawn: s.player, world: s.world}
	s.views[1] = &viewport{pawn: s.observer, world: s.world}
	s.manager.SetViewport(s.views[0])
	return s, nil
}

// controlled returns the pawn of the active viewport
func (s *Sandbox) controlled() *pawn {
	return s.views[s.active].pawn
}

// tick runs one audio frame from the active pawn
func (s *Sandbox) tick() {
	p := s.controlled()
	s.manager.Update(p.listener())
	p.settle()
}

// setStatus shows msg on the status line and logs it
func (s *Sandbox) setStatus(format string, args ...any) {
	s.status = fmt.Sprintf(format, args...)
	s.statusTime = time.Now()
	s.logger.Printf("sandbox: %s", s.status)
}

// apply executes one command key; false quits
func (s *Sandbox) apply(key rune) bool {
	p := s.controlled()

	switch key {
	case 'h':
		p.move(-1, 0)
	case 'l':
		p.move(1, 0)
	case 'k':
		p.move(0, -1)
	case 'j':
		p.move(0, 1)
	case 'q':
		p.turn(-turnStep)
	case 'e':
		p.turn(turnStep)

	case ' ':
		ok := s.manager.RequestPlay(nil, audio.FreeSlot(true), s.blip, p.loc, 1, fireRadius, 1)
		s.setStatus("fire: %s", admitted(ok))

	case 'f':
		owner := s.world.indexOf(&p.actor)
		id := audio.NewIdentity(audio.CategoryInterface, owner, false)
		ok := s.manager.RequestPlay(&p.actor, id, s.alarm, p.loc, 1, fireRadius, 1)
		s.setStatus("alarm %s: %s", id, admitted(ok))

	case 'm':
		if p.song == nil {
			s.setStatus("music: no song")
			break
		}
		next := 0
		if p.section != constant.AudioSectionUnset {
			next = (p.section + 1) % s.song.Sections()
		}
		p.section = next
		p.SetMusicTransition(audio.TransitionInstant)
		s.setStatus("music: section %d queued", next)

	case 'p':
		s.world.paused = !s.world.paused
		s.setStatus("paused: %v", s.world.paused)

	case 'x':
		i := s.world.nearestEmitter(p.loc)
		if i < 0 {
			s.setStatus("destroy: no emitters left")
			break
		}
		a := s.world.destroy(i)
		s.manager.NoteOwnerDestroyed(a)
		s.setStatus("destroyed %s", a.name)

	case 'v':
		s.active ^= 1
		s.manager.SetViewport(s.views[s.active])
		s.setStatus("viewport: %s", s.controlled().name)

	case 's':
		s.showStats = !s.showStats

	case '+', '=':
		s.manager.SetSoundVolume(uint8(min(255, int(s.manager.SoundVolume())+volumeStep)))
		s.setStatus("sound volume %d", s.manager.SoundVolume())
	case '-':
		s.manager.SetSoundVolume(uint8(max(0, int(s.manager.SoundVolume())-volumeStep)))
		s.setStatus("sound volume %d", s.manager.SoundVolume())
	}
	return true
}

func admitted(ok bool) string {
	if ok {
		return "admitted"
	}
	return "rejected"
}

// handleInput maps terminal events to commands; false quits
func (s *Sandbox) handleInput(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		switch ev.Key() {
		case tcell.KeyEscape, tcell.KeyCtrlC:
			return false
		case tcell.KeyLeft:
			return s.apply('h')
		case tcell.KeyRight:
			return s.apply('l')
		case tcell.KeyUp:
			return s.apply('k')
		case tcell.KeyDown:
			return s.apply('j')
		case tcell.KeyRune:
			return s.apply(ev.Rune())
		}

	case *tcell.EventResize:
		s.width, s.height = s.screen.Size()
		s.screen.Sync()
	}
	return true
}

// toScreen maps a grid cell to screen coordinates, origin at the center
func (s *Sandbox) toScreen(cx, cy int) (int, int) {
	return cx + s.width/2, cy + s.height/2
}

func (s *Sandbox) drawText(x, y int, text string, style tcell.Style) {
	for _, r := range text {
		if x >= s.width {
			return
		}
		s.screen.SetContent(x, y, r, nil, style)
		x++
	}
}

func (s *Sandbox) draw() {
	s.screen.Clear()
	listener := s.controlled()

	for _, a := range s.world.actors {
		if a == nil || a.ambient == nil {
			continue
		}
		style := styleSilent
		if inRadius(listener.loc, a) {
			style = styleEmitter
		}
		x, y := s.toScreen(a.cell())
		s.screen.SetContent(x, y, a.glyph, nil, style)
	}

	for _, p := range []*pawn{s.player, s.observer} {
		x, y := s.toScreen(p.cell())
		if p == listener {
			s.screen.SetContent(x, y, p.heading(), nil, styleListener)
		} else {
			s.screen.SetContent(x, y, p.glyph, nil, styleObserver)
		}
	}

	if s.showStats {
		s.drawStats()
	}
	s.drawStatus()
	s.screen.Show()
}

func (s *Sandbox) drawStats() {
	lines := s.manager.Stats(make([]string, 0, s.manager.Channels()+4))

	s.voices = s.manager.Voices(s.voices[:0])
	var active, pending int
	for _, v := range s.voices {
		switch v.State() {
		case audio.VoiceActive:
			active++
		case audio.VoicePending:
			pending++
		}
	}
	lines = append(lines, fmt.Sprintf("Voices: %d active %d pending", active, pending))

	state, track, section := s.manager.Music()
	name := "-"
	if track != nil {
		name = track.Name()
	}
	lines = append(lines, fmt.Sprintf("Music: %s %s section %d", state, name, section))
	if s.backend != nil {
		st := s.backend.Stats()
		lines = append(lines, fmt.Sprintf("Mixer: active %d played %d reaped %d stopped %d refused %d",
			st.Active, st.Played, st.Reaped, st.Stopped, st.Refused))
	}

	for i, line := range lines {
		if i >= s.height-2 {
			break
		}
		s.drawText(0, i, line, styleOverlay)
	}
}

func (s *Sandbox) drawStatus() {
	if s.height < 2 {
		return
	}
	info := fmt.Sprintf("[%s] voices %d/%d", s.controlled().name, s.manager.ActiveVoices(), s.manager.Channels())
	if s.world.paused {
		info += " PAUSED"
	}
	if s.status != "" && time.Since(s.statusTime) < statusExpiry {
		info += " | " + s.status
	}
	s.drawText(0, s.height-2, info, styleStatus)
	s.drawText(0, s.height-1, helpLine, styleDefault)
}

// inRadius mirrors the ambient audibility test for display
func inRadius(p vmath.Vec3F, a *actor) bool {
	return vmath.V3FDistSq(p, a.loc) <= a.radius*a.radius
}

// run drives input and the audio frame until quit
func (s *Sandbox) run() {
	ticker := time.NewTicker(constant.AudioFrameInterval)
	defer ticker.Stop()

	eventChan := make(chan tcell.Event, 100)
	go func() {
		for {
			ev := s.screen.PollEvent()
			if ev == nil {
				return
			}
			eventChan <- ev
		}
	}()

	for {
		select {
		case ev := <-eventChan:
			if !s.handleInput(ev) {
				return
			}

		case <-ticker.C:
			s.tick()
			s.draw()
		}
	}
}
