package audio

import (
	"github.com/lixenwraith/posaudio/vmath"
)

// soundPriority is the eviction weight of a sound at location
// Invalid radius yields zero, matching full attenuation
func soundPriority(target, location vmath.Vec3F, volume, radius float64) float64 {
	if !validRadius(radius) {
		return 0
	}
	p := volume * (1 - vmath.V3FDist(location, target)/radius)
	if !(p > 0) || !vmath.Finite(p) {
		return 0
	}
	return p
}

func validRadius(r float64) bool {
	return r > 0 && vmath.Finite(r)
}

// RequestPlay admits a sound into the voice table
//
// A free-slot identity is replaced by a fresh synthetic one. An occupied voice
// with the same identity is replaced by an interruptable request; a request that
// is not interruptable fails instead. Otherwise the lowest-priority voice whose
// priority does not exceed the request's is evicted; empty slots come first and
// ties go to the lowest index. The new voice starts on the next Update.
//
// Returns false without touching the table when there is no viewport, sound is
// nil, the identity is protected, or no voice can be evicted
func (m *Manager) RequestPlay(owner Actor, id Identity, sound Sound, location vmath.Vec3F, volume, radius, pitch float64) bool {
	f, ok := m.currentFrame()
	if !ok || sound == nil {
		return false
	}

	if id.IsFreeSlot() {
		m.freeSlot--
		id = Identity{Category: CategoryNone, Owner: m.freeSlot, Interruptable: id.Interruptable}
	}

	priority := soundPriority(f.target, location, volume, radius)

	index, ok := m.evictionTarget(id, priority)
	if !ok {
		return false
	}

	m.Stop(index)
	m.table.Set(index, Voice{
		Identity: id,
		Owner:    owner,
		Sound:    sound,
		Location: location,
		Volume:   volume,
		Radius:   radius,
		Pitch:    pitch,
		Priority: priority,
	})
	return true
}

// evictionTarget picks the slot a request at priority may take
func (m *Manager) evictionTarget(id Identity, priority float64) (int, bool) {
	index, found := 0, false
	best := priority
	emptyFound := false

	for i := 0; i < m.table.Len(); i++ {
		v := m.table.At(i)

		if !v.Occupied() {
			if !emptyFound {
				index, found, emptyFound = i, true, true
			}
			continue
		}

		if v.Identity.Same(id) {
			if !id.Interruptable {
				return 0, false
			}
			return i, true
		}

		if emptyFound {
			continue
		}
		if v.Priority <= priority && (!found || v.Priority < best) {
			index, found, best = i, true, v.Priority
		}
	}

	return index, found
}

// Stop releases slot index; backend stop is issued only for a started voice
func (m *Manager) Stop(index int) {
	if index < 0 || index >= m.table.Len() {
		return
	}
	v := m.table.At(index)
	if v.Handle != 0 {
		m.mixer.StopSound(v.Handle)
	}
	m.table.Reset(index)
}

// StopIdentity stops the voice holding id, if any
func (m *Manager) StopIdentity(id Identity) bool {
	i, ok := m.table.Find(id)
	if !ok {
		return false
	}
	m.Stop(i)
	return true
}

// NoteOwnerDestroyed must be called before the next Update when owner is destroyed
// Ambient voices of owner stop; other voices lose the owner and keep playing in place
func (m *Manager) NoteOwnerDestroyed(owner Actor) {
	if owner == nil {
		return
	}
	for i := 0; i < m.table.Len(); i++ {
		v := m.table.At(i)
		if !v.Occupied() || v.Owner != owner {
			continue
		}
		if v.Identity.Category == CategoryAmbient {
			m.Stop(i)
		} else {
			v.Owner = nil
		}
	}
}
