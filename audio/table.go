package audio

// VoiceTable is the fixed-capacity set of voices
// Lookups are linear; tables hold tens of entries
type VoiceTable struct {
	voices []Voice
}

// NewVoiceTable creates a table with n empty slots
func NewVoiceTable(n int) *VoiceTable {
	return &VoiceTable{voices: make([]Voice, n)}
}

// Len returns the slot count
func (t *VoiceTable) Len() int {
	return len(t.voices)
}

// At returns slot i; the pointer is valid until the next Resize
func (t *VoiceTable) At(i int) *Voice {
	return &t.voices[i]
}

// Set overwrites slot i
func (t *VoiceTable) Set(i int, v Voice) {
	t.voices[i] = v
}

// Reset empties slot i
func (t *VoiceTable) Reset(i int) {
	t.voices[i].reset()
}

// Find returns the index of the occupied slot matching id, ignoring Interruptable
func (t *VoiceTable) Find(id Identity) (int, bool) {
	for i := range t.voices {
		v := &t.voices[i]
		if v.Occupied() && v.Identity.Same(id) {
			return i, true
		}
	}
	return 0, false
}

// Occupied returns the number of occupied slots
func (t *VoiceTable) Occupied() int {
	n := 0
	for i := range t.voices {
		if t.voices[i].Occupied() {
			n++
		}
	}
	return n
}

// Each calls fn for every occupied slot in index order
func (t *VoiceTable) Each(fn func(i int, v *Voice)) {
	for i := range t.voices {
		if t.voices[i].Occupied() {
			fn(i, &t.voices[i])
		}
	}
}

// Resize sets the slot count and clears every slot, reusing capacity
// Callers must stop active voices first
func (t *VoiceTable) Resize(n int) {
	if cap(t.voices) >= n {
		t.voices = t.voices[:n]
	} else {
		t.voices = make([]Voice, n)
	}
	clear(t.voices)
}
