package asset

import (
	"slices"
	"time"

	"github.com/gopxl/beep"
)

// Track is a music piece split into addressable sections
// Section 0 always starts at the first frame
type Track struct {
	name     string
	buf      *beep.Buffer
	sections []int // frame offsets, ascending, first is 0
}

// NewTrack builds a track; marks are section start times, invalid marks are dropped
func NewTrack(name string, buf *beep.Buffer, marks ...time.Duration) *Track {
	sections := []int{0}
	rate := buf.Format().SampleRate
	for _, m := range marks {
		off := rate.N(m)
		if off > 0 && off < buf.Len() {
			sections = append(sections, off)
		}
	}
	slices.Sort(sections)
	sections = slices.Compact(sections)

	return &Track{name: name, buf: buf, sections: sections}
}

// Name implements audio.Track
func (t *Track) Name() string { return t.name }

// Format returns the buffer format
func (t *Track) Format() beep.Format { return t.buf.Format() }

// Sections returns the number of addressable sections
func (t *Track) Sections() int { return len(t.sections) }

// Bounds returns the frame range of section; out-of-range sections map to 0
func (t *Track) Bounds(section int) (start, end int) {
	if section < 0 || section >= len(t.sections) {
		section = 0
	}
	start = t.sections[section]
	end = t.buf.Len()
	if section+1 < len(t.sections) {
		end = t.sections[section+1]
	}
	return start, end
}

// Streamer loops section forever; nil if the section is empty
func (t *Track) Streamer(section int) beep.Streamer {
	start, end := t.Bounds(section)
	if end <= start {
		return nil
	}
	return beep.Loop(-1, t.buf.Streamer(start, end))
}
