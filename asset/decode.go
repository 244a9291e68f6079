package asset

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-audio/aiff"
	goaudio "github.com/go-audio/audio"
	"github.com/gopxl/beep"
	"github.com/gopxl/beep/wav"
	mp3 "github.com/hajimehoshi/go-mp3"
	"github.com/jfreymuth/oggvorbis"
)

// Supported reports whether ext (with or without dot) names a decodable format
func Supported(ext string) bool {
	switch normalizeExt(ext) {
	case "wav", "mp3", "ogg", "oga", "aif", "aiff":
		return true
	}
	return false
}

func normalizeExt(ext string) string {
	return strings.ToLower(strings.TrimPrefix(ext, "."))
}

// Decode reads the whole stream into a stereo buffer at the source rate
func Decode(r io.Reader, ext string) (*beep.Buffer, error) {
	var (
		buf *beep.Buffer
		err error
	)

	switch normalizeExt(ext) {
	case "wav":
		buf, err = decodeWAV(r)
	case "mp3":
		buf, err = decodeMP3(r)
	case "ogg", "oga":
		buf, err = decodeOgg(r)
	case "aif", "aiff":
		buf, err = decodeAIFF(r)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}

	if err != nil {
		return nil, err
	}
	if buf.Len() == 0 {
		return nil, ErrEmpty
	}
	return buf, nil
}

// LoadSound decodes a file; the sound is named after the file base name
func LoadSound(path string) (*Sound, error) {
	buf, err := decodeFile(path)
	if err != nil {
		return nil, err
	}
	return NewSound(soundName(path), buf), nil
}

// LoadTrack decodes a music file with optional section marks
func LoadTrack(path string, marks ...time.Duration) (*Track, error) {
	buf, err := decodeFile(path)
	if err != nil {
		return nil, err
	}
	return NewTrack(soundName(path), buf, marks...), nil
}

func decodeFile(path string) (*beep.Buffer, error) {
	ext := filepath.Ext(path)
	if !Supported(ext) {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, path)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	buf, err := Decode(f, ext)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return buf, nil
}

// soundName strips directory and extension
func soundName(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// wavPCM16Gain restores full scale for 16-bit PCM: beep/wav v1.4 divides by 65535, not 32767
const wavPCM16Gain = float64(1<<16-1) / float64(1<<15-1)

func decodeWAV(r io.Reader) (*beep.Buffer, error) {
	s, format, err := wav.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("%w: wav: %v", ErrDecode, err)
	}
	defer s.Close()

	var src beep.Streamer = s
	if format.Precision == 2 {
		src = fullScale(s, wavPCM16Gain)
	}

	buf := beep.NewBuffer(stereoFormat(format.SampleRate))
	buf.Append(src)
	if err := s.Err(); err != nil {
		return nil, fmt.Errorf("%w: wav: %v", ErrDecode, err)
	}
	return buf, nil
}

// fullScale multiplies s by g, clamped to [-1, 1]
func fullScale(s beep.Streamer, g float64) beep.Streamer {
	return beep.StreamerFunc(func(samples [][2]float64) (int, bool) {
		n, ok := s.Stream(samples)
		for i := range samples[:n] {
			samples[i][0] = math.Max(-1, math.Min(1, samples[i][0]*g))
			samples[i][1] = math.Max(-1, math.Min(1, samples[i][1]*g))
		}
		return n, ok
	})
}

// decodeMP3 reads go-mp3 output: 16-bit little-endian stereo
func decodeMP3(r io.Reader) (*beep.Buffer, error) {
	d, err := mp3.NewDecoder(r)
	if err != nil {
		return nil, fmt.Errorf("%w: mp3: %v", ErrDecode, err)
	}

	raw, err := io.ReadAll(d)
	if err != nil {
		return nil, fmt.Errorf("%w: mp3: %v", ErrDecode, err)
	}

	frames := make([][2]float64, len(raw)/4)
	for i := range frames {
		left := int16(binary.LittleEndian.Uint16(raw[i*4:]))
		right := int16(binary.LittleEndian.Uint16(raw[i*4+2:]))
		frames[i] = [2]float64{float64(left) / 32768, float64(right) / 32768}
	}

	buf := beep.NewBuffer(stereoFormat(beep.SampleRate(d.SampleRate())))
	buf.Append(sliceStreamer(frames))
	return buf, nil
}

func decodeOgg(r io.Reader) (*beep.Buffer, error) {
	data, format, err := oggvorbis.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("%w: ogg: %v", ErrDecode, err)
	}
	if format == nil || format.Channels < 1 {
		return nil, fmt.Errorf("%w: ogg: no channels", ErrDecode)
	}

	ch := format.Channels
	frames := make([][2]float64, len(data)/ch)
	for i := range frames {
		left := float64(data[i*ch])
		right := left
		if ch > 1 {
			right = float64(data[i*ch+1])
		}
		frames[i] = [2]float64{left, right}
	}

	buf := beep.NewBuffer(stereoFormat(beep.SampleRate(format.SampleRate)))
	buf.Append(sliceStreamer(frames))
	return buf, nil
}

// decodeAIFF needs a seekable source; others are read into memory first
func decodeAIFF(r io.Reader) (*beep.Buffer, error) {
	rs, ok := r.(io.ReadSeeker)
	if !ok {
		data, err := io.ReadAll(r)
		if err != nil {
			return nil, fmt.Errorf("%w: aiff: %v", ErrDecode, err)
		}
		rs = bytes.NewReader(data)
	}

	d := aiff.NewDecoder(rs)
	if !d.IsValidFile() {
		return nil, fmt.Errorf("%w: aiff: not a valid file", ErrDecode)
	}

	pcm, err := d.FullPCMBuffer()
	if err != nil {
		return nil, fmt.Errorf("%w: aiff: %v", ErrDecode, err)
	}
	if pcm.Format == nil || pcm.Format.NumChannels < 1 || pcm.Format.SampleRate <= 0 {
		return nil, fmt.Errorf("%w: aiff: missing format", ErrDecode)
	}

	depth := int(d.BitDepth)
	if depth == 0 {
		depth = pcm.SourceBitDepth
	}

	buf := beep.NewBuffer(stereoFormat(beep.SampleRate(pcm.Format.SampleRate)))
	buf.Append(sliceStreamer(intFrames(pcm, depth)))
	return buf, nil
}

// intFrames normalizes interleaved integer PCM to stereo floats
func intFrames(pcm *goaudio.IntBuffer, bitDepth int) [][2]float64 {
	if bitDepth <= 0 || bitDepth > 32 {
		bitDepth = 16
	}
	scale := float64(int64(1) << (bitDepth - 1))
	ch := pcm.Format.NumChannels

	frames := make([][2]float64, len(pcm.Data)/ch)
	for i := range frames {
		left := float64(pcm.Data[i*ch]) / scale
		right := left
		if ch > 1 {
			right = float64(pcm.Data[i*ch+1]) / scale
		}
		frames[i] = [2]float64{left, right}
	}
	return frames
}
