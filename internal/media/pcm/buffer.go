package pcm

import (
	"errors"
	"fmt"
	"math"
)

// Buffer holds decoded audio as interleaved signed 16-bit samples. All mix
// arithmetic (crossfades, gain, silence trimming) happens on this
// representation; encode/decode to compressed formats is the ffmpeg client's
// job.
type Buffer struct {
	SampleRate int
	Channels   int
	Samples    []int16
}

const maxSampleValue = 32768.0

// New wraps raw interleaved samples in a Buffer.
func New(sampleRate, channels int, samples []int16) (*Buffer, error) {
	if sampleRate <= 0 {
		return nil, fmt.Errorf("pcm: invalid sample rate %d", sampleRate)
	}
	if channels <= 0 {
		return nil, fmt.Errorf("pcm: invalid channel count %d", channels)
	}
	if len(samples)%channels != 0 {
		return nil, fmt.Errorf("pcm: sample count %d not divisible by %d channels", len(samples), channels)
	}
	return &Buffer{SampleRate: sampleRate, Channels: channels, Samples: samples}, nil
}

// Silence returns a buffer of the requested duration filled with zeros.
func Silence(sampleRate, channels, durationMS int) *Buffer {
	frames := framesForMS(sampleRate, durationMS)
	return &Buffer{
		SampleRate: sampleRate,
		Channels:   channels,
		Samples:    make([]int16, frames*channels),
	}
}

// Frames returns the number of sample frames (samples per channel).
func (b *Buffer) Frames() int {
	if b.Channels == 0 {
		return 0
	}
	return len(b.Samples) / b.Channels
}

// DurationMS returns the buffer duration in whole milliseconds, rounded.
func (b *Buffer) DurationMS() int {
	if b.SampleRate == 0 {
		return 0
	}
	return int(math.Round(float64(b.Frames()) * 1000.0 / float64(b.SampleRate)))
}

// Clone returns a deep copy of the buffer.
func (b *Buffer) Clone() *Buffer {
	samples := make([]int16, len(b.Samples))
	copy(samples, b.Samples)
	return &Buffer{SampleRate: b.SampleRate, Channels: b.Channels, Samples: samples}
}

// AppendCrossfade appends next to b with a linear crossfade and returns the
// combined buffer. The last crossfadeMS of b overlap the first crossfadeMS of
// next, amplitude-blended linearly across the overlap. The fade length is
// clamped to the shorter of the two buffers, so an oversized crossfade
// degrades to the longest overlap both sides can support. A crossfade of zero
// is a plain concatenation.
func (b *Buffer) AppendCrossfade(next *Buffer, crossfadeMS int) (*Buffer, error) {
	if next == nil {
		return nil, errors.New("pcm: nil buffer appended")
	}
	if b.SampleRate != next.SampleRate || b.Channels != next.Channels {
		return nil, fmt.Errorf("pcm: layout mismatch: %dHz/%dch vs %dHz/%dch",
			b.SampleRate, b.Channels, next.SampleRate, next.Channels)
	}
	if crossfadeMS < 0 {
		return nil, fmt.Errorf("pcm: negative crossfade %dms", crossfadeMS)
	}

	fadeFrames := framesForMS(b.SampleRate, crossfadeMS)
	if fadeFrames > b.Frames() {
		fadeFrames = b.Frames()
	}
	if fadeFrames > next.Frames() {
		fadeFrames = next.Frames()
	}

	ch := b.Channels
	outFrames := b.Frames() + next.Frames() - fadeFrames
	out := make([]int16, outFrames*ch)

	headFrames := b.Frames() - fadeFrames
	copy(out, b.Samples[:headFrames*ch])

	// Blend the overlap: b fades out, next fades in.
	for i := 0; i < fadeFrames; i++ {
		frac := float64(i) / float64(fadeFrames)
		for c := 0; c < ch; c++ {
			tail := float64(b.Samples[(headFrames+i)*ch+c])
			head := float64(next.Samples[i*ch+c])
			out[(headFrames+i)*ch+c] = clipSample(tail*(1-frac) + head*frac)
		}
	}

	copy(out[(headFrames+fadeFrames)*ch:], next.Samples[fadeFrames*ch:])

	return &Buffer{SampleRate: b.SampleRate, Channels: ch, Samples: out}, nil
}

// PeakDBFS returns the peak sample level in dBFS. A fully silent buffer
// returns negative infinity.
func (b *Buffer) PeakDBFS() float64 {
	peak := 0
	for _, s := range b.Samples {
		v := int(s)
		if v < 0 {
			v = -v
		}
		if v > peak {
			peak = v
		}
	}
	if peak == 0 {
		return math.Inf(-1)
	}
	return 20 * math.Log10(float64(peak)/maxSampleValue)
}

// ApplyGain scales all samples by the given decibel amount in place,
// clipping at the int16 range.
func (b *Buffer) ApplyGain(db float64) {
	if db == 0 {
		return
	}
	scale := math.Pow(10, db/20)
	for i, s := range b.Samples {
		b.Samples[i] = clipSample(float64(s) * scale)
	}
}

// TrimLeadingSilence removes audio from the start of the buffer until a
// chunk's RMS level exceeds thresholdDBFS, scanning in chunkMS steps and
// never removing more than maxTrimMS. It returns the number of milliseconds
// removed. The trim point is quantized to chunk boundaries.
func (b *Buffer) TrimLeadingSilence(thresholdDBFS float64, maxTrimMS, chunkMS int) int {
	if chunkMS <= 0 {
		chunkMS = 10
	}
	if maxTrimMS <= 0 {
		return 0
	}

	chunkFrames := framesForMS(b.SampleRate, chunkMS)
	if chunkFrames == 0 {
		return 0
	}
	maxTrimFrames := framesForMS(b.SampleRate, maxTrimMS)
	totalFrames := b.Frames()
	if maxTrimFrames > totalFrames {
		maxTrimFrames = totalFrames
	}

	trimFrames := 0
	for trimFrames+chunkFrames <= maxTrimFrames {
		level := b.chunkRMSDBFS(trimFrames, chunkFrames)
		if level > thresholdDBFS {
			break
		}
		trimFrames += chunkFrames
	}
	if trimFrames == 0 {
		return 0
	}

	b.Samples = b.Samples[trimFrames*b.Channels:]
	return int(math.Round(float64(trimFrames) * 1000.0 / float64(b.SampleRate)))
}

func (b *Buffer) chunkRMSDBFS(startFrame, frames int) float64 {
	start := startFrame * b.Channels
	end := (startFrame + frames) * b.Channels
	if end > len(b.Samples) {
		end = len(b.Samples)
	}
	if start >= end {
		return math.Inf(-1)
	}
	var sum float64
	for _, s := range b.Samples[start:end] {
		v := float64(s)
		sum += v * v
	}
	rms := math.Sqrt(sum / float64(end-start))
	if rms == 0 {
		return math.Inf(-1)
	}
	return 20 * math.Log10(rms/maxSampleValue)
}

func framesForMS(sampleRate, ms int) int {
	return int(math.Round(float64(sampleRate) * float64(ms) / 1000.0))
}

func clipSample(v float64) int16 {
	switch {
	case v > 32767:
		return 32767
	case v < -32768:
		return -32768
	default:
		return int16(math.Round(v))
	}
}
