package mix

import (
	"context"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/QuincyMillerDev/cooliomusic/internal/media/pcm"
	"github.com/QuincyMillerDev/cooliomusic/internal/services"
)

type fakeCodec struct {
	buffers   map[string]*pcm.Buffer
	decodeErr map[string]error
	encoded   map[string]*pcm.Buffer
}

func newFakeCodec() *fakeCodec {
	return &fakeCodec{
		buffers:   map[string]*pcm.Buffer{},
		decodeErr: map[string]error{},
		encoded:   map[string]*pcm.Buffer{},
	}
}

func (f *fakeCodec) DecodePCM(_ context.Context, path string) (*pcm.Buffer, error) {
	if err := f.decodeErr[path]; err != nil {
		return nil, err
	}
	buf, ok := f.buffers[path]
	if !ok {
		return nil, fmt.Errorf("no fixture for %s", path)
	}
	return buf.Clone(), nil
}

func (f *fakeCodec) EncodeMP3(_ context.Context, buf *pcm.Buffer, path string, _ int) error {
	f.encoded[path] = buf
	return os.WriteFile(path, []byte("mp3"), 0o644)
}

// tone returns a stereo buffer holding a constant sample value.
func tone(durationMS int, amplitude int16) *pcm.Buffer {
	frames := durationMS * 44100 / 1000
	samples := make([]int16, frames*2)
	for i := range samples {
		samples[i] = amplitude
	}
	buf, err := pcm.New(44100, 2, samples)
	if err != nil {
		panic(err)
	}
	return buf
}

func clipFixture(codec *fakeCodec, order, durationMS int, amplitude int16) Clip {
	path := fmt.Sprintf("clip_%02d.mp3", order)
	codec.buffers[path] = tone(durationMS, amplitude)
	return Clip{
		Order:      order,
		Title:      fmt.Sprintf("Track %d", order),
		Role:       "track",
		DurationMS: durationMS,
		AudioPath:  path,
	}
}

func plainOptions() Options {
	opts := DefaultOptions()
	opts.Normalize = false
	opts.TrimLeadingSilence = false
	return opts
}

func TestComposeOffsetsAndDuration(t *testing.T) {
	codec := newFakeCodec()
	clips := []Clip{
		clipFixture(codec, 1, 10000, 1000),
		clipFixture(codec, 2, 10000, 1000),
		clipFixture(codec, 3, 10000, 1000),
	}
	opts := plainOptions()
	opts.CrossfadeMS = 2000
	composer := NewComposer(codec, opts, nil)

	mixed, tracks, _, err := composer.Compose(context.Background(), clips)
	if err != nil {
		t.Fatal(err)
	}
	if got := mixed.DurationMS(); got != 26000 {
		t.Fatalf("expected 26000ms mix, got %dms", got)
	}
	wantStarts := []int{0, 8000, 16000}
	wantStamps := []string{"00:00", "00:08", "00:16"}
	for i, track := range tracks {
		if track.StartMS != wantStarts[i] {
			t.Fatalf("track %d start %dms, want %dms", i+1, track.StartMS, wantStarts[i])
		}
		if got := FormatTimestamp(track.StartMS); got != wantStamps[i] {
			t.Fatalf("track %d timestamp %s, want %s", i+1, got, wantStamps[i])
		}
	}
}

func TestComposeEmptyClipList(t *testing.T) {
	composer := NewComposer(newFakeCodec(), plainOptions(), nil)
	_, _, _, err := composer.Compose(context.Background(), nil)
	if !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestComposeCrossfadeDegradesToShorterSide(t *testing.T) {
	codec := newFakeCodec()
	clips := []Clip{
		clipFixture(codec, 1, 1000, 1000),
		clipFixture(codec, 2, 1000, 1000),
	}
	opts := plainOptions()
	opts.CrossfadeMS = 5000
	composer := NewComposer(codec, opts, nil)

	mixed, tracks, _, err := composer.Compose(context.Background(), clips)
	if err != nil {
		t.Fatal(err)
	}
	// The crossfade clamps to the full 1000ms of both sides.
	if got := mixed.DurationMS(); got != 1000 {
		t.Fatalf("expected 1000ms mix, got %dms", got)
	}
	if tracks[1].StartMS != 0 {
		t.Fatalf("expected second track to start at 0ms, got %dms", tracks[1].StartMS)
	}
}

func TestComposeNormalizesGlobalPeak(t *testing.T) {
	codec := newFakeCodec()
	clips := []Clip{
		clipFixture(codec, 1, 1000, 8192),
		clipFixture(codec, 2, 1000, 4096),
	}
	opts := plainOptions()
	opts.Normalize = true
	opts.TargetPeakDBFS = -1.0
	composer := NewComposer(codec, opts, nil)

	mixed, _, _, err := composer.Compose(context.Background(), clips)
	if err != nil {
		t.Fatal(err)
	}
	if peak := mixed.PeakDBFS(); math.Abs(peak-(-1.0)) > 0.01 {
		t.Fatalf("expected peak near -1.0 dBFS, got %f", peak)
	}
}

func TestComposeSkipsNormalizationOnSilence(t *testing.T) {
	codec := newFakeCodec()
	clips := []Clip{clipFixture(codec, 1, 1000, 0)}
	opts := plainOptions()
	opts.Normalize = true
	composer := NewComposer(codec, opts, nil)

	mixed, _, _, err := composer.Compose(context.Background(), clips)
	if err != nil {
		t.Fatal(err)
	}
	if !math.IsInf(mixed.PeakDBFS(), -1) {
		t.Fatal("silent mix should stay silent")
	}
}

func TestComposeTrimsLeadingSilence(t *testing.T) {
	codec := newFakeCodec()
	quiet := tone(500, 0)
	loud := tone(1500, 8000)
	samples := append(append([]int16{}, quiet.Samples...), loud.Samples...)
	first, err := pcm.New(44100, 2, samples)
	if err != nil {
		t.Fatal(err)
	}
	codec.buffers["clip_01.mp3"] = first
	clips := []Clip{{Order: 1, Title: "Opener", AudioPath: "clip_01.mp3", DurationMS: 2000}}

	opts := plainOptions()
	opts.TrimLeadingSilence = true
	composer := NewComposer(codec, opts, nil)

	mixed, _, trimmedMS, err := composer.Compose(context.Background(), clips)
	if err != nil {
		t.Fatal(err)
	}
	if trimmedMS != 500 {
		t.Fatalf("expected 500ms trimmed, got %dms", trimmedMS)
	}
	if got := mixed.DurationMS(); got != 1500 {
		t.Fatalf("expected 1500ms mix after trim, got %dms", got)
	}
}

func TestComposeStrictOrderTruncatesAtGap(t *testing.T) {
	codec := newFakeCodec()
	clips := []Clip{
		clipFixture(codec, 1, 1000, 1000),
		clipFixture(codec, 2, 1000, 1000),
		clipFixture(codec, 4, 1000, 1000),
	}

	opts := plainOptions()
	opts.StrictOrder = true
	_, tracks, _, err := NewComposer(codec, opts, nil).Compose(context.Background(), clips)
	if err != nil {
		t.Fatal(err)
	}
	if len(tracks) != 2 {
		t.Fatalf("strict mode should keep the contiguous prefix, got %d tracks", len(tracks))
	}

	opts.StrictOrder = false
	_, tracks, _, err = NewComposer(codec, opts, nil).Compose(context.Background(), clips)
	if err != nil {
		t.Fatal(err)
	}
	if len(tracks) != 3 {
		t.Fatalf("lenient mode should keep all clips, got %d tracks", len(tracks))
	}
}

func TestComposeDecodeFailureIsFatal(t *testing.T) {
	codec := newFakeCodec()
	clips := []Clip{
		clipFixture(codec, 1, 1000, 1000),
		clipFixture(codec, 2, 1000, 1000),
	}
	codec.decodeErr["clip_02.mp3"] = errors.New("corrupt frame")

	composer := NewComposer(codec, plainOptions(), nil)
	_, _, _, err := composer.Compose(context.Background(), clips)
	if err == nil {
		t.Fatal("expected decode failure to abort the mix")
	}
	if !errors.Is(err, services.ErrExternalTool) {
		t.Fatalf("expected external tool error, got %v", err)
	}
}

func TestMixSessionEndToEnd(t *testing.T) {
	sessionDir := t.TempDir()
	codec := newFakeCodec()
	for order, title := range map[int]string{1: "Sunrise Drift", 2: "Neon Rain"} {
		name := fmt.Sprintf("track_%02d_clip.mp3", order)
		path := filepath.Join(sessionDir, name)
		if err := os.WriteFile(path, []byte("mp3"), 0o644); err != nil {
			t.Fatal(err)
		}
		meta := fmt.Sprintf(`{"title": %q, "duration_ms": 10000}`, title)
		if err := os.WriteFile(strings.TrimSuffix(path, ".mp3")+".json", []byte(meta), 0o644); err != nil {
			t.Fatal(err)
		}
		codec.buffers[path] = tone(10000, 2000)
	}

	opts := plainOptions()
	opts.CrossfadeMS = 2000
	composer := NewComposer(codec, opts, nil)

	result, err := composer.MixSession(context.Background(), Request{SessionDir: sessionDir})
	if err != nil {
		t.Fatal(err)
	}
	if result.TotalDurationMS != 18000 {
		t.Fatalf("expected 18000ms mix, got %dms", result.TotalDurationMS)
	}
	if len(result.Tracks) != 2 {
		t.Fatalf("expected 2 tracks, got %d", len(result.Tracks))
	}

	tracklist, err := os.ReadFile(result.TracklistPath)
	if err != nil {
		t.Fatal(err)
	}
	content := string(tracklist)
	if !strings.Contains(content, "00:00 - Sunrise Drift") || !strings.Contains(content, "00:08 - Neon Rain") {
		t.Fatalf("unexpected tracklist:\n%s", content)
	}
	if _, ok := codec.encoded[result.OutputPath]; !ok {
		t.Fatal("mix was not exported")
	}
}

func TestMixSessionEmptyDirWritesNothing(t *testing.T) {
	sessionDir := t.TempDir()
	composer := NewComposer(newFakeCodec(), plainOptions(), nil)

	_, err := composer.MixSession(context.Background(), Request{SessionDir: sessionDir})
	if !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	entries, err := os.ReadDir(sessionDir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 0 {
		t.Fatalf("no files should be written on failure, found %d", len(entries))
	}
}
