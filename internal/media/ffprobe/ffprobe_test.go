package ffprobe

import (
	"math"
	"testing"
)

func TestResultHelpers(t *testing.T) {
	result := Result{
		Streams: []Stream{
			{CodecType: "video", Width: 1920, Height: 1080},
			{CodecType: "audio", SampleRate: "44100", Channels: 2},
		},
		Format: Format{
			Duration: "123.456",
			Size:     "1000",
		},
	}
	if result.VideoStreamCount() != 1 {
		t.Fatalf("expected 1 video stream, got %d", result.VideoStreamCount())
	}
	if result.AudioStreamCount() != 1 {
		t.Fatalf("expected 1 audio stream, got %d", result.AudioStreamCount())
	}
	if result.DurationSeconds() != 123.456 {
		t.Fatalf("unexpected duration: %v", result.DurationSeconds())
	}
	if result.DurationMS() != 123456 {
		t.Fatalf("unexpected duration ms: %d", result.DurationMS())
	}
	if result.SampleRate() != 44100 {
		t.Fatalf("unexpected sample rate: %d", result.SampleRate())
	}
}

func TestResultHelpersHandleInvalidNumbers(t *testing.T) {
	result := Result{
		Format: Format{Duration: "bad"},
		Streams: []Stream{
			{CodecType: "audio", SampleRate: "nope"},
		},
	}
	if !math.IsNaN(result.DurationSeconds()) {
		t.Fatalf("expected duration NaN, got %v", result.DurationSeconds())
	}
	if result.DurationMS() != 0 {
		t.Fatalf("expected 0 ms, got %d", result.DurationMS())
	}
	if result.SampleRate() != 0 {
		t.Fatalf("expected 0 sample rate, got %d", result.SampleRate())
	}
}
