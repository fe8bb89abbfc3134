package ffmpeg

import (
	"context"
	"errors"
	"fmt"
	"os"
)

// CutSegment re-encodes the [startSeconds, endSeconds] range of the input
// video without audio.
func (c *Client) CutSegment(ctx context.Context, inputPath, outputPath string, startSeconds, endSeconds float64, crf int, preset string) error {
	if endSeconds <= startSeconds {
		return fmt.Errorf("cut segment: empty range %.3f..%.3f", startSeconds, endSeconds)
	}
	if preset == "" {
		preset = "veryfast"
	}
	args := []string{
		"-y", "-v", "error",
		"-ss", fmt.Sprintf("%.3f", startSeconds),
		"-to", fmt.Sprintf("%.3f", endSeconds),
		"-i", inputPath,
		"-an",
		"-c:v", "libx264",
		"-preset", preset,
		"-crf", fmt.Sprint(crf),
		"-pix_fmt", "yuv420p",
		outputPath,
	}
	if err := c.exec.Run(ctx, c.binary, args, nil, nil); err != nil {
		return fmt.Errorf("cut segment: %w", err)
	}
	return nil
}

// SelfCrossfade overlays the tail seamSeconds of the segment with its own
// head and trims the result back to segmentSeconds, softening the loop cut
// point. The output plays at the same length as the input segment.
func (c *Client) SelfCrossfade(ctx context.Context, segmentPath, outputPath string, segmentSeconds, seamSeconds float64, crf int, preset string) error {
	if segmentSeconds <= 0 {
		return fmt.Errorf("self crossfade: non-positive segment duration %.3f", segmentSeconds)
	}
	if preset == "" {
		preset = "veryfast"
	}
	offset := segmentSeconds - seamSeconds
	if offset < 0 {
		offset = 0
	}
	filter := fmt.Sprintf(
		"[0:v]setpts=PTS-STARTPTS[v0];"+
			"[1:v]setpts=PTS-STARTPTS[v1];"+
			"[v0][v1]xfade=transition=fade:duration=%.3f:offset=%.3f,"+
			"trim=duration=%.3f,setpts=PTS-STARTPTS[v]",
		seamSeconds, offset, segmentSeconds,
	)
	args := []string{
		"-y", "-v", "error",
		"-i", segmentPath,
		"-i", segmentPath,
		"-filter_complex", filter,
		"-map", "[v]",
		"-an",
		"-c:v", "libx264",
		"-preset", preset,
		"-crf", fmt.Sprint(crf),
		"-pix_fmt", "yuv420p",
		"-movflags", "+faststart",
		outputPath,
	}
	if err := c.exec.Run(ctx, c.binary, args, nil, nil); err != nil {
		return fmt.Errorf("self crossfade: %w", err)
	}
	return nil
}

// ComposeRequest describes a still-image video composition.
type ComposeRequest struct {
	CoverPath       string
	AudioPath       string
	OutputPath      string
	DurationSeconds float64
	Width           int
	Height          int
	FadeInSeconds   float64
	// Waveform overlays an audio-reactive bar rendered by ffmpeg showwaves.
	Waveform           bool
	WaveformHeight     int
	WaveformColor      string
	WaveformFromBottom int
}

// ComposeStill builds a YouTube-ready MP4 from a static cover image and a
// mixed audio track: the cover is scaled and padded to the target frame,
// looped for the audio duration, faded in from black, and optionally overlaid
// with a waveform bar.
func (c *Client) ComposeStill(ctx context.Context, req ComposeRequest) error {
	if _, err := os.Stat(req.CoverPath); err != nil {
		return fmt.Errorf("compose: cover: %w", err)
	}
	if _, err := os.Stat(req.AudioPath); err != nil {
		return fmt.Errorf("compose: audio: %w", err)
	}
	if req.DurationSeconds <= 0 {
		return errors.New("compose: audio duration required")
	}
	width, height := req.Width, req.Height
	if width <= 0 {
		width = 1920
	}
	if height <= 0 {
		height = 1080
	}

	bg := fmt.Sprintf(
		"[0:v]scale=%d:%d:force_original_aspect_ratio=decrease,"+
			"pad=%d:%d:(ow-iw)/2:(oh-ih)/2:black,"+
			"loop=loop=-1:size=1:start=0,trim=duration=%.3f,setpts=PTS-STARTPTS,"+
			"fade=t=in:st=0:d=%.3f",
		width, height, width, height, req.DurationSeconds, req.FadeInSeconds,
	)

	var filter string
	if req.Waveform {
		waveHeight := req.WaveformHeight
		if waveHeight <= 0 {
			waveHeight = 100
		}
		waveColor := req.WaveformColor
		if waveColor == "" {
			waveColor = "white@0.5"
		}
		fromBottom := req.WaveformFromBottom
		if fromBottom <= 0 {
			fromBottom = 360
		}
		waveY := height - fromBottom - waveHeight
		filter = fmt.Sprintf(
			"%s[bg];[1:a]showwaves=s=%dx%d:mode=cline:colors=%s:scale=sqrt:draw=full[wave];"+
				"[bg][wave]overlay=0:%d:shortest=1[out]",
			bg, width, waveHeight, waveColor, waveY,
		)
	} else {
		filter = bg + "[out]"
	}

	args := []string{
		"-y", "-v", "error",
		"-i", req.CoverPath,
		"-i", req.AudioPath,
		"-filter_complex", filter,
		"-map", "[out]",
		"-map", "1:a",
		"-c:v", "libx264",
		"-preset", "medium",
		"-crf", "18",
		"-pix_fmt", "yuv420p",
		"-c:a", "aac",
		"-b:a", "320k",
		"-shortest",
		"-movflags", "+faststart",
		req.OutputPath,
	}
	if err := c.exec.Run(ctx, c.binary, args, nil, nil); err != nil {
		return fmt.Errorf("compose: %w", err)
	}
	return nil
}
