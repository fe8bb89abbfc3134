package mix

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"

	"github.com/QuincyMillerDev/cooliomusic/internal/media/ffprobe"
	"github.com/QuincyMillerDev/cooliomusic/internal/services"
)

// Clip is one input track of a mix. Order is the filename-embedded index;
// the set of orders need not be contiguous.
type Clip struct {
	Order      int
	Title      string
	Role       string
	DurationMS int
	AudioPath  string
}

// sidecar is the companion JSON schema written next to each clip. Unknown
// fields are rejected so schema drift surfaces at the boundary instead of
// as silently-defaulted values downstream.
type sidecar struct {
	Order      int    `json:"order,omitempty"`
	Title      string `json:"title"`
	Role       string `json:"role,omitempty"`
	Prompt     string `json:"prompt,omitempty"`
	DurationMS int    `json:"duration_ms"`
	Provider   string `json:"provider,omitempty"`
	Model      string `json:"model,omitempty"`
	BPM        int    `json:"bpm,omitempty"`
	Energy     int    `json:"energy,omitempty"`
}

var clipNamePattern = regexp.MustCompile(`^track_(\d+)_.*\.mp3$`)

// DiscoverClips scans sessionDir for files named track_NN_*.mp3, reads each
// clip's sidecar JSON for title and duration, and returns the clips sorted
// by order. A clip without a sidecar falls back to ffprobe for its duration;
// a malformed sidecar is fatal. An empty session is a validation error.
func DiscoverClips(ctx context.Context, sessionDir, ffprobeBinary string) ([]Clip, error) {
	entries, err := os.ReadDir(sessionDir)
	if err != nil {
		return nil, services.Wrap(services.ErrValidation, "mix", "discover",
			fmt.Sprintf("read session directory %s", sessionDir), err)
	}

	var clips []Clip
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		match := clipNamePattern.FindStringSubmatch(entry.Name())
		if match == nil {
			continue
		}
		order, err := strconv.Atoi(match[1])
		if err != nil || order <= 0 {
			continue
		}

		audioPath := filepath.Join(sessionDir, entry.Name())
		clip, err := loadClip(ctx, audioPath, order, ffprobeBinary)
		if err != nil {
			return nil, err
		}
		clips = append(clips, clip)
	}

	if len(clips) == 0 {
		return nil, services.Wrap(services.ErrValidation, "mix", "discover",
			fmt.Sprintf("no clips found in session directory %s", sessionDir), nil)
	}

	sort.Slice(clips, func(i, j int) bool { return clips[i].Order < clips[j].Order })
	return clips, nil
}

func loadClip(ctx context.Context, audioPath string, order int, ffprobeBinary string) (Clip, error) {
	clip := Clip{
		Order:     order,
		Title:     fmt.Sprintf("Track %d", order),
		Role:      "track",
		AudioPath: audioPath,
	}

	sidecarPath := audioPath[:len(audioPath)-len(filepath.Ext(audioPath))] + ".json"
	raw, err := os.ReadFile(sidecarPath)
	switch {
	case err == nil:
		meta, err := parseSidecar(raw)
		if err != nil {
			return Clip{}, services.Wrap(services.ErrValidation, "mix", "discover",
				fmt.Sprintf("malformed sidecar %s", sidecarPath), err)
		}
		clip.Title = meta.Title
		if meta.Role != "" {
			clip.Role = meta.Role
		}
		clip.DurationMS = meta.DurationMS
	case os.IsNotExist(err):
		result, err := ffprobe.Inspect(ctx, ffprobeBinary, audioPath)
		if err != nil {
			return Clip{}, services.Wrap(services.ErrValidation, "mix", "discover",
				fmt.Sprintf("clip %s has no sidecar and could not be probed", audioPath), err)
		}
		clip.DurationMS = result.DurationMS()
	default:
		return Clip{}, services.Wrap(services.ErrValidation, "mix", "discover",
			fmt.Sprintf("read sidecar %s", sidecarPath), err)
	}

	return clip, nil
}

func parseSidecar(raw []byte) (sidecar, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.DisallowUnknownFields()
	var meta sidecar
	if err := dec.Decode(&meta); err != nil {
		return sidecar{}, err
	}
	if meta.Title == "" {
		return sidecar{}, fmt.Errorf("missing title")
	}
	if meta.DurationMS < 0 {
		return sidecar{}, fmt.Errorf("negative duration_ms %d", meta.DurationMS)
	}
	return meta, nil
}

// OrderGaps returns the missing order values between the lowest and highest
// orders present. Clips must be sorted by order.
func OrderGaps(clips []Clip) []int {
	var gaps []int
	for i := 1; i < len(clips); i++ {
		for missing := clips[i-1].Order + 1; missing < clips[i].Order; missing++ {
			gaps = append(gaps, missing)
		}
	}
	return gaps
}

// ContiguousPrefix keeps the maximal run of consecutively numbered clips
// starting at the lowest order, stopping at the first gap.
func ContiguousPrefix(clips []Clip) []Clip {
	if len(clips) == 0 {
		return clips
	}
	end := 1
	for end < len(clips) && clips[end].Order == clips[end-1].Order+1 {
		end++
	}
	return clips[:end]
}
