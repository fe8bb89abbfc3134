package videoloop

import (
	"context"
	"fmt"
	"log/slog"
	"sort"

	"github.com/QuincyMillerDev/cooliomusic/internal/config"
	"github.com/QuincyMillerDev/cooliomusic/internal/logging"
	"github.com/QuincyMillerDev/cooliomusic/internal/media/ffmpeg"
	"github.com/QuincyMillerDev/cooliomusic/internal/services"
)

// Params controls frame sampling and seam scoring. The seam/continuity
// weights and the length bias cap are empirically tuned defaults and may be
// adjusted per caller.
type Params struct {
	FPS                    int
	MinSeconds             float64
	MaxSeconds             float64
	ContinuityWindowFrames int
	MaxDimension           int
	SeamWeight             float64
	ContinuityWeight       float64
	MaxLengthBias          float64
}

// DefaultParams returns the standard selector tuning.
func DefaultParams() Params {
	return Params{
		FPS:                    15,
		MinSeconds:             8.0,
		MaxSeconds:             10.0,
		ContinuityWindowFrames: 3,
		MaxDimension:           320,
		SeamWeight:             0.75,
		ContinuityWeight:       0.25,
		MaxLengthBias:          0.25,
	}
}

// ParamsFromConfig builds selector params from the loop section of the
// runtime configuration, falling back to defaults for unset fields.
func ParamsFromConfig(cfg *config.Config) Params {
	params := DefaultParams()
	if cfg == nil {
		return params
	}
	if cfg.Loop.FPS > 0 {
		params.FPS = cfg.Loop.FPS
	}
	if cfg.Loop.MinSeconds > 0 {
		params.MinSeconds = cfg.Loop.MinSeconds
	}
	if cfg.Loop.MaxSeconds > 0 {
		params.MaxSeconds = cfg.Loop.MaxSeconds
	}
	if cfg.Loop.ContinuityWindowFrames > 0 {
		params.ContinuityWindowFrames = cfg.Loop.ContinuityWindowFrames
	}
	if cfg.Loop.MaxDimension > 0 {
		params.MaxDimension = cfg.Loop.MaxDimension
	}
	return params
}

func (p Params) normalized() Params {
	defaults := DefaultParams()
	if p.FPS <= 0 {
		p.FPS = defaults.FPS
	}
	if p.MinSeconds <= 0 {
		p.MinSeconds = defaults.MinSeconds
	}
	if p.MaxSeconds <= p.MinSeconds {
		p.MaxSeconds = p.MinSeconds + (defaults.MaxSeconds - defaults.MinSeconds)
	}
	if p.ContinuityWindowFrames <= 0 {
		p.ContinuityWindowFrames = defaults.ContinuityWindowFrames
	}
	if p.MaxDimension <= 0 {
		p.MaxDimension = defaults.MaxDimension
	}
	if p.SeamWeight <= 0 && p.ContinuityWeight <= 0 {
		p.SeamWeight = defaults.SeamWeight
		p.ContinuityWeight = defaults.ContinuityWeight
	}
	if p.MaxLengthBias <= 0 {
		p.MaxLengthBias = defaults.MaxLengthBias
	}
	return p
}

// Selection is the winning seam candidate. Times derive from frame indices
// at the sampling rate, so they are quantized to 1/FPS. Lower score is a
// better seam; the selector always returns its best candidate and leaves any
// quality gating to the caller.
type Selection struct {
	FPS             int
	StartFrame      int
	EndFrame        int
	StartSeconds    float64
	EndSeconds      float64
	DurationSeconds float64
	Score           float64
}

// Selector finds and renders seamless forward-playing loops in short clips.
type Selector struct {
	client *ffmpeg.Client
	logger *slog.Logger
}

// NewSelector constructs a loop selector around an ffmpeg client.
func NewSelector(client *ffmpeg.Client, logger *slog.Logger) *Selector {
	return &Selector{
		client: client,
		logger: logging.NewComponentLogger(logger, "videoloop"),
	}
}

// SelectBestLoop samples the video at params.FPS, hashes every frame, and
// exhaustively searches (start, end) pairs within the duration window for
// the most visually seamless jump point. scratchDir receives the temporary
// frame images and must be exclusive to this invocation.
func (s *Selector) SelectBestLoop(ctx context.Context, videoPath, scratchDir string, params Params) (Selection, error) {
	params = params.normalized()

	frames, err := s.client.ExtractFrames(ctx, videoPath, scratchDir, params.FPS, params.MaxDimension)
	if err != nil {
		return Selection{}, services.Wrap(services.ErrExternalTool, "videoloop", "extract", "frame extraction failed", err)
	}

	hashes := make([]uint64, len(frames))
	for i, frame := range frames {
		hashes[i], err = HashFile(frame)
		if err != nil {
			return Selection{}, services.Wrap(services.ErrExternalTool, "videoloop", "hash", "frame hashing failed", err)
		}
	}

	selection, err := searchBest(hashes, params)
	if err != nil {
		return Selection{}, err
	}

	s.logger.Info("selected loop seam",
		logging.String("video", videoPath),
		logging.Float64("start_seconds", selection.StartSeconds),
		logging.Float64("end_seconds", selection.EndSeconds),
		logging.Float64("duration_seconds", selection.DurationSeconds),
		logging.Float64("score", selection.Score))
	return selection, nil
}

// searchBest scans every candidate (start, end) pair whose gap falls within
// the duration window and returns the pair with the lowest seam score.
func searchBest(hashes []uint64, params Params) (Selection, error) {
	n := len(hashes)
	if n < params.FPS*2 {
		return Selection{}, services.Wrap(services.ErrNoSolution, "videoloop", "search",
			fmt.Sprintf("video too short for a stable loop: %d frames (%.1fs at %d fps), need at least %.1fs",
				n, float64(n)/float64(params.FPS), params.FPS, 2.0), nil)
	}

	minGap := int(params.MinSeconds * float64(params.FPS))
	if minGap < 2 {
		minGap = 2
	}
	maxGap := int(params.MaxSeconds * float64(params.FPS))
	if maxGap < minGap+1 {
		maxGap = minGap + 1
	}

	typicalStep := typicalStepDistance(hashes)

	bestScore := 0.0
	bestStart, bestEnd := -1, -1
	for start := 0; start < n-minGap-1; start++ {
		endHi := start + maxGap
		if endHi > n-1 {
			endHi = n - 1
		}
		for end := start + minGap; end <= endHi; end++ {
			score := scorePair(hashes, start, end, typicalStep, params)
			if bestStart < 0 || score < bestScore {
				bestScore = score
				bestStart, bestEnd = start, end
			}
		}
	}

	if bestStart < 0 {
		return Selection{}, services.Wrap(services.ErrNoSolution, "videoloop", "search",
			fmt.Sprintf("no loop candidate: video spans %.1fs at %d fps but the window requires %.1f-%.1fs",
				float64(n)/float64(params.FPS), params.FPS, params.MinSeconds, params.MaxSeconds), nil)
	}

	startSeconds := float64(bestStart) / float64(params.FPS)
	endSeconds := float64(bestEnd) / float64(params.FPS)
	return Selection{
		FPS:             params.FPS,
		StartFrame:      bestStart,
		EndFrame:        bestEnd,
		StartSeconds:    startSeconds,
		EndSeconds:      endSeconds,
		DurationSeconds: endSeconds - startSeconds,
		Score:           bestScore,
	}, nil
}

// scorePair scores a single seam candidate. The seam distance is the
// Hamming distance across the end->start jump; the continuity distance
// compares the motion trend on each side of the seam. Both are normalized by
// the clip's typical frame-to-frame distance so scores are comparable across
// clips with very different amounts of motion.
func scorePair(hashes []uint64, start, end int, typicalStep float64, params Params) float64 {
	seamNorm := float64(Hamming(hashes[start], hashes[end])) / typicalStep

	kmax := params.ContinuityWindowFrames
	if start < kmax {
		kmax = start
	}
	if end-start-1 < kmax {
		kmax = end - start - 1
	}
	contNorm := seamNorm
	if kmax > 0 {
		cont := 0
		for k := 1; k <= kmax; k++ {
			cont += Hamming(hashes[start+k], hashes[end-k])
		}
		contNorm = (float64(cont) / float64(kmax)) / typicalStep
	}

	duration := float64(end-start) / float64(params.FPS)
	window := params.MaxSeconds - params.MinSeconds
	if window < 0.001 {
		window = 0.001
	}
	bias := (duration - params.MinSeconds) / window * params.MaxLengthBias
	if bias > params.MaxLengthBias {
		bias = params.MaxLengthBias
	}
	lengthBias := 1.0 - bias

	return (seamNorm*params.SeamWeight + contNorm*params.ContinuityWeight) * lengthBias
}

// typicalStepDistance returns the median Hamming distance between adjacent
// frames, floored at 1 so normalization never divides by zero on a static
// clip.
func typicalStepDistance(hashes []uint64) float64 {
	if len(hashes) < 2 {
		return 1
	}
	steps := make([]int, len(hashes)-1)
	for i := range steps {
		steps[i] = Hamming(hashes[i], hashes[i+1])
	}
	sort.Ints(steps)
	typical := steps[len(steps)/2]
	if typical < 1 {
		typical = 1
	}
	return float64(typical)
}
