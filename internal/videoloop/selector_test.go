package videoloop

import (
	"errors"
	"math/rand"
	"testing"

	"github.com/QuincyMillerDev/cooliomusic/internal/services"
)

func synthHashes(n int, seed int64) []uint64 {
	rng := rand.New(rand.NewSource(seed))
	hashes := make([]uint64, n)
	for i := range hashes {
		hashes[i] = rng.Uint64()
	}
	return hashes
}

func testParams() Params {
	p := DefaultParams()
	p.MinSeconds = 4.0
	p.MaxSeconds = 9.0
	return p
}

func TestSearchBestFindsInjectedSeam(t *testing.T) {
	// A 10s clip at 15 fps with an injected visual cycle: the frames around
	// t=8.0s mirror the frames around t=2.0s, so frames 30 and 120 form a
	// perfect seam with matching local motion.
	hashes := synthHashes(151, 7)
	for k := 0; k <= 3; k++ {
		hashes[120-k] = hashes[30+k]
	}

	sel, err := searchBest(hashes, testParams())
	if err != nil {
		t.Fatal(err)
	}
	if sel.StartFrame != 30 || sel.EndFrame != 120 {
		t.Fatalf("expected seam at (30, 120), got (%d, %d)", sel.StartFrame, sel.EndFrame)
	}
	if sel.Score != 0 {
		t.Fatalf("perfect seam should score 0, got %f", sel.Score)
	}
	if sel.StartSeconds != 2.0 || sel.EndSeconds != 8.0 {
		t.Fatalf("expected 2.0s-8.0s, got %.3fs-%.3fs", sel.StartSeconds, sel.EndSeconds)
	}
	if sel.DurationSeconds != 6.0 {
		t.Fatalf("expected 6.0s duration, got %.3fs", sel.DurationSeconds)
	}
}

func TestSearchBestIsGlobalMinimum(t *testing.T) {
	params := testParams()
	hashes := synthHashes(151, 99)

	sel, err := searchBest(hashes, params)
	if err != nil {
		t.Fatal(err)
	}

	typical := typicalStepDistance(hashes)
	minGap := int(params.MinSeconds * float64(params.FPS))
	maxGap := int(params.MaxSeconds * float64(params.FPS))
	for start := 0; start < len(hashes)-minGap-1; start++ {
		for end := start + minGap; end <= start+maxGap && end < len(hashes); end++ {
			if score := scorePair(hashes, start, end, typical, params); score < sel.Score {
				t.Fatalf("pair (%d, %d) scores %f, below returned %f at (%d, %d)",
					start, end, score, sel.Score, sel.StartFrame, sel.EndFrame)
			}
		}
	}
}

func TestSearchBestRespectsWindow(t *testing.T) {
	params := testParams()
	for seed := int64(0); seed < 5; seed++ {
		sel, err := searchBest(synthHashes(151, seed), params)
		if err != nil {
			t.Fatal(err)
		}
		quantum := 1.0 / float64(params.FPS)
		if sel.DurationSeconds < params.MinSeconds-quantum || sel.DurationSeconds > params.MaxSeconds+quantum {
			t.Fatalf("seed %d: duration %.3fs outside window [%.1f, %.1f]",
				seed, sel.DurationSeconds, params.MinSeconds, params.MaxSeconds)
		}
		if sel.EndFrame <= sel.StartFrame {
			t.Fatalf("seed %d: end frame %d not after start %d", seed, sel.EndFrame, sel.StartFrame)
		}
		if sel.Score < 0 {
			t.Fatalf("seed %d: negative score %f", seed, sel.Score)
		}
	}
}

func TestSearchBestTooShort(t *testing.T) {
	_, err := searchBest(synthHashes(20, 1), testParams())
	if err == nil {
		t.Fatal("expected error for video shorter than two seconds of frames")
	}
	if !errors.Is(err, services.ErrNoSolution) {
		t.Fatalf("expected ErrNoSolution, got %v", err)
	}
}

func TestSearchBestPrefersLongerOfEqualSeams(t *testing.T) {
	// Two seams of identical quality (one differing bit, matching local
	// motion); the length bias should pick the longer loop.
	hashes := synthHashes(151, 13)
	hashes[95] = hashes[30] ^ 1  // 65-frame gap
	hashes[150] = hashes[30] ^ 2 // 120-frame gap
	for k := 1; k <= 3; k++ {
		hashes[95-k] = hashes[30+k]
		hashes[150-k] = hashes[30+k]
	}

	sel, err := searchBest(hashes, testParams())
	if err != nil {
		t.Fatal(err)
	}
	if sel.StartFrame != 30 || sel.EndFrame != 150 {
		t.Fatalf("expected the longer seam (30, 150), got (%d, %d)", sel.StartFrame, sel.EndFrame)
	}
}

func TestTypicalStepDistanceFloor(t *testing.T) {
	static := []uint64{5, 5, 5, 5}
	if got := typicalStepDistance(static); got != 1 {
		t.Fatalf("static clip should floor typical step at 1, got %f", got)
	}
}

func TestParamsFromConfigNil(t *testing.T) {
	params := ParamsFromConfig(nil)
	if params != DefaultParams() {
		t.Fatalf("nil config should yield defaults, got %+v", params)
	}
}
