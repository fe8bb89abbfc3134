package testsupport

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"testing"
)

// WriteFile fills the target path with the requested number of bytes using a
// simple repeating pattern. A size <= 0 writes a single byte.
func WriteFile(t testing.TB, path string, size int64) {
	t.Helper()

	if size <= 0 {
		size = 1
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", path, err)
	}
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create %s: %v", path, err)
	}
	defer f.Close()

	const chunkSize = 32 * 1024
	buf := make([]byte, chunkSize)
	for i := range buf {
		buf[i] = 0x42
	}

	remaining := size
	for remaining > 0 {
		toWrite := int64(chunkSize)
		if remaining < toWrite {
			toWrite = remaining
		}
		if _, err := f.Write(buf[:toWrite]); err != nil {
			t.Fatalf("write %s: %v", path, err)
		}
		remaining -= toWrite
	}
}

// WriteClipFixture drops a track MP3 plus its JSON sidecar into dir using the
// session naming convention and returns the audio path.
func WriteClipFixture(t testing.TB, dir string, order int, title string, durationMS int) string {
	t.Helper()

	base := fmt.Sprintf("track_%03d_fixture", order)
	audioPath := filepath.Join(dir, base+".mp3")
	WriteFile(t, audioPath, 256)

	meta := map[string]any{
		"order":       order,
		"title":       title,
		"duration_ms": durationMS,
	}
	raw, err := json.Marshal(meta)
	if err != nil {
		t.Fatalf("marshal sidecar: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, base+".json"), raw, 0o644); err != nil {
		t.Fatalf("write sidecar: %v", err)
	}
	return audioPath
}
