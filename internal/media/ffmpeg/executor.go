package ffmpeg

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os/exec"
	"strings"
)

// Executor abstracts command execution for testability.
type Executor interface {
	// Run executes binary with args, wiring stdin and stdout as given.
	// Either stream may be nil. On a non-zero exit the returned error
	// carries the tail of the captured stderr.
	Run(ctx context.Context, binary string, args []string, stdin io.Reader, stdout io.Writer) error
}

// outputTailBytes bounds how much subprocess stderr is kept for diagnostics.
const outputTailBytes = 2000

type commandExecutor struct{}

func (commandExecutor) Run(ctx context.Context, binary string, args []string, stdin io.Reader, stdout io.Writer) error {
	cmd := exec.CommandContext(ctx, binary, args...)
	cmd.Stdin = stdin
	if stdout == nil {
		stdout = io.Discard
	}
	cmd.Stdout = stdout

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return fmt.Errorf("%s %s: %w\nstderr:\n%s",
			binary, strings.Join(args, " "), err, tail(stderr.Bytes()))
	}
	return nil
}

func tail(output []byte) string {
	trimmed := bytes.TrimSpace(output)
	if len(trimmed) <= outputTailBytes {
		return string(trimmed)
	}
	return string(trimmed[len(trimmed)-outputTailBytes:])
}
