package compose

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/gofrs/flock"
	"golang.org/x/sys/unix"

	"capgen/internal/logging"
	"capgen/internal/services"
)

type commandRunner func(ctx context.Context, name string, args ...string) error

// Writer executes a composition plan and lands the result atomically at the
// destination path. The encode targets a hidden temporary file in the
// destination directory; only a verified, nonzero result is renamed into
// place, so a failed run never leaves a partial output file.
type Writer struct {
	logger *slog.Logger
	run    commandRunner
}

// NewWriter constructs an output writer.
func NewWriter(logger *slog.Logger) *Writer {
	return &Writer{
		logger: logging.NewComponentLogger(logger, "write"),
		run:    defaultCommandRunner,
	}
}

// WithCommandRunner allows injecting a custom command runner for tests.
func (w *Writer) WithCommandRunner(r commandRunner) {
	if w != nil && r != nil {
		w.run = r
	}
}

// Write encodes the plan to its destination. The destination's parent
// directory is created if absent, writability is verified up front, and a
// file lock guards against concurrent runs encoding to the same path.
func (w *Writer) Write(ctx context.Context, plan Plan) error {
	dest := plan.Output
	dir := filepath.Dir(dest)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return services.Wrap(services.ErrEncode, "write", "prepare", "create output directory", err)
	}
	if err := unix.Access(dir, unix.W_OK|unix.X_OK); err != nil {
		return services.Wrap(services.ErrEncode, "write", "prepare", fmt.Sprintf("output directory %s is not writable", dir), err)
	}

	lock := flock.New(dest + ".lock")
	locked, err := lock.TryLock()
	if err != nil {
		return services.Wrap(services.ErrEncode, "write", "lock", "acquire output lock", err)
	}
	if !locked {
		return services.Wrap(services.ErrEncode, "write", "lock", fmt.Sprintf("another run is writing %s", dest), nil)
	}
	defer func() {
		_ = lock.Unlock()
		_ = os.Remove(lock.Path())
	}()

	tmpPath := filepath.Join(dir, ".captmp-"+filepath.Base(dest))
	defer os.Remove(tmpPath)

	if w.logger != nil {
		w.logger.Debug("encoding output",
			logging.String("plan", plan.Describe()),
			logging.String("tmp_path", tmpPath),
		)
	}

	if err := w.run(ctx, plan.FFmpegBinary, plan.CommandArgs(tmpPath)...); err != nil {
		return services.Wrap(services.ErrEncode, "write", "encode", "ffmpeg encode failed", err)
	}

	info, err := os.Stat(tmpPath)
	if err != nil {
		return services.Wrap(services.ErrEncode, "write", "encode", "encoder produced no output", err)
	}
	if info.Size() == 0 {
		return services.Wrap(services.ErrEncode, "write", "encode", "encoder produced empty output", nil)
	}

	if err := os.Rename(tmpPath, dest); err != nil {
		return services.Wrap(services.ErrEncode, "write", "finalize", "move output into place", err)
	}

	if w.logger != nil {
		w.logger.Info("output written",
			logging.String("output", dest),
			logging.Int64("size_bytes", info.Size()),
		)
	}
	return nil
}

func defaultCommandRunner(ctx context.Context, name string, args ...string) error {
	cmd := exec.CommandContext(ctx, name, args...)
	output, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("%w: %s", err, strings.TrimSpace(string(output)))
	}
	return nil
}
