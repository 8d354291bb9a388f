package deps

import (
	"os"
	"os/exec"
	"runtime"
	"strings"
)

// ResolveFFmpegPath returns the ffmpeg binary to execute. A configured
// override wins when it points at an executable; otherwise the standard name
// is resolved from PATH. The bare name is returned as a last resort so exec
// errors name the missing binary.
func ResolveFFmpegPath(override string) string {
	return resolveBinary(override, "ffmpeg")
}

// ResolveFFprobePath returns the ffprobe binary to execute, using the same
// rules as ResolveFFmpegPath.
func ResolveFFprobePath(override string) string {
	return resolveBinary(override, "ffprobe")
}

func resolveBinary(override, standard string) string {
	override = strings.TrimSpace(override)
	if override != "" {
		if info, err := os.Stat(override); err == nil && isExecutable(info) {
			return override
		}
		if resolved, err := exec.LookPath(override); err == nil {
			return resolved
		}
		return override
	}
	if resolved, err := exec.LookPath(standard); err == nil {
		return resolved
	}
	return standard
}

func isExecutable(info os.FileInfo) bool {
	if info == nil || info.IsDir() {
		return false
	}
	if runtime.GOOS == "windows" {
		return true
	}
	return info.Mode().Perm()&0o111 != 0
}
