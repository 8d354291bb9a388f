package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeTestConfig(t *testing.T) string {
	t.Helper()
	base := t.TempDir()
	path := filepath.Join(base, "config.toml")
	content := "[workspace]\nroot = \"" + filepath.Join(base, "work") + "\"\n\n[logging]\nformat = \"json\"\nlevel = \"error\"\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func runCommand(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func TestRootRequiresTwoArguments(t *testing.T) {
	_, _, err := runCommand(t, "--config", writeTestConfig(t), "only-input.mp4")
	if err == nil {
		t.Fatal("expected usage error for one positional argument")
	}

	_, _, err = runCommand(t, "--config", writeTestConfig(t), "a.mp4", "b.mp4", "c.mp4")
	if err == nil {
		t.Fatal("expected usage error for three positional arguments")
	}
}

func TestRootRejectsInvalidModel(t *testing.T) {
	_, _, err := runCommand(t, "--config", writeTestConfig(t), "--model", "enormous", "in.mp4", "out.mp4")
	if err == nil {
		t.Fatal("expected flag error for invalid model")
	}
	if !strings.Contains(err.Error(), "must be one of") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestModelFlagNormalizes(t *testing.T) {
	var flag modelValue
	if err := flag.Set(" Medium "); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if flag.value != "medium" || !flag.set {
		t.Fatalf("unexpected flag state: %+v", flag)
	}
	if err := flag.Set("gigantic"); err == nil {
		t.Fatal("expected error for unknown model size")
	}
}

func TestRootMissingInputFailsBeforeProcessing(t *testing.T) {
	output := filepath.Join(t.TempDir(), "out.mp4")
	_, _, err := runCommand(t, "--config", writeTestConfig(t),
		filepath.Join(t.TempDir(), "absent.mp4"), output)
	if err == nil {
		t.Fatal("expected error for missing input")
	}
	if !strings.Contains(err.Error(), "does not exist") {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, statErr := os.Stat(output); !os.IsNotExist(statErr) {
		t.Fatalf("no output should be created: %v", statErr)
	}
}

func TestVersionCommand(t *testing.T) {
	stdout, _, err := runCommand(t, "version")
	if err != nil {
		t.Fatalf("version: %v", err)
	}
	if !strings.Contains(stdout, "capgen") {
		t.Fatalf("unexpected version output: %q", stdout)
	}
}

func TestConfigInitAndValidate(t *testing.T) {
	target := filepath.Join(t.TempDir(), "capgen", "config.toml")

	stdout, _, err := runCommand(t, "config", "init", "--path", target)
	if err != nil {
		t.Fatalf("config init: %v", err)
	}
	if !strings.Contains(stdout, "Wrote sample configuration") {
		t.Fatalf("unexpected init output: %q", stdout)
	}
	if _, err := os.Stat(target); err != nil {
		t.Fatalf("sample config missing: %v", err)
	}

	_, _, err = runCommand(t, "config", "init", "--path", target)
	if err == nil {
		t.Fatal("expected error when config exists without --overwrite")
	}

	stdout, _, err = runCommand(t, "--config", target, "config", "validate")
	if err != nil {
		t.Fatalf("config validate: %v", err)
	}
	if !strings.Contains(stdout, "Configuration valid") {
		t.Fatalf("unexpected validate output: %q", stdout)
	}
}

func TestConfigShowPrintsResolvedConfig(t *testing.T) {
	stdout, _, err := runCommand(t, "--config", writeTestConfig(t), "config", "show")
	if err != nil {
		t.Fatalf("config show: %v", err)
	}
	for _, want := range []string{"[transcription]", "model = 'base'", "[captions]"} {
		if !strings.Contains(stdout, want) {
			t.Fatalf("config show missing %q:\n%s", want, stdout)
		}
	}
}
