package script

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestEmit(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "step_A_library_search.sh")

	lines := []string{"diann-docker", "--fasta human.fasta", "--threads 64"}
	err := Emit(path, lines, []string{"tmp_libA", "out_libA"}, "out_libA/diann_libA.log.txt")
	if err != nil {
		t.Fatalf("Emit: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	content := string(data)

	if !strings.HasPrefix(content, "#!/bin/bash\n") {
		t.Error("missing shebang")
	}
	// pipefail keeps the engine's exit code visible through the tee pipe.
	if !strings.Contains(content, "set -exo pipefail") {
		t.Error("missing set -exo pipefail")
	}
	if !strings.Contains(content, `mkdir -p "tmp_libA" "out_libA"`) {
		t.Errorf("missing mkdir line in:\n%s", content)
	}
	if !strings.Contains(content, "diann-docker \\\n  --fasta human.fasta \\\n  --threads 64") {
		t.Errorf("command not joined with continuations:\n%s", content)
	}
	if !strings.Contains(content, `| tee "out_libA/diann_libA.log.txt"`) {
		t.Errorf("missing tee to log file:\n%s", content)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}
	if info.Mode()&0o111 == 0 {
		t.Errorf("script not executable: %v", info.Mode())
	}
}

func TestEmitWithoutLogFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.sh")
	if err := Emit(path, []string{"true"}, nil, ""); err != nil {
		t.Fatalf("Emit: %v", err)
	}
	data, _ := os.ReadFile(path)
	if strings.Contains(string(data), "tee") {
		t.Error("no log file requested but tee emitted")
	}
	if strings.Contains(string(data), "mkdir") {
		t.Error("no dirs requested but mkdir emitted")
	}
}

func TestEmitCreatesScriptDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scripts", "run.sh")
	if err := Emit(path, []string{"true"}, nil, ""); err != nil {
		t.Fatalf("Emit: %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatal(err)
	}
}

func TestEmitEmptyCommand(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.sh")
	if err := Emit(path, nil, nil, ""); err == nil {
		t.Fatal("empty command should be rejected")
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Error("script written despite empty command")
	}
}
