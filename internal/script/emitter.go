// Package script renders assembled engine commands as executable shell
// scripts. A generated script is safe to re-invoke: it creates its own
// output and temp directories and assumes nothing about other stages having
// run in the same process.
package script

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Emit writes an executable bash script at path. The script creates dirs,
// runs the command given as shell word-groups joined with continuations, and
// tees output to logFile. pipefail makes the script's exit code the engine's
// exit code even through the tee pipe.
func Emit(path string, commandLines []string, dirs []string, logFile string) error {
	if len(commandLines) == 0 {
		return fmt.Errorf("emit %s: empty command", path)
	}

	var b strings.Builder
	b.WriteString("#!/bin/bash\n")
	b.WriteString("set -exo pipefail\n\n")

	if len(dirs) > 0 {
		quoted := make([]string, len(dirs))
		for i, d := range dirs {
			quoted[i] = fmt.Sprintf("%q", d)
		}
		b.WriteString("mkdir -p " + strings.Join(quoted, " ") + "\n\n")
	}

	b.WriteString(strings.Join(commandLines, " \\\n  "))
	if logFile != "" {
		b.WriteString(fmt.Sprintf(" \\\n  | tee %q", logFile))
	}
	b.WriteString("\n")

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("mkdir %s: %w", dir, err)
		}
	}
	if err := os.WriteFile(path, []byte(b.String()), 0o755); err != nil {
		return fmt.Errorf("write script %s: %w", path, err)
	}
	// WriteFile perm is masked by umask; force the executable bit.
	if err := os.Chmod(path, 0o755); err != nil {
		return fmt.Errorf("chmod script %s: %w", path, err)
	}
	return nil
}
