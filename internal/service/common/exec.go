package common

import (
	"context"
	"fmt"
	"os"
	"os/exec"
)

// RunTool invokes an external executable with its output streamed through to
// the console. The tool is treated as opaque: its exit status is the whole
// contract, and a failure is returned wrapped with the tool name without
// further interpretation or recovery.
func RunTool(ctx context.Context, name string, args ...string) error {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	if err := cmd.Run(); err != nil {
		return fmt.Errorf("run %s: %w", name, err)
	}

	return nil
}
