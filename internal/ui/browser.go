package ui

import (
	"fmt"
	"os/exec"
	"runtime"
)

// openURL opens url with the platform's default handler
func openURL(url string) error {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "windows":
		cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", url)
	case "darwin":
		cmd = exec.Command("open", url)
	default: // linux, freebsd, etc.
		cmd = exec.Command("xdg-open", url)
	}
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("failed to start %s: %w", cmd.Path, err)
	}
	// Reap the helper; it exits once the browser has the URL
	go func() { _ = cmd.Wait() }()
	return nil
}
