//go:build e2e && unix

package e2e

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"testing"
)

func TestMain(m *testing.M) {
	dir, err := os.MkdirTemp("", "starcleaner-e2e")
	if err != nil {
		fmt.Printf("Failed to create build directory: %v\n", err)
		os.Exit(1)
	}
	binPath = filepath.Join(dir, "starcleaner_e2e")

	fmt.Println("Building test binary...")
	cmd := exec.Command("go", "build", "-o", binPath, "./cmd/starcleaner")
	cmd.Dir = ".."
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		fmt.Printf("Failed to build test binary: %v\n", err)
		os.Exit(1)
	}

	code := m.Run()

	_ = os.RemoveAll(dir)
	os.Exit(code)
}
