//go:build e2e && unix

package e2e

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"regexp"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/creack/pty"
)

const ringSize = 1 << 20 // 1 MiB of scrollback

var binPath = "starcleaner_e2e"

const (
	KeyEnter  = "\r"
	KeyCtrlC  = "\x03"
	KeyEscape = "\x1b"
	KeySpace  = " "
	KeyDown   = "j"
	KeyQuit   = "q"
)

// covers CSI, OSC, charset and keypad mode sequences
var ansiRe = regexp.MustCompile(
	`(?:\x1b\[[0-9;?]*[ -/]*[@-~])|` +
		`(?:\x1b\][^\x07]*\x07)|` +
		`(?:\x1b[\(\)][A-Za-z])|` +
		`(?:\x1b=|\x1b>)|` +
		`\r`,
)

// Driver runs the binary in a pseudo terminal and records everything it
// draws in a ring buffer
type Driver struct {
	t         *testing.T
	pty       *os.File
	cmd       *exec.Cmd
	workspace string

	mu   sync.Mutex
	buf  []byte
	head int
	full bool

	done    chan struct{}
	exitErr error
}

// NewDriver creates a driver with its own home and config directory
func NewDriver(t *testing.T) *Driver {
	d := &Driver{
		t:         t,
		buf:       make([]byte, ringSize),
		workspace: t.TempDir(),
		done:      make(chan struct{}),
	}
	t.Cleanup(d.Cleanup)
	return d
}

// ConfigPath is the config file the started binary uses
func (d *Driver) ConfigPath() string {
	return filepath.Join(d.workspace, "config.toml")
}

// Start launches the binary against apiURL with the extra args
func (d *Driver) Start(apiURL string, args ...string) error {
	d.t.Helper()

	all := append([]string{
		"--config", d.ConfigPath(),
		"--log-file", filepath.Join(d.workspace, "starcleaner.log"),
		"--log-level", "debug",
		"--base-url", apiURL,
		"--timeout", "5s",
	}, args...)
	d.cmd = exec.Command(binPath, all...)
	d.cmd.Env = append(os.Environ(),
		"TERM=xterm-256color",
		"LC_ALL=C.UTF-8",
		"HOME="+d.workspace,
		"GITHUB_TOKEN=",
		"STARCLEANER_TOKEN=",
		"BROWSER=true",
	)

	f, err := pty.StartWithSize(d.cmd, &pty.Winsize{Rows: 40, Cols: 120})
	if err != nil {
		return fmt.Errorf("failed to start %s: %w", binPath, err)
	}
	d.pty = f

	go d.read()
	go func() {
		d.exitErr = d.cmd.Wait()
		close(d.done)
	}()
	return nil
}

func (d *Driver) read() {
	chunk := make([]byte, 8192)
	for {
		n, err := d.pty.Read(chunk)
		if n > 0 {
			d.mu.Lock()
			for _, b := range chunk[:n] {
				d.buf[d.head] = b
				d.head = (d.head + 1) % ringSize
				if d.head == 0 {
					d.full = true
				}
			}
			d.mu.Unlock()
		}
		if err != nil {
			return
		}
	}
}

// SendKeys writes raw keystrokes to the terminal
func (d *Driver) SendKeys(keys string) error {
	d.t.Helper()
	_, err := d.pty.Write([]byte(keys))
	return err
}

// Type sends text one key at a time, like a user would
func (d *Driver) Type(text string) error {
	d.t.Helper()
	for _, r := range text {
		if err := d.SendKeys(string(r)); err != nil {
			return err
		}
		time.Sleep(5 * time.Millisecond)
	}
	return nil
}

// See waits until the plain screen output contains text
func (d *Driver) See(text string) bool {
	d.t.Helper()
	return d.WaitFor(func(s string) bool { return strings.Contains(s, text) }, 5*time.Second)
}

// WaitFor polls the plain output until pred holds or timeout passes
func (d *Driver) WaitFor(pred func(string) bool, timeout time.Duration) bool {
	d.t.Helper()
	deadline := time.Now().Add(timeout)
	for {
		if pred(d.SnapshotPlain()) {
			return true
		}
		if time.Now().After(deadline) {
			return false
		}
		time.Sleep(25 * time.Millisecond)
	}
}

// WaitExit waits for the process to end and returns its exit error
func (d *Driver) WaitExit(timeout time.Duration) (error, bool) {
	select {
	case <-d.done:
		return d.exitErr, true
	case <-time.After(timeout):
		return nil, false
	}
}

// Snapshot returns the raw bytes written so far
func (d *Driver) Snapshot() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	if !d.full {
		return string(d.buf[:d.head])
	}
	out := make([]byte, ringSize)
	copy(out, d.buf[d.head:])
	copy(out[ringSize-d.head:], d.buf[:d.head])
	return string(out)
}

// SnapshotPlain is Snapshot without escape sequences
func (d *Driver) SnapshotPlain() string {
	return ansiRe.ReplaceAllString(d.Snapshot(), "")
}

// Tail returns the last n bytes of plain output, for failure messages
func (d *Driver) Tail(n int) string {
	s := d.SnapshotPlain()
	if len(s) > n {
		s = s[len(s)-n:]
	}
	return s
}

// Cleanup closes the terminal, which hangs up the child, and kills it if needed
func (d *Driver) Cleanup() {
	if d.pty != nil {
		_ = d.pty.Close()
		d.pty = nil
	}
	if d.cmd != nil && d.cmd.Process != nil {
		select {
		case <-d.done:
		case <-time.After(2 * time.Second):
			_ = d.cmd.Process.Kill()
			<-d.done
		}
		d.cmd = nil
	}
}
