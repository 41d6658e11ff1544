// Package instance keeps a second lifeplan process from writing to the same store.
package instance

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/mitchellh/go-ps"

	"github.com/julianstephens/lifeplan/internal/constants"
	"github.com/julianstephens/lifeplan/internal/logger"
)

var (
	findProcessFunc = ps.FindProcess
	getpidFunc      = os.Getpid
)

// ErrAlreadyRunning is returned when a live lifeplan process holds the lock
var ErrAlreadyRunning = errors.New("another lifeplan process is using this database")

// Lock is a PID lockfile. The file holds "<pid>|<executable>".
type Lock struct {
	path string
	held bool
}

// New returns the lock for the store whose files live in dir
func New(dir string) *Lock {
	return &Lock{path: filepath.Join(dir, constants.LockfileName)}
}

func (l *Lock) Path() string {
	return l.path
}

// Acquire creates the lockfile. A lockfile left by a process that is gone, or that
// belongs to some other program reusing the PID, is treated as stale and replaced.
func (l *Lock) Acquire() error {
	if l.held {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(l.path), 0700); err != nil {
		return fmt.Errorf("failed to create lock directory: %w", err)
	}

	for attempt := 0; attempt < 2; attempt++ {
		f, err := os.OpenFile(l.path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0600)
		if err == nil {
			_, werr := fmt.Fprintf(f, "%d|%s", getpidFunc(), constants.AppName)
			cerr := f.Close()
			if werr != nil || cerr != nil {
				_ = os.Remove(l.path)
				return fmt.Errorf("failed to write lockfile: %w", errors.Join(werr, cerr))
			}
			l.held = true
			return nil
		}
		if !os.IsExist(err) {
			return fmt.Errorf("failed to create lockfile: %w", err)
		}

		pid, alive := l.owner()
		if alive {
			return fmt.Errorf("%w (pid %d)", ErrAlreadyRunning, pid)
		}
		logger.Warn("Removing stale lockfile", "path", l.path, "pid", pid)
		if err := os.Remove(l.path); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("failed to remove stale lockfile: %w", err)
		}
	}
	return fmt.Errorf("failed to acquire lock %s", l.path)
}

// owner reads the lockfile and reports whether the recorded process is a running lifeplan
func (l *Lock) owner() (int, bool) {
	content, err := os.ReadFile(l.path)
	if err != nil {
		return 0, false
	}

	parts := strings.SplitN(strings.TrimSpace(string(content)), "|", 2)
	pid, err := strconv.Atoi(parts[0])
	if err != nil || pid <= 0 {
		return 0, false
	}
	if pid == getpidFunc() {
		return pid, false
	}

	process, err := findProcessFunc(pid)
	if err != nil || process == nil {
		return pid, false
	}
	return pid, strings.HasPrefix(process.Executable(), constants.AppName)
}

// Release removes the lockfile if this lock created it
func (l *Lock) Release() error {
	if !l.held {
		return nil
	}
	l.held = false
	if err := os.Remove(l.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove lockfile: %w", err)
	}
	return nil
}
