package instance

import (
	"errors"
	"os"
	"strconv"
	"testing"

	"github.com/mitchellh/go-ps"
)

type mockProcess struct {
	pid        int
	executable string
}

func (m *mockProcess) Pid() int {
	return m.pid
}

func (m *mockProcess) PPid() int {
	return 0
}

func (m *mockProcess) Executable() string {
	return m.executable
}

func stubProcesses(t *testing.T, self int, running map[int]string) {
	t.Helper()
	oldFind, oldPid := findProcessFunc, getpidFunc
	t.Cleanup(func() {
		findProcessFunc = oldFind
		getpidFunc = oldPid
	})

	getpidFunc = func() int { return self }
	findProcessFunc = func(pid int) (ps.Process, error) {
		exe, ok := running[pid]
		if !ok {
			return nil, nil
		}
		return &mockProcess{pid: pid, executable: exe}, nil
	}
}

func TestAcquireAndRelease(t *testing.T) {
	stubProcesses(t, 100, nil)
	lock := New(t.TempDir())

	if err := lock.Acquire(); err != nil {
		t.Fatalf("Acquire failed: %v", err)
	}
	content, err := os.ReadFile(lock.Path())
	if err != nil {
		t.Fatalf("lockfile not written: %v", err)
	}
	if string(content) != "100|lifeplan" {
		t.Errorf("unexpected lockfile content %q", content)
	}

	if err := lock.Release(); err != nil {
		t.Fatalf("Release failed: %v", err)
	}
	if _, err := os.Stat(lock.Path()); !os.IsNotExist(err) {
		t.Error("lockfile should be removed after Release")
	}
}

func TestAcquire_LiveOwner(t *testing.T) {
	dir := t.TempDir()
	stubProcesses(t, 100, map[int]string{200: "lifeplan"})

	if err := os.WriteFile(New(dir).Path(), []byte("200|lifeplan"), 0600); err != nil {
		t.Fatal(err)
	}

	lock := New(dir)
	err := lock.Acquire()
	if !errors.Is(err, ErrAlreadyRunning) {
		t.Fatalf("expected ErrAlreadyRunning, got %v", err)
	}

	// Release must not remove a lock it does not hold
	if err := lock.Release(); err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(lock.Path()); err != nil {
		t.Error("foreign lockfile was removed")
	}
}

func TestAcquire_StaleLockfiles(t *testing.T) {
	tests := []struct {
		name    string
		content string
		running map[int]string
	}{
		{name: "dead process", content: "200|lifeplan"},
		{name: "pid reused by another program", content: "200|lifeplan", running: map[int]string{200: "bash"}},
		{name: "malformed", content: "not-a-pid"},
		{name: "own pid", content: "100|lifeplan"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			stubProcesses(t, 100, tt.running)
			lock := New(dir)
			if err := os.WriteFile(lock.Path(), []byte(tt.content), 0600); err != nil {
				t.Fatal(err)
			}

			if err := lock.Acquire(); err != nil {
				t.Fatalf("Acquire failed: %v", err)
			}
			content, _ := os.ReadFile(lock.Path())
			if string(content) != strconv.Itoa(100)+"|lifeplan" {
				t.Errorf("lockfile not replaced, got %q", content)
			}
		})
	}
}
