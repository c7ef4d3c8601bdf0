package ncshcli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ncsh/ncsh/internal/editline"
	"github.com/ncsh/ncsh/internal/namespace"
	"github.com/ncsh/ncsh/internal/shellfs"
)

type noopTermSaver struct{}

func (noopTermSaver) Save() (func(), error) { return func() {}, nil }

func newTestShell(t *testing.T, libexec string) *Shell {
	t.Helper()
	lroot, err := shellfs.NewRoot(libexec)
	if err != nil {
		t.Fatal(err)
	}
	sroot, err := shellfs.NewRoot(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	var out, errOut bytes.Buffer
	return &Shell{
		Base:     "ncsh",
		Resolver: &namespace.Resolver{Libexec: lroot, Sysconf: sroot},
		Term:     noopTermSaver{},
		Stdout:   &out,
		Stderr:   &errOut,
	}
}

func TestRunBatchExitEndsSession(t *testing.T) {
	s := newTestShell(t, t.TempDir())
	code := s.RunBatch(context.Background(), "exit")
	if code != ExitSuccess {
		t.Fatalf("RunBatch(exit) = %d, want %d", code, ExitSuccess)
	}
}

func TestRunBatchNavigatesContainer(t *testing.T) {
	libexec := t.TempDir()
	if err := os.Mkdir(filepath.Join(libexec, "interface"), 0o755); err != nil {
		t.Fatal(err)
	}
	s := newTestShell(t, libexec)
	code := s.RunBatch(context.Background(), "interface")
	if code != ExitSuccess {
		t.Fatalf("RunBatch(interface) = %d", code)
	}
}

func TestRunInteractiveReadsUntilEOF(t *testing.T) {
	libexec := t.TempDir()
	s := newTestShell(t, libexec)
	s.Editor = editline.NewBasic(strings.NewReader("exit\n"), &bytes.Buffer{})

	code := s.RunInteractive(context.Background())
	if code != ExitSuccess {
		t.Fatalf("RunInteractive = %d, want %d", code, ExitSuccess)
	}
}

func TestRunBatchReportsAmbiguous(t *testing.T) {
	libexec := t.TempDir()
	for _, name := range []string{"show", "shutdown"} {
		if err := os.WriteFile(filepath.Join(libexec, name), []byte("#!/bin/sh\n"), 0o755); err != nil {
			t.Fatal(err)
		}
	}
	s := newTestShell(t, libexec)
	code := s.RunBatch(context.Background(), "s")
	if code != ExitFatal {
		t.Fatalf("RunBatch(s) = %d, want %d (ambiguous)", code, ExitFatal)
	}
}
