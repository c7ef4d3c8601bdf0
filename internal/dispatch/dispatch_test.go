package dispatch

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/ncsh/ncsh/internal/namespace"
	"github.com/ncsh/ncsh/internal/shellfs"
)

type noopTermSaver struct{ saved bool }

func (n *noopTermSaver) Save() (func(), error) {
	n.saved = true
	return func() {}, nil
}

func TestDispatchBuiltinExitEndsInput(t *testing.T) {
	b := mustParseBuiltin(t, "exit")
	out, err := Dispatch(context.Background(), b, Stdio{}, &noopTermSaver{})
	if err != nil {
		t.Fatalf("Dispatch: %v", err)
	}
	if !out.EndOfInput {
		t.Error("EndOfInput should be true for the exit builtin")
	}
}

func TestDispatchContainerReplacesPath(t *testing.T) {
	dir := t.TempDir()
	mustExecFile(t, filepath.Join(dir, "cmd"))
	resolver := newResolver(t, dir)
	root, err := resolver.NewRootContainer()
	if err != nil {
		t.Fatal(err)
	}
	out, err := Dispatch(context.Background(), root, Stdio{}, &noopTermSaver{})
	if err != nil {
		t.Fatalf("Dispatch: %v", err)
	}
	if len(out.NewPath) != 0 {
		t.Errorf("NewPath for root = %v, want empty", out.NewPath)
	}
}

func TestDispatchAmbiguousDiagnostic(t *testing.T) {
	amb := &namespace.Ambiguous{Prefix: "s"}
	_, err := Dispatch(context.Background(), amb, Stdio{}, &noopTermSaver{})
	if err == nil {
		t.Fatal("expected an Ambiguous diagnostic error")
	}
}

func TestDispatchCommandRuns(t *testing.T) {
	dir := t.TempDir()
	script := filepath.Join(dir, "cmd")
	if err := os.WriteFile(script, []byte("#!/bin/sh\necho hi\n"), 0o755); err != nil {
		t.Fatal(err)
	}
	cmd := &namespace.Command{LibexecPath: script, SysconfPath: dir}

	var out bytes.Buffer
	result, err := Dispatch(context.Background(), cmd, Stdio{Stdout: &out}, &noopTermSaver{})
	if err != nil {
		t.Fatalf("Dispatch: %v", err)
	}
	if result.EndOfInput {
		t.Error("command dispatch should not end input")
	}
	if out.String() != "hi\n" {
		t.Errorf("stdout = %q, want %q", out.String(), "hi\n")
	}
}

func mustParseBuiltin(t *testing.T, name string) *namespace.Builtin {
	t.Helper()
	dir := t.TempDir()
	resolver := newResolver(t, dir)
	root, err := resolver.NewRootContainer()
	if err != nil {
		t.Fatal(err)
	}
	node, err := resolver.ParseStep(name, namespace.Position{}, root, false, nil)
	if err != nil {
		t.Fatal(err)
	}
	b, ok := node.(*namespace.Builtin)
	if !ok {
		t.Fatalf("node = %T, want *namespace.Builtin", node)
	}
	return b
}

func newResolver(t *testing.T, libexecDir string) *namespace.Resolver {
	t.Helper()
	lroot, err := shellfs.NewRoot(libexecDir)
	if err != nil {
		t.Fatal(err)
	}
	sroot, err := shellfs.NewRoot(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	return &namespace.Resolver{Libexec: lroot, Sysconf: sroot}
}

func mustExecFile(t *testing.T, path string) {
	t.Helper()
	if err := os.WriteFile(path, []byte("#!/bin/sh\n"), 0o755); err != nil {
		t.Fatal(err)
	}
}
