package discovery

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/ncsh/ncsh/internal/namespace"
)

func writeScript(t *testing.T, body string) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("discovery spawns POSIX shell scripts; not supported on windows in this test")
	}
	dir := t.TempDir()
	path := filepath.Join(dir, "cmd")
	script := "#!/bin/sh\n" + body
	if err := os.WriteFile(path, []byte(script), 0o755); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestDiscoverClassifiesLines(t *testing.T) {
	script := writeScript(t, `
cat <<'EOF'
*mode=verbose
-interface=eth0
-timeout
EOF
`)
	cmd := &namespace.Command{LibexecPath: script, SysconfPath: t.TempDir()}
	d := New(DefaultOptions())
	result := d.Discover(cmd, nil, "")
	if result.Err != nil {
		t.Fatalf("Discover: %v", result.Err)
	}
	if len(result.RequiredKeys) != 1 || result.RequiredKeys[0] != "mode" {
		t.Errorf("RequiredKeys = %v, want [mode]", result.RequiredKeys)
	}
	if len(result.LegalKeys) != 1 || result.LegalKeys[0] != "interface" {
		t.Errorf("LegalKeys = %v, want [interface]", result.LegalKeys)
	}
	if len(result.LegalValues) != 1 || result.LegalValues[0] != "timeout" {
		t.Errorf("LegalValues = %v, want [timeout]", result.LegalValues)
	}
}

func TestDiscoverSurfacesStderrOnFailure(t *testing.T) {
	script := writeScript(t, `
echo "boom" 1>&2
exit 3
`)
	cmd := &namespace.Command{LibexecPath: script, SysconfPath: t.TempDir()}
	d := New(DefaultOptions())
	result := d.Discover(cmd, nil, "")
	if result.Err == nil {
		t.Fatal("expected a ChildFailure error")
	}
	if string(result.Stderr) != "boom\n" {
		t.Errorf("Stderr = %q, want %q", result.Stderr, "boom\n")
	}
}

func TestDiscoverRejectsMalformedLines(t *testing.T) {
	script := writeScript(t, `
echo "not a candidate line"
cat <<'EOF'
*good=yes
EOF
`)
	cmd := &namespace.Command{LibexecPath: script, SysconfPath: t.TempDir()}
	d := New(DefaultOptions())
	result := d.Discover(cmd, nil, "")
	if result.Err != nil {
		t.Fatalf("Discover: %v", result.Err)
	}
	if len(result.RequiredKeys) != 1 || result.RequiredKeys[0] != "good" {
		t.Errorf("RequiredKeys = %v, want [good]", result.RequiredKeys)
	}
}

type stubTermSaver struct {
	saved    bool
	restored bool
	err      error
}

func (s *stubTermSaver) Save() (func(), error) {
	if s.err != nil {
		return nil, s.err
	}
	s.saved = true
	return func() { s.restored = true }, nil
}

func TestDiscoverSavesAndRestoresTerminal(t *testing.T) {
	script := writeScript(t, `true`)
	cmd := &namespace.Command{LibexecPath: script, SysconfPath: t.TempDir()}
	term := &stubTermSaver{}
	d := &Discovery{Opts: DefaultOptions(), Term: term}
	result := d.Discover(cmd, nil, "")
	if result.Err != nil {
		t.Fatalf("Discover: %v", result.Err)
	}
	if !term.saved || !term.restored {
		t.Errorf("term = %+v, want saved and restored", term)
	}
}

func TestDiscoverSurfacesTermSaverFailure(t *testing.T) {
	script := writeScript(t, `true`)
	cmd := &namespace.Command{LibexecPath: script, SysconfPath: t.TempDir()}
	term := &stubTermSaver{err: os.ErrPermission}
	d := &Discovery{Opts: DefaultOptions(), Term: term}
	result := d.Discover(cmd, nil, "")
	if result.Err == nil {
		t.Fatal("expected an error from the failing TermSaver")
	}
}

func TestDiscoverPropagatesAncestors(t *testing.T) {
	script := writeScript(t, `
# argv: $1=-c $2=k1 $3=seen $4=<token>
printf -- '-ancestor=%s\n' "$2"
`)
	cmd := &namespace.Command{LibexecPath: script, SysconfPath: t.TempDir()}
	d := New(DefaultOptions())
	result := d.Discover(cmd, []namespace.KV{{Key: "k1", Value: "seen"}}, "")
	if result.Err != nil {
		t.Fatalf("Discover: %v", result.Err)
	}
	if len(result.LegalKeys) != 1 || result.LegalKeys[0] != "ancestor" {
		t.Errorf("LegalKeys = %v, want [ancestor]", result.LegalKeys)
	}
}
