// Package discovery implements the command discovery sub-protocol:
// spawning a command in "-c" mode with a sanitised environment, reading
// its stdout/stderr concurrently, and classifying stdout lines into
// legal/required keys and legal values.
package discovery

import (
	"bufio"
	"context"
	"io"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/ncsh/ncsh/internal/namespace"
	"github.com/ncsh/ncsh/internal/ncshlog"
	"github.com/ncsh/ncsh/internal/shellerr"
	"github.com/ncsh/ncsh/internal/token"
)

// passthroughEnv lists the only environment variables propagated to a
// spawned child; everything else is stripped.
var passthroughEnv = []string{"TERM", "LANG", "LC_ALL", "TMPDIR", "TZ", "USER"}

// Options tunes two bounds left to the implementation: the
// completion-line cap (default 1000) and an overall wall-clock cap
// (see DESIGN.md).
type Options struct {
	CompletionCap int
	Timeout       time.Duration
}

// DefaultOptions returns the default completion-line cap and
// wall-clock timeout.
func DefaultOptions() Options {
	return Options{CompletionCap: 1000, Timeout: 5 * time.Second}
}

// TermSaver abstracts save/restore of the controlling terminal around
// the discovery child's invocation, mirroring dispatch.TermSaver.
// internal/termstate implements this against a real terminal; tests
// can stub it out or leave it nil to skip save/restore entirely.
type TermSaver interface {
	Save() (restore func(), err error)
}

// Discovery implements namespace.Discoverer by spawning real child
// processes.
type Discovery struct {
	Opts Options
	Term TermSaver
}

func New(opts Options) *Discovery {
	return &Discovery{Opts: opts}
}

// Discover runs cmd in -c mode with the ancestor key/value pairs and
// the in-progress token, and classifies its stdout.
func (d *Discovery) Discover(cmd *namespace.Command, ancestors []namespace.KV, tok string) namespace.DiscoveryResult {
	log := ncshlog.For("discovery")

	argv := []string{cmd.LibexecPath, "-c"}
	for _, kv := range ancestors {
		argv = append(argv, kv.Key, kv.Value)
	}
	argv = append(argv, tok)

	ctx, cancel := context.WithTimeout(context.Background(), d.timeout())
	defer cancel()

	if d.Term != nil {
		restore, err := d.Term.Save()
		if err != nil {
			return namespace.DiscoveryResult{Err: shellerr.IOFailure("saving terminal state", err)}
		}
		defer restore()
	}

	child := exec.CommandContext(ctx, argv[0], argv[1:]...)
	child.Dir = cmd.SysconfPath
	child.Env = sanitizedEnv()
	child.Stdin = nil

	stdout, err := child.StdoutPipe()
	if err != nil {
		return namespace.DiscoveryResult{Err: shellerr.IOFailure("opening discovery stdout pipe", err)}
	}
	stderr, err := child.StderrPipe()
	if err != nil {
		return namespace.DiscoveryResult{Err: shellerr.IOFailure("opening discovery stderr pipe", err)}
	}

	if err := child.Start(); err != nil {
		return namespace.DiscoveryResult{Err: shellerr.ChildFailure("exec failed", -1, nil)}
	}

	type stdoutResult struct {
		keys, required, values []string
		truncated              bool
	}
	stdoutCh := make(chan stdoutResult, 1)
	go func() {
		keys, required, values, truncated := classifyLines(stdout, d.capOrDefault())
		stdoutCh <- stdoutResult{keys, required, values, truncated}
	}()

	stderrCh := make(chan []byte, 1)
	go func() {
		b, _ := io.ReadAll(stderr)
		stderrCh <- b
	}()

	out := <-stdoutCh
	errBytes := <-stderrCh

	waitErr := child.Wait()

	if ctx.Err() == context.DeadlineExceeded {
		log.Warn("discovery timed out")
		return namespace.DiscoveryResult{
			Stderr: errBytes,
			Err:    shellerr.ChildFailure("discovery wall-clock cap exceeded", -1, errBytes),
		}
	}

	if waitErr != nil {
		exitCode := -1
		if ee, ok := waitErr.(*exec.ExitError); ok {
			exitCode = ee.ExitCode()
		}
		return namespace.DiscoveryResult{
			Stderr: errBytes,
			Err:    shellerr.ChildFailure("non-normal exit", exitCode, errBytes),
		}
	}

	if out.truncated {
		log.WithField("cap", d.capOrDefault()).Debug("discovery output hit the completion cap")
	}

	return namespace.DiscoveryResult{
		LegalKeys:    out.keys,
		RequiredKeys: out.required,
		LegalValues:  out.values,
		Stderr:       errBytes,
	}
}

func (d *Discovery) timeout() time.Duration {
	if d.Opts.Timeout > 0 {
		return d.Opts.Timeout
	}
	return DefaultOptions().Timeout
}

func (d *Discovery) capOrDefault() int {
	if d.Opts.CompletionCap > 0 {
		return d.Opts.CompletionCap
	}
	return DefaultOptions().CompletionCap
}

func sanitizedEnv() []string {
	env := make([]string, 0, len(passthroughEnv))
	for _, name := range passthroughEnv {
		if v, ok := os.LookupEnv(name); ok {
			env = append(env, name+"="+v)
		}
	}
	return env
}

// classifyLines reads newline-terminated stdout lines up to cap,
// re-tokenizes each, and classifies it into a legal key, a required
// key, or a legal value. A final line with no trailing newline (the
// child died mid-write) is discarded.
func classifyLines(r io.Reader, maxLines int) (keys, required, values []string, truncated bool) {
	reader := bufio.NewReader(r)
	count := 0
	for {
		line, err := reader.ReadString('\n')
		if err != nil {
			// Whatever is left over either has no trailing newline (an
			// incomplete final line, discarded) or err is a real read
			// failure; either way there is nothing more to classify.
			break
		}
		line = strings.TrimSuffix(line, "\n")
		line = strings.TrimSuffix(line, "\r")

		if count >= maxLines {
			truncated = true
			continue // keep draining so the child isn't blocked on a full pipe
		}

		if len(line) == 0 {
			continue
		}
		marker := line[0]
		if marker != '-' && marker != '*' {
			continue
		}
		rest := line[1:]

		argv, offsets, _, _, err := token.Tokenize([]byte(rest), token.Initial())
		if err != nil || len(argv) != 1 {
			continue
		}
		value := argv[0]
		eqCol := offsets[0].EqualsColumn

		if eqCol < 0 {
			values = append(values, value)
			count++
			continue
		}
		key := value[:eqCol]
		if marker == '*' {
			required = append(required, key)
		} else {
			keys = append(keys, key)
		}
		count++
	}
	return keys, required, values, truncated
}
