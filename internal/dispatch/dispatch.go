// Package dispatch executes the terminal node of one resolved argv
// line: container navigation, command/parameter execution, builtin
// walk-up, and the ambiguous diagnostic.
package dispatch

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"

	"github.com/ncsh/ncsh/internal/namespace"
	"github.com/ncsh/ncsh/internal/ncshlog"
	"github.com/ncsh/ncsh/internal/shellerr"
)

// passthroughEnv mirrors the discovery sub-protocol's sanitised
// environment.
var passthroughEnv = []string{"TERM", "LANG", "LC_ALL", "TMPDIR", "TZ", "USER"}

// TermSaver abstracts save/restore of the controlling terminal around a
// child invocation that might change termios. internal/termstate
// implements this against a real terminal; tests can stub it out.
type TermSaver interface {
	Save() (restore func(), err error)
}

// Stdio is the caller's standard streams, inherited by spawned commands.
type Stdio struct {
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
}

// Outcome reports what Dispatch did, for the interactive loop to act on.
type Outcome struct {
	// EndOfInput is true when a walk-up reached the root "exit"/"quit"
	// builtin: the interactive loop should terminate cleanly.
	EndOfInput bool

	// NewPath is the root-to-node chain of container names to save as
	// the new navigated path, set only on a Container dispatch.
	NewPath []string
}

// Dispatch executes node: container navigation updates the saved path,
// builtins and options walk up to their root name, commands and
// parameters spawn a child process.
func Dispatch(ctx context.Context, node namespace.Node, stdio Stdio, term TermSaver) (Outcome, error) {
	switch n := node.(type) {
	case *namespace.Container:
		return Outcome{NewPath: containerChain(n)}, nil

	case *namespace.Ambiguous:
		line, col := n.Position()
		return Outcome{}, shellerr.New(shellerr.KindAmbiguous,
			fmt.Sprintf("bad command '%s' (line %d column %d)", n.Prefix, line, col))

	case *namespace.Builtin:
		return dispatchBuiltin(n.Name())

	case *namespace.Option:
		name, ok := rootBuiltinName(n)
		if !ok {
			return Outcome{}, shellerr.New(shellerr.KindNotFound, "option chain has no builtin root")
		}
		return dispatchBuiltin(name)

	case *namespace.Command:
		return runCommand(ctx, n, nil, stdio, term)

	case *namespace.Parameter:
		cmd, pairs := ancestorChain(n)
		return runCommand(ctx, cmd, pairs, stdio, term)

	default:
		return Outcome{}, shellerr.New(shellerr.KindNotFound, "unrecognized node kind")
	}
}

func dispatchBuiltin(rootName string) (Outcome, error) {
	if rootName == "exit" || rootName == "quit" {
		return Outcome{EndOfInput: true}, nil
	}
	return Outcome{}, nil
}

func runCommand(ctx context.Context, cmd *namespace.Command, pairs []namespace.KV, stdio Stdio, term TermSaver) (Outcome, error) {
	log := ncshlog.For("dispatch")
	argv := []string{cmd.LibexecPath, "--"}
	for _, kv := range pairs {
		argv = append(argv, kv.Key, kv.Value)
	}

	restore, err := term.Save()
	if err != nil {
		return Outcome{}, shellerr.IOFailure("saving terminal state", err)
	}
	defer restore()

	child := exec.CommandContext(ctx, argv[0], argv[1:]...)
	child.Dir = cmd.SysconfPath
	child.Env = sanitizedEnv()
	child.Stdin = stdio.Stdin
	child.Stdout = stdio.Stdout
	child.Stderr = stdio.Stderr

	runErr := child.Run()
	if runErr == nil {
		return Outcome{}, nil
	}

	exitCode := -1
	if ee, ok := runErr.(*exec.ExitError); ok {
		exitCode = ee.ExitCode()
	}
	log.WithField("exit_code", exitCode).Warn("command exited non-zero")
	return Outcome{}, shellerr.ChildFailure("command exited non-zero", exitCode, nil)
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

// containerChain returns the container names from just below the root
// down to n, outermost first, so the caller can replace its saved
// navigated path in one shot. The root container has no name and is not
// included: dispatching the root yields an empty path.
func containerChain(n *namespace.Container) []string {
	var chain []*namespace.Container
	for cur := n; cur != nil; {
		if cur.Parent() == nil {
			break
		}
		chain = append(chain, cur)
		parent, ok := cur.Parent().(*namespace.Container)
		if !ok {
			break
		}
		cur = parent
	}
	names := make([]string, len(chain))
	for i, c := range chain {
		names[len(chain)-1-i] = c.Name()
	}
	return names
}

// rootBuiltinName walks an Option chain up to its originating Builtin.
func rootBuiltinName(n *namespace.Option) (string, bool) {
	var cur namespace.Node = n
	for {
		switch t := cur.(type) {
		case *namespace.Builtin:
			return t.Name(), true
		case *namespace.Option:
			cur = t.Ref
		default:
			return "", false
		}
	}
}

// ancestorChain mirrors namespace's unexported collectAncestors: walk a
// Parameter chain up to (not including) its Command, outermost first.
func ancestorChain(p *namespace.Parameter) (*namespace.Command, []namespace.KV) {
	var chain []*namespace.Parameter
	for cur := p; cur != nil; {
		chain = append(chain, cur)
		parent, ok := cur.Parent().(*namespace.Parameter)
		if !ok {
			break
		}
		cur = parent
	}
	out := make([]namespace.KV, len(chain))
	for i, pm := range chain {
		out[len(chain)-1-i] = namespace.KV{Key: pm.Key, Value: pm.Value}
	}
	return p.CommandRef, out
}
