// Package ncshcli wires the tokenizer, resolver, discovery protocol,
// and dispatcher into the three invocation surfaces: interactive,
// batch, and completion. Grounded on
// opal-lang-opal/runtime/cli/harness.go's CLIHarness shape (a small
// struct holding the shared dependencies, one method per surface)
// generalised from cobra-command registration to the shell's REPL
// loop, since this core has no subcommands to register — it resolves
// one argv per line against a live filesystem-backed namespace instead.
package ncshcli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/ncsh/ncsh/internal/dispatch"
	"github.com/ncsh/ncsh/internal/editline"
	"github.com/ncsh/ncsh/internal/namespace"
	"github.com/ncsh/ncsh/internal/prompt"
	"github.com/ncsh/ncsh/internal/shellerr"
	"github.com/ncsh/ncsh/internal/token"
)

// Exit codes: 0 on clean shutdown (including exit/quit), 1 on fatal
// initialization or unrecoverable child-exec failure, 2 on malformed
// numeric option arguments in the setter.
const (
	ExitSuccess       = 0
	ExitFatal         = 1
	ExitMalformedArgs = 2
)

// Shell bundles the dependencies one REPL needs: the resolver (which
// owns the libexec/sysconf roots), the discovery sub-protocol
// implementation, the line-editor backend, and the terminal-state
// saver invoked around every child command.
type Shell struct {
	Base     string // the program's display name, used in the prompt
	Resolver *namespace.Resolver
	Disco    namespace.Discoverer
	Editor   editline.Editor
	Term     dispatch.TermSaver
	Stdout   io.Writer
	Stderr   io.Writer

	path []string // container names from root, saved across prompts
}

// RunInteractive reads lines until EOF or exit/quit, tokenizing,
// resolving, and dispatching each one.
func (s *Shell) RunInteractive(ctx context.Context) int {
	state := token.Initial()
	var pending strings.Builder

	for {
		p := prompt.Render(s.Base, s.path)
		line, err := s.Editor.ReadLine(p)
		if err == editline.ErrEOF {
			return ExitSuccess
		}
		if err != nil {
			fmt.Fprintln(s.Stderr, prompt.Diagnostic(err.Error()))
			return ExitFatal
		}

		pending.WriteString(line)
		pending.WriteByte('\n')

		argv, offsets, final, errIdx, terr := token.Tokenize([]byte(pending.String()), state)
		if terr != nil {
			fmt.Fprintln(s.Stderr, prompt.Diagnostic(fmt.Sprintf("syntax error at byte %d: %v", errIdx, terr)))
			state = token.Initial()
			pending.Reset()
			continue
		}
		if final.InToken {
			// Unterminated quote/escape: keep the accumulated text and
			// read another physical line before resolving anything; the
			// whole text is tokenized again from the initial state.
			continue
		}
		state = token.Initial()
		pending.Reset()
		if len(argv) == 0 {
			continue
		}

		s.Editor.AddHistory(line)

		node, rerr := s.resolveArgv(argv, offsets, false)
		if rerr != nil {
			s.reportError(rerr)
			continue
		}

		outcome, derr := dispatch.Dispatch(ctx, node, s.commandStdio(), s.Term)
		if derr != nil {
			fmt.Fprintln(s.Stderr, prompt.Diagnostic(derr.Error()))
			continue
		}
		if outcome.NewPath != nil {
			s.path = outcome.NewPath
		}
		if outcome.EndOfInput {
			return ExitSuccess
		}
	}
}

// RunBatch tokenizes, resolves, and dispatches a single command line.
func (s *Shell) RunBatch(ctx context.Context, line string) int {
	argv, offsets, _, errIdx, terr := token.Tokenize([]byte(line), token.Initial())
	if terr != nil {
		fmt.Fprintln(s.Stderr, prompt.Diagnostic(fmt.Sprintf("syntax error at byte %d: %v", errIdx, terr)))
		return ExitFatal
	}
	if len(argv) == 0 {
		return ExitSuccess
	}

	node, rerr := s.resolveArgv(argv, offsets, false)
	if rerr != nil {
		s.reportError(rerr)
		return ExitFatal
	}

	_, derr := dispatch.Dispatch(ctx, node, s.commandStdio(), s.Term)
	if derr != nil {
		fmt.Fprintln(s.Stderr, prompt.Diagnostic(derr.Error()))
		return ExitFatal
	}
	return ExitSuccess
}

// RunCompletion truncates the input at compPoint (if >= 0 and within
// range), tokenizes in completion mode, and prints one candidate per
// line.
func (s *Shell) RunCompletion(ctx context.Context, compLine string, compPoint int) int {
	if compPoint >= 0 && compPoint <= len(compLine) {
		compLine = compLine[:compPoint]
	}

	argv, offsets, final, _, terr := token.Tokenize([]byte(compLine), token.Initial())
	if terr != nil {
		return ExitSuccess
	}
	if !final.InToken {
		// Cursor sits outside any token: force an empty trailing token
		// so the resolver returns the set of next-legal items.
		argv = append(argv, "")
		offsets = append(offsets, token.OffsetRecord{})
	}

	node, rerr := s.resolveArgv(argv, offsets, true)
	if rerr != nil {
		return ExitSuccess
	}

	for _, c := range completionCandidates(node) {
		fmt.Fprintln(s.Stdout, c)
	}
	return ExitSuccess
}

// commandStdio inherits the shell's own stdio for a spawned command.
func (s *Shell) commandStdio() dispatch.Stdio {
	return dispatch.Stdio{Stdin: os.Stdin, Stdout: os.Stdout, Stderr: os.Stderr}
}

// resolveArgv walks the saved path to its container, then resolves
// each new argv token in turn, returning the terminal node.
func (s *Shell) resolveArgv(argv []string, offsets []token.OffsetRecord, completionMode bool) (namespace.Node, error) {
	root, err := s.Resolver.NewRootContainer()
	if err != nil {
		return nil, shellerr.IOFailure("building root container", err)
	}

	var parent namespace.Node = root
	for _, name := range s.path {
		next, err := s.Resolver.ParseStep(name, namespace.Position{}, parent, false, s.Disco)
		if err != nil {
			// Saved path no longer resolves (e.g. directory removed
			// underneath us); fall back to root rather than error out
			// of the whole line.
			parent = root
			break
		}
		parent = next
	}

	for i, tok := range argv {
		pos := namespace.Position{Line: 1, Column: offsets[i].Start + 1}
		node, err := s.Resolver.ParseStep(tok, pos, parent, completionMode, s.Disco)
		if err != nil {
			if se, ok := err.(*shellerr.Error); ok && se.Line == 0 && se.Column == 0 {
				se.WithPosition(pos.Line, pos.Column)
			}
			return nil, err
		}
		parent = node
	}
	return parent, nil
}

// reportError renders the one-line diagnostic. *shellerr.Error's own
// Error() method includes the source line/column that resolveArgv
// stamps on resolver errors; it does not include child stderr.
func (s *Shell) reportError(err error) {
	fmt.Fprintln(s.Stderr, prompt.Diagnostic(err.Error()))
}

// completionCandidates renders a resolved node's legal next-tokens as
// completion lines.
func completionCandidates(node namespace.Node) []string {
	var out []string
	switch n := node.(type) {
	case *namespace.Container:
		out = append(out, n.ChildContainers...)
		out = append(out, n.ChildCommands...)
		out = append(out, n.Builtins...)
	case *namespace.Parameter:
		out = append(out, n.LegalKeys...)
		out = append(out, n.RequiredKeys...)
		out = append(out, n.LegalValues...)
	case *namespace.Ambiguous:
		out = append(out, n.Containers...)
		out = append(out, n.Commands...)
		out = append(out, n.Builtins...)
		out = append(out, n.Keys...)
		out = append(out, n.Requires...)
		out = append(out, n.Values...)
	}
	return out
}
