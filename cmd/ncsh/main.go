// Command ncsh is the interactive declarative-configuration shell.
// It wires the tokenizer, namespace resolver, discovery protocol, and
// dispatcher together via internal/ncshcli, selecting interactive,
// batch, or completion mode from the process environment.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ncsh/ncsh/internal/discovery"
	"github.com/ncsh/ncsh/internal/editline"
	"github.com/ncsh/ncsh/internal/namespace"
	"github.com/ncsh/ncsh/internal/ncshcli"
	"github.com/ncsh/ncsh/internal/ncshlog"
	"github.com/ncsh/ncsh/internal/prompt"
	"github.com/ncsh/ncsh/internal/shellconfig"
	"github.com/ncsh/ncsh/internal/shellfs"
	"github.com/ncsh/ncsh/internal/termstate"
)

var version = "dev"

func main() {
	os.Exit(run())
}

// run builds the cobra command and returns the process exit code.
// RunE only carries an error, not a status, so the chosen surface
// (interactive/batch/completion) reports its own exit code into code.
func run() int {
	var batchLine string
	code := ncshcli.ExitSuccess

	root := &cobra.Command{
		Use:     "ncsh",
		Short:   "Interactive declarative-configuration shell",
		Version: version,
		RunE: func(cmd *cobra.Command, args []string) error {
			var err error
			code, err = execute(batchLine)
			return err
		},
	}
	root.Flags().StringVarP(&batchLine, "command", "c", "", "run a single command line and exit (batch mode)")
	root.SilenceUsage = true
	root.SilenceErrors = true

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, prompt.Diagnostic(err.Error()))
		if code == ncshcli.ExitSuccess {
			code = ncshcli.ExitFatal
		}
	}
	return code
}

// execute builds the shell from the environment and runs whichever
// surface the environment/flags select, returning its exit code.
func execute(batchLine string) (int, error) {
	cfg, err := shellconfig.Load()
	if err != nil {
		return ncshcli.ExitFatal, err
	}

	libexec, err := shellfs.NewRoot(cfg.Libexec)
	if err != nil {
		return ncshcli.ExitFatal, err
	}
	sysconf, err := shellfs.NewRoot(cfg.Sysconf)
	if err != nil {
		return ncshcli.ExitFatal, err
	}

	shell := &ncshcli.Shell{
		Base: "ncsh",
		Resolver: &namespace.Resolver{
			Libexec: libexec,
			Sysconf: sysconf,
			Pathext: shellfs.ParsePathext(cfg.Pathext),
		},
		Disco:  &discovery.Discovery{Opts: cfg.DiscoveryOptions(), Term: termstate.New(os.Stdin)},
		Term:   termstate.New(os.Stdin),
		Stdout: os.Stdout,
		Stderr: os.Stderr,
	}

	ctx := context.Background()

	if compLine, ok := lookupCompletionLine(); ok {
		compPoint := -1
		if v, ok := os.LookupEnv("COMP_POINT"); ok {
			fmt.Sscanf(v, "%d", &compPoint)
		}
		return shell.RunCompletion(ctx, compLine, compPoint), nil
	}

	if batchLine != "" {
		return shell.RunBatch(ctx, batchLine), nil
	}

	editor, err := selectEditor(cfg.Editline)
	if err != nil {
		ncshlog.For("main").WithField("error", err).Error("unknown editline backend")
		return ncshcli.ExitFatal, err
	}
	shell.Editor = editor
	defer editor.Close()
	return shell.RunInteractive(ctx), nil
}

// lookupCompletionLine detects the completion surface via $COMP_LINE
// or $COMMAND_LINE.
func lookupCompletionLine() (string, bool) {
	if v, ok := os.LookupEnv("COMP_LINE"); ok {
		return v, true
	}
	if v, ok := os.LookupEnv("COMMAND_LINE"); ok {
		return v, true
	}
	return "", false
}

// selectEditor resolves $DEVICE_EDITLINE to a concrete Editor backend.
// Only the Basic backend ships in this core; richer backends are
// external collaborators, and an explicitly-requested unknown backend
// is a fatal diagnostic.
func selectEditor(name string) (editline.Editor, error) {
	switch name {
	case "", "basic":
		return editline.NewBasic(os.Stdin, os.Stdout), nil
	default:
		return nil, fmt.Errorf("unknown $DEVICE_EDITLINE backend %q", name)
	}
}
