// Command ncsh-setter validates and atomically persists typed
// name=value pairs into the filesystem tree. It is invoked as an
// external helper, one process per add/set/remove/mark operation,
// with the pair registration for the calling command supplied as a
// YAML schema file.
package main

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ncsh/ncsh/internal/ncshcli"
	"github.com/ncsh/ncsh/internal/setter"
	"github.com/ncsh/ncsh/internal/shellerr"
)

var version = "dev"

func main() {
	os.Exit(run())
}

// options collects the persistent flags every mode subcommand shares.
type options struct {
	schemaPath string
	row        string
	sysconf    string
	dryRun     bool
}

func run() int {
	var opts options
	code := ncshcli.ExitSuccess

	root := &cobra.Command{
		Use:     "ncsh-setter",
		Short:   "Validate and persist typed name=value pairs",
		Version: version,
	}
	root.SilenceUsage = true
	root.SilenceErrors = true
	root.PersistentFlags().StringVar(&opts.schemaPath, "schema", "", "path to the pair-registration YAML file")
	root.PersistentFlags().StringVar(&opts.row, "row", "", "existing row directory (set/remove/mark)")
	root.PersistentFlags().StringVar(&opts.sysconf, "sysconf", "", "row's parent directory (add)")
	root.PersistentFlags().BoolVar(&opts.dryRun, "dry-run", false, "print the planned files without writing")

	root.AddCommand(
		modeCommand(setter.ModeAdd, &opts, &code),
		modeCommand(setter.ModeSet, &opts, &code),
		modeCommand(setter.ModeRemove, &opts, &code),
		modeCommand(setter.ModeMark, &opts, &code),
	)

	if err := root.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "ncsh-setter: %v\n", err)
		if code == ncshcli.ExitSuccess {
			code = exitCodeFor(err)
		}
	}
	return code
}

// modeCommand builds one of the four lifecycle subcommands. Positional
// arguments are key=value pairs; remove and mark take none.
func modeCommand(mode setter.Mode, opts *options, code *int) *cobra.Command {
	return &cobra.Command{
		Use:   mode.String() + " [key=value ...]",
		Short: mode.String() + " a row",
		RunE: func(cmd *cobra.Command, args []string) error {
			err := runMode(mode, *opts, args, cmd)
			if err != nil {
				*code = exitCodeFor(err)
			}
			return err
		},
	}
}

func runMode(mode setter.Mode, opts options, args []string, cmd *cobra.Command) error {
	if opts.schemaPath == "" {
		return shellerr.New(shellerr.KindInvalid, "--schema is required")
	}
	schema, err := setter.LoadSchema(opts.schemaPath)
	if err != nil {
		return err
	}
	pairs, validators, err := schema.Build()
	if err != nil {
		return err
	}

	values, err := parsePairArgs(args)
	if err != nil {
		return err
	}

	req := setter.Request{
		Mode:    mode,
		Pairs:   pairs,
		Values:  values,
		RowDir:  opts.row,
		Sysconf: opts.sysconf,
	}

	if opts.dryRun {
		return printPlan(cmd, req, validators)
	}

	result, err := setter.Apply(req, validators)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s: %s (%d files)\n", result.RowDir, result.Marker, len(result.Plan))
	return nil
}

// printPlan backs `--dry-run`: it validates each supplied pair and
// prints its canonical value as one "key=value" line, sorted by key,
// without writing anything. It does not allocate a row directory,
// compute destination paths or build the PlannedFile set, and it does
// not report required pairs that were not supplied.
func printPlan(cmd *cobra.Command, req setter.Request, validators setter.Validators) error {
	canonical := make(map[string]string, len(req.Pairs))
	for _, p := range req.Pairs {
		raw, supplied := req.Values[p.Key]
		if !supplied {
			continue
		}
		v, ok := validators[p.Key]
		if !ok {
			return shellerr.New(shellerr.KindInvalid, fmt.Sprintf("no validator registered for key %q", p.Key))
		}
		canon, err := v.Validate(raw)
		if err != nil {
			return err
		}
		canonical[p.Key] = canon
	}

	keys := make([]string, 0, len(canonical))
	for k := range canonical {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(cmd.OutOrStdout(), "%s=%s\n", k, canonical[k])
	}
	return nil
}

// parsePairArgs splits "key=value" positional arguments, the CLI's
// surface over setter.Request.Values.
func parsePairArgs(args []string) (map[string]string, error) {
	values := make(map[string]string, len(args))
	for _, arg := range args {
		key, val, ok := strings.Cut(arg, "=")
		if !ok || key == "" {
			return nil, shellerr.Invalid(arg, "expected key=value")
		}
		values[key] = val
	}
	return values, nil
}

// exitCodeFor maps a setter error to its exit code: 2 for any
// KindInvalid error (a validator's rejection of a supplied value, a
// malformed key=value argument, a missing --schema flag, an unparsable
// schema or one naming an unknown pair type), 1 for everything else
// (IO failure, a missing target row).
func exitCodeFor(err error) int {
	if shellerr.Is(err, shellerr.KindInvalid) {
		return ncshcli.ExitMalformedArgs
	}
	return ncshcli.ExitFatal
}
