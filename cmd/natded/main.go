// Command natded is the thin CLI front end for the proof checker core
// (spec §6's "out of scope" collaborator): it resolves flags, wires a
// zap logger, and reports the exit-code contract — 0 if every proof in
// the file verifies, non-zero otherwise. It does not implement any
// printer strategy, file-picker dialog, or proof search; those remain
// external collaborators per spec §1.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/gitrdm/natded/internal/driver"
)

var (
	verbose   bool
	numbering = numberingFlag{style: "one-based"}
)

// numberingFlag selects the style in which the CLI displays a failing
// line's number (see displayLine); the proofs themselves are always
// verified under their default one-based Numbering. It
// implements pflag.Value directly, rather than a plain string flag,
// so an unrecognized style is rejected at flag-parse time instead of
// surfacing as a silent default later.
type numberingFlag struct{ style string }

func (n *numberingFlag) String() string { return n.style }
func (n *numberingFlag) Type() string   { return "numbering" }
func (n *numberingFlag) Set(v string) error {
	switch v {
	case "one-based", "zero-based":
		n.style = v
		return nil
	default:
		return fmt.Errorf("unknown numbering style %q (want one-based or zero-based)", v)
	}
}

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "natded <proof-file>",
		Short: "Check natural-deduction proof files",
		Long: `natded verifies a proof-file's inference rules and Fitch-style
proofs, reporting verification success or the first failing line for
each proof (spec §6's exit-code contract).`,
		Args: cobra.ExactArgs(1),
		RunE: runCheck,
	}
	cmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug-level logging")
	cmd.PersistentFlags().Var(&numbering, "numbering", "line-numbering style: one-based or zero-based")
	return cmd
}

var _ pflag.Value = (*numberingFlag)(nil)

func runCheck(cmd *cobra.Command, args []string) error {
	// Arguments are valid by now; a failure below is a verification
	// result, not a usage error, so cobra must not print the usage text.
	cmd.SilenceUsage = true

	logger, err := newLogger(verbose)
	if err != nil {
		return err
	}
	defer logger.Sync() //nolint:errcheck

	reports, err := driver.Run(logger, args[0])
	if err != nil {
		return err
	}

	allOK := true
	for _, r := range reports {
		if r.OK {
			fmt.Fprintf(cmd.OutOrStdout(), "%s: valid\n", r.ProofName)
			continue
		}
		allOK = false
		fmt.Fprintf(cmd.OutOrStdout(), "%s: failed at line %d\n", r.ProofName, displayLine(r.FailingLine))
	}
	if !allOK {
		return fmt.Errorf("one or more proofs failed to verify")
	}
	return nil
}

// displayLine adjusts a failing line's default one-based display
// number (computed at parse time — every proof is verified eagerly
// against proof.defaultNumbering, spec §4.5) for the CLI's requested
// numbering style.
func displayLine(n int) int {
	if numbering.style == "zero-based" && n > 0 {
		return n - 1
	}
	return n
}

func newLogger(verbose bool) (*zap.Logger, error) {
	config := zap.NewProductionConfig()
	if verbose {
		config.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	return config.Build()
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
