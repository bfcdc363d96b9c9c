package main

import (
	"cmp"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"shadercheck/internal/driver"
	"shadercheck/internal/fix"
)

var fixCmd = &cobra.Command{
	Use:   "fix [flags] <file.gdshader|directory>...",
	Short: "Insert missing statement terminators",
	Long:  "Run the checks, collect the suggested ';' insertions and apply them according to the chosen strategy.",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runFix,
}

func init() {
	fixCmd.Flags().Bool("all", false, "apply all safe fixes")
	fixCmd.Flags().Bool("once", false, "apply the first available fix (default)")
	fixCmd.Flags().String("id", "", "apply fix with a specific identifier")
	fixCmd.Flags().Bool("dry-run", false, "report the fixes without writing files")
	fixCmd.Flags().StringSlice("include", nil, "glob patterns of files to fix inside directories")
	fixCmd.Flags().StringSlice("exclude", nil, "glob patterns to skip inside directories")
}

// fixMode maps the mutually exclusive --all, --once and --id flags to an
// apply mode. Once is the default.
func fixMode(all, once bool, id string) (fix.ApplyMode, error) {
	switch {
	case id != "" && (all || once):
		return 0, errors.New("--id cannot be combined with --all or --once")
	case all && once:
		return 0, errors.New("--all and --once are mutually exclusive")
	case id != "":
		return fix.ApplyModeID, nil
	case all:
		return fix.ApplyModeAll, nil
	}
	return fix.ApplyModeOnce, nil
}

func runFix(cmd *cobra.Command, args []string) error {
	all, err := cmd.Flags().GetBool("all")
	if err != nil {
		return fmt.Errorf("failed to get all flag: %w", err)
	}
	once, err := cmd.Flags().GetBool("once")
	if err != nil {
		return fmt.Errorf("failed to get once flag: %w", err)
	}
	id, err := cmd.Flags().GetString("id")
	if err != nil {
		return fmt.Errorf("failed to get id flag: %w", err)
	}
	dryRun, err := cmd.Flags().GetBool("dry-run")
	if err != nil {
		return fmt.Errorf("failed to get dry-run flag: %w", err)
	}
	mode, err := fixMode(all, once, id)
	if err != nil {
		return err
	}

	env, err := startRun(cmd)
	if err != nil {
		return err
	}
	defer env.close()

	maxDiags, err := maxDiagnostics(cmd, env.cfg)
	if err != nil {
		return err
	}
	include, exclude, err := checkPatterns(cmd, env.cfg)
	if err != nil {
		return err
	}

	res, err := driver.CheckPaths(cmd.Context(), args, driver.Options{
		MaxDiagnostics: maxDiags,
		Jobs:           env.cfg.Check.Jobs,
		Include:        include,
		Exclude:        exclude,
	})
	if err != nil {
		return fmt.Errorf("fix: check failed: %w", err)
	}

	applied, applyErr := fix.Apply(res.FileSet, res.Diagnostics(), fix.ApplyOptions{
		Mode:     mode,
		TargetID: id,
		DryRun:   dryRun,
	})
	return handleApplyResult(cmd.OutOrStdout(), applied, applyErr, dryRun)
}

// handleApplyResult prints what was (or would be) applied. ErrNoFixes is
// reported as a message and does not fail the command.
func handleApplyResult(out io.Writer, res *fix.ApplyResult, applyErr error, dryRun bool) error {
	if res == nil {
		return applyErr
	}

	appliedHeader, filesHeader := "Applied", "Updated files:"
	if dryRun {
		appliedHeader, filesHeader = "Would apply", "Files that would change:"
	}
	if n := len(res.Applied); n > 0 {
		fmt.Fprintf(out, "%s %d fix(es):\n", appliedHeader, n)
		for _, a := range res.Applied {
			fmt.Fprintf(out, "  %s [%s] at %s (%d edits, %s)\n",
				a.Title, a.ID, cmp.Or(a.PrimaryPath, "(unknown location)"), a.EditCount, a.Applicability)
		}
	}
	if len(res.FileChanges) > 0 {
		fmt.Fprintln(out, filesHeader)
		for _, ch := range res.FileChanges {
			fmt.Fprintf(out, "  %s (%d edits)\n", ch.Path, ch.EditCount)
		}
	}
	if len(res.Skipped) > 0 {
		fmt.Fprintln(out, "Skipped fixes:")
		for _, sk := range res.Skipped {
			label := fmt.Sprintf("[%s]", cmp.Or(sk.ID, "(unnamed)"))
			if sk.Title != "" {
				label = sk.Title + " " + label
			}
			fmt.Fprintf(out, "  %s: %s\n", label, sk.Reason)
		}
	}

	if errors.Is(applyErr, fix.ErrNoFixes) {
		fmt.Fprintln(out, "No applicable fixes found.")
		return nil
	}
	return applyErr
}
