package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"slices"

	"github.com/spf13/cobra"

	"shadercheck/internal/diag"
	"shadercheck/internal/diagfmt"
	"shadercheck/internal/driver"
	"shadercheck/internal/observ"
	"shadercheck/internal/project"
	"shadercheck/internal/version"
)

// errInvalidShaders gives exit status 1 once the diagnostics are printed.
var errInvalidShaders = errors.New("invalid shaders")

var checkFormats = []string{"pretty", "short", "json", "sarif"}

var checkCmd = &cobra.Command{
	Use:   "check [flags] <file.gdshader|directory>...",
	Short: "Validate shader files",
	Long: `Validate shader sources for a shader_type declaration, the entry point
matching that type and statement terminators. Directories are walked with the
include/exclude glob patterns.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runCheck,
}

func init() {
	f := checkCmd.Flags()
	f.String("format", "pretty", "output format (pretty|short|json|sarif)")
	f.Int("jobs", 0, "max parallel workers (0=auto)")
	f.Bool("with-notes", false, "include diagnostic notes in output")
	f.Bool("suggest", false, "include fix suggestions in output")
	f.Bool("preview", false, "show the lines each suggested fix would change")
	f.Bool("fullpath", false, "emit absolute file paths in output")
	f.Bool("disk-cache", false, "cache results on disk keyed by file content")
	f.String("ui", "auto", "progress UI (auto|on|off)")
	f.StringSlice("include", nil, "glob patterns of files to check inside directories")
	f.StringSlice("exclude", nil, "glob patterns to skip inside directories")
}

// checkOutput is how the results of one check run get rendered.
type checkOutput struct {
	format    string
	withNotes bool
	suggest   bool
	preview   bool
	fullPath  bool
	color     bool
}

func readCheckOutput(cmd *cobra.Command, cfg *project.Config) (checkOutput, error) {
	var out checkOutput
	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return out, fmt.Errorf("failed to get format flag: %w", err)
	}
	if !cmd.Flags().Changed("format") && cfg.Check.Format != "" {
		format = cfg.Check.Format
	}
	if !slices.Contains(checkFormats, format) {
		return out, fmt.Errorf("unknown format: %s", format)
	}
	out.format = format

	for name, dst := range map[string]*bool{
		"with-notes": &out.withNotes,
		"suggest":    &out.suggest,
		"preview":    &out.preview,
		"fullpath":   &out.fullPath,
	} {
		if *dst, err = cmd.Flags().GetBool(name); err != nil {
			return out, fmt.Errorf("failed to get %s flag: %w", name, err)
		}
	}
	// превью без самих правок бессмысленно
	out.suggest = out.suggest || out.preview

	out.color, err = useColor(cmd)
	return out, err
}

// readCheckOptions builds driver options from flags, with config values for
// the ones left unset.
func readCheckOptions(cmd *cobra.Command, cfg *project.Config) (driver.Options, error) {
	var opts driver.Options
	jobs, err := cmd.Flags().GetInt("jobs")
	if err != nil {
		return opts, fmt.Errorf("failed to get jobs flag: %w", err)
	}
	if !cmd.Flags().Changed("jobs") {
		jobs = cfg.Check.Jobs
	}
	if opts.MaxDiagnostics, err = maxDiagnostics(cmd, cfg); err != nil {
		return opts, err
	}
	if opts.Include, opts.Exclude, err = checkPatterns(cmd, cfg); err != nil {
		return opts, err
	}
	opts.Jobs = jobs

	timings, err := cmd.Root().PersistentFlags().GetBool("timings")
	if err != nil {
		return opts, fmt.Errorf("failed to get timings flag: %w", err)
	}
	if timings {
		opts.Timer = observ.NewTimer()
	}
	return opts, nil
}

// runCheck prints diagnostics for args and fails with errInvalidShaders when
// any file is invalid.
func runCheck(cmd *cobra.Command, args []string) error {
	env, err := startRun(cmd)
	if err != nil {
		return err
	}
	defer env.close()

	out, err := readCheckOutput(cmd, env.cfg)
	if err != nil {
		return err
	}
	opts, err := readCheckOptions(cmd, env.cfg)
	if err != nil {
		return err
	}
	ui, err := tristateFlag(cmd, "ui")
	if err != nil {
		return err
	}
	quiet, err := cmd.Root().PersistentFlags().GetBool("quiet")
	if err != nil {
		return fmt.Errorf("failed to get quiet flag: %w", err)
	}

	diskCache, err := cmd.Flags().GetBool("disk-cache")
	if err != nil {
		return fmt.Errorf("failed to get disk-cache flag: %w", err)
	}
	if !cmd.Flags().Changed("disk-cache") {
		diskCache = env.cfg.Cache.Enabled
	}
	if diskCache {
		cache, err := driver.OpenDiskCache(env.cfg.CacheDir())
		if err != nil {
			return fmt.Errorf("failed to open disk cache: %w", err)
		}
		defer func() {
			if err := cache.Close(); err != nil {
				fmt.Fprintf(cmd.ErrOrStderr(), "disk cache: close error: %v\n", err)
			}
		}()
		opts.Cache = cache
	}

	var res *driver.Result
	if out.format == "pretty" && !quiet && ui.enabled(os.Stdout) {
		var files []string
		if files, err = driver.CollectFiles(args, opts.Include, opts.Exclude); err != nil {
			return err
		}
		res, err = runCheckWithUI(cmd.Context(), "checking shaders", files, args, opts)
	} else {
		res, err = driver.CheckPaths(cmd.Context(), args, opts)
	}
	if err != nil {
		return fmt.Errorf("check failed: %w", err)
	}

	if err := writeCheckResult(cmd.OutOrStdout(), res, out); err != nil {
		return err
	}
	if !quiet && out.format == "pretty" {
		fmt.Fprintf(cmd.ErrOrStderr(), "checked %d file(s): %d invalid\n", len(res.Files), res.InvalidCount())
	}
	if opts.Timer != nil {
		fmt.Fprint(cmd.ErrOrStderr(), opts.Timer.Summary())
	}

	if !res.Valid() {
		cmd.SilenceErrors = true
		return errInvalidShaders
	}
	return nil
}

func writeCheckResult(w io.Writer, res *driver.Result, out checkOutput) error {
	pathMode := diagfmt.PathModeAuto
	if out.fullPath {
		pathMode = diagfmt.PathModeAbsolute
	}

	all := diag.NewBag(0)
	for i := range res.Files {
		all.Merge(res.Files[i].Bag)
	}
	all.Sort()

	switch out.format {
	case "pretty":
		diagfmt.Pretty(w, all, res.FileSet, diagfmt.PrettyOpts{
			Color:       out.color,
			Context:     2,
			PathMode:    pathMode,
			ShowNotes:   out.withNotes,
			ShowFixes:   out.suggest,
			ShowPreview: out.preview,
		})
		return nil
	case "short":
		if text := diag.FormatShortDiagnostics(all.Items(), res.FileSet, out.withNotes); text != "" {
			fmt.Fprintln(w, text)
		}
		return nil
	case "json":
		return writeJSONReport(w, res, out, diagfmt.JSONOpts{
			IncludePositions: true,
			IncludeNotes:     out.withNotes,
			IncludeFixes:     out.suggest,
			IncludePreviews:  out.preview,
			PathMode:         pathMode,
		})
	case "sarif":
		err := diagfmt.Sarif(w, all, res.FileSet, diagfmt.SarifRunMeta{
			ToolName:       "shadercheck",
			ToolVersion:    version.Collect().Version,
			InvocationArgs: os.Args[1:],
		})
		if err != nil {
			return fmt.Errorf("failed to write SARIF: %w", err)
		}
		return nil
	}
	return fmt.Errorf("unknown format: %s", out.format)
}

// writeJSONReport пишет объект путь -> отчёт, по ключу на каждый файл,
// включая валидные.
func writeJSONReport(w io.Writer, res *driver.Result, out checkOutput, opts diagfmt.JSONOpts) error {
	style := "auto"
	if out.fullPath {
		style = "absolute"
	}
	report := make(map[string]diagfmt.DiagnosticsOutput, len(res.Files))
	for _, fr := range res.Files {
		data, err := diagfmt.BuildDiagnosticsOutput(fr.Bag, res.FileSet, opts)
		if err != nil {
			return fmt.Errorf("failed to build diagnostics output: %w", err)
		}
		report[res.FileSet.Get(fr.FileID).FormatPath(style, res.FileSet.BaseDir())] = data
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(report); err != nil {
		return fmt.Errorf("failed to encode diagnostics output: %w", err)
	}
	return nil
}
