package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"shadercheck/internal/diagfmt"
	"shadercheck/internal/driver"
)

var classifyCmd = &cobra.Command{
	Use:   "classify [flags] <file.gdshader>",
	Short: "Print the classified statements of a shader file",
	Long: `Classify every line of a shader file and print the resulting document:
shader_type, entry point and, per statement, the matched rule and whether
a terminating ';' is required.`,
	Args: cobra.ExactArgs(1),
	RunE: runClassify,
}

func init() {
	classifyCmd.Flags().String("format", "pretty", "output format (pretty|json)")
}

func runClassify(cmd *cobra.Command, args []string) error {
	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return fmt.Errorf("failed to get format flag: %w", err)
	}
	switch format {
	case "pretty", "json":
	default:
		return fmt.Errorf("unknown format: %s", format)
	}

	env, err := startRun(cmd)
	if err != nil {
		return err
	}
	defer env.close()

	res, err := driver.ClassifyFile(cmd.Context(), args[0])
	if err != nil {
		return err
	}
	path := res.FileSet.Get(res.FileID).FormatPath("auto", res.FileSet.BaseDir())

	if format == "json" {
		if err := diagfmt.DocumentJSONTo(cmd.OutOrStdout(), path, res.Document); err != nil {
			return fmt.Errorf("failed to encode document: %w", err)
		}
		return nil
	}
	return diagfmt.DocumentPretty(cmd.OutOrStdout(), path, res.Document)
}
