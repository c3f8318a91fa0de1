package cli

import (
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"insight/internal/detect"
)

var detectorsListQuiet bool
var detectorsCmd = &cobra.Command{
	Use:   "detectors",
	Short: "Manage and list detectors",
	Long: `Manage Insight detectors.

This command group helps you discover which detectors exist and what each one
checks. Detectors run during scans (see "insight scan --help").

Examples:
  # List all available detectors
  insight detectors list
`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return cmd.Help()
	},
}

var detectorsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List available detectors",
	Long: `List all detectors currently registered in this build.

Detectors are sorted by name.

Examples:
  insight detectors list

Output:
  A vertical list of detectors:
    ----------------------------------------
    DETECTOR: {NAME}
    ----------------------------------------
    {TITLE}
    {DESCRIPTION}
`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		for _, d := range detect.List() {
			if detectorsListQuiet {
				fmt.Fprintln(cmd.OutOrStdout(), d.Name())
			} else {
				printDetector(cmd.OutOrStdout(), d)
			}
		}
		return nil
	},
}

var detectorsShowCmd = &cobra.Command{
	Use:   "show [detector]",
	Short: "Show details of a specific detector",
	Long: `Show details of a specific detector by name.

Examples:
  insight detectors show long-lines
`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := detect.Load(args[0])
		if err != nil {
			return err
		}
		printDetector(cmd.OutOrStdout(), d)
		return nil
	},
}

func printDetector(w io.Writer, d detect.Detector) {
	bold := color.New(color.Bold)
	fmt.Fprintln(w, "----------------------------------------")
	bold.Fprintf(w, "DETECTOR: %s\n", d.Name())
	fmt.Fprintln(w, "----------------------------------------")
	fmt.Fprintln(w, d.Title())
	fmt.Fprintln(w, d.Description())

	meta := d.Metadata()
	if meta.Scope != "" {
		fmt.Fprintf(w, "Scope: %s\n", meta.Scope)
	}
	if len(meta.Extensions) > 0 {
		fmt.Fprintf(w, "Extensions: %v\n", meta.Extensions)
	}

	if cd, ok := d.(detect.ConfigurableDetector); ok {
		opts := cd.Options()
		if len(opts) > 0 {
			fmt.Fprintln(w)
			fmt.Fprintln(w, "Options:")
			for _, opt := range opts {
				def := opt.Default
				if def == "" {
					def = "\"\""
				}
				fmt.Fprintf(w, "  %s\n", opt.Name)
				fmt.Fprintf(w, "    Description: %s\n", opt.Description)
				fmt.Fprintf(w, "    Default:     %s\n", def)
			}
		}
	}
	fmt.Fprintln(w)
}

func init() {
	rootCmd.AddCommand(detectorsCmd)
	detectorsCmd.AddCommand(detectorsListCmd)
	detectorsListCmd.Flags().BoolVarP(&detectorsListQuiet, "quiet", "q", false, "Only print detector names")
	detectorsCmd.AddCommand(detectorsShowCmd)
}
