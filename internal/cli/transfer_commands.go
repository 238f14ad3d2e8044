package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/kartew/claude-profiles/internal/ccp"
)

func newExportCommand(mgr *ccp.Manager, stdout io.Writer) *cobra.Command {
	return &cobra.Command{
		Use:   "export [name]",
		Short: "Export a profile as JSON to stdout",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := ""
			if len(args) == 1 {
				name = args[0]
			}
			return mgr.Export(name, stdout)
		},
	}
}

func newImportCommand(mgr *ccp.Manager, stderr io.Writer) *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "import <name>",
		Short: "Import a profile from stdin",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := args[0]
			if err := mgr.Import(name, cmd.InOrStdin(), force); err != nil {
				return err
			}
			// Status goes to stderr, keeping stdout clean for pipelines.
			fmt.Fprintf(stderr, "%s Imported profile '%s'\n", okMark(), color.CyanString(name))
			return nil
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "Overwrite an existing profile with the same name")
	return cmd
}

func newDiffCommand(mgr *ccp.Manager, stdout io.Writer) *cobra.Command {
	return &cobra.Command{
		Use:   "diff <profile1> <profile2>",
		Short: "Compare two profiles",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			nameA, nameB := args[0], args[1]
			entries, err := mgr.Diff(nameA, nameB)
			if err != nil {
				return err
			}
			if len(entries) == 0 {
				fmt.Fprintf(stdout, "%s Profiles are identical\n", color.GreenString("="))
				return nil
			}

			fmt.Fprintf(stdout, "Diff: %s vs %s\n\n", color.RedString(nameA), color.GreenString(nameB))
			for _, entry := range entries {
				fmt.Fprintf(stdout, "%s\n", entry.Path)
				fmt.Fprintf(stdout, "  %s\n", color.RedString("- %s", renderSide(entry.Left, entry.InLeft)))
				fmt.Fprintf(stdout, "  %s\n", color.GreenString("+ %s", renderSide(entry.Right, entry.InRight)))
			}
			return nil
		},
	}
}

func renderSide(value any, present bool) string {
	if !present {
		return "(absent)"
	}
	rendered, err := json.Marshal(value)
	if err != nil {
		return fmt.Sprintf("%v", value)
	}
	return string(rendered)
}
