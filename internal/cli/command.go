package cli

import (
	"errors"
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/kartew/claude-profiles/internal/ccp"
	"github.com/kartew/claude-profiles/internal/ccp/domain"
)

// NewRootCommand constructs the root Cobra command for ccp. Running ccp
// without a subcommand starts the interactive profile selector.
func NewRootCommand(mgr *ccp.Manager, prompter Prompter, stdout, stderr io.Writer) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ccp",
		Short: "Claude Code Profiles",
		Long:  "ccp manages named profiles for the Claude Code settings.json and switches between them safely.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInteractive(mgr, prompter, stdout)
		},
	}

	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	cmd.AddCommand(newInitCommand(mgr, stdout))
	cmd.AddCommand(newListCommand(mgr, stdout))
	cmd.AddCommand(newCurrentCommand(mgr, stdout))
	cmd.AddCommand(newUseCommand(mgr, prompter, stdout))
	cmd.AddCommand(newCreateCommand(mgr, stdout))
	cmd.AddCommand(newDeleteCommand(mgr, prompter, stdout))
	cmd.AddCommand(newCopyCommand(mgr, stdout))
	cmd.AddCommand(newRenameCommand(mgr, stdout))
	cmd.AddCommand(newGetCommand(mgr, stdout))
	cmd.AddCommand(newSetCommand(mgr, stdout))
	cmd.AddCommand(newUnsetCommand(mgr, stdout))
	cmd.AddCommand(newConfigureCommand(mgr, prompter, stdout))
	cmd.AddCommand(newExportCommand(mgr, stdout))
	cmd.AddCommand(newImportCommand(mgr, stderr))
	cmd.AddCommand(newDiffCommand(mgr, stdout))
	cmd.AddCommand(newBackupCommand(mgr, stdout))
	cmd.AddCommand(newBackupsCommand(mgr, stdout))
	cmd.AddCommand(newRestoreCommand(mgr, stdout, stderr))
	cmd.AddCommand(newPruneBackupsCommand(mgr, prompter, stdout))

	return cmd
}

func runInteractive(mgr *ccp.Manager, prompter Prompter, stdout io.Writer) error {
	names, err := mgr.Profiles().List()
	if err != nil {
		return err
	}
	if len(names) == 0 {
		fmt.Fprintln(stdout, color.YellowString("No profiles found. Run 'ccp init' to initialize."))
		return nil
	}

	current, err := mgr.Profiles().CurrentName()
	if err != nil {
		return err
	}

	_, selected, err := prompter.Select("Select profile", names, current)
	if err != nil {
		if errors.Is(err, ErrPromptCancelled) {
			fmt.Fprintln(stdout, "Cancelled")
			return nil
		}
		return err
	}

	if selected == current {
		fmt.Fprintf(stdout, "· Already on '%s'\n", color.CyanString(selected))
		return nil
	}
	if err := mgr.Use(selected); err != nil {
		return err
	}
	fmt.Fprintf(stdout, "%s Switched to profile '%s'\n", okMark(), color.CyanString(selected))
	return nil
}

func newInitCommand(mgr *ccp.Manager, stdout io.Writer) *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize the profiles directory structure",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := mgr.Init(force)
			if err != nil {
				if errors.Is(err, domain.ErrAlreadyInitialized) {
					return fmt.Errorf("%w (use --force to re-seed the default profile)", err)
				}
				return err
			}
			if result.SeededFrom == "settings" {
				fmt.Fprintf(stdout, "%s Created default profile from existing settings\n", okMark())
			} else {
				fmt.Fprintf(stdout, "%s Initialized with empty default profile\n", okMark())
			}
			fmt.Fprintf(stdout, "  Profiles dir: %s\n", mgr.Paths().ProfilesDir())
			fmt.Fprintf(stdout, "  Backups dir: %s\n", mgr.Paths().BackupsDir())
			return nil
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "Re-seed the default profile even if profiles already exist")
	return cmd
}

func newListCommand(mgr *ccp.Manager, stdout io.Writer) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all available profiles",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			names, err := mgr.Profiles().List()
			if err != nil {
				return err
			}
			if len(names) == 0 {
				fmt.Fprintln(stdout, color.YellowString("No profiles found. Run 'ccp init' to initialize."))
				return nil
			}
			current, err := mgr.Profiles().CurrentName()
			if err != nil {
				return err
			}
			fmt.Fprintln(stdout, "Available profiles:")
			for _, name := range names {
				if name == current {
					fmt.Fprintf(stdout, "  %s %s\n", color.GreenString("→"), color.GreenString(name))
				} else {
					fmt.Fprintf(stdout, "    %s\n", name)
				}
			}
			return nil
		},
	}
}

func newCurrentCommand(mgr *ccp.Manager, stdout io.Writer) *cobra.Command {
	return &cobra.Command{
		Use:   "current",
		Short: "Show current active profile",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			name, err := mgr.Profiles().CurrentName()
			if err != nil {
				return err
			}
			if name == "" {
				fmt.Fprintln(stdout, color.YellowString("No profile selected. Run 'ccp init' or 'ccp use <profile>'"))
				return nil
			}
			fmt.Fprintln(stdout, color.GreenString(name))
			return nil
		},
	}
}

func newUseCommand(mgr *ccp.Manager, prompter Prompter, stdout io.Writer) *cobra.Command {
	return &cobra.Command{
		Use:   "use [name]",
		Short: "Switch to a profile",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var name string
			if len(args) == 1 {
				name = args[0]
			} else {
				names, err := mgr.Profiles().List()
				if err != nil {
					return err
				}
				if len(names) == 0 {
					return errors.New("no profiles available, run 'ccp init' first")
				}
				current, err := mgr.Profiles().CurrentName()
				if err != nil {
					return err
				}
				_, selected, err := prompter.Select("Select profile to activate", names, current)
				if err != nil {
					return err
				}
				name = selected
			}

			if err := mgr.Use(name); err != nil {
				return err
			}
			fmt.Fprintf(stdout, "%s Switched to profile '%s'\n", okMark(), color.CyanString(name))
			return nil
		},
	}
}
