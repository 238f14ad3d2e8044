package cli

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/kartew/claude-profiles/internal/ccp"
	"github.com/kartew/claude-profiles/internal/ccp/document"
	"github.com/kartew/claude-profiles/internal/ccp/profile"
)

func newCreateCommand(mgr *ccp.Manager, stdout io.Writer) *cobra.Command {
	var from string
	var force bool

	cmd := &cobra.Command{
		Use:   "create <name>",
		Short: "Create a new profile",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := args[0]

			var doc document.Document
			if from != "" {
				loaded, err := mgr.Profiles().Load(from)
				if err != nil {
					return err
				}
				doc = loaded
			} else {
				// New profiles start from the live settings when present.
				live, err := mgr.LiveDocument()
				switch {
				case err == nil:
					doc = live
				case errors.Is(err, os.ErrNotExist):
					doc = document.New()
				default:
					return err
				}
			}

			if err := mgr.InitInfra(); err != nil {
				return err
			}
			if err := mgr.Profiles().Create(name, doc, force); err != nil {
				return err
			}

			source := "current settings"
			if from != "" {
				source = fmt.Sprintf("'%s'", from)
			}
			fmt.Fprintf(stdout, "%s Created profile '%s' from %s\n", okMark(), color.CyanString(name), source)
			return nil
		},
	}

	cmd.Flags().StringVarP(&from, "from", "f", "", "Copy settings from an existing profile")
	cmd.Flags().BoolVar(&force, "force", false, "Overwrite an existing profile with the same name")
	return cmd
}

func newDeleteCommand(mgr *ccp.Manager, prompter Prompter, stdout io.Writer) *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "delete <name>",
		Short: "Delete a profile",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := args[0]

			if name == profile.DefaultName && !force {
				return errors.New("cannot delete 'default' profile, use --force to override")
			}

			if !force {
				confirm, err := prompter.Confirm(fmt.Sprintf("Delete profile '%s'?", name), false)
				if err != nil {
					if errors.Is(err, ErrPromptCancelled) {
						fmt.Fprintln(stdout, "Cancelled")
						return nil
					}
					return err
				}
				if !confirm {
					fmt.Fprintln(stdout, "Cancelled")
					return nil
				}
			}

			if err := mgr.Profiles().Delete(name); err != nil {
				return err
			}
			fmt.Fprintf(stdout, "%s Deleted profile '%s'\n", okMark(), name)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "Skip confirmation")
	return cmd
}

func newCopyCommand(mgr *ccp.Manager, stdout io.Writer) *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "copy <src> <dst>",
		Short: "Copy a profile",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			src, dst := args[0], args[1]
			if err := mgr.Profiles().Copy(src, dst, force); err != nil {
				return err
			}
			fmt.Fprintf(stdout, "%s Copied '%s' to '%s'\n", okMark(), src, color.CyanString(dst))
			return nil
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "Overwrite the destination if it exists")
	return cmd
}

func newRenameCommand(mgr *ccp.Manager, stdout io.Writer) *cobra.Command {
	return &cobra.Command{
		Use:   "rename <old> <new>",
		Short: "Rename a profile",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			oldName, newName := args[0], args[1]
			if err := mgr.Profiles().Rename(oldName, newName); err != nil {
				return err
			}
			fmt.Fprintf(stdout, "%s Renamed '%s' to '%s'\n", okMark(), oldName, color.CyanString(newName))
			return nil
		},
	}
}
