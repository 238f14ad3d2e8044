package cli

import (
	"errors"
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/kartew/claude-profiles/internal/ccp"
)

func newBackupCommand(mgr *ccp.Manager, stdout io.Writer) *cobra.Command {
	return &cobra.Command{
		Use:   "backup [name]",
		Short: "Create a backup of current settings",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := ""
			if len(args) == 1 {
				name = args[0]
			}
			created, err := mgr.Backup(name)
			if err != nil {
				return err
			}
			fmt.Fprintf(stdout, "%s Created backup '%s'\n", okMark(), color.CyanString(created))
			fmt.Fprintf(stdout, "  Path: %s\n", mgr.Paths().BackupPath(created))
			return nil
		},
	}
}

func newBackupsCommand(mgr *ccp.Manager, stdout io.Writer) *cobra.Command {
	return &cobra.Command{
		Use:   "backups",
		Short: "List available backups",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			names, err := mgr.Backups().List()
			if err != nil {
				return err
			}
			if len(names) == 0 {
				fmt.Fprintln(stdout, color.YellowString("No backups found."))
				return nil
			}
			fmt.Fprintln(stdout, "Available backups:")
			for _, name := range names {
				fmt.Fprintf(stdout, "  %s\n", name)
			}
			return nil
		},
	}
}

func newRestoreCommand(mgr *ccp.Manager, stdout, stderr io.Writer) *cobra.Command {
	return &cobra.Command{
		Use:   "restore <backup>",
		Short: "Restore settings from a backup",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := args[0]
			autoBackup, err := mgr.Restore(name)
			if err != nil {
				return err
			}
			if autoBackup != "" {
				fmt.Fprintf(stderr, "%s Created auto-backup '%s'\n", infoMark(), autoBackup)
			}
			fmt.Fprintf(stdout, "%s Restored from '%s'\n", okMark(), color.CyanString(name))
			return nil
		},
	}
}

func newPruneBackupsCommand(mgr *ccp.Manager, prompter Prompter, stdout io.Writer) *cobra.Command {
	var olderThan string
	var force bool

	cmd := &cobra.Command{
		Use:   "prune-backups",
		Short: "Remove old backups",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			duration, err := ParseRetentionInterval(olderThan)
			if err != nil {
				return err
			}

			if !force {
				confirm, err := prompter.Confirm(fmt.Sprintf("Delete backups older than %s?", olderThan), false)
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

			removed, err := mgr.Backups().Prune(duration)
			if err != nil {
				return err
			}
			fmt.Fprintf(stdout, "Removed %d backup(s).\n", removed)
			return nil
		},
	}

	cmd.Flags().StringVar(&olderThan, "older-than", "30d", "Age threshold for pruning backups (e.g. 30d, 12h)")
	cmd.Flags().BoolVar(&force, "force", false, "Skip confirmation")
	return cmd
}
