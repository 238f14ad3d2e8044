package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/kartew/claude-profiles/internal/ccp"
	"github.com/kartew/claude-profiles/internal/ccp/document"
	"github.com/kartew/claude-profiles/internal/ccp/domain"
)

func newGetCommand(mgr *ccp.Manager, stdout io.Writer) *cobra.Command {
	var profileName string

	cmd := &cobra.Command{
		Use:   "get <key>",
		Short: "Get a configuration value",
		Long:  "Get a configuration value by dotted key path, e.g. \"model\" or \"env.ANTHROPIC_BASE_URL\".",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			value, err := mgr.GetValue(profileName, args[0])
			if err != nil {
				if errors.Is(err, domain.ErrPathNotFound) {
					fmt.Fprintln(stdout, "(not set)")
					return nil
				}
				return err
			}
			rendered, err := json.MarshalIndent(value, "", "  ")
			if err != nil {
				return fmt.Errorf("failed to render value: %w", err)
			}
			fmt.Fprintln(stdout, string(rendered))
			return nil
		},
	}

	cmd.Flags().StringVarP(&profileName, "profile", "p", "", "Profile to read from (default: current)")
	return cmd
}

func newSetCommand(mgr *ccp.Manager, stdout io.Writer) *cobra.Command {
	var profileName string

	cmd := &cobra.Command{
		Use:   "set <key> <value>",
		Short: "Set a configuration value",
		Long:  "Set a configuration value by dotted key path. The value is stored as JSON when well-formed, otherwise as a string.",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			key, value := args[0], args[1]
			name, err := mgr.SetValue(profileName, key, value)
			if err != nil {
				return err
			}
			fmt.Fprintf(stdout, "%s Set %s=%s in '%s'\n", okMark(), color.CyanString(key), value, name)
			return nil
		},
	}

	cmd.Flags().StringVarP(&profileName, "profile", "p", "", "Profile to modify (default: current)")
	return cmd
}

func newUnsetCommand(mgr *ccp.Manager, stdout io.Writer) *cobra.Command {
	var profileName string

	cmd := &cobra.Command{
		Use:   "unset <key>",
		Short: "Remove a configuration value",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			key := args[0]
			name, removed, err := mgr.UnsetValue(profileName, key)
			if err != nil {
				return err
			}
			if removed {
				fmt.Fprintf(stdout, "%s Removed '%s' from '%s'\n", okMark(), color.CyanString(key), name)
			} else {
				fmt.Fprintf(stdout, "%s Key '%s' not found in '%s'\n", warnMark(), key, name)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&profileName, "profile", "p", "", "Profile to modify (default: current)")
	return cmd
}

func newConfigureCommand(mgr *ccp.Manager, prompter Prompter, stdout io.Writer) *cobra.Command {
	return &cobra.Command{
		Use:   "configure [profile]",
		Short: "Interactively configure common settings",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			arg := ""
			if len(args) == 1 {
				arg = args[0]
			}
			err := runConfigure(mgr, prompter, stdout, arg)
			if errors.Is(err, ErrPromptCancelled) {
				fmt.Fprintln(stdout, "Cancelled")
				return nil
			}
			return err
		},
	}
}

func runConfigure(mgr *ccp.Manager, prompter Prompter, stdout io.Writer, arg string) error {
	name, err := mgr.ResolveProfile(arg)
	if err != nil {
		return err
	}
	doc, err := mgr.Profiles().Load(name)
	if err != nil {
		return err
	}

	fmt.Fprintf(stdout, "Configuring profile '%s'\n", color.CyanString(name))
	fmt.Fprintln(stdout, "Press Enter to keep the current value.")
	fmt.Fprintln(stdout)

	model, err := promptValue(prompter, "Model", stringAt(doc, "model"))
	if err != nil {
		return err
	}
	if model != "" {
		if err := doc.Set("model", model); err != nil {
			return err
		}
	}

	baseURL, err := promptValue(prompter, "API Base URL (env.ANTHROPIC_BASE_URL)", stringAt(doc, "env.ANTHROPIC_BASE_URL"))
	if err != nil {
		return err
	}
	if baseURL != "" {
		if err := doc.Set("env.ANTHROPIC_BASE_URL", baseURL); err != nil {
			return err
		}
	}

	token, err := promptValue(prompter, fmt.Sprintf("API Token [current: %s]", maskToken(stringAt(doc, "env.ANTHROPIC_AUTH_TOKEN"))), "")
	if err != nil {
		return err
	}
	if token != "" {
		if err := doc.Set("env.ANTHROPIC_AUTH_TOKEN", token); err != nil {
			return err
		}
	}

	thinking := false
	if v, err := doc.Get("alwaysThinkingEnabled"); err == nil {
		if b, ok := v.(bool); ok {
			thinking = b
		}
	}
	thinking, err = prompter.Confirm("Always thinking enabled?", thinking)
	if err != nil {
		return err
	}
	if err := doc.Set("alwaysThinkingEnabled", thinking); err != nil {
		return err
	}

	if err := mgr.SaveAndApply(name, doc); err != nil {
		return err
	}

	current, err := mgr.Profiles().CurrentName()
	if err != nil {
		return err
	}
	if current == name {
		fmt.Fprintf(stdout, "\n%s Configuration saved and applied\n", okMark())
	} else {
		fmt.Fprintf(stdout, "\n%s Configuration saved\n", okMark())
	}
	return nil
}

// promptValue asks for a value; an empty answer keeps fallback.
func promptValue(prompter Prompter, label, fallback string) (string, error) {
	answer, err := prompter.Prompt(label, fallback)
	if err != nil {
		return "", err
	}
	answer = strings.TrimSpace(answer)
	if answer == "" {
		return fallback, nil
	}
	return answer, nil
}

func stringAt(doc document.Document, path string) string {
	v, err := doc.Get(path)
	if err != nil {
		return ""
	}
	s, ok := v.(string)
	if !ok {
		return ""
	}
	return s
}

// maskToken keeps only the edges of a secret visible.
func maskToken(token string) string {
	if len(token) <= 10 {
		return token
	}
	return token[:6] + "..." + token[len(token)-4:]
}
