// prefs_commands.go — команды prefs show и prefs save
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/lavelinevgeny/datesort/internal/prefs"
)

func newPrefsCommand(ctx *commandContext) *cobra.Command {
	prefsCmd := &cobra.Command{
		Use:   "prefs",
		Short: "Show or change saved source, target and pattern",
	}
	prefsCmd.AddCommand(newPrefsShowCommand(ctx))
	prefsCmd.AddCommand(newPrefsSaveCommand(ctx))
	return prefsCmd
}

func newPrefsShowCommand(ctx *commandContext) *cobra.Command {
	var jsonOut bool

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Print saved preferences",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := ctx.prefsPath()
			if err != nil {
				return err
			}
			p, err := prefs.Load(path)
			if err != nil {
				if os.IsNotExist(err) {
					return fmt.Errorf("no preferences saved at %s", path)
				}
				return err
			}
			out := cmd.OutOrStdout()
			if jsonOut {
				return writeJSON(out, p)
			}
			fmt.Fprintf(out, "File:    %s\n", path)
			fmt.Fprintf(out, "Source:  %s\n", p.Source)
			fmt.Fprintf(out, "Target:  %s\n", p.Target)
			fmt.Fprintf(out, "Pattern: %s\n", p.Pattern)
			return nil
		},
	}
	cmd.Flags().BoolVar(&jsonOut, "json", false, "Print as JSON")
	return cmd
}

func newPrefsSaveCommand(ctx *commandContext) *cobra.Command {
	var source, target, pattern string

	cmd := &cobra.Command{
		Use:   "save",
		Short: "Save preferences; omitted values keep their saved state",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := ctx.prefsPath()
			if err != nil {
				return err
			}
			p, err := ctx.savedPrefs()
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("source") {
				p.Source = source
			}
			if cmd.Flags().Changed("target") {
				p.Target = target
			}
			if cmd.Flags().Changed("pattern") {
				p.Pattern = pattern
			}
			if err := prefs.Save(path, p); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Saved preferences to %s\n", path)
			return nil
		},
	}
	cmd.Flags().StringVar(&source, "source", "", "Source directory")
	cmd.Flags().StringVar(&target, "target", "", "Target directory")
	cmd.Flags().StringVar(&pattern, "pattern", "", "Destination pattern")
	return cmd
}
