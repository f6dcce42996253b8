// misc_commands.go — справочные и служебные команды
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/lavelinevgeny/datesort/internal/config"
	"github.com/lavelinevgeny/datesort/internal/media"
	"github.com/lavelinevgeny/datesort/internal/pattern"
)

func newPlaceholdersCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "placeholders",
		Short: "List the placeholders available in patterns",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			desc := map[string]string{
				pattern.Year:     "capture year, 4 digits",
				pattern.Month:    "capture month, 2 digits",
				pattern.Day:      "capture day, 2 digits",
				pattern.FileName: "original file name with extension",
			}
			rows := make([][]string, 0, len(desc))
			for _, p := range pattern.Placeholders() {
				rows = append(rows, []string{p, desc[p]})
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable([]string{"Placeholder", "Value"}, rows))
			return nil
		},
	}
}

// newFormatsCommand выводит расширения с учётом настроек и способ чтения даты.
func newFormatsCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "formats",
		Short: "List file extensions with an embedded capture date",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			table := cfg.MediaTable()
			var rows [][]string
			for _, kind := range []media.Kind{media.KindExif, media.KindAtom} {
				for _, ext := range table.Extensions(kind) {
					rows = append(rows, []string{ext, kind.String()})
				}
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable([]string{"Extension", "Reader"}, rows))
			return nil
		},
	}
}

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "datesort %s\n", version)
		},
	}
}

func newSettingsCommand() *cobra.Command {
	settingsCmd := &cobra.Command{
		Use:   "settings",
		Short: "Settings file utilities",
	}
	settingsCmd.AddCommand(newSettingsInitCommand())
	return settingsCmd
}

func newSettingsInitCommand() *cobra.Command {
	var targetPath string
	var overwrite bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a sample settings file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			target := targetPath
			if target == "" {
				defaultPath, err := config.DefaultConfigPath()
				if err != nil {
					return fmt.Errorf("determine default settings path: %w", err)
				}
				target = defaultPath
			} else {
				expanded, err := config.ExpandPath(target)
				if err != nil {
					return fmt.Errorf("resolve settings path: %w", err)
				}
				target = expanded
			}

			if !overwrite {
				if _, err := os.Stat(target); err == nil {
					return fmt.Errorf("settings file already exists at %s (use --overwrite to replace it)", target)
				} else if !os.IsNotExist(err) {
					return fmt.Errorf("check settings path: %w", err)
				}
			}
			if err := config.CreateSample(target); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote sample settings to %s\n", target)
			return nil
		},
	}
	cmd.Flags().StringVarP(&targetPath, "path", "p", "", "Destination for the settings file")
	cmd.Flags().BoolVar(&overwrite, "overwrite", false, "Overwrite an existing settings file")
	return cmd
}
