// organize_commands.go — команды preview и commit
package main

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/lavelinevgeny/datesort/internal/datetime"
	"github.com/lavelinevgeny/datesort/internal/logging"
	"github.com/lavelinevgeny/datesort/internal/mover"
	"github.com/lavelinevgeny/datesort/internal/organizer"
	"github.com/lavelinevgeny/datesort/internal/pattern"
	"github.com/lavelinevgeny/datesort/internal/prefs"
)

type organizeFlags struct {
	pattern  string
	jsonOut  bool
	remember bool
	dryRun   bool
}

func newPreviewCommand(ctx *commandContext) *cobra.Command {
	var flags organizeFlags

	cmd := &cobra.Command{
		Use:   "preview [SOURCE TARGET]",
		Short: "Show where each file would be moved",
		Args:  cobra.RangeArgs(0, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			req, logger, err := ctx.buildRequest(cmd, args, flags)
			if err != nil {
				return err
			}
			o := newOrganizer(ctx, logger)
			entries, err := o.Preview(req)
			if err != nil {
				return err
			}
			if err := ctx.remember(flags, req, logger); err != nil {
				return err
			}
			return writePlan(cmd.OutOrStdout(), entries, flags.jsonOut)
		},
	}

	bindOrganizeFlags(cmd, &flags)
	return cmd
}

func newCommitCommand(ctx *commandContext) *cobra.Command {
	var flags organizeFlags

	cmd := &cobra.Command{
		Use:   "commit [SOURCE TARGET]",
		Short: "Move files into the target tree by capture date",
		Long: "Move every file under SOURCE to TARGET using the path pattern.\n" +
			"Files whose destination already exists are skipped, so an interrupted\n" +
			"run can be repeated. Emptied directories under SOURCE are removed.",
		Args: cobra.RangeArgs(0, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			req, logger, err := ctx.buildRequest(cmd, args, flags)
			if err != nil {
				return err
			}
			req.DryRun = flags.dryRun
			logging.LogStart(logger, version, req.Source, req.Target)

			o := newOrganizer(ctx, logger)
			sink, finish := newProgressSink(cmd.ErrOrStderr(), logger)
			entries, err := o.Commit(req, sink)
			finish()
			if err != nil {
				return err
			}
			if err := ctx.remember(flags, req, logger); err != nil {
				return err
			}
			return writePlan(cmd.OutOrStdout(), entries, flags.jsonOut)
		},
	}

	bindOrganizeFlags(cmd, &flags)
	cmd.Flags().BoolVarP(&flags.dryRun, "dry-run", "n", false, "Plan only, do not move anything")
	return cmd
}

// bindOrganizeFlags добавляет общие флаги preview и commit.
func bindOrganizeFlags(cmd *cobra.Command, flags *organizeFlags) {
	cmd.Flags().StringVarP(&flags.pattern, "pattern", "p", "", "Destination pattern, e.g. "+pattern.Default)
	cmd.Flags().BoolVar(&flags.jsonOut, "json", false, "Print the plan as JSON")
	cmd.Flags().BoolVar(&flags.remember, "remember", false, "Save source, target and pattern as preferences")
}

// buildRequest дополняет аргументы сохранёнными настройками.
func (c *commandContext) buildRequest(cmd *cobra.Command, args []string, flags organizeFlags) (organizer.Request, *slog.Logger, error) {
	logger, err := c.ensureLogger(cmd.ErrOrStderr())
	if err != nil {
		return organizer.Request{}, nil, err
	}
	saved, err := c.savedPrefs()
	if err != nil {
		return organizer.Request{}, nil, err
	}

	req := organizer.Request{Source: saved.Source, Target: saved.Target, Pattern: saved.Pattern}
	if len(args) == 1 {
		return organizer.Request{}, nil, fmt.Errorf("expected both SOURCE and TARGET, got only %q", args[0])
	}
	if len(args) == 2 {
		req.Source, req.Target = args[0], args[1]
	}
	if flags.pattern != "" {
		req.Pattern = flags.pattern
	}
	if req.Pattern == "" {
		req.Pattern = c.cfg.Defaults.Pattern
	}
	if req.Source == "" || req.Target == "" {
		return organizer.Request{}, nil, fmt.Errorf("SOURCE and TARGET are required (no saved preferences)")
	}
	if !pattern.HasFileName(req.Pattern) {
		logger.Warn("pattern has no {FILE_NAME}; files from the same period will collide and only the first is moved",
			"pattern", req.Pattern)
	}
	return req, logger, nil
}

func (c *commandContext) remember(flags organizeFlags, req organizer.Request, logger *slog.Logger) error {
	if !flags.remember {
		return nil
	}
	path, err := c.prefsPath()
	if err != nil {
		return err
	}
	if err := prefs.Save(path, prefs.Prefs{Source: req.Source, Target: req.Target, Pattern: req.Pattern}); err != nil {
		return fmt.Errorf("save preferences: %w", err)
	}
	logger.Debug("preferences saved", "path", path)
	return nil
}

func newOrganizer(ctx *commandContext, logger *slog.Logger) *organizer.Organizer {
	resolver := datetime.NewResolver(ctx.cfg.MediaTable(), logger)
	return organizer.New(resolver, mover.New(logger), logger)
}

func writePlan(w io.Writer, entries []organizer.Entry, jsonOut bool) error {
	if jsonOut {
		if entries == nil {
			entries = []organizer.Entry{}
		}
		return writeJSON(w, entries)
	}
	if len(entries) == 0 {
		_, err := fmt.Fprintln(w, "No files found.")
		return err
	}
	rows := make([][]string, 0, len(entries))
	for _, e := range entries {
		rows = append(rows, []string{e.Source, e.Target})
	}
	_, err := fmt.Fprintln(w, renderTable([]string{"Source", "Destination"}, rows))
	return err
}
