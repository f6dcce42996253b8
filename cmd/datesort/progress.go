// progress.go — ход переноса: полоса в терминале, иначе строки лога
package main

import (
	"io"
	"log/slog"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/schollz/progressbar/v3"

	"github.com/lavelinevgeny/datesort/internal/organizer"
)

// newProgressSink возвращает приёмник прогресса и функцию завершения.
func newProgressSink(w io.Writer, logger *slog.Logger) (organizer.ProgressSink, func()) {
	if !isTerminal(w) {
		sink := organizer.SinkFunc(func(p organizer.Progress) {
			logger.Debug("progress", "complete", p.Complete, "total", p.Total)
		})
		return sink, func() {}
	}
	bar := &barSink{w: w}
	return bar, bar.finish
}

// barSink создаёт полосу при первом уведомлении, когда известен total.
type barSink struct {
	w   io.Writer
	bar *progressbar.ProgressBar
}

func (s *barSink) Progress(p organizer.Progress) {
	if s.bar == nil {
		s.bar = progressbar.NewOptions(p.Total,
			progressbar.OptionSetWriter(s.w),
			progressbar.OptionSetDescription("Processing"),
			progressbar.OptionShowCount(),
			progressbar.OptionShowIts(),
			progressbar.OptionSetPredictTime(true),
			progressbar.OptionClearOnFinish(),
		)
	}
	_ = s.bar.Set(p.Complete)
}

func (s *barSink) finish() {
	if s.bar != nil {
		_ = s.bar.Finish()
	}
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	fd := f.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
