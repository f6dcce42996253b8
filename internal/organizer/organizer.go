// organizer.go — проверка, план и выполнение переноса
package organizer

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/lavelinevgeny/datesort/internal/datetime"
	"github.com/lavelinevgeny/datesort/internal/pattern"
)

var (
	ErrSourceNotAbsolute = errors.New("source path must be absolute")
	ErrSourceMissing     = errors.New("source path does not exist")
	ErrTargetNotAbsolute = errors.New("target path must be absolute")
	ErrSameDirectory     = errors.New("source and target path must be different")
)

// Request — параметры одного вызова Preview или Commit.
type Request struct {
	Source  string
	Target  string
	Pattern string
	DryRun  bool
}

// Entry — один запланированный перенос. В JSON это массив из двух строк.
type Entry struct {
	Source string
	Target string
}

func (e Entry) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]string{e.Source, e.Target})
}

func (e *Entry) UnmarshalJSON(data []byte) error {
	var pair [2]string
	if err := json.Unmarshal(data, &pair); err != nil {
		return err
	}
	e.Source, e.Target = pair[0], pair[1]
	return nil
}

// Resolver определяет дату съёмки файла.
type Resolver interface {
	Resolve(path string) datetime.Resolution
}

// Mover переносит один файл.
type Mover interface {
	Move(src, dst string) error
}

// Organizer планирует и выполняет перенос. Состояния между вызовами нет.
type Organizer struct {
	resolver Resolver
	mover    Mover
	logger   *slog.Logger
}

// New создаёт Organizer.
func New(resolver Resolver, mover Mover, logger *slog.Logger) *Organizer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Organizer{resolver: resolver, mover: mover, logger: logger}
}

// Validate проверяет корни source и target до начала работы.
func Validate(req Request) error {
	if !filepath.IsAbs(req.Source) {
		return ErrSourceNotAbsolute
	}
	if _, err := os.Stat(req.Source); err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("%w: %s", ErrSourceMissing, req.Source)
		}
		return fmt.Errorf("stat source %s: %w", req.Source, err)
	}
	if !filepath.IsAbs(req.Target) {
		return ErrTargetNotAbsolute
	}
	if filepath.Clean(req.Source) == filepath.Clean(req.Target) {
		return ErrSameDirectory
	}
	return nil
}

// Preview возвращает план, не изменяя файловую систему.
func (o *Organizer) Preview(req Request) ([]Entry, error) {
	if err := Validate(req); err != nil {
		return nil, err
	}
	return o.plan(req)
}

// Commit строит план и, если не задан req.DryRun, переносит каждую запись,
// путь назначения которой ещё не существует, сообщая прогресс в sink после
// каждой записи. Первая ошибка переноса останавливает запуск, уже
// перенесённые файлы остаются на месте. Затем удаляются пустые каталоги
// внутри source.
func (o *Organizer) Commit(req Request, sink ProgressSink) ([]Entry, error) {
	if err := Validate(req); err != nil {
		return nil, err
	}
	entries, err := o.plan(req)
	if err != nil {
		return nil, err
	}
	if req.DryRun {
		o.logger.Info("dry run complete", "entries", len(entries))
		return entries, nil
	}

	total := len(entries)
	var moved, skipped int
	for i, e := range entries {
		if exists(e.Target) {
			skipped++
			o.logger.Debug("destination exists, skipping", "source", e.Source, "target", e.Target)
		} else {
			if err := o.mover.Move(e.Source, e.Target); err != nil {
				o.logger.Error("move failed", "source", e.Source, "target", e.Target, "error", err)
				return nil, err
			}
			moved++
			o.logger.Debug("moved", "source", e.Source, "target", e.Target)
		}
		emit(sink, Progress{Complete: i + 1, Total: total})
	}

	removeEmptyDirs(req.Source, o.logger)
	o.logger.Info("commit complete", "total", total, "moved", moved, "skipped", skipped)
	return entries, nil
}

func (o *Organizer) plan(req Request) ([]Entry, error) {
	tmpl := req.Pattern
	if tmpl == "" {
		tmpl = pattern.Default
	}
	// WalkDir не следует по ссылке в корне
	root, err := filepath.EvalSymlinks(req.Source)
	if err != nil {
		return nil, fmt.Errorf("resolve %s: %w", req.Source, err)
	}
	var entries []Entry
	err = filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			o.logger.Debug("skipping unreadable entry", "path", path, "error", err)
			return nil
		}
		if !d.Type().IsRegular() {
			return nil
		}
		res := o.resolver.Resolve(path)
		target := pattern.Join(req.Target, tmpl, res.Time, d.Name())
		o.logger.Debug("planned",
			"source", path,
			"target", target,
			"date", res.Time.Format("2006-01-02"),
			"date_source", res.Source.String(),
		)
		entries = append(entries, Entry{Source: path, Target: target})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk %s: %w", req.Source, err)
	}
	return entries, nil
}

func exists(path string) bool {
	_, err := os.Lstat(path)
	return err == nil
}
