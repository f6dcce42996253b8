// datetime.go — выбор даты съёмки с цепочкой запасных вариантов
package datetime

import (
	"errors"
	"log/slog"
	"time"

	"github.com/djherbis/times"

	"github.com/lavelinevgeny/datesort/internal/atom"
	"github.com/lavelinevgeny/datesort/internal/exifdate"
	"github.com/lavelinevgeny/datesort/internal/media"
)

// Source — откуда взята дата.
type Source int

const (
	SourceEmbedded Source = iota
	SourceBirthTime
	SourceNow
)

func (s Source) String() string {
	switch s {
	case SourceEmbedded:
		return "embedded"
	case SourceBirthTime:
		return "birth_time"
	default:
		return "now"
	}
}

// Extractor читает дату из содержимого файла.
type Extractor func(path string, loc *time.Location) (time.Time, error)

// Resolution — выбранная дата и её источник.
type Resolution struct {
	Time   time.Time
	Source Source
}

var errUnsupported = errors.New("unsupported file type")

var errNoBirthTime = errors.New("birth time not available")

// Resolver сопоставляет расширение с извлекателем и никогда не возвращает ошибку.
type Resolver struct {
	Table      media.Table
	Extractors map[media.Kind]Extractor
	BirthTime  func(path string) (time.Time, error)
	Now        func() time.Time
	Location   *time.Location
	Logger     *slog.Logger
}

// NewResolver собирает Resolver с извлекателями EXIF и mvhd.
func NewResolver(table media.Table, logger *slog.Logger) *Resolver {
	if logger == nil {
		logger = slog.Default()
	}
	return &Resolver{
		Table: table,
		Extractors: map[media.Kind]Extractor{
			media.KindExif: exifdate.Read,
			media.KindAtom: atom.Read,
		},
		BirthTime: BirthTime,
		Now:       time.Now,
		Location:  time.Local,
		Logger:    logger,
	}
}

// Resolve возвращает дату для файла path: встроенная дата, затем время
// создания файла, затем текущее время.
func (r *Resolver) Resolve(path string) Resolution {
	loc := r.location()

	t, err := r.embedded(path, loc)
	if err == nil {
		return Resolution{Time: t.In(loc), Source: SourceEmbedded}
	}
	r.logger().Debug("embedded date unavailable",
		"path", path,
		"kind", r.Table.LookupPath(path).String(),
		"error", err,
	)

	if r.BirthTime != nil {
		t, err = r.BirthTime(path)
		if err == nil {
			return Resolution{Time: t.In(loc), Source: SourceBirthTime}
		}
		r.logger().Debug("birth time unavailable", "path", path, "error", err)
	}

	now := time.Now
	if r.Now != nil {
		now = r.Now
	}
	r.logger().Warn("using current time", "path", path)
	return Resolution{Time: now().In(loc), Source: SourceNow}
}

func (r *Resolver) embedded(path string, loc *time.Location) (time.Time, error) {
	kind := r.Table.LookupPath(path)
	extract, ok := r.Extractors[kind]
	if kind == media.KindNone || !ok || extract == nil {
		return time.Time{}, errUnsupported
	}
	return extract(path, loc)
}

func (r *Resolver) location() *time.Location {
	if r.Location == nil {
		return time.Local
	}
	return r.Location
}

func (r *Resolver) logger() *slog.Logger {
	if r.Logger == nil {
		return slog.Default()
	}
	return r.Logger
}

// BirthTime возвращает время создания файла из файловой системы.
func BirthTime(path string) (time.Time, error) {
	ts, err := times.Stat(path)
	if err != nil {
		return time.Time{}, err
	}
	if !ts.HasBirthTime() {
		return time.Time{}, errNoBirthTime
	}
	return ts.BirthTime(), nil
}
