// media.go — таблица расширений и способ извлечения даты съёмки
package media

import (
	"path/filepath"
	"sort"
	"strings"
)

// Kind определяет, откуда читать дату съёмки.
type Kind int

const (
	KindNone Kind = iota
	KindExif
	KindAtom
)

func (k Kind) String() string {
	switch k {
	case KindExif:
		return "exif"
	case KindAtom:
		return "atom"
	default:
		return "none"
	}
}

var defaultExif = []string{
	// изображения
	"jpg", "jpeg", "heif", "heic", "avif", "webp", "png",
	// raw-форматы
	"nef", "nrw", "cr2", "dng", "arw", "sr2", "srf", "rw2", "raf", "pef",
	"mos", "3fr", "erf", "mef", "dcr", "srw", "orf", "mrw", "tif", "tiff",
}

var defaultAtom = []string{
	// видео
	"mp4", "m4v", "mov", "qt",
}

// Table сопоставляет нормализованное расширение со способом извлечения.
type Table struct {
	kinds map[string]Kind
}

// DefaultTable возвращает встроенный список поддерживаемых расширений.
func DefaultTable() Table {
	return Table{}.With(KindExif, defaultExif...).With(KindAtom, defaultAtom...)
}

// With возвращает копию таблицы с добавленными расширениями.
func (t Table) With(kind Kind, exts ...string) Table {
	next := make(map[string]Kind, len(t.kinds)+len(exts))
	for ext, k := range t.kinds {
		next[ext] = k
	}
	for _, ext := range exts {
		if ext = Normalize(ext); ext != "" {
			next[ext] = kind
		}
	}
	return Table{kinds: next}
}

// Lookup возвращает тип по расширению
func (t Table) Lookup(ext string) Kind {
	return t.kinds[Normalize(ext)]
}

// LookupPath возвращает тип по имени файла
func (t Table) LookupPath(path string) Kind {
	return t.Lookup(filepath.Ext(path))
}

// Extensions возвращает отсортированный список расширений данного типа.
func (t Table) Extensions(kind Kind) []string {
	var out []string
	for ext, k := range t.kinds {
		if k == kind {
			out = append(out, ext)
		}
	}
	sort.Strings(out)
	return out
}

// Normalize приводит ".JPG", "JPG" и " jpg " к "jpg".
func Normalize(ext string) string {
	return strings.ToLower(strings.TrimPrefix(strings.TrimSpace(ext), "."))
}
