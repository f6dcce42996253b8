// exifdate.go — дата съёмки из EXIF (JPEG, HEIF, RAW, TIFF)
package exifdate

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/rwcarlsen/goexif/exif"
)

var (
	ErrNoSegment       = errors.New("exif: APP1 segment not found")
	ErrSegmentLength   = errors.New("exif: invalid segment length")
	ErrNoDateTag       = errors.New("exif: no date tag")
	ErrDateFormat      = errors.New("exif: unexpected date format")
	ErrNonexistentTime = errors.New("exif: local time does not exist")
)

// dateFields в порядке предпочтения
var dateFields = []exif.FieldName{
	exif.DateTimeOriginal,
	exif.DateTimeDigitized,
	exif.DateTime,
}

var layouts = []string{
	"2006:01:02 15:04:05",
	"2006-01-02 15:04:05",
}

// Read возвращает дату съёмки из EXIF файла path в часовом поясе loc.
func Read(path string, loc *time.Location) (time.Time, error) {
	f, err := os.Open(path)
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to open file: %w", err)
	}
	defer f.Close()

	x, err := decode(f)
	if err != nil {
		return time.Time{}, err
	}
	raw, err := taggedDate(x)
	if err != nil {
		return time.Time{}, err
	}
	return ParseDate(raw, loc)
}

// decode сначала разбирает контейнер штатно, а при неудаче ищет
// сегмент APP1 сырым сканированием.
func decode(f io.ReadSeeker) (*exif.Exif, error) {
	x, err := exif.Decode(f)
	if err == nil || (x != nil && !exif.IsCriticalError(err)) {
		return x, nil
	}

	if _, serr := f.Seek(0, io.SeekStart); serr != nil {
		return nil, fmt.Errorf("failed to seek: %w", serr)
	}
	seg, serr := FindSegment(bufio.NewReader(f))
	if serr != nil {
		return nil, fmt.Errorf("failed to read exif: %v: %w", err, serr)
	}
	x, err = exif.Decode(bytes.NewReader(seg))
	if err != nil && (x == nil || exif.IsCriticalError(err)) {
		return nil, fmt.Errorf("failed to read exif: %w", err)
	}
	return x, nil
}

func taggedDate(x *exif.Exif) (string, error) {
	for _, name := range dateFields {
		tag, err := x.Get(name)
		if err != nil {
			continue
		}
		val, err := tag.StringVal()
		if err != nil {
			continue
		}
		return strings.TrimSpace(val), nil
	}
	return "", ErrNoDateTag
}

// ParseDate разбирает "YYYY:MM:DD HH:MM:SS" (или через дефисы) как
// локальное время в loc. Несуществующее время (переход на летнее) — ошибка.
func ParseDate(value string, loc *time.Location) (time.Time, error) {
	var naive time.Time
	var err error
	for _, layout := range layouts {
		naive, err = time.Parse(layout, value)
		if err == nil {
			break
		}
	}
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrDateFormat, value)
	}
	return InLocation(naive, loc)
}

// InLocation переносит "наивное" время naive в loc. При неоднозначности
// (осенний переход) используется выбор time.Date.
func InLocation(naive time.Time, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.Local
	}
	y, mo, d := naive.Date()
	h, mi, s := naive.Clock()
	t := time.Date(y, mo, d, h, mi, s, 0, loc)

	ty, tmo, td := t.Date()
	th, tmi, ts := t.Clock()
	if ty != y || tmo != mo || td != d || th != h || tmi != mi || ts != s {
		return time.Time{}, fmt.Errorf("%w: %s in %s", ErrNonexistentTime, naive.Format("2006-01-02 15:04:05"), loc)
	}
	return t, nil
}
