// atom.go — дата создания из заголовка mvhd (MP4, MOV, QuickTime)
package atom

import (
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"time"

	"github.com/lavelinevgeny/datesort/internal/byteio"
)

var (
	ErrMalformed  = errors.New("atom: invalid atom length")
	ErrNotFound   = errors.New("atom: not found")
	ErrOutOfRange = errors.New("atom: creation time out of range")
)

// epoch — начало отсчёта времени в mvhd.
var epoch = time.Date(1904, time.January, 1, 0, 0, 0, 0, time.UTC)

// latest — последний момент, который помещается в четырёхзначный год.
var latest = time.Date(9999, time.December, 31, 23, 59, 59, 0, time.UTC)

var (
	typeMoov = [4]byte{'m', 'o', 'o', 'v'}
	typeMvhd = [4]byte{'m', 'v', 'h', 'd'}
)

// Head — заголовок атома: длина данных после заголовка и тип.
type Head struct {
	Length uint64
	Type   [4]byte
}

// Read возвращает время создания ролика в часовом поясе loc.
func Read(path string, loc *time.Location) (time.Time, error) {
	f, err := os.Open(path)
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to open file: %w", err)
	}
	defer f.Close()

	if _, err := SeekTo(f, typeMoov); err != nil {
		return time.Time{}, err
	}
	if _, err := SeekTo(f, typeMvhd); err != nil {
		return time.Time{}, err
	}
	created, err := ReadCreated(f)
	if err != nil {
		return time.Time{}, err
	}
	if loc == nil {
		loc = time.Local
	}
	return created.In(loc), nil
}

// ReadHead читает заголовок атома в текущей позиции.
func ReadHead(r io.Reader) (Head, error) {
	var h Head
	size, err := byteio.Read32(r)
	if err != nil {
		return h, fmt.Errorf("failed to read atom head: %w", err)
	}
	if _, err := io.ReadFull(r, h.Type[:]); err != nil {
		return h, fmt.Errorf("failed to read atom head: %w", err)
	}
	if size == 1 {
		large, err := byteio.Read64(r)
		if err != nil {
			return h, fmt.Errorf("failed to read atom head: %w", err)
		}
		if large < 16 {
			return h, fmt.Errorf("%w: %q extended size %d", ErrMalformed, h.Type[:], large)
		}
		h.Length = large - 16
		return h, nil
	}
	if size < 8 {
		return h, fmt.Errorf("%w: %q size %d", ErrMalformed, h.Type[:], size)
	}
	h.Length = uint64(size) - 8
	return h, nil
}

// SeekTo перебирает атомы с текущей позиции, пока не найдёт typ.
// После успеха курсор стоит в начале данных найденного атома.
func SeekTo(r io.ReadSeeker, typ [4]byte) (Head, error) {
	for {
		h, err := ReadHead(r)
		if err != nil {
			if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
				return Head{}, fmt.Errorf("%w: %q", ErrNotFound, typ[:])
			}
			return Head{}, err
		}
		if h.Type == typ {
			return h, nil
		}
		if h.Length > math.MaxInt64 {
			return Head{}, fmt.Errorf("%w: %q length %d", ErrMalformed, h.Type[:], h.Length)
		}
		if _, err := r.Seek(int64(h.Length), io.SeekCurrent); err != nil {
			return Head{}, fmt.Errorf("failed to seek: %w", err)
		}
	}
}

// ReadCreated разбирает начало mvhd:
// версия 0: | 1 байт версия | 3 байта флаги | 4 байта creation time | ...
// версия 1: | 1 байт версия | 3 байта флаги | 8 байт creation time | ...
func ReadCreated(r io.Reader) (time.Time, error) {
	version, err := byteio.Read8(r)
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to read version: %w", err)
	}
	var flags [3]byte
	if _, err := io.ReadFull(r, flags[:]); err != nil {
		return time.Time{}, fmt.Errorf("failed to read flags: %w", err)
	}

	var seconds uint64
	if version == 0 {
		v, err := byteio.Read32(r)
		if err != nil {
			return time.Time{}, fmt.Errorf("failed to read creation time: %w", err)
		}
		seconds = uint64(v)
	} else {
		seconds, err = byteio.Read64(r)
		if err != nil {
			return time.Time{}, fmt.Errorf("failed to read creation time: %w", err)
		}
	}
	return FromEpoch(seconds)
}

// FromEpoch прибавляет seconds к 1904-01-01T00:00:00Z.
func FromEpoch(seconds uint64) (time.Time, error) {
	if seconds > uint64(latest.Unix()-epoch.Unix()) {
		return time.Time{}, fmt.Errorf("%w: %d seconds", ErrOutOfRange, seconds)
	}
	return time.Unix(epoch.Unix()+int64(seconds), 0).UTC(), nil
}
