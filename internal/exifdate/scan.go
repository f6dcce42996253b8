package exifdate

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/lavelinevgeny/datesort/internal/byteio"
)

// маркеры JPEG
const (
	markerPrefix = 0xFF
	markerSOI    = 0xD8
	markerAPP1   = 0xE1
)

var exifID = []byte("Exif\x00\x00")

// FindSegment ищет SOI, за которым сразу идёт APP1 с идентификатором
// "Exif\0\0", и возвращает тело сегмента без идентификатора (TIFF-данные).
// Нужен для камер, которые встраивают EXIF не по стандарту.
func FindSegment(r *bufio.Reader) ([]byte, error) {
	for {
		if _, err := r.ReadBytes(markerPrefix); err != nil {
			return nil, eofAsMissing(err)
		}
		code, err := skipFill(r)
		if err != nil {
			return nil, err
		}
		if code != markerSOI {
			continue
		}

		if code, err = byteio.Read8(r); err != nil {
			return nil, eofAsMissing(err)
		}
		if code != markerPrefix {
			continue
		}
		if code, err = byteio.Read8(r); err != nil {
			return nil, eofAsMissing(err)
		}
		if code != markerAPP1 {
			continue
		}

		length, err := byteio.Read16(r)
		if err != nil {
			return nil, fmt.Errorf("failed to read segment length: %w", err)
		}
		if length < 2 {
			return nil, fmt.Errorf("%w: %d", ErrSegmentLength, length)
		}
		seg := make([]byte, length-2)
		if _, err := io.ReadFull(r, seg); err != nil {
			return nil, fmt.Errorf("failed to read segment: %w", err)
		}
		if bytes.HasPrefix(seg, exifID) {
			return seg[len(exifID):], nil
		}
	}
}

// skipFill пропускает байты-заполнители 0xFF и возвращает код маркера.
func skipFill(r io.Reader) (byte, error) {
	for {
		code, err := byteio.Read8(r)
		if err != nil {
			return 0, eofAsMissing(err)
		}
		if code != markerPrefix {
			return code, nil
		}
	}
}

func eofAsMissing(err error) error {
	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		return ErrNoSegment
	}
	return fmt.Errorf("failed to read marker: %w", err)
}
