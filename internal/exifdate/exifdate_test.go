package exifdate_test

import (
	"bufio"
	"bytes"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/lavelinevgeny/datesort/internal/exifdate"
	"github.com/lavelinevgeny/datesort/internal/testsupport"
)

func writeJPEG(t *testing.T, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "IMG_0001.jpg")
	testsupport.WriteFile(t, path, data)
	return path
}

func TestReadConformantDateTimeOriginal(t *testing.T) {
	tiff := testsupport.TIFF(
		map[uint16]string{testsupport.TagDateTime: "2022:01:01 00:00:00"},
		map[uint16]string{
			testsupport.TagDateTimeOriginal:  "2021:06:15 10:30:00",
			testsupport.TagDateTimeDigitized: "2020:02:02 02:02:02",
		},
	)
	path := writeJPEG(t, testsupport.JPEG(tiff))

	got, err := exifdate.Read(path, time.UTC)
	if err != nil {
		t.Fatalf("Read returned error: %v", err)
	}
	want := time.Date(2021, time.June, 15, 10, 30, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Fatalf("unexpected date: got %v want %v", got, want)
	}
}

func TestReadPrefersDigitizedOverDateTime(t *testing.T) {
	tiff := testsupport.TIFF(
		map[uint16]string{testsupport.TagDateTime: "2022:01:01 00:00:00"},
		map[uint16]string{testsupport.TagDateTimeDigitized: "2020:02:02 02:02:02"},
	)
	path := writeJPEG(t, testsupport.JPEG(tiff))

	got, err := exifdate.Read(path, time.UTC)
	if err != nil {
		t.Fatalf("Read returned error: %v", err)
	}
	if got.Year() != 2020 || got.Month() != time.February {
		t.Fatalf("expected DateTimeDigitized, got %v", got)
	}
}

func TestReadFallsBackToDateTime(t *testing.T) {
	tiff := testsupport.TIFF(map[uint16]string{testsupport.TagDateTime: "2018:12:31 23:59:59"}, nil)
	path := writeJPEG(t, testsupport.JPEG(tiff))

	got, err := exifdate.Read(path, time.UTC)
	if err != nil {
		t.Fatalf("Read returned error: %v", err)
	}
	want := time.Date(2018, time.December, 31, 23, 59, 59, 0, time.UTC)
	if !got.Equal(want) {
		t.Fatalf("unexpected date: got %v want %v", got, want)
	}
}

func TestReadNonConformantUsesMarkerScan(t *testing.T) {
	tiff := testsupport.TIFF(nil, map[uint16]string{
		testsupport.TagDateTimeDigitized: "2019:01:02 00:00:00",
	})
	path := writeJPEG(t, testsupport.NonConformantJPEG(tiff))

	got, err := exifdate.Read(path, time.UTC)
	if err != nil {
		t.Fatalf("Read returned error: %v", err)
	}
	if got.Format("2006-01-02") != "2019-01-02" {
		t.Fatalf("unexpected date: %v", got)
	}
}

func TestReadRawTIFF(t *testing.T) {
	tiff := testsupport.TIFF(nil, map[uint16]string{
		testsupport.TagDateTimeOriginal: "2017:07:07 07:07:07",
	})
	path := filepath.Join(t.TempDir(), "scan.tif")
	testsupport.WriteFile(t, path, tiff)

	got, err := exifdate.Read(path, time.UTC)
	if err != nil {
		t.Fatalf("Read returned error: %v", err)
	}
	if got.Year() != 2017 || got.Hour() != 7 {
		t.Fatalf("unexpected date: %v", got)
	}
}

func TestReadWithoutDateTag(t *testing.T) {
	tiff := testsupport.TIFF(map[uint16]string{0x010F: "Camera"}, nil)
	path := writeJPEG(t, testsupport.JPEG(tiff))

	if _, err := exifdate.Read(path, time.UTC); !errors.Is(err, exifdate.ErrNoDateTag) {
		t.Fatalf("expected ErrNoDateTag, got %v", err)
	}
}

func TestReadMissingFile(t *testing.T) {
	if _, err := exifdate.Read(filepath.Join(t.TempDir(), "missing.jpg"), time.UTC); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestReadWithoutExif(t *testing.T) {
	path := writeJPEG(t, []byte("plain text, not an image"))
	if _, err := exifdate.Read(path, time.UTC); err == nil {
		t.Fatal("expected error for file without EXIF")
	}
}

func TestFindSegmentSkipsNonExifAPP1(t *testing.T) {
	var buf bytes.Buffer
	buf.Write([]byte{0xFF, 0xD8})
	buf.Write(testsupport.Segment(0xE1, []byte("http://ns.adobe.com/xap/1.0/\x00")))
	buf.Write([]byte{0xFF, 0xFF, 0xD8})
	buf.Write(testsupport.Segment(0xE1, []byte("Exif\x00\x00TIFFDATA")))

	seg, err := exifdate.FindSegment(bufio.NewReader(&buf))
	if err != nil {
		t.Fatalf("FindSegment returned error: %v", err)
	}
	if string(seg) != "TIFFDATA" {
		t.Fatalf("unexpected segment: %q", seg)
	}
}

func TestFindSegmentRequiresAPP1AfterSOI(t *testing.T) {
	var buf bytes.Buffer
	buf.Write([]byte{0xFF, 0xD8})
	buf.Write(testsupport.Segment(0xE0, []byte("JFIF\x00")))
	buf.Write(testsupport.Segment(0xE1, []byte("Exif\x00\x00TIFFDATA")))

	if _, err := exifdate.FindSegment(bufio.NewReader(&buf)); !errors.Is(err, exifdate.ErrNoSegment) {
		t.Fatalf("expected ErrNoSegment, got %v", err)
	}
}

func TestFindSegmentRejectsShortLength(t *testing.T) {
	r := bufio.NewReader(bytes.NewReader([]byte{0xFF, 0xD8, 0xFF, 0xE1, 0x00, 0x01}))
	if _, err := exifdate.FindSegment(r); !errors.Is(err, exifdate.ErrSegmentLength) {
		t.Fatalf("expected ErrSegmentLength, got %v", err)
	}
}

func TestFindSegmentEmptyStream(t *testing.T) {
	if _, err := exifdate.FindSegment(bufio.NewReader(bytes.NewReader(nil))); !errors.Is(err, exifdate.ErrNoSegment) {
		t.Fatalf("expected ErrNoSegment, got %v", err)
	}
}

func TestParseDateFormats(t *testing.T) {
	for _, value := range []string{"2021:06:15 10:30:00", "2021-06-15 10:30:00"} {
		got, err := exifdate.ParseDate(value, time.UTC)
		if err != nil {
			t.Fatalf("ParseDate(%q) returned error: %v", value, err)
		}
		if !got.Equal(time.Date(2021, time.June, 15, 10, 30, 0, 0, time.UTC)) {
			t.Fatalf("ParseDate(%q) = %v", value, got)
		}
	}
	if _, err := exifdate.ParseDate("15/06/2021", time.UTC); !errors.Is(err, exifdate.ErrDateFormat) {
		t.Fatalf("expected ErrDateFormat, got %v", err)
	}
	if _, err := exifdate.ParseDate("0000:00:00 00:00:00", time.UTC); !errors.Is(err, exifdate.ErrDateFormat) {
		t.Fatalf("expected ErrDateFormat for zeroed date, got %v", err)
	}
}

func TestParseDateLocalTransitions(t *testing.T) {
	loc, err := time.LoadLocation("Europe/Berlin")
	if err != nil {
		t.Skipf("timezone data unavailable: %v", err)
	}

	// 2021-03-28 02:30 does not exist in Berlin.
	if _, err := exifdate.ParseDate("2021:03:28 02:30:00", loc); !errors.Is(err, exifdate.ErrNonexistentTime) {
		t.Fatalf("expected ErrNonexistentTime, got %v", err)
	}

	// 2021-10-31 02:30 happens twice; either occurrence is acceptable.
	got, err := exifdate.ParseDate("2021:10:31 02:30:00", loc)
	if err != nil {
		t.Fatalf("ambiguous time should resolve, got %v", err)
	}
	if got.Hour() != 2 || got.Minute() != 30 {
		t.Fatalf("unexpected wall clock: %v", got)
	}
}
