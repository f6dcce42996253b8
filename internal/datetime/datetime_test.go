package datetime_test

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/lavelinevgeny/datesort/internal/datetime"
	"github.com/lavelinevgeny/datesort/internal/logging"
	"github.com/lavelinevgeny/datesort/internal/media"
	"github.com/lavelinevgeny/datesort/internal/testsupport"
)

var (
	birth = time.Date(2015, time.March, 3, 12, 0, 0, 0, time.UTC)
	now   = time.Date(2030, time.January, 1, 0, 0, 0, 0, time.UTC)
)

func newResolver(birthErr error) *datetime.Resolver {
	r := datetime.NewResolver(media.DefaultTable(), logging.NewNop())
	r.Location = time.UTC
	r.Now = func() time.Time { return now }
	r.BirthTime = func(string) (time.Time, error) {
		if birthErr != nil {
			return time.Time{}, birthErr
		}
		return birth, nil
	}
	return r
}

func TestResolveUsesExif(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "IMG.JPG")
	tiff := testsupport.TIFF(nil, map[uint16]string{testsupport.TagDateTimeOriginal: "2021:06:15 10:30:00"})
	testsupport.WriteFile(t, path, testsupport.JPEG(tiff))

	got := newResolver(nil).Resolve(path)
	if got.Source != datetime.SourceEmbedded {
		t.Fatalf("expected embedded source, got %v", got.Source)
	}
	if !got.Time.Equal(time.Date(2021, time.June, 15, 10, 30, 0, 0, time.UTC)) {
		t.Fatalf("unexpected time: %v", got.Time)
	}
}

func TestResolveUsesAtom(t *testing.T) {
	path := filepath.Join(t.TempDir(), "clip.MOV")
	testsupport.MOV(t, path, 0, 3000000000)

	got := newResolver(nil).Resolve(path)
	if got.Source != datetime.SourceEmbedded {
		t.Fatalf("expected embedded source, got %v", got.Source)
	}
	want := time.Date(1904, time.January, 1, 0, 0, 0, 0, time.UTC).Add(3000000000 * time.Second)
	if !got.Time.Equal(want) {
		t.Fatalf("unexpected time: got %v want %v", got.Time, want)
	}
}

func TestResolveUnsupportedUsesBirthTime(t *testing.T) {
	path := filepath.Join(t.TempDir(), "notes.txt")
	testsupport.WriteFile(t, path, []byte("hello"))

	got := newResolver(nil).Resolve(path)
	if got.Source != datetime.SourceBirthTime {
		t.Fatalf("expected birth time source, got %v", got.Source)
	}
	if !got.Time.Equal(birth) {
		t.Fatalf("unexpected time: %v", got.Time)
	}
}

func TestResolveBrokenMediaUsesBirthTime(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"broken.jpg", "broken.mov", "empty.heic"} {
		path := filepath.Join(dir, name)
		data := []byte("definitely not media")
		if name == "empty.heic" {
			data = nil
		}
		testsupport.WriteFile(t, path, data)

		got := newResolver(nil).Resolve(path)
		if got.Source != datetime.SourceBirthTime || !got.Time.Equal(birth) {
			t.Fatalf("%s: expected birth time fallback, got %+v", name, got)
		}
	}
}

func TestResolveFallsBackToNow(t *testing.T) {
	dir := t.TempDir()
	paths := []string{
		filepath.Join(dir, "notes.txt"),
		filepath.Join(dir, "broken.jpg"),
		filepath.Join(dir, "missing.mov"),
	}
	testsupport.WriteFile(t, paths[0], []byte("hello"))
	testsupport.WriteFile(t, paths[1], []byte("junk"))

	r := newResolver(errors.New("no birth time"))
	for _, path := range paths {
		got := r.Resolve(path)
		if got.Source != datetime.SourceNow || !got.Time.Equal(now) {
			t.Fatalf("%s: expected now fallback, got %+v", path, got)
		}
	}
}

func TestResolveUsesExtendedTable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "clip.3gp")
	testsupport.MOV(t, path, 0, 100)

	r := newResolver(nil)
	if got := r.Resolve(path); got.Source != datetime.SourceBirthTime {
		t.Fatalf("3gp should not be dispatched by default, got %v", got.Source)
	}

	r.Table = r.Table.With(media.KindAtom, "3gp")
	if got := r.Resolve(path); got.Source != datetime.SourceEmbedded {
		t.Fatalf("3gp should dispatch to atom after extension, got %v", got.Source)
	}
}

func TestResolveNormalizesLocation(t *testing.T) {
	path := filepath.Join(t.TempDir(), "notes.txt")
	testsupport.WriteFile(t, path, []byte("x"))

	r := newResolver(nil)
	r.Location = time.FixedZone("UTC-5", -5*3600)
	got := r.Resolve(path)
	if got.Time.Location() != r.Location {
		t.Fatalf("expected resolver location, got %v", got.Time.Location())
	}
	if got.Time.Day() != 3 || got.Time.Hour() != 7 {
		t.Fatalf("unexpected local wall clock: %v", got.Time)
	}
}

func TestBirthTimeMissingFile(t *testing.T) {
	if _, err := datetime.BirthTime(filepath.Join(t.TempDir(), "missing")); err == nil {
		t.Fatal("expected error for missing file")
	}
}
