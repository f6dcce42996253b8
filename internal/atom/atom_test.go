package atom_test

import (
	"bytes"
	"errors"
	"io"
	"path/filepath"
	"testing"
	"time"

	"github.com/lavelinevgeny/datesort/internal/atom"
	"github.com/lavelinevgeny/datesort/internal/testsupport"
)

var epoch = time.Date(1904, time.January, 1, 0, 0, 0, 0, time.UTC)

func TestReadMovVersion0(t *testing.T) {
	path := filepath.Join(t.TempDir(), "clip.mov")
	testsupport.MOV(t, path, 0, 3000000000)

	got, err := atom.Read(path, time.UTC)
	if err != nil {
		t.Fatalf("Read returned error: %v", err)
	}
	want := epoch.Add(3000000000 * time.Second)
	if !got.Equal(want) {
		t.Fatalf("unexpected creation time: got %v want %v", got, want)
	}
}

func TestReadMovVersion1(t *testing.T) {
	path := filepath.Join(t.TempDir(), "clip.mp4")
	seconds := uint64(3700000000)
	testsupport.MOV(t, path, 1, seconds)

	got, err := atom.Read(path, time.UTC)
	if err != nil {
		t.Fatalf("Read returned error: %v", err)
	}
	want := epoch.Add(time.Duration(seconds) * time.Second)
	if !got.Equal(want) {
		t.Fatalf("unexpected creation time: got %v want %v", got, want)
	}
}

func TestReadConvertsToLocation(t *testing.T) {
	path := filepath.Join(t.TempDir(), "clip.mov")
	testsupport.MOV(t, path, 0, 3000000000)
	loc := time.FixedZone("UTC+9", 9*3600)

	got, err := atom.Read(path, loc)
	if err != nil {
		t.Fatalf("Read returned error: %v", err)
	}
	if got.Location() != loc {
		t.Fatalf("expected location %v, got %v", loc, got.Location())
	}
	if !got.Equal(epoch.Add(3000000000 * time.Second)) {
		t.Fatalf("instant changed during conversion: %v", got)
	}
}

func TestReadWithoutMoov(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.mov")
	testsupport.WriteFile(t, path, testsupport.Atom("free", make([]byte, 32)))

	if _, err := atom.Read(path, time.UTC); !errors.Is(err, atom.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestReadExtendedSizeAtoms(t *testing.T) {
	var data []byte
	data = append(data, testsupport.ExtendedAtom("mdat", make([]byte, 40))...)
	moov := testsupport.Atom("mvhd", testsupport.MvhdPayload(0, 60))
	data = append(data, testsupport.ExtendedAtom("moov", moov)...)
	path := filepath.Join(t.TempDir(), "large.mov")
	testsupport.WriteFile(t, path, data)

	got, err := atom.Read(path, time.UTC)
	if err != nil {
		t.Fatalf("Read returned error: %v", err)
	}
	if !got.Equal(epoch.Add(time.Minute)) {
		t.Fatalf("unexpected creation time: %v", got)
	}
}

func TestReadHeadLengths(t *testing.T) {
	h, err := atom.ReadHead(bytes.NewReader(testsupport.Atom("free", make([]byte, 10))))
	if err != nil {
		t.Fatalf("ReadHead returned error: %v", err)
	}
	if h.Length != 10 || string(h.Type[:]) != "free" {
		t.Fatalf("unexpected head: %+v", h)
	}

	h, err = atom.ReadHead(bytes.NewReader(testsupport.ExtendedAtom("mdat", make([]byte, 10))))
	if err != nil {
		t.Fatalf("ReadHead returned error: %v", err)
	}
	if h.Length != 10 || string(h.Type[:]) != "mdat" {
		t.Fatalf("unexpected extended head: %+v", h)
	}
}

func TestReadHeadMalformed(t *testing.T) {
	for _, size := range []byte{0, 2, 7} {
		data := []byte{0, 0, 0, size, 'f', 'r', 'e', 'e'}
		if _, err := atom.ReadHead(bytes.NewReader(data)); !errors.Is(err, atom.ErrMalformed) {
			t.Fatalf("size %d: expected ErrMalformed, got %v", size, err)
		}
	}

	extended := []byte{0, 0, 0, 1, 'm', 'd', 'a', 't', 0, 0, 0, 0, 0, 0, 0, 8}
	if _, err := atom.ReadHead(bytes.NewReader(extended)); !errors.Is(err, atom.ErrMalformed) {
		t.Fatalf("expected ErrMalformed for short extended size, got %v", err)
	}
}

func TestSeekToLeavesCursorAtPayload(t *testing.T) {
	var data []byte
	data = append(data, testsupport.Atom("ftyp", []byte("qt  "))...)
	data = append(data, testsupport.Atom("mvhd", []byte("payload"))...)
	r := bytes.NewReader(data)

	h, err := atom.SeekTo(r, [4]byte{'m', 'v', 'h', 'd'})
	if err != nil {
		t.Fatalf("SeekTo returned error: %v", err)
	}
	payload := make([]byte, h.Length)
	if _, err := io.ReadFull(r, payload); err != nil {
		t.Fatalf("read payload: %v", err)
	}
	if string(payload) != "payload" {
		t.Fatalf("unexpected payload: %q", payload)
	}
}

func TestFromEpochRange(t *testing.T) {
	got, err := atom.FromEpoch(0)
	if err != nil || !got.Equal(epoch) {
		t.Fatalf("FromEpoch(0) = %v, %v", got, err)
	}
	if _, err := atom.FromEpoch(1 << 63); !errors.Is(err, atom.ErrOutOfRange) {
		t.Fatalf("expected ErrOutOfRange, got %v", err)
	}
}
