package testsupport

import (
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"

	"github.com/abema/go-mp4"
)

// MOV пишет файл QuickTime: mdat, затем moov/mvhd со временем создания
// в секундах от 1904-01-01 UTC.
func MOV(t testing.TB, path string, version uint8, seconds uint64) {
	t.Helper()

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", path, err)
	}
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create %s: %v", path, err)
	}
	defer f.Close()

	w := mp4.NewWriter(f)
	ctx := mp4.Context{}
	brand := [4]byte{'q', 't', ' ', ' '}

	must := func(_ any, err error) {
		t.Helper()
		if err != nil {
			t.Fatalf("write %s: %v", path, err)
		}
	}

	must(w.StartBox(&mp4.BoxInfo{Type: mp4.BoxTypeFtyp()}))
	must(mp4.Marshal(w, &mp4.Ftyp{
		MajorBrand:       brand,
		MinorVersion:     0x200,
		CompatibleBrands: []mp4.CompatibleBrandElem{{CompatibleBrand: brand}},
	}, ctx))
	must(w.EndBox())

	must(w.StartBox(&mp4.BoxInfo{Type: mp4.BoxTypeMdat()}))
	must(w.Write(make([]byte, 64)))
	must(w.EndBox())

	mvhd := &mp4.Mvhd{
		FullBox:     mp4.FullBox{Version: version},
		Timescale:   600,
		Rate:        0x00010000,
		Volume:      0x0100,
		Matrix:      [9]int32{0x00010000, 0, 0, 0, 0x00010000, 0, 0, 0, 0x40000000},
		NextTrackID: 1,
	}
	if version == 0 {
		mvhd.CreationTimeV0 = uint32(seconds)
		mvhd.ModificationTimeV0 = uint32(seconds)
	} else {
		mvhd.CreationTimeV1 = seconds
		mvhd.ModificationTimeV1 = seconds
	}

	must(w.StartBox(&mp4.BoxInfo{Type: mp4.BoxTypeMoov()}))
	must(w.StartBox(&mp4.BoxInfo{Type: mp4.BoxTypeMvhd()}))
	must(mp4.Marshal(w, mvhd, ctx))
	must(w.EndBox())
	must(w.EndBox())
}

// Atom собирает блок с 32-битным размером.
func Atom(typ string, payload []byte) []byte {
	out := binary.BigEndian.AppendUint32(nil, uint32(len(payload)+8))
	out = append(out, typ...)
	return append(out, payload...)
}

// ExtendedAtom собирает блок с size==1 и 64-битной длиной.
func ExtendedAtom(typ string, payload []byte) []byte {
	out := binary.BigEndian.AppendUint32(nil, 1)
	out = append(out, typ...)
	out = binary.BigEndian.AppendUint64(out, uint64(len(payload)+16))
	return append(out, payload...)
}

// MvhdPayload собирает начало mvhd: версия, флаги и время создания.
func MvhdPayload(version uint8, seconds uint64) []byte {
	out := []byte{version, 0, 0, 0}
	if version == 0 {
		out = binary.BigEndian.AppendUint32(out, uint32(seconds))
	} else {
		out = binary.BigEndian.AppendUint64(out, seconds)
	}
	return append(out, make([]byte, 16)...)
}
