package testsupport

import (
	"bytes"
	"encoding/binary"
	"sort"
)

// Номера тегов EXIF для тестовых файлов.
const (
	TagDateTime          uint16 = 0x0132
	TagExifIFDPointer    uint16 = 0x8769
	TagDateTimeOriginal  uint16 = 0x9003
	TagDateTimeDigitized uint16 = 0x9004
)

const (
	tiffTypeASCII = 2
	tiffTypeLong  = 4
)

// TIFF собирает big-endian блок TIFF. ifd0 — ASCII-теги IFD0, exifIFD —
// ASCII-теги вложенного Exif IFD; указатель на него добавляется, если
// exifIFD не пуст.
func TIFF(ifd0, exifIFD map[uint16]string) []byte {
	type entry struct {
		tag   uint16
		typ   uint16
		count uint32
		value uint32
		data  []byte
	}

	ifd0Count := len(ifd0)
	if len(exifIFD) > 0 {
		ifd0Count++
	}
	ifdSize := func(n int) uint32 { return uint32(2 + 12*n + 4) }

	ifd0Off := uint32(8)
	exifOff := ifd0Off + ifdSize(ifd0Count)
	dataOff := exifOff
	if len(exifIFD) > 0 {
		dataOff += ifdSize(len(exifIFD))
	}

	var data bytes.Buffer
	asciiEntries := func(tags map[uint16]string) []entry {
		keys := make([]int, 0, len(tags))
		for k := range tags {
			keys = append(keys, int(k))
		}
		sort.Ints(keys)
		out := make([]entry, 0, len(keys))
		for _, k := range keys {
			val := append([]byte(tags[uint16(k)]), 0)
			e := entry{tag: uint16(k), typ: tiffTypeASCII, count: uint32(len(val))}
			if len(val) <= 4 {
				var packed [4]byte
				copy(packed[:], val)
				e.value = binary.BigEndian.Uint32(packed[:])
			} else {
				e.value = dataOff + uint32(data.Len())
				data.Write(val)
				if data.Len()%2 == 1 {
					data.WriteByte(0)
				}
			}
			out = append(out, e)
		}
		return out
	}

	first := asciiEntries(ifd0)
	if len(exifIFD) > 0 {
		first = append(first, entry{tag: TagExifIFDPointer, typ: tiffTypeLong, count: 1, value: exifOff})
		sort.Slice(first, func(i, j int) bool { return first[i].tag < first[j].tag })
	}
	second := asciiEntries(exifIFD)

	var buf bytes.Buffer
	buf.WriteString("MM\x00\x2a")
	_ = binary.Write(&buf, binary.BigEndian, ifd0Off)
	writeIFD := func(entries []entry) {
		_ = binary.Write(&buf, binary.BigEndian, uint16(len(entries)))
		for _, e := range entries {
			_ = binary.Write(&buf, binary.BigEndian, e.tag)
			_ = binary.Write(&buf, binary.BigEndian, e.typ)
			_ = binary.Write(&buf, binary.BigEndian, e.count)
			_ = binary.Write(&buf, binary.BigEndian, e.value)
		}
		_ = binary.Write(&buf, binary.BigEndian, uint32(0))
	}
	writeIFD(first)
	if len(exifIFD) > 0 {
		writeIFD(second)
	}
	buf.Write(data.Bytes())
	return buf.Bytes()
}

// Segment оборачивает body в сегмент JPEG с полем длины.
func Segment(marker byte, body []byte) []byte {
	out := []byte{0xFF, marker}
	out = binary.BigEndian.AppendUint16(out, uint16(len(body)+2))
	return append(out, body...)
}

// JPEG собирает минимальный JPEG, в APP1 которого лежит блок TIFF.
func JPEG(tiff []byte) []byte {
	var buf bytes.Buffer
	buf.Write([]byte{0xFF, 0xD8})
	buf.Write(Segment(0xE1, append([]byte("Exif\x00\x00"), tiff...)))
	buf.Write(Segment(0xDB, make([]byte, 8)))
	buf.Write([]byte{0xFF, 0xD9})
	return buf.Bytes()
}

// NonConformantJPEG ставит перед корректным SOI+APP1 сегмент APP1 без
// идентификатора Exif: декодер по первому APP1 не справится, а поиск
// маркеров найдёт данные.
func NonConformantJPEG(tiff []byte) []byte {
	var buf bytes.Buffer
	buf.Write(Segment(0xE1, []byte("XMP\x00\x00\x00")))
	buf.Write(JPEG(tiff))
	return buf.Bytes()
}
