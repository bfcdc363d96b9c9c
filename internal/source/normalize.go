package source

import (
	"bytes"

	"golang.org/x/text/unicode/norm"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Normalize drops a UTF-8 BOM, turns CRLF into LF and composes the text to
// NFC. Flags tell which of the steps changed something.
func Normalize(content []byte) ([]byte, FileFlags) {
	var flags FileFlags
	if rest, ok := bytes.CutPrefix(content, utf8BOM); ok {
		content = rest
		flags |= FileHadBOM
	}
	if bytes.Contains(content, []byte("\r\n")) {
		content = bytes.ReplaceAll(content, []byte("\r\n"), []byte("\n"))
		flags |= FileNormalizedCRLF
	}
	// одиночный \r остаётся как есть
	if !norm.NFC.IsNormal(content) {
		content = norm.NFC.Bytes(content)
		flags |= FileNormalizedNFC
	}
	return content, flags
}

// RawOffsets maps every offset of Normalize(raw) content, end included, back
// into raw. The newline of a CRLF pair maps to its '\r', so an insertion at
// the end of a line lands before the pair. ok is false when raw needed NFC
// composition: composed text has no byte-exact counterpart in raw.
func RawOffsets(raw []byte) (offsets []uint32, ok bool) {
	start := 0
	if bytes.HasPrefix(raw, utf8BOM) {
		start = len(utf8BOM)
	}
	offsets = make([]uint32, 0, len(raw)-start+1)
	for i := start; i < len(raw); i++ {
		offsets = append(offsets, mustU32(i))
		if raw[i] == '\r' && i+1 < len(raw) && raw[i+1] == '\n' {
			i++
		}
	}
	offsets = append(offsets, mustU32(len(raw)))

	_, flags := Normalize(raw)
	return offsets, flags&FileNormalizedNFC == 0
}
