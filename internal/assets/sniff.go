package assets

import (
	"bytes"
	"strings"
)

// imageSignatures maps leading magic bytes to the true image type. A match
// always wins over whatever type the caller declared.
var imageSignatures = []struct {
	prefix []byte
	mime   string
	ext    string
}{
	{[]byte{0x89, 0x50, 0x4E, 0x47}, "image/png", "png"},
	{[]byte{0xFF, 0xD8, 0xFF}, "image/jpeg", "jpg"},
	{[]byte{0x47, 0x49, 0x46}, "image/gif", "gif"},
	{[]byte{0x52, 0x49, 0x46, 0x46}, "image/webp", "webp"},
}

// DetectImageType sniffs the buffer's magic bytes. When no signature matches
// it keeps the declared MIME type and derives the extension from its subtype;
// with no declared type it defaults to PNG.
func DetectImageType(data []byte, declared string) (mimeType, ext string) {
	for _, sig := range imageSignatures {
		if bytes.HasPrefix(data, sig.prefix) {
			return sig.mime, sig.ext
		}
	}

	if declared == "" {
		return "image/png", "png"
	}
	return declared, extFromMIME(declared)
}

func extFromMIME(mimeType string) string {
	subtype := mimeType[strings.LastIndex(mimeType, "/")+1:]
	switch subtype {
	case "":
		return "png"
	case "jpeg":
		return "jpg"
	case "octet-stream":
		return "bin"
	}
	return subtype
}
