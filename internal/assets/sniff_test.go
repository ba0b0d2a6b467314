package assets

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDetectImageType(t *testing.T) {
	tests := []struct {
		name     string
		data     []byte
		declared string
		wantMIME string
		wantExt  string
	}{
		{
			name:     "png signature overrides declared type",
			data:     []byte{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A},
			declared: "application/octet-stream",
			wantMIME: "image/png",
			wantExt:  "png",
		},
		{
			name:     "jpeg signature",
			data:     []byte{0xFF, 0xD8, 0xFF, 0xE0},
			declared: "",
			wantMIME: "image/jpeg",
			wantExt:  "jpg",
		},
		{
			name:     "gif signature",
			data:     []byte("GIF89a..."),
			declared: "image/png",
			wantMIME: "image/gif",
			wantExt:  "gif",
		},
		{
			name:     "riff signature maps to webp",
			data:     []byte("RIFF\x00\x00\x00\x00WEBP"),
			declared: "",
			wantMIME: "image/webp",
			wantExt:  "webp",
		},
		{
			name:     "no signature keeps declared octet-stream with bin extension",
			data:     []byte{0x00, 0x01, 0x02},
			declared: "application/octet-stream",
			wantMIME: "application/octet-stream",
			wantExt:  "bin",
		},
		{
			name:     "no signature keeps declared jpeg with jpg extension",
			data:     []byte{0x00, 0x01, 0x02},
			declared: "image/jpeg",
			wantMIME: "image/jpeg",
			wantExt:  "jpg",
		},
		{
			name:     "no signature and no declared type defaults to png",
			data:     []byte{0x00, 0x01, 0x02},
			declared: "",
			wantMIME: "image/png",
			wantExt:  "png",
		},
		{
			name:     "empty buffer defaults to png",
			data:     nil,
			declared: "",
			wantMIME: "image/png",
			wantExt:  "png",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mimeType, ext := DetectImageType(tt.data, tt.declared)

			assert.Equal(t, tt.wantMIME, mimeType)
			assert.Equal(t, tt.wantExt, ext)
		})
	}
}
