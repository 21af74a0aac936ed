package testutil

import (
	"math/rand"
)

var magic = map[string][]byte{
	"jpg":  {0xFF, 0xD8, 0xFF, 0xE0, 0x00, 0x10, 'J', 'F', 'I', 'F', 0x00},
	"jpeg": {0xFF, 0xD8, 0xFF, 0xE0, 0x00, 0x10, 'J', 'F', 'I', 'F', 0x00},
	"png":  []byte("\x89PNG\r\n\x1a\n"),
	"pdf":  []byte("%PDF-1.7\n"),
}

// Document returns size bytes that sniff as the given format ("jpg", "jpeg",
// "png" or "pdf") and behave like an entropy-coded photo: the payload is
// seeded noise restricted to non-ASCII bytes, so it neither compresses well
// nor contains any editor signature text.
func Document(format string, size int, seed int64) []byte {
	header := magic[format]
	buf := make([]byte, size)
	n := copy(buf, header)
	r := rand.New(rand.NewSource(seed))
	for i := n; i < size; i++ {
		buf[i] = byte(0x80 | r.Intn(0x80))
	}
	return buf
}

// Padded returns a document of the given format whose payload is a repeated
// byte, as produced by padding a placeholder up to a plausible size.
func Padded(format string, size int) []byte {
	buf := make([]byte, size)
	n := copy(buf, magic[format])
	for i := n; i < size; i++ {
		buf[i] = 0xAA
	}
	return buf
}

// WithEmbedded returns doc with marker written into the middle of the payload,
// for example an editor's software tag.
func WithEmbedded(doc []byte, marker string) []byte {
	out := append([]byte(nil), doc...)
	copy(out[len(out)/2:], marker)
	return out
}
