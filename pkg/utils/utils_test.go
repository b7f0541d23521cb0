package utils

import (
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSanitizeFilename(t *testing.T) {
	tests := map[string]string{
		"photo.png":              "photo.png",
		"../../etc/passwd":       "passwd",
		`C:\Users\me\cat.jpg`:    "cat.jpg",
		"dir/sub/  spaced.gif ": "spaced.gif",
		"..":                     "",
		"":                       "",
		"tab\tname.webp":         "tabname.webp",
	}
	for in, want := range tests {
		assert.Equal(t, want, SanitizeFilename(in), "input %q", in)
	}
}

func TestSizeToBytes(t *testing.T) {
	assert.Equal(t, int64(16<<20), SizeToBytes("16MB", 1))
	assert.Equal(t, int64(512<<10), SizeToBytes("512 kb", 1))
	assert.Equal(t, int64(100), SizeToBytes("100", 1))
	assert.Equal(t, int64(7), SizeToBytes("", 7))
	assert.Equal(t, int64(7), SizeToBytes("lots", 7))
	assert.Equal(t, int64(7), SizeToBytes("5XB", 7))
}

func TestParseID(t *testing.T) {
	id, err := ParseID("42")
	assert.NoError(t, err)
	assert.Equal(t, uint(42), id)

	for _, bad := range []string{"0", "-1", "abc", ""} {
		_, err := ParseID(bad)
		assert.Error(t, err, bad)
	}
}

func TestGetRealIP(t *testing.T) {
	r := httptest.NewRequest("GET", "/", nil)
	r.RemoteAddr = "10.0.0.5:1234"
	assert.Equal(t, "10.0.0.5", GetRealIP(r, false))
	assert.Equal(t, "10.0.0.5", GetRealIP(r, true))

	r.Header.Set("X-Forwarded-For", "1.2.3.4, 10.0.0.1")
	assert.Equal(t, "10.0.0.5", GetRealIP(r, false), "forwarding headers are ignored unless trusted")
	assert.Equal(t, "1.2.3.4", GetRealIP(r, true))

	r.Header.Del("X-Forwarded-For")
	r.Header.Set("X-Real-IP", "5.6.7.8")
	assert.Equal(t, "10.0.0.5", GetRealIP(r, false))
	assert.Equal(t, "5.6.7.8", GetRealIP(r, true))
}

func TestFormatBytes(t *testing.T) {
	assert.Equal(t, "512 B", FormatBytes(512))
	assert.Equal(t, "1.50 KB", FormatBytes(1536))
	assert.Equal(t, "2.00 MB", FormatBytes(2<<20))
}
