// Package photo handles incident photo payloads: decoding the
// data-URL or raw base64 strings offline clients capture, deriving a
// file extension from the payload signature, and storing the bytes.
package photo

import (
    "bytes"
    "encoding/base64"
    "errors"
    "fmt"
    "os"
    "path/filepath"
    "strings"
)

// ErrUnsupported is returned for payloads that are not jpg, png or webp.
var ErrUnsupported = errors.New("unsupported image format")

// Decode converts a client photo string into raw bytes.  It accepts
// both "data:image/...;base64,xxxx" data-URLs and bare base64.
func Decode(s string) ([]byte, error) {
    if idx := strings.Index(s, ";base64,"); strings.HasPrefix(s, "data:") && idx >= 0 {
        s = s[idx+len(";base64,"):]
    }
    data, err := base64.StdEncoding.DecodeString(strings.TrimSpace(s))
    if err != nil {
        return nil, fmt.Errorf("decode photo: %w", err)
    }
    if len(data) == 0 {
        return nil, errors.New("decode photo: empty payload")
    }
    return data, nil
}

// SniffExt derives the file extension from the payload's magic bytes.
// Only the formats the photo storage accepts are recognized.
func SniffExt(data []byte) (string, error) {
    switch {
    case len(data) >= 3 && bytes.Equal(data[:3], []byte{0xFF, 0xD8, 0xFF}):
        return "jpg", nil
    case len(data) >= 8 && bytes.Equal(data[:8], []byte{0x89, 'P', 'N', 'G', 0x0D, 0x0A, 0x1A, 0x0A}):
        return "png", nil
    case len(data) >= 12 && bytes.Equal(data[:4], []byte("RIFF")) && bytes.Equal(data[8:12], []byte("WEBP")):
        return "webp", nil
    }
    return "", ErrUnsupported
}

// Store writes photos to a local uploads directory and returns URLs
// under the configured public prefix.  It stands in for an external
// photo storage collaborator.
type Store struct {
    Dir       string // filesystem directory, created on demand
    URLPrefix string // public path prefix, e.g. "/uploads/incidents"
}

// NewStore returns a Store rooted at dir serving under urlPrefix.
func NewStore(dir, urlPrefix string) *Store {
    return &Store{Dir: dir, URLPrefix: strings.TrimRight(urlPrefix, "/")}
}

// Save persists one photo under the given base name (without
// extension) and returns its public URL.  The extension is derived
// from the payload signature.
func (s *Store) Save(data []byte, baseName string) (string, error) {
    ext, err := SniffExt(data)
    if err != nil {
        return "", err
    }
    if err := os.MkdirAll(s.Dir, 0o755); err != nil {
        return "", fmt.Errorf("mkdir uploads: %w", err)
    }
    filename := baseName + "." + ext
    if err := os.WriteFile(filepath.Join(s.Dir, filename), data, 0o644); err != nil {
        return "", fmt.Errorf("write photo: %w", err)
    }
    return s.URLPrefix + "/" + filename, nil
}
