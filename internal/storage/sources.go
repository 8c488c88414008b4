package storage

import (
	"crypto/sha256"
	"encoding/hex"
	"io"
	"os"
)

// SourceImported reports whether the file at path was already imported with
// the given content hash.
func (s *Store) SourceImported(path, hash string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	h, ok := s.doc.Sources[path]
	return ok && h == hash
}

// MarkSource records that the file at path was imported with the given hash.
func (s *Store) MarkSource(path, hash string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.doc.Sources == nil {
		s.doc.Sources = map[string]string{}
	}
	s.doc.Sources[path] = hash
}

// HashFile computes the SHA-256 hash of a file.
func HashFile(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", err
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}
