package util

import (
	"bytes"
	"errors"
	"io"
	"os"
	"strings"
	"unicode/utf8"

	log "github.com/sirupsen/logrus"
)

const maxBinaryCheckBytes = 512

// IsLikelyBinary reports whether the first bytes of the file contain a NUL byte.
// Pickled models and other binary blobs trip this check; JSON artifacts do not.
func IsLikelyBinary(path string) (bool, error) {
	file, err := os.Open(path)
	if err != nil {
		return false, err
	}
	defer file.Close()

	buffer := make([]byte, maxBinaryCheckBytes)
	n, err := file.Read(buffer)
	if err != nil && !errors.Is(err, io.EOF) {
		return false, err
	}

	return bytes.Contains(buffer[:n], []byte{0}), nil
}

// CleanInput replaces invalid UTF-8 sequences in user input with U+FFFD.
// Valid input is returned unchanged.
func CleanInput(s, src string) string {
	if utf8.ValidString(s) {
		return s
	}
	log.WithField("source", src).Warn("input is not valid UTF-8, replacing invalid bytes")
	return strings.ToValidUTF8(s, string(utf8.RuneError))
}
