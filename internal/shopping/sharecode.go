package shopping

import (
	"crypto/rand"
	"fmt"
	"strings"

	"github.com/reginaldodesouza61/listas-compras/internal/models"
)

const shareCodeAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// maxShareCodeByte is the largest multiple of the alphabet size that fits in
// a byte. Bytes at or above it are rejected so every character is equally likely.
const maxShareCodeByte = 256 - 256%len(shareCodeAlphabet)

// NewShareCode returns a random share code of models.ShareCodeLength
// characters drawn from [A-Z0-9].
func NewShareCode() (string, error) {
	code := make([]byte, 0, models.ShareCodeLength)
	buf := make([]byte, 2*models.ShareCodeLength)
	for len(code) < models.ShareCodeLength {
		if _, err := rand.Read(buf); err != nil {
			return "", fmt.Errorf("failed to generate share code: %w", err)
		}
		for _, b := range buf {
			if int(b) >= maxShareCodeByte {
				continue
			}
			code = append(code, shareCodeAlphabet[int(b)%len(shareCodeAlphabet)])
			if len(code) == models.ShareCodeLength {
				break
			}
		}
	}
	return string(code), nil
}

// NormalizeShareCode makes a user-typed code comparable with stored codes.
func NormalizeShareCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// ValidShareCode reports whether code is a well-formed, normalized share code.
func ValidShareCode(code string) bool {
	if len(code) != models.ShareCodeLength {
		return false
	}
	for i := 0; i < len(code); i++ {
		if !strings.ContainsRune(shareCodeAlphabet, rune(code[i])) {
			return false
		}
	}
	return true
}
