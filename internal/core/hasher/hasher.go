package hasher

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
)

const sha256Prefix = "sha256:"

// CalculateSHA256 computes the SHA256 hash of the given content
// and returns it in the format "sha256:<hex_hash>".
func CalculateSHA256(content []byte) (string, error) {
	hasher := sha256.New()
	if _, err := hasher.Write(content); err != nil {
		return "", fmt.Errorf("failed to write content to hasher: %w", err)
	}
	return sha256Prefix + hex.EncodeToString(hasher.Sum(nil)), nil
}

// Verify reports whether content hashes to expected, a value produced by
// CalculateSHA256. Hex digits are compared ignoring case.
func Verify(content []byte, expected string) (bool, error) {
	if !strings.HasPrefix(expected, sha256Prefix) {
		return false, fmt.Errorf("unsupported hash format %q: expected %s<hex>", expected, sha256Prefix)
	}
	actual, err := CalculateSHA256(content)
	if err != nil {
		return false, err
	}
	return strings.EqualFold(actual, expected), nil
}
