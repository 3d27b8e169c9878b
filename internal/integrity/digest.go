package integrity

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
)

// Digest is a content-addressable SHA-256 digest in "sha256:<hex>" form, kept
// close to the teacher's registry/trust.Digest shape since it solves exactly
// the same problem: identify a file's content unambiguously.
type Digest struct {
	Hex string
}

// String returns the digest in "sha256:<hex>" form.
func (d Digest) String() string { return "sha256:" + d.Hex }

// ComputeDigest returns the SHA-256 digest of data.
func ComputeDigest(data []byte) Digest {
	h := sha256.Sum256(data)
	return Digest{Hex: hex.EncodeToString(h[:])}
}

// ComputeFileDigest reads path and returns its SHA-256 digest.
func ComputeFileDigest(path string) (Digest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Digest{}, fmt.Errorf("reading %s: %w", path, err)
	}
	return ComputeDigest(data), nil
}

// VerifyDigest reports whether data's SHA-256 digest matches expectedHex.
func VerifyDigest(data []byte, expectedHex string) bool {
	return ComputeDigest(data).Hex == expectedHex
}
