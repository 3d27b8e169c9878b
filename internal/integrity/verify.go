package integrity

import (
	"crypto/hmac"
	"fmt"
)

// Violation describes a single trust-root check that failed verification.
type Violation struct {
	Path    string
	Message string
}

func (v Violation) Error() string { return fmt.Sprintf("%s: %s", v.Path, v.Message) }

// VerifyResult is the outcome of re-verifying a Manifest: whether the HMAC
// tag matches, and which individual trust-root files (if any) no longer
// match their recorded digest.
type VerifyResult struct {
	HMACValid  bool
	Violations []Violation
}

// OK reports whether the manifest passed verification with no violations.
func (r VerifyResult) OK() bool { return r.HMACValid && len(r.Violations) == 0 }

// Verifier re-verifies a Manifest against the live filesystem and the
// operator's passphrase. It is the direct generalization of the teacher's
// registry/trust.Verifier, with Ed25519 signature verification replaced by
// HMAC/PBKDF2 recomputation — there is no counterparty key to verify against
// here, only the operator's own passphrase.
type Verifier struct{}

// NewVerifier returns a Verifier. It carries no state: every call to Verify
// is a pure function of the Manifest and passphrase given to it.
func NewVerifier() *Verifier { return &Verifier{} }

// Verify recomputes each entry's digest and the manifest's HMAC tag and
// reports any mismatch. The HMAC is recomputed over the entries recorded in
// the manifest, so HMACValid=false means a wrong passphrase or an edited
// manifest; a trust-root file changed on disk leaves the HMAC valid and is
// reported by path as a per-file digest violation.
func (v *Verifier) Verify(m *Manifest, passphrase string) VerifyResult {
	result := VerifyResult{}

	for _, e := range m.Entries {
		digest, err := ComputeFileDigest(e.Path)
		if err != nil {
			result.Violations = append(result.Violations, Violation{Path: e.Path, Message: err.Error()})
			continue
		}
		if digest.Hex != e.SHA256 {
			result.Violations = append(result.Violations, Violation{
				Path:    e.Path,
				Message: "content no longer matches the manifest's recorded digest",
			})
		}
	}

	key := deriveKey(passphrase, m.Salt, m.Iterations)
	expected := computeHMAC(key, m.Entries)
	result.HMACValid = hmac.Equal(expected, m.HMAC)
	if !result.HMACValid {
		result.Violations = append(result.Violations, Violation{
			Path:    "<manifest>",
			Message: "HMAC tag does not match recomputed value",
		})
	}

	return result
}
