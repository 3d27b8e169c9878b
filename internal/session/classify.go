package session

import (
	"errors"

	"github.com/nox-hq/sentinel/internal/pathguard"
	"github.com/nox-hq/sentinel/internal/permission"
	"github.com/nox-hq/sentinel/internal/provenance"
	"github.com/nox-hq/sentinel/internal/sandbox"
	"github.com/nox-hq/sentinel/internal/tools"
)

// classifyErr maps any error a handler, the arbitrator, or the provenance
// tracker can return to the canonical ErrorKind vocabulary every component
// in the defense stack shares. An error this function does not recognize
// becomes internal_error rather than leaking a raw Go error string into the
// model's context.
func classifyErr(err error) sandbox.ErrorKind {
	var sandboxErr *sandbox.Error
	if errors.As(err, &sandboxErr) {
		return sandboxErr.Kind
	}

	var pathErr *pathguard.Error
	if errors.As(err, &pathErr) {
		return sandbox.ErrorKind(pathErr.Kind)
	}

	switch {
	case errors.Is(err, permission.ErrPermissionDenied):
		return sandbox.PermissionDenied
	case errors.Is(err, provenance.ErrProvenanceBlocked):
		return sandbox.ProvenanceBlocked
	case errors.Is(err, tools.ErrAmbiguousMatch):
		return sandbox.AmbiguousMatch
	case errors.Is(err, tools.ErrNoMatch):
		return sandbox.NotFound
	default:
		return sandbox.InternalError
	}
}
