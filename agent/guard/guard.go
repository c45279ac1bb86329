// Package guard enforces the tenant boundary: a tool handler must never hand
// back data owned by a different advisor, regardless of what the model asked
// for.
package guard

import (
	"fmt"

	"github.com/rs/zerolog/log"

	contractx "github.com/fairmontlabs/advisor-assistant/agent/contract"
)

// BelongsTo reports whether the resource owner and the caller are the same
// advisor. A zero owner never matches.
func BelongsTo(owner, caller contractx.Identity) bool {
	return owner != 0 && owner == caller
}

// Require fails closed: on mismatch it emits an audit entry naming both
// identities and returns an error wrapping contract.ErrUnauthorized.
func Require(resource string, owner, caller contractx.Identity) error {
	if BelongsTo(owner, caller) {
		return nil
	}

	log.Warn().
		Str("resource", resource).
		Int64("owner_id", int64(owner)).
		Int64("caller_id", int64(caller)).
		Msg("cross-tenant access denied")

	return fmt.Errorf("%w: %s belongs to another advisor", contractx.ErrUnauthorized, resource)
}
