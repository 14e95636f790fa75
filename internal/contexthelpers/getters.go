package contexthelpers

import (
	"context"
)

// Slot returns the save slot of the current browser session.
func Slot(ctx context.Context) string {
	slot, ok := ctx.Value(slotContextKey).(string)
	if !ok {
		return ""
	}

	return slot
}

func CurrentPath(ctx context.Context) string {
	currentPath, ok := ctx.Value(currentPathContextKey).(string)
	if !ok {
		return ""
	}

	return currentPath
}

func CSRFToken(ctx context.Context) string {
	csrfToken, ok := ctx.Value(csrfTokenContextKey).(string)
	if !ok {
		return ""
	}

	return csrfToken
}

func CSPNonce(ctx context.Context) string {
	nonce, ok := ctx.Value(cspNonceContextKey).(string)
	if !ok {
		return ""
	}

	return nonce
}
