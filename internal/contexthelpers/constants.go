package contexthelpers

type contextKey string

const slotContextKey = contextKey("slot")
const currentPathContextKey = contextKey("currentPath")
const csrfTokenContextKey = contextKey("csrfToken")
const cspNonceContextKey = contextKey("cspNonce")
