package handlers

import (
	"github.com/pocketbase/pocketbase/core"
)

// apiError writes a JSON error body with the given status. Handlers log
// the underlying cause themselves; the response only carries a message
// safe to show the caller.
func apiError(e *core.RequestEvent, statusCode int, message string) error {
	return e.JSON(statusCode, map[string]string{"error": message})
}

// userKey identifies the workspace a request operates on. Single-tenant
// deployments omit the header and share the "demo" workspace.
func userKey(e *core.RequestEvent) string {
	if key := e.Request.Header.Get("X-User-Key"); key != "" {
		return key
	}
	return "demo"
}
