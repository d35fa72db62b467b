package handlers

import (
	"mime"
	"net/http"

	"github.com/pocketbase/pocketbase/core"
)

// RequireJSONBody rejects requests whose body is not declared as JSON with
// 415, before the handler reads it. A missing Content-Type is accepted so
// plain curl requests keep working.
func RequireJSONBody() func(e *core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		ct := e.Request.Header.Get("Content-Type")
		if ct == "" {
			return e.Next()
		}
		mediaType, _, err := mime.ParseMediaType(ct)
		if err != nil || mediaType != "application/json" {
			return jsonError(e, http.StatusUnsupportedMediaType, "Content-Type must be application/json")
		}
		return e.Next()
	}
}
