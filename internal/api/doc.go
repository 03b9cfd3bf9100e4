// Package api exposes learning sessions over HTTP. Handlers translate
// requests into session commands and map internal errors to sanitized JSON
// replies; authentication and tracing live in the middleware subpackage.
package api
