package middleware

import (
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/ehr/recordspanel/internal/platform/auth"
)

// auditEntry records who touched patient records, when and how.
type auditEntry struct {
	UserID     string
	Email      string
	UserRoles  []string
	Resource   string
	RecordID   string
	Action     string
	IPAddress  string
	UserAgent  string
	Path       string
	Method     string
	Timestamp  time.Time
	RequestID  string
	StatusCode int
}

// Audit logs every /api/v1 request as a structured "record_access" event.
func Audit(logger zerolog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			path := req.URL.Path
			if !strings.HasPrefix(path, "/api/v1/") {
				return next(c)
			}

			err := next(c)

			entry := auditEntry{
				Timestamp:  time.Now().UTC(),
				Path:       path,
				Method:     req.Method,
				IPAddress:  c.RealIP(),
				UserAgent:  req.UserAgent(),
				StatusCode: c.Response().Status,
				Resource:   resourceOf(path),
				RecordID:   c.Param("id"),
				Action:     actionOf(req.Method, path),
			}
			if he, ok := err.(*echo.HTTPError); ok {
				entry.StatusCode = he.Code
			}
			// Auth middleware further down the chain replaces the request.
			ctx := c.Request().Context()
			entry.UserID = auth.UserIDFromContext(ctx)
			entry.Email = auth.EmailFromContext(ctx)
			entry.UserRoles = auth.RolesFromContext(ctx)
			if rid, ok := c.Get("request_id").(string); ok {
				entry.RequestID = rid
			}

			logger.Info().
				Str("type", "audit").
				Time("at", entry.Timestamp).
				Str("request_id", entry.RequestID).
				Str("user_id", entry.UserID).
				Str("email", entry.Email).
				Strs("user_roles", entry.UserRoles).
				Str("resource", entry.Resource).
				Str("record_id", entry.RecordID).
				Str("action", entry.Action).
				Str("method", entry.Method).
				Str("path", entry.Path).
				Str("remote_ip", entry.IPAddress).
				Str("user_agent", entry.UserAgent).
				Int("status", entry.StatusCode).
				Msg("record_access")

			return err
		}
	}
}

// resourceOf returns the first path segment after /api/v1/.
func resourceOf(path string) string {
	seg, _, _ := strings.Cut(strings.TrimPrefix(path, "/api/v1/"), "/")
	if seg == "" {
		return "unknown"
	}
	return seg
}

// actionOf names what a dashboard request does to the records.
func actionOf(method, path string) string {
	switch {
	case strings.HasSuffix(path, "/export.xlsx"):
		return "export"
	case strings.HasSuffix(path, "/submit"):
		return "save"
	case strings.HasSuffix(path, "/edit"), strings.HasSuffix(path, "/draft"), strings.HasSuffix(path, "/cancel-edit"):
		return "edit"
	case strings.HasSuffix(path, "/refresh"):
		return "read"
	}
	switch method {
	case http.MethodPost:
		return "create"
	case http.MethodPut, http.MethodPatch:
		return "update"
	case http.MethodDelete:
		return "delete"
	default:
		return "read"
	}
}
