package middleware

import (
	"bytes"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/nexlayer/backend/internal/models"
)

const maxAuditBody = 2000

// AuditLog records every 401/403 response as AUTH_FAILURE and every
// successful authenticated write (POST/PATCH/PUT/DELETE) as AUDIT.
func AuditLog(events EventRecorder) gin.HandlerFunc {
	return func(c *gin.Context) {
		method := c.Request.Method
		write := method == http.MethodPost || method == http.MethodPatch ||
			method == http.MethodPut || method == http.MethodDelete

		var bodySnippet string
		if write && c.Request.Body != nil && !isMultipart(c) {
			bodyBytes, _ := io.ReadAll(io.LimitReader(c.Request.Body, 1<<20))
			c.Request.Body = io.NopCloser(bytes.NewBuffer(bodyBytes))
			bodySnippet = string(bodyBytes)
			if len(bodySnippet) > maxAuditBody {
				bodySnippet = bodySnippet[:maxAuditBody] + "...[truncated]"
			}
			bodySnippet = maskSensitiveFields(bodySnippet)
		}

		c.Next()

		status := c.Writer.Status()
		if status == http.StatusUnauthorized || status == http.StatusForbidden {
			record(events, newSecurityEvent(c, models.SecurityEventAuthFailure, map[string]interface{}{
				"status_code": status,
			}))
			return
		}

		if !write || status >= 400 || GetPrincipal(c) == nil {
			return
		}

		module, action := parseRouteInfo(c.FullPath(), method)
		record(events, newSecurityEvent(c, models.SecurityEventAudit, map[string]interface{}{
			"module": module,
			"action": action,
			"status": status,
			"body":   bodySnippet,
		}))
	}
}

func isMultipart(c *gin.Context) bool {
	return strings.HasPrefix(c.ContentType(), "multipart/")
}

// parseRouteInfo extracts module and action from a Gin route pattern.
// e.g. "/api/projects/:id" + "PATCH" → module="Projects", action="Update"
func parseRouteInfo(fullPath, method string) (module, action string) {
	path := strings.TrimPrefix(fullPath, "/api/")

	module = strings.SplitN(path, "/", 2)[0]
	if module == "" {
		module = "unknown"
	}
	module = titleWords(strings.ReplaceAll(module, "-", " "))

	switch method {
	case http.MethodPost:
		action = "Create"
	case http.MethodPut, http.MethodPatch:
		action = "Update"
	case http.MethodDelete:
		action = "Delete"
	default:
		action = method
	}

	return module, action
}

func titleWords(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}

// maskSensitiveFields replaces sensitive values in JSON body
func maskSensitiveFields(body string) string {
	sensitiveKeys := []string{"password", "secret", "token", "idtoken", "access_token"}
	lower := strings.ToLower(body)
	for _, key := range sensitiveKeys {
		if strings.Contains(lower, key) {
			body = maskJSONValue(body, key)
		}
	}
	return body
}

// maskJSONValue does a best-effort mask of the JSON string value for key.
func maskJSONValue(body, key string) string {
	lower := strings.ToLower(body)
	idx := strings.Index(lower, "\""+key+"\"")
	if idx == -1 {
		return body
	}

	colonIdx := strings.Index(body[idx+len(key)+2:], ":")
	if colonIdx == -1 {
		return body
	}
	valueStart := idx + len(key) + 2 + colonIdx + 1

	for valueStart < len(body) && (body[valueStart] == ' ' || body[valueStart] == '\t') {
		valueStart++
	}
	if valueStart >= len(body) || body[valueStart] != '"' {
		return body
	}

	endQuote := strings.Index(body[valueStart+1:], "\"")
	if endQuote == -1 {
		return body
	}
	return body[:valueStart+1] + "***" + body[valueStart+1+endQuote:]
}
