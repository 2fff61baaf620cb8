package response

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func performRequest(handler gin.HandlerFunc) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest("GET", "/test", nil)
	handler(c)
	return w
}

func parseBody(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("failed to parse response: %v", err)
	}
	return body
}

func TestSuccess(t *testing.T) {
	w := performRequest(func(c *gin.Context) {
		Success(c, gin.H{"projectId": "p1"})
	})

	if w.Code != http.StatusOK {
		t.Errorf("expected status %d, got %d", http.StatusOK, w.Code)
	}

	body := parseBody(t, w)
	if body["status"] != StatusSuccess {
		t.Errorf("expected status %q, got %v", StatusSuccess, body["status"])
	}
	if body["projectId"] != "p1" {
		t.Errorf("expected projectId p1, got %v", body["projectId"])
	}
}

func TestSuccess_DoesNotMutateInput(t *testing.T) {
	result := gin.H{"id": "x"}
	performRequest(func(c *gin.Context) { Success(c, result) })
	if _, ok := result["status"]; ok {
		t.Error("Success should not write status into the caller's map")
	}
}

func TestCreated(t *testing.T) {
	w := performRequest(func(c *gin.Context) {
		Created(c, gin.H{"id": "r1"})
	})

	if w.Code != http.StatusCreated {
		t.Errorf("expected status %d, got %d", http.StatusCreated, w.Code)
	}
	if body := parseBody(t, w); body["id"] != "r1" || body["status"] != StatusSuccess {
		t.Errorf("unexpected body %v", body)
	}
}

func TestList_NilIsEmptyArray(t *testing.T) {
	w := performRequest(func(c *gin.Context) {
		var items []string
		List(c, items)
	})

	if w.Body.String() != "[]" {
		t.Errorf("expected [], got %s", w.Body.String())
	}
}

func TestError_WithAppError(t *testing.T) {
	tests := []struct {
		name           string
		err            *AppError
		expectedStatus int
	}{
		{"bad request", NewBadRequest("invalid input"), http.StatusBadRequest},
		{"unauthorized", NewUnauthorized("missing token"), http.StatusUnauthorized},
		{"forbidden", NewForbidden("access denied"), http.StatusForbidden},
		{"not found", NewNotFound("project not found"), http.StatusNotFound},
		{"conflict", NewConflict("already accepted"), http.StatusConflict},
		{"server error", NewServerError("db error"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := performRequest(func(c *gin.Context) {
				Error(c, tt.err)
			})

			if w.Code != tt.expectedStatus {
				t.Errorf("expected HTTP status %d, got %d", tt.expectedStatus, w.Code)
			}
			body := parseBody(t, w)
			if body["error"] != tt.err.Message {
				t.Errorf("expected error %q, got %v", tt.err.Message, body["error"])
			}
			if _, ok := body["status"]; ok {
				t.Error("error bodies must not carry a status field")
			}
		})
	}
}

func TestError_WithWrappedAppError(t *testing.T) {
	wrapped := errors.Join(errors.New("context"), NewForbidden("denied"))
	w := performRequest(func(c *gin.Context) {
		Error(c, wrapped)
	})

	if w.Code != http.StatusForbidden {
		t.Errorf("expected HTTP status %d, got %d", http.StatusForbidden, w.Code)
	}
}

func TestError_WithGenericError(t *testing.T) {
	w := performRequest(func(c *gin.Context) {
		Error(c, errors.New("something broke"))
	})

	if w.Code != http.StatusInternalServerError {
		t.Errorf("expected HTTP status %d, got %d", http.StatusInternalServerError, w.Code)
	}
	if body := parseBody(t, w); body["error"] != "something broke" {
		t.Errorf("unexpected body %v", body)
	}
}

func TestIsCode(t *testing.T) {
	if !IsCode(NewNotFound("x"), CodeNotFound) {
		t.Error("expected not-found code match")
	}
	if IsCode(errors.New("plain"), CodeNotFound) {
		t.Error("plain error should not match")
	}
}

func TestAppError_ImplementsError(t *testing.T) {
	var err error = NewBadRequest("test error")
	if err.Error() != "test error" {
		t.Errorf("expected 'test error', got %q", err.Error())
	}
}

func TestData(t *testing.T) {
	w := performRequest(func(c *gin.Context) {
		Data(c, struct {
			ID string `json:"id"`
		}{ID: "f1"})
	})

	if w.Code != http.StatusOK || w.Body.String() != `{"id":"f1"}` {
		t.Errorf("unexpected response %d %s", w.Code, w.Body.String())
	}
}
