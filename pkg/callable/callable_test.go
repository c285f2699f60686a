package callable

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func TestCodeWireFormat(t *testing.T) {
	cases := map[Code]struct {
		status string
		http   int
	}{
		Unauthenticated:  {"UNAUTHENTICATED", http.StatusUnauthorized},
		InvalidArgument:  {"INVALID_ARGUMENT", http.StatusBadRequest},
		PermissionDenied: {"PERMISSION_DENIED", http.StatusForbidden},
		Internal:         {"INTERNAL", http.StatusInternalServerError},
	}
	for code, want := range cases {
		if code.Status() != want.status || code.HTTPStatus() != want.http {
			t.Fatalf("%s: got %s/%d", code, code.Status(), code.HTTPStatus())
		}
	}
}

func TestCodeOfUnwraps(t *testing.T) {
	err := fmt.Errorf("verify: %w", NewError(PermissionDenied, "nope"))
	if CodeOf(err) != PermissionDenied {
		t.Fatalf("code = %s", CodeOf(err))
	}
	if CodeOf(errors.New("boom")) != Internal {
		t.Fatalf("plain errors are internal")
	}
}

func TestWriteErrorHidesInternalText(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	WriteError(c, errors.New("dial tcp 10.0.0.1: connection refused"))

	if w.Code != http.StatusInternalServerError {
		t.Fatalf("status %d", w.Code)
	}
	var body map[string]map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body["error"]["status"] != "INTERNAL" || body["error"]["message"] != "internal error" {
		t.Fatalf("unexpected body %s", w.Body.String())
	}
}
