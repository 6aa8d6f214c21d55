package httpx_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Gunvolt24/orders_api/pkg/httpx"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// Утилита для создания *gin.Context с query-строкой
func ctxWithQuery(rawQuery string) *gin.Context {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/?"+rawQuery, http.NoBody)
	c, _ := gin.CreateTestContext(w)
	c.Request = req
	return c
}

func TestParseUUIDList(t *testing.T) {
	t.Parallel()

	a := uuid.MustParse("6f1c7f3a-1c1e-4a55-9a55-0c1f0b1d2e3f")
	b := uuid.MustParse("0b5f2b1e-8c9d-4e3f-a1b2-c3d4e5f60718")

	tests := []struct {
		name        string
		rawQuery    string
		wantIDs     []uuid.UUID
		wantPresent bool
		wantErr     bool
	}{
		{"absent", "", nil, false, false},
		{"other_param_only", "foo=bar", nil, false, false},
		{"present_empty", "orderIds=", []uuid.UUID{}, true, false},
		{"single", "orderIds=" + a.String(), []uuid.UUID{a}, true, false},
		{"repeated", "orderIds=" + a.String() + "&orderIds=" + b.String(), []uuid.UUID{a, b}, true, false},
		{"comma_separated", "orderIds=" + a.String() + "," + b.String(), []uuid.UUID{a, b}, true, false},
		{"spaces_and_empty_parts", "orderIds=" + a.String() + ",%20,", []uuid.UUID{a}, true, false},
		{"invalid", "orderIds=not-a-uuid", nil, true, true},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			ids, present, err := httpx.ParseUUIDList(ctxWithQuery(tt.rawQuery), "orderIds")
			if (err != nil) != tt.wantErr {
				t.Fatalf("err=%v, wantErr=%v", err, tt.wantErr)
			}
			if present != tt.wantPresent {
				t.Fatalf("present=%v, want %v", present, tt.wantPresent)
			}
			if tt.wantErr {
				return
			}
			if len(ids) != len(tt.wantIDs) {
				t.Fatalf("ids=%v, want %v", ids, tt.wantIDs)
			}
			for i := range ids {
				if ids[i] != tt.wantIDs[i] {
					t.Fatalf("ids[%d]=%s, want %s", i, ids[i], tt.wantIDs[i])
				}
			}
		})
	}
}
