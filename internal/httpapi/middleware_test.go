package httpapi

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/threerealms/mapserver/internal/auth"
)

func TestBearerToken(t *testing.T) {
	cases := []struct {
		name   string
		header string
		want   string
	}{
		{"valid bearer", "Bearer abc.def.ghi", "abc.def.ghi"},
		{"missing header", "", ""},
		{"wrong scheme", "Basic dXNlcjpwYXNz", ""},
		{"bearer with no token", "Bearer ", ""},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, "/ws", nil)
			if c.header != "" {
				r.Header.Set("Authorization", c.header)
			}
			if got := bearerToken(r); got != c.want {
				t.Errorf("bearerToken() = %q, want %q", got, c.want)
			}
		})
	}
}

func TestClaimsFrom(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/ws", nil)
	if got := claimsFrom(r); got != nil {
		t.Errorf("expected nil claims on a bare request, got %+v", got)
	}

	claims := &auth.Claims{UserID: "u1", Username: "alice"}
	r = r.WithContext(context.WithValue(r.Context(), claimsKey, claims))
	got := claimsFrom(r)
	if got == nil || got.UserID != "u1" {
		t.Errorf("claimsFrom() = %+v, want UserID=u1", got)
	}
}
