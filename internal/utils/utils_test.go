package utils

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserContext(t *testing.T) {
	t.Run("SetUserContext and getters", func(t *testing.T) {
		ctx := SetUserContext(context.Background(), 100, "paula@example.com", RoleAdmin)

		id, ok := GetUserIDFromContext(ctx)
		assert.True(t, ok)
		assert.Equal(t, uint(100), id)
		assert.Equal(t, "paula@example.com", GetUserEmailFromContext(ctx))
		assert.Equal(t, RoleAdmin, GetUserRoleFromContext(ctx))
		assert.True(t, IsAdmin(ctx))
	})

	t.Run("Empty context", func(t *testing.T) {
		_, ok := GetUserIDFromContext(context.Background())
		assert.False(t, ok)
		assert.False(t, IsAdmin(context.Background()))
	})
}

func TestIsInternalRequest(t *testing.T) {
	assert.False(t, IsInternalRequest(context.Background()))
	assert.True(t, IsInternalRequest(WithInternalRequest(context.Background())))
}

func TestSlugify(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Ravioles de Carne", "ravioles-de-carne"},
		{"  Ñoquis de Papa  ", "noquis-de-papa"},
		{"Sorrentinos (jamón & queso)", "sorrentinos-jamon-queso"},
		{"--Salsa--Bolognesa--", "salsa-bolognesa"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, Slugify(tt.in))
		})
	}
}

func TestQueryInt(t *testing.T) {
	req := httptest.NewRequest("GET", "/?limit=15&page=abc&neg=-3", nil)
	assert.Equal(t, 15, QueryInt(req, "limit", 20))
	assert.Equal(t, 1, QueryInt(req, "page", 1))
	assert.Equal(t, 7, QueryInt(req, "neg", 7))
	assert.Equal(t, 9, QueryInt(req, "missing", 9))
}

func TestWriteError(t *testing.T) {
	w := httptest.NewRecorder()
	WriteError(w, http.StatusBadRequest, "validation failed", []string{"buyer.email is required"})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))

	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "validation failed", body["error"])
	assert.Equal(t, []any{"buyer.email is required"}, body["details"])
}

func TestWriteJSONError(t *testing.T) {
	w := httptest.NewRecorder()
	WriteJSONError(w, "not found", http.StatusNotFound)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.JSONEq(t, `{"error":"not found"}`, w.Body.String())
}

func TestDecodeJSON(t *testing.T) {
	t.Run("Valid", func(t *testing.T) {
		req := httptest.NewRequest("POST", "/", strings.NewReader(`{"name":"tallarines"}`))
		var v struct {
			Name string `json:"name"`
		}
		require.NoError(t, DecodeJSON(req, &v))
		assert.Equal(t, "tallarines", v.Name)
	})

	t.Run("Invalid", func(t *testing.T) {
		req := httptest.NewRequest("POST", "/", strings.NewReader(`{invalid`))
		var v map[string]any
		err := DecodeJSON(req, &v)
		assert.ErrorIs(t, err, ErrInvalidBody)
	})
}
