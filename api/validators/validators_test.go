package validators

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"unicode/utf8"

	pkgerrors "github.com/angelmondragon/darkstore-backend/pkg/errors"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type samplePayload struct {
	Name     string `json:"name" validate:"required"`
	Quantity int    `json:"quantity" validate:"gte=0"`
}

func TestDecodeJSONBody(t *testing.T) {
	var ok samplePayload
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":"Milk","quantity":3}`))
	require.NoError(t, DecodeJSONBody(req, &ok))
	assert.Equal(t, "Milk", ok.Name)

	var invalid samplePayload
	req = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"quantity":-1}`))
	err := DecodeJSONBody(req, &invalid)
	require.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))
	details, _ := pkgerrors.As(err).Details().(map[string]string)
	assert.Equal(t, "is required", details["name"])
	assert.Equal(t, "must be 0 or more", details["quantity"])

	req = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":"x","extra":1}`))
	assert.True(t, pkgerrors.IsCode(DecodeJSONBody(req, &samplePayload{}), pkgerrors.CodeValidation))

	req = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(``))
	assert.True(t, pkgerrors.IsCode(DecodeJSONBody(req, &samplePayload{}), pkgerrors.CodeValidation))
}

func withParam(key, value string) *http.Request {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rc := chi.NewRouteContext()
	rc.URLParams.Add(key, value)
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rc))
}

func TestPathParams(t *testing.T) {
	id, err := ParseIntParam(withParam("id", "12"), "id")
	require.NoError(t, err)
	assert.Equal(t, 12, id)

	_, err = ParseIntParam(withParam("id", "abc"), "id")
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))

	_, err = ParseUUIDParam(withParam("id", "nope"), "id")
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))

	value, err := ParseStringParam(withParam("id", " ORD-7801 "), "id")
	require.NoError(t, err)
	assert.Equal(t, "ORD-7801", value)
}

func TestSanitizeString(t *testing.T) {
	assert.Equal(t, "abc", SanitizeString("  abcdef ", 3))
	assert.Equal(t, "abcdef", SanitizeString("abcdef", 0))
}

func TestSanitizeStringKeepsRunesWhole(t *testing.T) {
	assert.Equal(t, "Zo", SanitizeString("Zoë Saldana", 3))
	assert.Equal(t, "Zoë", SanitizeString("Zoë Saldana", 4))
	got := SanitizeString("日本語", 4)
	assert.Equal(t, "日", got)
	assert.True(t, utf8.ValidString(got))
}
