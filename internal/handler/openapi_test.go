package handler_test

import (
	"net/http"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.yaml.in/yaml/v4"

	"github.com/pkordes/serra-caronas/internal/handler"
	"github.com/pkordes/serra-caronas/spec"
)

// TestOpenAPI_DocumentsEveryRoute walks the router and checks that each
// method and path it serves has an operation in the embedded openapi.yaml.
func TestOpenAPI_DocumentsEveryRoute(t *testing.T) {
	var doc struct {
		Paths map[string]map[string]any `yaml:"paths"`
	}
	require.NoError(t, yaml.Unmarshal(spec.OpenAPI, &doc))

	routes := handler.NewServer(handler.Services{}).Routes()
	walked := 0
	err := chi.Walk(routes, func(method, route string, _ http.Handler, _ ...func(http.Handler) http.Handler) error {
		if route != "/" {
			route = strings.TrimSuffix(route, "/")
		}
		if route == "/openapi.yaml" {
			return nil
		}
		walked++
		ops, ok := doc.Paths[route]
		if assert.True(t, ok, "path %s is not documented", route) {
			assert.Contains(t, ops, strings.ToLower(method), "%s %s is not documented", method, route)
		}
		return nil
	})
	require.NoError(t, err)
	assert.Greater(t, walked, 20)
}
