package docs_test

import (
	"encoding/json"
	"go/ast"
	"go/parser"
	"go/token"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/swaggo/swag"

	"github.com/SscSPs/general_ledger/cmd/docs"
)

func TestSwaggerDocRegistered(t *testing.T) {
	raw, err := swag.ReadDoc(docs.SwaggerInfo.InstanceName())
	require.NoError(t, err)

	var doc struct {
		Info struct {
			Title string `json:"title"`
		} `json:"info"`
		BasePath            string                     `json:"basePath"`
		Paths               map[string]json.RawMessage `json:"paths"`
		SecurityDefinitions map[string]json.RawMessage `json:"securityDefinitions"`
	}
	require.NoError(t, json.Unmarshal([]byte(raw), &doc))
	assert.Equal(t, "General Ledger API", doc.Info.Title)
	assert.Equal(t, "/api/v1", doc.BasePath)
	assert.NotNil(t, doc.Paths)
	assert.Contains(t, doc.SecurityDefinitions, "BearerAuth")
}

func TestTemplateIsNotMarkedGenerated(t *testing.T) {
	f, err := parser.ParseFile(token.NewFileSet(), "docs.go", nil, parser.ParseComments|parser.PackageClauseOnly)
	require.NoError(t, err)
	assert.False(t, ast.IsGenerated(f), "a hand-maintained template must not claim to be generated")
}
