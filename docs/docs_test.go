package docs

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/swaggo/swag"
)

func TestSwaggerDocumentListsRoutes(t *testing.T) {
	raw, err := swag.ReadDoc(SwaggerInfo.InstanceName())
	require.NoError(t, err)

	var doc struct {
		BasePath    string                                `json:"basePath"`
		Paths       map[string]map[string]json.RawMessage `json:"paths"`
		Definitions map[string]json.RawMessage            `json:"definitions"`
	}
	require.NoError(t, json.Unmarshal([]byte(raw), &doc))

	assert.Equal(t, "/api/v1", doc.BasePath)
	assert.Contains(t, doc.Paths["/slots/generate"], "post")
	assert.Contains(t, doc.Paths["/slots/{id}/book"], "post")
	assert.Contains(t, doc.Paths["/appointments/{id}/status"], "patch")
	assert.Contains(t, doc.Paths["/holidays"], "get")
	assert.Contains(t, doc.Definitions, "domain.Slot")
	assert.Contains(t, doc.Definitions, "rest.errorResponseBody")
}
