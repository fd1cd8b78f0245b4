package crmapi

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/xavierca1/leadboard/internal/entity"
)

func TestTransformDatesRecursesAndKeepsBadValues(t *testing.T) {
	in := map[string]any{
		"createdAt": "2024-01-02T03:04:05Z",
		"dueDate":   "2024-02-10",
		"closedAt":  "someday",
		"name":      "2024-01-02",
		"nested": []any{
			map[string]any{"updatedAt": "2024-01-03T00:00:00.123Z"},
		},
	}

	out := TransformDates(in).(map[string]any)

	assert.Equal(t, time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC), out["createdAt"])
	assert.Equal(t, time.Date(2024, 2, 10, 0, 0, 0, 0, time.UTC), out["dueDate"])
	assert.Equal(t, "someday", out["closedAt"])
	assert.Equal(t, "2024-01-02", out["name"])

	nested := out["nested"].([]any)[0].(map[string]any)
	assert.IsType(t, time.Time{}, nested["updatedAt"])
}

func TestCanonicalIDPrefersUnderscore(t *testing.T) {
	assert.Equal(t, "a", canonicalID(map[string]any{"_id": "a", "id": "b"}))
	assert.Equal(t, "b", canonicalID(map[string]any{"id": "b"}))
	assert.Equal(t, "42", canonicalID(map[string]any{"id": float64(42)}))
	assert.Equal(t, "", canonicalID(map[string]any{}))
}

func TestClassifyResponseNotFound(t *testing.T) {
	e := ClassifyResponse(404, map[string]any{"error": "Lead not found"})

	assert.Equal(t, entity.KindNotFound, e.Kind)
	assert.Equal(t, "Lead not found", e.Message)
}

func TestLeadFromRecordWithoutTimeToClose(t *testing.T) {
	lead := LeadFromRecord(map[string]any{"_id": "x", "name": "No estimate"})

	assert.False(t, lead.HasTimeToClose())
	assert.Nil(t, lead.SalesAgent)
	assert.Empty(t, lead.Tags)
}
