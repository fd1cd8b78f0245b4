package crmapi

import (
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/xavierca1/leadboard/internal/entity"
)

const (
	msgInvalidRequest = "Invalid request data"
	msgNotFound       = "Resource not found"
	msgConflict       = "Resource already exists"
	msgServerError    = "Server error. Please try again later"
	msgNetworkError   = "Network error. Please check your connection"
	msgUnknownError   = "An error occurred"
)

var dateLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05.000Z0700",
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// isDateKey is the field-name heuristic for timestamps: createdAt,
// closedAt, dueDate and friends.
func isDateKey(key string) bool {
	return strings.Contains(key, "At") || strings.Contains(key, "Date")
}

func parseDate(s string) (time.Time, bool) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// TransformDates walks a decoded JSON value and replaces string values under
// date-like keys with time.Time. Strings that do not parse are left as-is.
func TransformDates(v any) any {
	switch val := v.(type) {
	case []any:
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = TransformDates(item)
		}
		return out
	case map[string]any:
		out := make(map[string]any, len(val))
		for k, item := range val {
			if s, ok := item.(string); ok && isDateKey(k) {
				if t, ok := parseDate(s); ok {
					out[k] = t
					continue
				}
				out[k] = s
				continue
			}
			out[k] = TransformDates(item)
		}
		return out
	default:
		return v
	}
}

// ClassifyResponse turns a non-2xx response into a classified error. body
// is the decoded JSON payload and may be nil.
func ClassifyResponse(status int, body map[string]any) *entity.Error {
	e := &entity.Error{
		Kind:   entity.KindForStatus(status),
		Status: status,
		Data:   body,
	}

	bodyErr := stringField(body, "error")
	switch status {
	case http.StatusBadRequest:
		e.Message = firstNonEmpty(bodyErr, msgInvalidRequest)
	case http.StatusNotFound:
		e.Message = firstNonEmpty(bodyErr, msgNotFound)
	case http.StatusConflict:
		e.Message = firstNonEmpty(bodyErr, msgConflict)
	case http.StatusInternalServerError:
		e.Message = msgServerError
	default:
		e.Message = firstNonEmpty(bodyErr, stringField(body, "message"), msgUnknownError)
	}
	return e
}

// NetworkError classifies a request that never produced a response,
// including timeouts.
func NetworkError(err error) *entity.Error {
	return &entity.Error{
		Kind:    entity.KindNetworkError,
		Message: msgNetworkError,
		Err:     err,
	}
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}

// canonicalID collapses the two id shapes the API returns.
func canonicalID(m map[string]any) string {
	if id := scalarString(m["_id"]); id != "" {
		return id
	}
	return scalarString(m["id"])
}

func scalarString(v any) string {
	switch val := v.(type) {
	case string:
		return val
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case json.Number:
		return val.String()
	case nil:
		return ""
	default:
		return fmt.Sprint(val)
	}
}

func stringField(m map[string]any, key string) string {
	if m == nil {
		return ""
	}
	s, _ := m[key].(string)
	return s
}

func intField(m map[string]any, key string) int {
	switch v := m[key].(type) {
	case float64:
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return 0
		}
		return int(v)
	case json.Number:
		n, _ := v.Int64()
		return int(n)
	case string:
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return 0
		}
		return n
	default:
		return 0
	}
}

func timeField(m map[string]any, key string) time.Time {
	t, _ := m[key].(time.Time)
	return t
}

func optionalTime(m map[string]any, key string) *time.Time {
	t, ok := m[key].(time.Time)
	if !ok || t.IsZero() {
		return nil
	}
	return &t
}

func stringsField(m map[string]any, key string) []string {
	raw, ok := m[key].([]any)
	if !ok {
		return []string{}
	}
	out := make([]string, 0, len(raw))
	for _, item := range raw {
		if s, ok := tagName(item); ok {
			out = append(out, s)
		}
	}
	return out
}

// agentRef accepts a bare id or an embedded agent object.
func agentRef(v any) *entity.AgentRef {
	switch val := v.(type) {
	case string:
		if val == "" {
			return nil
		}
		return &entity.AgentRef{ID: val}
	case map[string]any:
		id := canonicalID(val)
		if id == "" {
			return nil
		}
		return &entity.AgentRef{
			ID:    id,
			Name:  stringField(val, "name"),
			Email: stringField(val, "email"),
		}
	default:
		return nil
	}
}

func tagName(v any) (string, bool) {
	switch val := v.(type) {
	case string:
		return val, val != ""
	case map[string]any:
		name := stringField(val, "name")
		return name, name != ""
	default:
		return "", false
	}
}

// LeadFromRecord maps a date-transformed JSON object to a Lead.
func LeadFromRecord(m map[string]any) entity.Lead {
	return entity.Lead{
		ID:          canonicalID(m),
		Name:        stringField(m, "name"),
		Source:      entity.LeadSource(stringField(m, "source")),
		SalesAgent:  agentRef(m["salesAgent"]),
		Status:      entity.LeadStatus(stringField(m, "status")),
		Priority:    entity.Priority(stringField(m, "priority")),
		Tags:        stringsField(m, "tags"),
		TimeToClose: intField(m, "timeToClose"),
		CreatedAt:   timeField(m, "createdAt"),
		UpdatedAt:   timeField(m, "updatedAt"),
		ClosedAt:    optionalTime(m, "closedAt"),
	}
}

func AgentFromRecord(m map[string]any) entity.Agent {
	return entity.Agent{
		ID:        canonicalID(m),
		Name:      stringField(m, "name"),
		Email:     stringField(m, "email"),
		CreatedAt: timeField(m, "createdAt"),
	}
}

// CommentFromRecord maps a comment object; leadID fills in a missing
// owner reference.
func CommentFromRecord(m map[string]any, leadID string) entity.Comment {
	owner := leadID
	if ref := agentRef(m["lead"]); ref != nil {
		owner = ref.ID
	} else if id := stringField(m, "leadId"); id != "" {
		owner = id
	}
	return entity.Comment{
		ID:          canonicalID(m),
		LeadID:      owner,
		Author:      agentRef(m["author"]),
		CommentText: stringField(m, "commentText"),
		CreatedAt:   timeField(m, "createdAt"),
	}
}

func ClosedByAgentFromRecord(m map[string]any) entity.ClosedByAgent {
	row := entity.ClosedByAgent{
		AgentName:   stringField(m, "agentName"),
		ClosedCount: intField(m, "closedCount"),
	}
	if ref := agentRef(m["agent"]); ref != nil {
		row.AgentID = ref.ID
		if row.AgentName == "" {
			row.AgentName = ref.Name
		}
	}
	if row.AgentID == "" {
		row.AgentID = scalarString(m["agentId"])
	}
	return row
}

// records returns the objects of a decoded JSON array. Anything that is not
// an array yields an empty list.
func records(v any) []map[string]any {
	arr, ok := v.([]any)
	if !ok {
		return nil
	}
	out := make([]map[string]any, 0, len(arr))
	for _, item := range arr {
		if m, ok := item.(map[string]any); ok {
			out = append(out, m)
		}
	}
	return out
}

func record(v any) map[string]any {
	m, _ := v.(map[string]any)
	if m == nil {
		return map[string]any{}
	}
	return m
}
