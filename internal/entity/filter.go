package entity

import (
	"net/url"
	"strings"
)

// Query parameter names shared by the CRM API and the served views.
const (
	ParamSalesAgent = "salesAgent"
	ParamStatus     = "status"
	ParamPriority   = "priority"
	ParamSortBy     = "sortBy"
	ParamSortOrder  = "sortOrder"
)

type SortField string

const (
	SortNone        SortField = ""
	SortTimeToClose SortField = "timeToClose"
	SortPriority    SortField = "priority"
	SortCreatedAt   SortField = "createdAt"
	SortName        SortField = "name"
)

var SortFields = []SortField{SortTimeToClose, SortPriority, SortCreatedAt, SortName}

func (f SortField) Valid() bool {
	for _, v := range SortFields {
		if v == f {
			return true
		}
	}
	return f == SortNone
}

type SortOrder string

const (
	SortAsc  SortOrder = "asc"
	SortDesc SortOrder = "desc"
)

// FilterSpec is the ephemeral lead list view state. Empty fields impose no
// constraint; SortOrder defaults to ascending.
type FilterSpec struct {
	SalesAgent string     `json:"salesAgent,omitempty"`
	Status     LeadStatus `json:"status,omitempty"`
	Priority   Priority   `json:"priority,omitempty"`
	SortBy     SortField  `json:"sortBy,omitempty"`
	SortOrder  SortOrder  `json:"sortOrder,omitempty"`
}

// Descending reports whether the filter asks for reversed order.
func (f FilterSpec) Descending() bool {
	return f.SortOrder == SortDesc
}

// IsEmpty reports whether no filter and no sort is active.
func (f FilterSpec) IsEmpty() bool {
	return len(f.Params()) == 0
}

// Params returns the non-empty fields keyed by their query parameter name.
func (f FilterSpec) Params() map[string]string {
	out := make(map[string]string, 5)
	put := func(k, v string) {
		if v != "" {
			out[k] = v
		}
	}
	put(ParamSalesAgent, f.SalesAgent)
	put(ParamStatus, string(f.Status))
	put(ParamPriority, string(f.Priority))
	put(ParamSortBy, string(f.SortBy))
	put(ParamSortOrder, string(f.SortOrder))
	return out
}

// Values returns the filter as url.Values for an outgoing request.
func (f FilterSpec) Values() url.Values {
	v := url.Values{}
	for k, val := range f.Params() {
		v.Set(k, val)
	}
	return v
}

// QueryString renders the filter as a shareable "?k=v" string.
func (f FilterSpec) QueryString() string {
	return BuildQueryString(f.Params())
}

// With returns a copy of f with key set to value. An empty value clears
// the key; unknown keys leave f unchanged.
func (f FilterSpec) With(key, value string) FilterSpec {
	switch key {
	case ParamSalesAgent:
		f.SalesAgent = value
	case ParamStatus:
		f.Status = LeadStatus(value)
	case ParamPriority:
		f.Priority = Priority(value)
	case ParamSortBy:
		f.SortBy = SortField(value)
	case ParamSortOrder:
		f.SortOrder = SortOrder(value)
	}
	return f
}

// FilterFromParams builds a filter from flat parameters. Unknown keys are
// ignored.
func FilterFromParams(params map[string]string) FilterSpec {
	var f FilterSpec
	for k, v := range params {
		f = f.With(k, strings.TrimSpace(v))
	}
	return f
}

// FilterFromQuery builds a filter from request query values.
func FilterFromQuery(q url.Values) FilterSpec {
	params := make(map[string]string, len(q))
	for k := range q {
		params[k] = q.Get(k)
	}
	return FilterFromParams(params)
}

// ParseQueryString turns "?a=1&b=2" (leading "?" optional) into a flat map.
// When a key repeats, the last value wins.
func ParseQueryString(s string) map[string]string {
	out := map[string]string{}
	s = strings.TrimPrefix(s, "?")
	if s == "" {
		return out
	}
	values, err := url.ParseQuery(s)
	if err != nil && len(values) == 0 {
		return out
	}
	for k, vs := range values {
		if len(vs) > 0 {
			out[k] = vs[len(vs)-1]
		}
	}
	return out
}

// BuildQueryString renders params as "?k=v&…", skipping empty values. It
// returns "" when nothing remains.
func BuildQueryString(params map[string]string) string {
	v := url.Values{}
	for k, val := range params {
		if val != "" {
			v.Set(k, val)
		}
	}
	encoded := v.Encode()
	if encoded == "" {
		return ""
	}
	return "?" + encoded
}
