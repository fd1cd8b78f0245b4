// Package pipeline turns a lead collection and a FilterSpec into an ordered,
// optionally grouped view. Every function here is pure: inputs are never
// modified and no state survives a call.
package pipeline

import (
	"cmp"
	"math"
	"slices"
	"time"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/xavierca1/leadboard/internal/entity"
)

type GroupMode int

const (
	GroupNone GroupMode = iota
	GroupByStatus
	GroupByAgent
)

// Options are chosen by the calling view, not by the user's filter.
type Options struct {
	Mode GroupMode
	// GroupOrder, when set, reorders the groups themselves by the smallest
	// timeToClose among their members. Empty groups always go last.
	GroupOrder entity.SortOrder
}

type StatusGroup struct {
	Status entity.LeadStatus `json:"status"`
	Leads  []entity.Lead     `json:"leads"`
}

type AgentGroup struct {
	Agent entity.Agent  `json:"agent"`
	Leads []entity.Lead `json:"leads"`
}

type Result struct {
	Leads    []entity.Lead `json:"leads"`
	ByStatus []StatusGroup `json:"byStatus,omitempty"`
	ByAgent  []AgentGroup  `json:"byAgent,omitempty"`

	// Query is the canonical query string of the filter behind the view.
	Query    string `json:"query"`
	Filtered bool   `json:"filtered"`
	// Clear maps each active parameter to the query string without it.
	Clear map[string]string `json:"clear,omitempty"`
}

// View runs filter, sort and the requested grouping, in that order.
func View(leads []entity.Lead, agents []entity.Agent, spec entity.FilterSpec, opts Options) Result {
	res := Result{
		Leads:    Sort(Filter(leads, spec), spec),
		Query:    spec.QueryString(),
		Filtered: !spec.IsEmpty(),
		Clear:    clearLinks(spec),
	}

	switch opts.Mode {
	case GroupByStatus:
		res.ByStatus = GroupByStatusOf(res.Leads)
		if opts.GroupOrder != "" {
			SortGroups(res.ByStatus, func(g StatusGroup) []entity.Lead { return g.Leads }, opts.GroupOrder == entity.SortDesc)
		}
	case GroupByAgent:
		res.ByAgent = GroupByAgentOf(res.Leads, agents)
		if opts.GroupOrder != "" {
			SortGroups(res.ByAgent, func(g AgentGroup) []entity.Lead { return g.Leads }, opts.GroupOrder == entity.SortDesc)
		}
	}
	return res
}

func clearLinks(spec entity.FilterSpec) map[string]string {
	if spec.IsEmpty() {
		return nil
	}
	params := spec.Params()
	out := make(map[string]string, len(params))
	for key := range params {
		out[key] = spec.With(key, "").QueryString()
	}
	return out
}

// Filter keeps the leads matching every non-empty predicate of spec.
func Filter(leads []entity.Lead, spec entity.FilterSpec) []entity.Lead {
	out := make([]entity.Lead, 0, len(leads))
	for _, l := range leads {
		if spec.SalesAgent != "" && l.AgentID() != spec.SalesAgent {
			continue
		}
		if spec.Status != "" && l.Status != spec.Status {
			continue
		}
		if spec.Priority != "" && l.Priority != spec.Priority {
			continue
		}
		out = append(out, l)
	}
	return out
}

// Sort returns a stably sorted copy of leads. An empty or unknown SortBy
// keeps the input order.
func Sort(leads []entity.Lead, spec entity.FilterSpec) []entity.Lead {
	out := slices.Clone(leads)
	if out == nil {
		out = []entity.Lead{}
	}

	compare := comparator(spec.SortBy)
	if compare == nil {
		return out
	}
	if spec.Descending() {
		asc := compare
		compare = func(a, b entity.Lead) int { return asc(b, a) }
	}
	slices.SortStableFunc(out, compare)
	return out
}

func comparator(by entity.SortField) func(a, b entity.Lead) int {
	switch by {
	case entity.SortPriority:
		return func(a, b entity.Lead) int {
			return cmp.Compare(a.Priority.Rank(), b.Priority.Rank())
		}
	case entity.SortTimeToClose:
		return func(a, b entity.Lead) int {
			return cmp.Compare(timeToCloseKey(a), timeToCloseKey(b))
		}
	case entity.SortName:
		// collate.Collator keeps internal buffers; one per sort.
		coll := collate.New(language.English)
		return func(a, b entity.Lead) int {
			return coll.CompareString(a.Name, b.Name)
		}
	case entity.SortCreatedAt:
		return func(a, b entity.Lead) int {
			return compareTime(a.CreatedAt, b.CreatedAt)
		}
	default:
		return nil
	}
}

// timeToCloseKey treats a missing estimate as the largest possible value.
func timeToCloseKey(l entity.Lead) int {
	if !l.HasTimeToClose() {
		return math.MaxInt
	}
	return l.TimeToClose
}

func compareTime(a, b time.Time) int {
	switch {
	case a.Before(b):
		return -1
	case a.After(b):
		return 1
	default:
		return 0
	}
}

// GroupByStatusOf buckets leads by status, one bucket per known status in
// display order, empty buckets included. Leads with an unknown status are
// left out of every bucket.
func GroupByStatusOf(leads []entity.Lead) []StatusGroup {
	groups := make([]StatusGroup, len(entity.LeadStatuses))
	for i, s := range entity.LeadStatuses {
		groups[i] = StatusGroup{Status: s, Leads: []entity.Lead{}}
	}
	for _, l := range leads {
		if pos := l.Status.Order(); pos > 0 {
			groups[pos-1].Leads = append(groups[pos-1].Leads, l)
		}
	}
	return groups
}

// GroupByAgentOf buckets leads by agent, one bucket per agent in the given
// order, empty buckets included. Leads whose agent is not in agents are
// dropped from this grouping only.
func GroupByAgentOf(leads []entity.Lead, agents []entity.Agent) []AgentGroup {
	groups := make([]AgentGroup, 0, len(agents))
	index := make(map[string]int, len(agents))
	for _, a := range agents {
		if _, dup := index[a.ID]; dup {
			continue
		}
		index[a.ID] = len(groups)
		groups = append(groups, AgentGroup{Agent: a, Leads: []entity.Lead{}})
	}
	for _, l := range leads {
		if i, ok := index[l.AgentID()]; ok {
			groups[i].Leads = append(groups[i].Leads, l)
		}
	}
	return groups
}

// SortGroups stably reorders groups by the minimum timeToClose of their
// members. A group with no members sorts last in both directions.
func SortGroups[G any](groups []G, members func(G) []entity.Lead, desc bool) {
	key := func(g G) (int, bool) {
		ls := members(g)
		if len(ls) == 0 {
			return 0, false
		}
		lowest := math.MaxInt
		for _, l := range ls {
			lowest = min(lowest, timeToCloseKey(l))
		}
		return lowest, true
	}

	slices.SortStableFunc(groups, func(a, b G) int {
		ka, okA := key(a)
		kb, okB := key(b)
		switch {
		case !okA && !okB:
			return 0
		case !okA:
			return 1
		case !okB:
			return -1
		case desc:
			return cmp.Compare(kb, ka)
		default:
			return cmp.Compare(ka, kb)
		}
	})
}

// StatusCounts tallies leads per status in display order.
func StatusCounts(leads []entity.Lead) []entity.StatusCount {
	groups := GroupByStatusOf(leads)
	out := make([]entity.StatusCount, len(groups))
	for i, g := range groups {
		out[i] = entity.StatusCount{Status: g.Status, Count: len(g.Leads)}
	}
	return out
}
