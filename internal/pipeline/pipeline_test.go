package pipeline_test

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xavierca1/leadboard/internal/entity"
	"github.com/xavierca1/leadboard/internal/pipeline"
)

func lead(id string, opts ...func(*entity.Lead)) entity.Lead {
	l := entity.Lead{ID: id, Name: id, Status: entity.StatusNew, Priority: entity.PriorityMedium, TimeToClose: 10}
	for _, o := range opts {
		o(&l)
	}
	return l
}

func withStatus(s entity.LeadStatus) func(*entity.Lead) { return func(l *entity.Lead) { l.Status = s } }
func withPriority(p entity.Priority) func(*entity.Lead) { return func(l *entity.Lead) { l.Priority = p } }
func withTTC(d int) func(*entity.Lead) { return func(l *entity.Lead) { l.TimeToClose = d } }
func withName(n string) func(*entity.Lead) { return func(l *entity.Lead) { l.Name = n } }
func withAgent(id string) func(*entity.Lead) {
	return func(l *entity.Lead) { l.SalesAgent = &entity.AgentRef{ID: id} }
}
func withCreated(t time.Time) func(*entity.Lead) { return func(l *entity.Lead) { l.CreatedAt = t } }

func ids(leads []entity.Lead) []string {
	out := make([]string, len(leads))
	for i, l := range leads {
		out[i] = l.ID
	}
	return out
}

func sampleLeads() []entity.Lead {
	return []entity.Lead{
		lead("l1", withStatus(entity.StatusNew), withPriority(entity.PriorityLow), withTTC(30), withAgent("a1")),
		lead("l2", withStatus(entity.StatusContacted), withPriority(entity.PriorityHigh), withTTC(5), withAgent("a2")),
		lead("l3", withStatus(entity.StatusQualified), withPriority(entity.PriorityMedium), withTTC(12), withAgent("a1")),
		lead("l4", withStatus(entity.StatusProposalSent), withPriority(entity.PriorityHigh), withTTC(5), withAgent("ghost")),
		lead("l5", withStatus(entity.StatusClosed), withPriority(entity.PriorityLow), withTTC(2), withAgent("a2")),
		lead("l6", withStatus(entity.StatusNew), withPriority(entity.PriorityHigh), withTTC(8)),
	}
}

func TestViewEmptySpecIsIdentity(t *testing.T) {
	leads := sampleLeads()

	res := pipeline.View(leads, nil, entity.FilterSpec{}, pipeline.Options{})

	assert.Equal(t, leads, res.Leads)
	assert.Nil(t, res.ByStatus)
	assert.Nil(t, res.ByAgent)
	assert.Empty(t, res.Query)
	assert.False(t, res.Filtered)
	assert.Nil(t, res.Clear)
}

func TestViewCarriesCanonicalQuery(t *testing.T) {
	spec := entity.FilterSpec{Status: entity.StatusNew, SortBy: entity.SortName}

	res := pipeline.View(sampleLeads(), nil, spec, pipeline.Options{})

	assert.Equal(t, "?sortBy=name&status=New", res.Query)
	assert.True(t, res.Filtered)
	assert.Equal(t, map[string]string{
		entity.ParamStatus: "?sortBy=name",
		entity.ParamSortBy: "?status=New",
	}, res.Clear)
	assert.Equal(t, spec, entity.FilterFromParams(entity.ParseQueryString(res.Query)))
}

func TestViewDoesNotMutateInput(t *testing.T) {
	leads := sampleLeads()
	before := ids(leads)

	pipeline.View(leads, nil, entity.FilterSpec{SortBy: entity.SortTimeToClose, SortOrder: entity.SortDesc}, pipeline.Options{})

	assert.Equal(t, before, ids(leads))
}

func TestFilterByStatusPartitionsCollection(t *testing.T) {
	leads := sampleLeads()
	total := 0

	for _, s := range entity.LeadStatuses {
		got := pipeline.Filter(leads, entity.FilterSpec{Status: s})
		for _, l := range got {
			assert.Equal(t, s, l.Status)
		}
		total += len(got)
	}

	assert.Equal(t, len(leads), total)
}

func TestFilterCombinesWithAnd(t *testing.T) {
	got := pipeline.Filter(sampleLeads(), entity.FilterSpec{
		SalesAgent: "a2",
		Priority:   entity.PriorityHigh,
	})

	assert.Equal(t, []string{"l2"}, ids(got))
}

func TestSortByPriority(t *testing.T) {
	leads := []entity.Lead{
		lead("low", withPriority(entity.PriorityLow)),
		lead("high", withPriority(entity.PriorityHigh)),
		lead("medium", withPriority(entity.PriorityMedium)),
	}

	asc := pipeline.Sort(leads, entity.FilterSpec{SortBy: entity.SortPriority, SortOrder: entity.SortAsc})
	desc := pipeline.Sort(leads, entity.FilterSpec{SortBy: entity.SortPriority, SortOrder: entity.SortDesc})

	assert.Equal(t, []string{"high", "medium", "low"}, ids(asc))
	assert.Equal(t, []string{"low", "medium", "high"}, ids(desc))
}

func TestSortByPriorityUnknownLast(t *testing.T) {
	leads := []entity.Lead{
		lead("odd", withPriority("Urgent")),
		lead("low", withPriority(entity.PriorityLow)),
	}

	got := pipeline.Sort(leads, entity.FilterSpec{SortBy: entity.SortPriority})

	assert.Equal(t, []string{"low", "odd"}, ids(got))
}

func TestSortByTimeToCloseIsStable(t *testing.T) {
	leads := []entity.Lead{
		lead("x", withTTC(7)),
		lead("y", withTTC(3)),
		lead("z", withTTC(7)),
		lead("w", withTTC(3)),
	}

	asc := pipeline.Sort(leads, entity.FilterSpec{SortBy: entity.SortTimeToClose})
	desc := pipeline.Sort(leads, entity.FilterSpec{SortBy: entity.SortTimeToClose, SortOrder: entity.SortDesc})

	assert.Equal(t, []string{"y", "w", "x", "z"}, ids(asc))
	assert.Equal(t, []string{"x", "z", "y", "w"}, ids(desc))
}

func TestSortByTimeToCloseScenario(t *testing.T) {
	leads := []entity.Lead{
		lead("A", withTTC(10), withPriority(entity.PriorityLow)),
		lead("B", withTTC(5), withPriority(entity.PriorityHigh)),
	}

	res := pipeline.View(leads, nil, entity.FilterSpec{SortBy: entity.SortTimeToClose, SortOrder: entity.SortAsc}, pipeline.Options{})

	assert.Equal(t, []string{"B", "A"}, ids(res.Leads))
}

func TestSortMissingTimeToCloseSortsAsLargest(t *testing.T) {
	leads := []entity.Lead{
		lead("none", withTTC(0)),
		lead("big", withTTC(365)),
		lead("small", withTTC(1)),
	}

	got := pipeline.Sort(leads, entity.FilterSpec{SortBy: entity.SortTimeToClose})

	assert.Equal(t, []string{"small", "big", "none"}, ids(got))
}

func TestSortByNameIsLocaleAware(t *testing.T) {
	leads := []entity.Lead{
		lead("1", withName("beta")),
		lead("2", withName("Alpha")),
		lead("3", withName("Émile")),
		lead("4", withName("delta")),
	}

	got := pipeline.Sort(leads, entity.FilterSpec{SortBy: entity.SortName})

	assert.Equal(t, []string{"2", "1", "4", "3"}, ids(got))
}

func TestSortByCreatedAt(t *testing.T) {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	leads := []entity.Lead{
		lead("mid", withCreated(base.Add(time.Hour))),
		lead("old", withCreated(base)),
		lead("new", withCreated(base.Add(2*time.Hour))),
	}

	got := pipeline.Sort(leads, entity.FilterSpec{SortBy: entity.SortCreatedAt, SortOrder: entity.SortDesc})

	assert.Equal(t, []string{"new", "mid", "old"}, ids(got))
}

func TestGroupByStatusEmptyList(t *testing.T) {
	res := pipeline.View(nil, nil, entity.FilterSpec{}, pipeline.Options{Mode: pipeline.GroupByStatus})

	require.Len(t, res.ByStatus, 5)
	for i, g := range res.ByStatus {
		assert.Equal(t, entity.LeadStatuses[i], g.Status)
		assert.Empty(t, g.Leads)
	}
}

func TestGroupByStatusKeepsSortedOrderWithinGroups(t *testing.T) {
	leads := []entity.Lead{
		lead("n1", withTTC(9)),
		lead("c1", withStatus(entity.StatusContacted), withTTC(4)),
		lead("n2", withTTC(3)),
	}

	res := pipeline.View(leads, nil, entity.FilterSpec{SortBy: entity.SortTimeToClose}, pipeline.Options{Mode: pipeline.GroupByStatus})

	assert.Equal(t, []string{"n2", "n1"}, ids(res.ByStatus[0].Leads))
	assert.Equal(t, []string{"c1"}, ids(res.ByStatus[1].Leads))
}

func TestGroupByAgentExcludesUnknownAgent(t *testing.T) {
	agents := []entity.Agent{{ID: "a1", Name: "Ann"}, {ID: "a2", Name: "Bob"}, {ID: "a3", Name: "Cy"}}
	leads := sampleLeads()

	byAgent := pipeline.View(leads, agents, entity.FilterSpec{}, pipeline.Options{Mode: pipeline.GroupByAgent})
	byStatus := pipeline.View(leads, agents, entity.FilterSpec{}, pipeline.Options{Mode: pipeline.GroupByStatus})

	require.Len(t, byAgent.ByAgent, 3)
	assert.Equal(t, []string{"l1", "l3"}, ids(byAgent.ByAgent[0].Leads))
	assert.Equal(t, []string{"l2", "l5"}, ids(byAgent.ByAgent[1].Leads))
	assert.Empty(t, byAgent.ByAgent[2].Leads)
	for _, g := range byAgent.ByAgent {
		assert.NotContains(t, ids(g.Leads), "l4")
	}

	assert.Contains(t, ids(byStatus.ByStatus[3].Leads), "l4")
}

func TestGroupOrderByMinimumTimeToClose(t *testing.T) {
	leads := []entity.Lead{
		lead("n", withStatus(entity.StatusNew), withTTC(20)),
		lead("c", withStatus(entity.StatusContacted), withTTC(3)),
		lead("q1", withStatus(entity.StatusQualified), withTTC(9)),
		lead("q2", withStatus(entity.StatusQualified), withTTC(40)),
	}

	asc := pipeline.View(leads, nil, entity.FilterSpec{}, pipeline.Options{Mode: pipeline.GroupByStatus, GroupOrder: entity.SortAsc})
	desc := pipeline.View(leads, nil, entity.FilterSpec{}, pipeline.Options{Mode: pipeline.GroupByStatus, GroupOrder: entity.SortDesc})

	statuses := func(gs []pipeline.StatusGroup) []string {
		out := make([]string, len(gs))
		for i, g := range gs {
			out[i] = string(g.Status)
		}
		return out
	}

	assert.Equal(t, []string{"Contacted", "Qualified", "New", "Proposal Sent", "Closed"}, statuses(asc.ByStatus))
	assert.Equal(t, []string{"New", "Qualified", "Contacted", "Proposal Sent", "Closed"}, statuses(desc.ByStatus))
}

func TestAgentGroupOrderEmptyLast(t *testing.T) {
	agents := []entity.Agent{{ID: "idle"}, {ID: "slow"}, {ID: "fast"}}
	leads := []entity.Lead{
		lead("s", withAgent("slow"), withTTC(30)),
		lead("f", withAgent("fast"), withTTC(2)),
	}

	for _, order := range []entity.SortOrder{entity.SortAsc, entity.SortDesc} {
		res := pipeline.View(leads, agents, entity.FilterSpec{}, pipeline.Options{Mode: pipeline.GroupByAgent, GroupOrder: order})
		last := res.ByAgent[len(res.ByAgent)-1]
		assert.Equal(t, "idle", last.Agent.ID, fmt.Sprint(order))
	}
}

func TestStatusCounts(t *testing.T) {
	counts := pipeline.StatusCounts(sampleLeads())

	require.Len(t, counts, 5)
	assert.Equal(t, entity.StatusCount{Status: entity.StatusNew, Count: 2}, counts[0])
	assert.Equal(t, entity.StatusCount{Status: entity.StatusClosed, Count: 1}, counts[4])
}
