package usecase

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/xavierca1/leadboard/internal/entity"
	"github.com/xavierca1/leadboard/internal/format"
	"github.com/xavierca1/leadboard/internal/logger"
	"github.com/xavierca1/leadboard/internal/pipeline"
)

const recentLeadCount = 5

type Dashboard struct {
	TotalLeads    int                  `json:"totalLeads"`
	PipelineCount int                  `json:"pipelineCount"`
	StatusCounts  []entity.StatusCount `json:"statusCounts"`
	RecentLeads   []RecentLead         `json:"recentLeads"`
}

// RecentLead is a dashboard row: the lead plus its display labels.
type RecentLead struct {
	entity.Lead
	Added         string `json:"added"`
	AgentInitials string `json:"agentInitials"`
	DueIn         string `json:"dueIn"`
}

type Report struct {
	StatusDistribution []entity.StatusCount   `json:"statusDistribution"`
	ClosedCount        int                    `json:"closedCount"`
	PipelineCount      int                    `json:"pipelineCount"`
	ClosedByAgent      []entity.ClosedByAgent `json:"closedByAgent"`
}

// Dashboard reloads the unfiltered lead collection and summarizes it.
func (a *App) Dashboard(ctx context.Context) (Dashboard, error) {
	leads, err := a.Store.LoadLeads(ctx, entity.FilterSpec{})
	if err != nil {
		return Dashboard{}, err
	}

	counts := pipeline.StatusCounts(leads)
	return Dashboard{
		TotalLeads:    len(leads),
		PipelineCount: len(leads) - closedCount(counts),
		StatusCounts:  counts,
		RecentLeads:   a.recentLeads(leads[:min(recentLeadCount, len(leads))]),
	}, nil
}

func (a *App) recentLeads(leads []entity.Lead) []RecentLead {
	now := a.now()
	out := make([]RecentLead, len(leads))
	for i, l := range leads {
		out[i] = RecentLead{
			Lead:          l,
			Added:         format.Relative(l.CreatedAt, now),
			AgentInitials: format.Initials(a.agentName(l)),
		}
		if l.HasTimeToClose() {
			out[i].DueIn = format.TimeToClose(l.TimeToClose)
		}
	}
	return out
}

// agentName prefers the held agent over the name embedded in the lead.
func (a *App) agentName(l entity.Lead) string {
	if l.SalesAgent == nil {
		return ""
	}
	if agent, ok := a.Store.Agent(l.SalesAgent.ID); ok {
		return agent.Name
	}
	return l.SalesAgent.Name
}

func closedCount(counts []entity.StatusCount) int {
	for _, c := range counts {
		if c.Status == entity.StatusClosed {
			return c.Count
		}
	}
	return 0
}

// Report never fails: each source that errors contributes an empty section.
func (a *App) Report(ctx context.Context) Report {
	var leads []entity.Lead
	var byAgent []entity.ClosedByAgent

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		rows, err := a.crm.ClosedByAgentReport(gctx)
		if err != nil {
			a.log.Warn("closed-by-agent report unavailable", logger.Error(err))
		}
		byAgent = rows
		return nil
	})
	g.Go(func() error {
		all, err := a.crm.ListLeads(gctx, entity.FilterSpec{})
		if err != nil {
			a.log.Warn("leads unavailable for report", logger.Error(err))
		}
		leads = all
		return nil
	})
	_ = g.Wait()

	if byAgent == nil {
		byAgent = []entity.ClosedByAgent{}
	}
	counts := pipeline.StatusCounts(leads)
	closed := closedCount(counts)
	return Report{
		StatusDistribution: counts,
		ClosedCount:        closed,
		PipelineCount:      len(leads) - closed,
		ClosedByAgent:      byAgent,
	}
}

func (a *App) LastWeekReport(ctx context.Context) ([]entity.Lead, error) {
	return a.crm.LastWeekReport(ctx)
}

func (a *App) PipelineReport(ctx context.Context) (entity.PipelineReport, error) {
	return a.crm.PipelineReport(ctx)
}
