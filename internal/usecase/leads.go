package usecase

import (
	"cmp"
	"context"
	"slices"

	"golang.org/x/sync/errgroup"

	"github.com/xavierca1/leadboard/internal/entity"
	"github.com/xavierca1/leadboard/internal/infra/queue"
	"github.com/xavierca1/leadboard/internal/logger"
	"github.com/xavierca1/leadboard/internal/notify"
	"github.com/xavierca1/leadboard/internal/pipeline"
)

type LeadDetail struct {
	Lead     entity.Lead      `json:"lead"`
	Comments []entity.Comment `json:"comments"`
}

// Leads loads the collection for the filter and runs it through the pipeline.
func (a *App) Leads(ctx context.Context, spec entity.FilterSpec, opts pipeline.Options) (pipeline.Result, error) {
	leads, err := a.Store.LoadLeads(ctx, spec)
	if err != nil {
		return pipeline.Result{}, err
	}
	return pipeline.View(leads, a.Store.Agents(), spec, opts), nil
}

// LeadDetail fetches one lead with its comments, newest first. Comments
// that cannot be fetched come back empty.
func (a *App) LeadDetail(ctx context.Context, id string) (LeadDetail, error) {
	var detail LeadDetail

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		lead, err := a.crm.GetLead(gctx, id)
		detail.Lead = lead
		return err
	})
	g.Go(func() error {
		comments, err := a.crm.ListComments(gctx, id)
		if err != nil {
			a.log.Warn("comments unavailable", logger.String("lead_id", id), logger.Error(err))
			comments = nil
		}
		detail.Comments = newestFirst(comments)
		return nil
	})

	if err := g.Wait(); err != nil {
		return LeadDetail{}, err
	}
	return detail, nil
}

func newestFirst(comments []entity.Comment) []entity.Comment {
	out := slices.Clone(comments)
	if out == nil {
		out = []entity.Comment{}
	}
	slices.SortStableFunc(out, func(x, y entity.Comment) int {
		return cmp.Compare(y.CreatedAt.UnixNano(), x.CreatedAt.UnixNano())
	})
	return out
}

func (a *App) CreateLead(ctx context.Context, in entity.LeadInput) (entity.Lead, error) {
	if err := ValidateLeadForm(in); err != nil {
		return entity.Lead{}, err
	}
	in.StampClosedAt(nil, a.now())

	lead, err := a.Store.CreateLead(ctx, in)
	if err != nil {
		a.Notify.Post(entity.MessageOf(err, "Failed to create lead"), notify.Error)
		return entity.Lead{}, err
	}

	a.Notify.Post("Lead created successfully", notify.Success)
	a.leadChanged(ctx, queue.LeadCreated, lead, nil)
	return lead, nil
}

func (a *App) UpdateLead(ctx context.Context, id string, in entity.LeadInput) (entity.Lead, error) {
	if err := ValidateLeadForm(in); err != nil {
		return entity.Lead{}, err
	}
	previous := a.currentLead(ctx, id)
	in.StampClosedAt(previous, a.now())

	lead, err := a.Store.UpdateLead(ctx, id, in)
	if err != nil {
		a.Notify.Post(entity.MessageOf(err, "Failed to update lead"), notify.Error)
		return entity.Lead{}, err
	}

	a.Notify.Post("Lead updated successfully", notify.Success)
	evType := queue.LeadUpdated
	if lead.Status == entity.StatusClosed && (previous == nil || previous.Status != entity.StatusClosed) {
		evType = queue.LeadClosed
	}
	a.leadChanged(ctx, evType, lead, previous)
	return lead, nil
}

func (a *App) DeleteLead(ctx context.Context, id string) error {
	if err := a.Store.DeleteLead(ctx, id); err != nil {
		a.Notify.Post(entity.MessageOf(err, "Failed to delete lead"), notify.Error)
		return err
	}

	a.Notify.Post("Lead deleted successfully", notify.Success)
	a.background(ctx, func(ctx context.Context) {
		a.publish(ctx, queue.NewLeadEvent(queue.LeadDeleted, id, nil))
	})
	return nil
}

// currentLead returns the held copy of id, falling back to the API. A lead
// that cannot be found either way yields nil.
func (a *App) currentLead(ctx context.Context, id string) *entity.Lead {
	for _, l := range a.Store.Leads() {
		if l.ID == id {
			return &l
		}
	}
	lead, err := a.crm.GetLead(ctx, id)
	if err != nil {
		return nil
	}
	return &lead
}

// leadChanged publishes the change and mails the owning agent when the lead
// was newly assigned to them or has just been closed.
func (a *App) leadChanged(ctx context.Context, evType queue.EventType, lead entity.Lead, previous *entity.Lead) {
	a.background(ctx, func(ctx context.Context) {
		a.publish(ctx, queue.NewLeadEvent(evType, lead.ID, &lead))

		if a.mailer == nil || lead.AgentID() == "" {
			return
		}
		agent, ok := a.Store.Agent(lead.AgentID())
		if !ok {
			return
		}
		if previous == nil || previous.AgentID() != lead.AgentID() {
			if err := a.mailer.SendLeadAssigned(agent, lead); err != nil {
				a.log.Warn("assignment email failed", logger.String("lead_id", lead.ID), logger.Error(err))
			}
		}
		if evType == queue.LeadClosed {
			if err := a.mailer.SendLeadClosed(agent, lead); err != nil {
				a.log.Warn("closed email failed", logger.String("lead_id", lead.ID), logger.Error(err))
			}
		}
	})
}

func (a *App) publish(ctx context.Context, ev queue.LeadEvent) {
	if a.events == nil {
		return
	}
	if err := a.events.PublishLeadEvent(ctx, ev); err != nil {
		a.log.Warn("lead event not published", logger.String("type", string(ev.Type)), logger.Error(err))
	}
}
