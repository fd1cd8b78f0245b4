package usecase

import (
	"context"

	"github.com/xavierca1/leadboard/internal/entity"
	"github.com/xavierca1/leadboard/internal/infra/queue"
)

// CRM covers the remote calls that bypass the collection store: single lead
// reads, comments and reports.
type CRM interface {
	ListLeads(ctx context.Context, filter entity.FilterSpec) ([]entity.Lead, error)
	GetLead(ctx context.Context, id string) (entity.Lead, error)
	ListComments(ctx context.Context, leadID string) ([]entity.Comment, error)
	CreateComment(ctx context.Context, leadID string, in entity.CommentInput) (entity.Comment, error)
	LastWeekReport(ctx context.Context) ([]entity.Lead, error)
	PipelineReport(ctx context.Context) (entity.PipelineReport, error)
	ClosedByAgentReport(ctx context.Context) ([]entity.ClosedByAgent, error)
}

type EventPublisher interface {
	PublishLeadEvent(ctx context.Context, ev queue.LeadEvent) error
}

type Mailer interface {
	SendLeadAssigned(agent entity.Agent, lead entity.Lead) error
	SendLeadClosed(agent entity.Agent, lead entity.Lead) error
}
