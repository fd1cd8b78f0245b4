package usecase_test

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/xavierca1/leadboard/internal/entity"
	"github.com/xavierca1/leadboard/internal/infra/queue"
)

type MockCRM struct {
	mock.Mock
}

func (m *MockCRM) ListLeads(ctx context.Context, filter entity.FilterSpec) ([]entity.Lead, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.Lead), args.Error(1)
}

func (m *MockCRM) GetLead(ctx context.Context, id string) (entity.Lead, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(entity.Lead), args.Error(1)
}

func (m *MockCRM) ListComments(ctx context.Context, leadID string) ([]entity.Comment, error) {
	args := m.Called(ctx, leadID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.Comment), args.Error(1)
}

func (m *MockCRM) CreateComment(ctx context.Context, leadID string, in entity.CommentInput) (entity.Comment, error) {
	args := m.Called(ctx, leadID, in)
	return args.Get(0).(entity.Comment), args.Error(1)
}

func (m *MockCRM) LastWeekReport(ctx context.Context) ([]entity.Lead, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.Lead), args.Error(1)
}

func (m *MockCRM) PipelineReport(ctx context.Context) (entity.PipelineReport, error) {
	args := m.Called(ctx)
	return args.Get(0).(entity.PipelineReport), args.Error(1)
}

func (m *MockCRM) ClosedByAgentReport(ctx context.Context) ([]entity.ClosedByAgent, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.ClosedByAgent), args.Error(1)
}

type MockEvents struct {
	mock.Mock
}

func (m *MockEvents) PublishLeadEvent(ctx context.Context, ev queue.LeadEvent) error {
	args := m.Called(ctx, ev)
	return args.Error(0)
}

type MockMailer struct {
	mock.Mock
}

func (m *MockMailer) SendLeadAssigned(agent entity.Agent, lead entity.Lead) error {
	args := m.Called(agent, lead)
	return args.Error(0)
}

func (m *MockMailer) SendLeadClosed(agent entity.Agent, lead entity.Lead) error {
	args := m.Called(agent, lead)
	return args.Error(0)
}
