// Package storetest provides a testify mock of store.Remote.
package storetest

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/xavierca1/leadboard/internal/entity"
)

type MockRemote struct {
	mock.Mock
}

func (m *MockRemote) ListLeads(ctx context.Context, filter entity.FilterSpec) ([]entity.Lead, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.Lead), args.Error(1)
}

func (m *MockRemote) CreateLead(ctx context.Context, in entity.LeadInput) (entity.Lead, error) {
	args := m.Called(ctx, in)
	return args.Get(0).(entity.Lead), args.Error(1)
}

func (m *MockRemote) UpdateLead(ctx context.Context, id string, in entity.LeadInput) (entity.Lead, error) {
	args := m.Called(ctx, id, in)
	return args.Get(0).(entity.Lead), args.Error(1)
}

func (m *MockRemote) DeleteLead(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockRemote) ListAgents(ctx context.Context) ([]entity.Agent, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.Agent), args.Error(1)
}

func (m *MockRemote) CreateAgent(ctx context.Context, in entity.AgentInput) (entity.Agent, error) {
	args := m.Called(ctx, in)
	return args.Get(0).(entity.Agent), args.Error(1)
}

func (m *MockRemote) DeleteAgent(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockRemote) ListTags(ctx context.Context) ([]entity.Tag, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.Tag), args.Error(1)
}

func (m *MockRemote) CreateTag(ctx context.Context, name string) (entity.Tag, error) {
	args := m.Called(ctx, name)
	return args.Get(0).(entity.Tag), args.Error(1)
}
