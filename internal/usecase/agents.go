package usecase

import (
	"context"
	"strings"

	"github.com/xavierca1/leadboard/internal/entity"
	"github.com/xavierca1/leadboard/internal/notify"
)

func (a *App) CreateAgent(ctx context.Context, in entity.AgentInput) (entity.Agent, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = strings.TrimSpace(in.Email)
	if err := ValidateAgentForm(in); err != nil {
		return entity.Agent{}, err
	}

	agent, err := a.Store.CreateAgent(ctx, in)
	if err != nil {
		a.Notify.Post(entity.MessageOf(err, "Failed to add sales agent"), notify.Error)
		return entity.Agent{}, err
	}
	a.Notify.Post("Sales agent created successfully", notify.Success)
	return agent, nil
}

func (a *App) DeleteAgent(ctx context.Context, id string) error {
	if err := a.Store.DeleteAgent(ctx, id); err != nil {
		a.Notify.Post(entity.MessageOf(err, "Failed to delete sales agent"), notify.Error)
		return err
	}
	a.Notify.Post("Sales agent deleted successfully", notify.Success)
	return nil
}

func (a *App) CreateTag(ctx context.Context, name string) (entity.Tag, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", ValidationErrors{{"name", "Tag name is required"}}
	}

	tag, err := a.Store.CreateTag(ctx, name)
	if err != nil {
		a.Notify.Post(entity.MessageOf(err, "Failed to create tag"), notify.Error)
		return "", err
	}
	a.Notify.Post("Tag created successfully", notify.Success)
	return tag, nil
}
