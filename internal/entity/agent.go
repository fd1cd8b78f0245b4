package entity

import "time"

type Agent struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"createdAt"`
}

func (a Agent) GetID() string { return a.ID }

// Ref returns the reference form used inside leads and comments.
func (a Agent) Ref() *AgentRef {
	return &AgentRef{ID: a.ID, Name: a.Name, Email: a.Email}
}

type AgentInput struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

type Comment struct {
	ID          string    `json:"id"`
	LeadID      string    `json:"leadId"`
	Author      *AgentRef `json:"author,omitempty"`
	CommentText string    `json:"commentText"`
	CreatedAt   time.Time `json:"createdAt"`
}

// CommentInput is the POST body for /{leadId}/comments. Author is an agent id.
type CommentInput struct {
	CommentText string `json:"commentText"`
	Author      string `json:"author"`
}

// Tag is a free-form label. The known set is advisory only.
type Tag string

func (t Tag) GetID() string { return string(t) }

type TagInput struct {
	Name string `json:"name"`
}
