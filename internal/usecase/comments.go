package usecase

import (
	"context"
	"strings"

	"github.com/xavierca1/leadboard/internal/entity"
	"github.com/xavierca1/leadboard/internal/notify"
)

func (a *App) Comments(ctx context.Context, leadID string) ([]entity.Comment, error) {
	comments, err := a.crm.ListComments(ctx, leadID)
	if err != nil {
		return nil, err
	}
	return newestFirst(comments), nil
}

// AddComment posts text on leadID as the current user. Blank text and a
// missing current user are rejected without calling the API.
func (a *App) AddComment(ctx context.Context, leadID, text string) (entity.Comment, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		const msg = "Please enter a comment"
		a.Notify.Post(msg, notify.Warning)
		return entity.Comment{}, ValidationErrors{{"commentText", msg}}
	}
	author, ok := a.CurrentUser()
	if !ok {
		const msg = "Please select a user to add comments"
		a.Notify.Post(msg, notify.Error)
		return entity.Comment{}, ValidationErrors{{"author", msg}}
	}

	comment, err := a.crm.CreateComment(ctx, leadID, entity.CommentInput{CommentText: text, Author: author.ID})
	if err != nil {
		msg := entity.MessageOf(err, "Failed to add comment")
		if entity.IsKind(err, entity.KindNotFound) {
			msg = "Comment endpoint not found."
		}
		a.Notify.Post(msg, notify.Error)
		return entity.Comment{}, err
	}

	if comment.Author == nil {
		comment.Author = author.Ref()
	}
	if comment.CommentText == "" {
		comment.CommentText = text
	}
	a.Notify.Post("Comment added successfully", notify.Success)
	return comment, nil
}
