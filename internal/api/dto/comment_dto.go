package dto

import "time"

// CreateCommentRequest is the comment creation payload.
type CreateCommentRequest struct {
	Text            string  `json:"text"`
	ParentCommentID *string `json:"parent_comment_id"`
}

// CommentResponse is the wire form of a comment.
type CommentResponse struct {
	ID              string    `json:"id"`
	TicketID        string    `json:"ticket_id"`
	UserID          string    `json:"user_id"`
	ParentCommentID *string   `json:"parent_comment_id,omitempty"`
	Text            string    `json:"text"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}
