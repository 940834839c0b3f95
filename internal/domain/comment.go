package domain

import "time"

// Comment is a threaded message on a ticket. ParentCommentID, when set,
// must reference a comment on the same ticket.
type Comment struct {
	ID              string
	TicketID        string
	UserID          string
	ParentCommentID *string
	Text            string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// IsReply reports whether the comment answers another comment.
func (c *Comment) IsReply() bool {
	return c.ParentCommentID != nil
}
