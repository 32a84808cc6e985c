package models

import "time"

// Comment is a top-level comment on a post.
type Comment struct {
	ID        int64     `json:"id"`
	PostID    int64     `json:"postId"`
	AuthorID  int64     `json:"authorId"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"createdAt"`
	Author    *User     `json:"author,omitempty"`
}

// Reply answers a comment. Replies do not nest further.
type Reply struct {
	ID              int64     `json:"id"`
	ParentCommentID int64     `json:"parentCommentId"`
	AuthorID        int64     `json:"authorId"`
	Content         string    `json:"content"`
	CreatedAt       time.Time `json:"createdAt"`
	Author          *User     `json:"author,omitempty"`
}
