package models

import "time"

// Category groups posts. Many-to-many with Post.
type Category struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// Post is a blog post with an embedded author summary.
type Post struct {
	ID         int64      `json:"id"`
	Title      string     `json:"title"`
	Content    string     `json:"content"`
	AuthorID   int64      `json:"authorId"`
	CreatedAt  time.Time  `json:"createdAt"`
	Categories []Category `json:"categories"`
	Author     *User      `json:"author,omitempty"`
}

// HasCategory reports whether the post references the category id.
func (p Post) HasCategory(id int64) bool {
	for _, c := range p.Categories {
		if c.ID == id {
			return true
		}
	}
	return false
}

// PostInput is the body of create/update post calls.
type PostInput struct {
	Title       string  `json:"title"`
	Content     string  `json:"content"`
	CategoryIDs []int64 `json:"categoryIds,omitempty"`
}

// SavedPost wraps a post saved by a user.
type SavedPost struct {
	ID      int64     `json:"id"`
	UserID  int64     `json:"userId"`
	Post    *Post     `json:"post"`
	SavedAt time.Time `json:"savedAt"`
}
