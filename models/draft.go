package models

import "strings"

// Draft is the unsubmitted create-post form. Category holds the selected id as text, "" for none.
type Draft struct {
	Title    string `json:"title"`
	Content  string `json:"content"`
	Category string `json:"category"`
}

// IsBlank reports whether neither title nor content carries text.
func (d Draft) IsBlank() bool {
	return strings.TrimSpace(d.Title) == "" && strings.TrimSpace(d.Content) == ""
}
