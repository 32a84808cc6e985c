package controllers

import (
	"context"
	"sync"
	"time"

	"github.com/cppla/webblog/interaction"
	"github.com/cppla/webblog/models"
	"github.com/cppla/webblog/state"
	"github.com/cppla/webblog/threads"
	"github.com/cppla/webblog/utils"
)

// PostCard is a post as listed on the home, saved and profile screens.
type PostCard struct {
	ID          int64             `json:"id"`
	Title       string            `json:"title"`
	Preview     string            `json:"preview"`
	ReadMore    bool              `json:"readMore"`
	Author      string            `json:"author"`
	AuthorID    int64             `json:"authorId"`
	CreatedAt   time.Time         `json:"createdAt"`
	Categories  []models.Category `json:"categories"`
	Flagged     bool              `json:"flagged"`
	CanEdit     bool              `json:"canEdit"`
	CanDelete   bool              `json:"canDelete"`
	Interaction interaction.View  `json:"interaction"`
}

// buildCards renders posts for the browser's viewer, loading every card's like and save
// state concurrently.
func buildCards(ctx context.Context, b *state.Browser, posts []models.Post) []PostCard {
	viewer := b.Session.User()
	client := b.Session.Client()
	authenticated := b.Session.IsAuthenticated()

	var wg sync.WaitGroup
	widgets := make([]*interaction.Widget, len(posts))
	for i, p := range posts {
		widgets[i] = b.Widget(p.ID)
		wg.Add(1)
		go func(w *interaction.Widget) {
			defer wg.Done()
			w.Load(ctx, client, viewer)
		}(widgets[i])
	}
	wg.Wait()

	cards := make([]PostCard, 0, len(posts))
	for i, p := range posts {
		preview, more := utils.Preview(p.Content)
		cats := p.Categories
		if cats == nil {
			cats = []models.Category{}
		}
		canModify := threads.CanModify(viewer, p.AuthorID)
		cards = append(cards, PostCard{
			ID:          p.ID,
			Title:       p.Title,
			Preview:     preview,
			ReadMore:    more,
			Author:      p.Author.DisplayName(),
			AuthorID:    p.AuthorID,
			CreatedAt:   p.CreatedAt,
			Categories:  cats,
			Flagged:     viewer.IsAdmin() && b.Flags.IsPostFlagged(p.ID),
			CanEdit:     canModify,
			CanDelete:   canModify,
			Interaction: widgets[i].View(authenticated),
		})
	}
	return cards
}
