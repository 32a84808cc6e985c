package admin

import (
	"context"
	"errors"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/cppla/webblog/models"
)

var ErrEmptyCategoryName = errors.New("category name is required")

type CategoryBackend interface {
	ListCategories(ctx context.Context) ([]models.Category, error)
	CreateCategory(ctx context.Context, name string) (*models.Category, error)
	UpdateCategory(ctx context.Context, id int64, name string) (*models.Category, error)
	DeleteCategory(ctx context.Context, id int64) error
	ListPosts(ctx context.Context) ([]models.Post, error)
}

// Usage counts, per category id, the posts that reference it.
func Usage(posts []models.Post) map[int64]int {
	out := map[int64]int{}
	for _, p := range posts {
		for _, c := range p.Categories {
			out[c.ID]++
		}
	}
	return out
}

// Categories is the category management panel.
type Categories struct {
	mu         sync.RWMutex
	categories []models.Category
	usage      map[int64]int
	log        *zap.Logger
}

// CategoryRow is a category with the number of posts using it.
type CategoryRow struct {
	models.Category
	Posts int `json:"posts"`
}

// Load fetches the categories and the post list the usage tally is computed from.
// A failed usage fetch keeps the previous tally.
func (c *Categories) Load(ctx context.Context, be CategoryBackend) error {
	var (
		wg       sync.WaitGroup
		list     []models.Category
		posts    []models.Post
		listErr  error
		postsErr error
	)
	wg.Add(2)
	go func() {
		defer wg.Done()
		list, listErr = be.ListCategories(ctx)
	}()
	go func() {
		defer wg.Done()
		posts, postsErr = be.ListPosts(ctx)
	}()
	wg.Wait()

	c.mu.Lock()
	defer c.mu.Unlock()
	if postsErr != nil {
		c.log.Warn("load category usage failed", zap.Error(postsErr))
	} else {
		c.usage = Usage(posts)
	}
	if listErr != nil {
		c.log.Warn("load categories failed", zap.Error(listErr))
		return listErr
	}
	c.categories = list
	return nil
}

func (c *Categories) Rows() []CategoryRow {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]CategoryRow, 0, len(c.categories))
	for _, cat := range c.categories {
		out = append(out, CategoryRow{Category: cat, Posts: c.usage[cat.ID]})
	}
	return out
}

// Create adds a category, then reloads the panel.
func (c *Categories) Create(ctx context.Context, be CategoryBackend, name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return ErrEmptyCategoryName
	}
	if _, err := be.CreateCategory(ctx, name); err != nil {
		c.log.Info("create category rejected", zap.String("name", name), zap.Error(err))
		return err
	}
	return c.Load(ctx, be)
}

// Rename changes a category's name, then reloads the panel.
func (c *Categories) Rename(ctx context.Context, be CategoryBackend, id int64, name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return ErrEmptyCategoryName
	}
	if _, err := be.UpdateCategory(ctx, id, name); err != nil {
		c.log.Info("update category rejected", zap.Int64("category", id), zap.Error(err))
		return err
	}
	return c.Load(ctx, be)
}

func (c *Categories) remove(ctx context.Context, be CategoryBackend, id int64) error {
	if err := be.DeleteCategory(ctx, id); err != nil {
		c.log.Info("delete category rejected", zap.Int64("category", id), zap.Error(err))
		return err
	}
	return c.Load(ctx, be)
}

func (c *Categories) name(id int64) string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, cat := range c.categories {
		if cat.ID == id {
			return cat.Name
		}
	}
	return ""
}
