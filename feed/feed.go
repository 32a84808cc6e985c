// Package feed derives the visible page of posts from the full list: category filter, then
// text search, then sort, then pagination.
package feed

import (
	"sort"
	"strings"
	"sync"

	"github.com/cppla/webblog/models"
)

// PageSize is the number of posts per page.
const PageSize = 9

type SortKey string

const (
	SortLatest       SortKey = "latest"
	SortOldest       SortKey = "oldest"
	SortAlphabetical SortKey = "alphabetical"
)

// Criteria selects and orders posts. A nil Category means all categories.
type Criteria struct {
	Category *int64
	Query    string
	Sort     SortKey
}

// Filter applies the category filter and the search, keeping input order.
func Filter(posts []models.Post, c Criteria) []models.Post {
	out := make([]models.Post, 0, len(posts))
	q := strings.ToLower(strings.TrimSpace(c.Query))
	for _, p := range posts {
		if c.Category != nil && !p.HasCategory(*c.Category) {
			continue
		}
		if q != "" && !matches(p, q) {
			continue
		}
		out = append(out, p)
	}
	return out
}

func matches(p models.Post, q string) bool {
	if strings.Contains(strings.ToLower(p.Title), q) || strings.Contains(strings.ToLower(p.Content), q) {
		return true
	}
	return p.Author != nil && strings.Contains(strings.ToLower(p.Author.Name), q)
}

// Sort orders posts in place. The sort is stable; an unknown key keeps the order.
func Sort(posts []models.Post, key SortKey) {
	var less func(a, b models.Post) bool
	switch key {
	case SortLatest:
		less = func(a, b models.Post) bool { return a.CreatedAt.After(b.CreatedAt) }
	case SortOldest:
		less = func(a, b models.Post) bool { return a.CreatedAt.Before(b.CreatedAt) }
	case SortAlphabetical:
		less = func(a, b models.Post) bool { return strings.ToLower(a.Title) < strings.ToLower(b.Title) }
	default:
		return
	}
	sort.SliceStable(posts, func(i, j int) bool { return less(posts[i], posts[j]) })
}

// TotalPages is ceil(n / PageSize).
func TotalPages(n int) int {
	return (n + PageSize - 1) / PageSize
}

// Page returns the 1-based page of posts. Out-of-range pages are empty.
func Page(posts []models.Post, page int) []models.Post {
	start := (page - 1) * PageSize
	if page < 1 || start >= len(posts) {
		return []models.Post{}
	}
	end := start + PageSize
	if end > len(posts) {
		end = len(posts)
	}
	return posts[start:end]
}

// Apply runs filter and sort over a copy of posts.
func Apply(posts []models.Post, c Criteria) []models.Post {
	out := Filter(posts, c)
	Sort(out, c.Sort)
	return out
}

// View is one rendered page of the feed.
type View struct {
	Items          []models.Post `json:"items"`
	Page           int           `json:"page"`
	TotalPages     int           `json:"totalPages"`
	ShowPagination bool          `json:"showPagination"`
	Total          int           `json:"total"`
	// Found is the number of matches, reported only while a search query is set.
	Found    *int    `json:"found,omitempty"`
	Category *int64  `json:"category"`
	Query    string  `json:"query"`
	Sort     SortKey `json:"sort"`
}

// Pipeline keeps the feed inputs of one screen. Changing a criterion resets the page to 1.
type Pipeline struct {
	mu         sync.Mutex
	posts      []models.Post
	categories []models.Category
	criteria   Criteria
	page       int
}

func NewPipeline() *Pipeline {
	return &Pipeline{criteria: Criteria{Sort: SortLatest}, page: 1}
}

// SetPosts replaces the source list. The current page is kept.
func (p *Pipeline) SetPosts(posts []models.Post) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.posts = append([]models.Post(nil), posts...)
}

// SetCategories replaces the choices of the category filter.
func (p *Pipeline) SetCategories(cats []models.Category) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.categories = append([]models.Category(nil), cats...)
}

func (p *Pipeline) Categories() []models.Category {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]models.Category{}, p.categories...)
}

// RemovePost drops one post from the source list after a confirmed delete.
func (p *Pipeline) RemovePost(id int64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	kept := p.posts[:0]
	for _, post := range p.posts {
		if post.ID != id {
			kept = append(kept, post)
		}
	}
	p.posts = kept
}

func (p *Pipeline) SetCategory(id *int64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if id != nil {
		v := *id
		id = &v
	}
	p.criteria.Category = id
	p.page = 1
}

func (p *Pipeline) SetQuery(q string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.criteria.Query = q
	p.page = 1
}

func (p *Pipeline) SetSort(key SortKey) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.criteria.Sort = key
	p.page = 1
}

// SetPage moves to page n, clamped to [1, TotalPages].
func (p *Pipeline) SetPage(n int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.page = clamp(n, p.totalPagesLocked())
}

func (p *Pipeline) Next() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.page = clamp(p.page+1, p.totalPagesLocked())
}

func (p *Pipeline) Prev() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.page = clamp(p.page-1, p.totalPagesLocked())
}

func (p *Pipeline) totalPagesLocked() int {
	return TotalPages(len(Filter(p.posts, p.criteria)))
}

func clamp(n, total int) int {
	if n > total {
		n = total
	}
	if n < 1 {
		n = 1
	}
	return n
}

// View renders the current page.
func (p *Pipeline) View() View {
	p.mu.Lock()
	defer p.mu.Unlock()
	all := Apply(p.posts, p.criteria)
	total := TotalPages(len(all))
	p.page = clamp(p.page, total)

	v := View{
		Items:          Page(all, p.page),
		Page:           p.page,
		TotalPages:     total,
		ShowPagination: total > 1,
		Total:          len(p.posts),
		Category:       p.criteria.Category,
		Query:          p.criteria.Query,
		Sort:           p.criteria.Sort,
	}
	if strings.TrimSpace(p.criteria.Query) != "" {
		n := len(all)
		v.Found = &n
	}
	return v
}
