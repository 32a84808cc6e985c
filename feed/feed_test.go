package feed

import (
	"fmt"
	"testing"
	"time"

	"github.com/cppla/webblog/models"
)

var base = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

func post(id int64, title string, age time.Duration, cats ...int64) models.Post {
	p := models.Post{ID: id, Title: title, Content: "body of " + title, CreatedAt: base.Add(-age)}
	for _, c := range cats {
		p.Categories = append(p.Categories, models.Category{ID: c, Name: fmt.Sprintf("c%d", c)})
	}
	return p
}

func ids(posts []models.Post) []int64 {
	out := make([]int64, 0, len(posts))
	for _, p := range posts {
		out = append(out, p.ID)
	}
	return out
}

func equalIDs(a, b []int64) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func many(n int) []models.Post {
	out := make([]models.Post, 0, n)
	for i := 1; i <= n; i++ {
		out = append(out, post(int64(i), fmt.Sprintf("Post %02d", i), time.Duration(i)*time.Hour))
	}
	return out
}

func TestFilterCategoryAndSearchCommute(t *testing.T) {
	posts := []models.Post{
		post(1, "Go tips", time.Hour, 1),
		post(2, "Rust tips", 2*time.Hour, 2),
		post(3, "Go generics", 3*time.Hour, 2),
		post(4, "Cooking", 4*time.Hour, 1),
	}
	posts[3].Author = &models.User{Name: "Gopher"}
	cat := int64(1)

	both := Filter(posts, Criteria{Category: &cat, Query: "go"})
	catThenQuery := Filter(Filter(posts, Criteria{Category: &cat}), Criteria{Query: "go"})
	queryThenCat := Filter(Filter(posts, Criteria{Query: "go"}), Criteria{Category: &cat})

	want := []int64{1, 4}
	for name, got := range map[string][]models.Post{"both": both, "cat-then-query": catThenQuery, "query-then-cat": queryThenCat} {
		if !equalIDs(ids(got), want) {
			t.Fatalf("%s: got %v want %v", name, ids(got), want)
		}
	}
}

func TestFilterSearch(t *testing.T) {
	posts := []models.Post{post(1, "Hello World", 0), post(2, "Other", 0)}
	posts[1].Author = &models.User{Name: "Alice"}
	tests := []struct {
		name  string
		query string
		want  []int64
	}{
		{"title case-insensitive", "WORLD", []int64{1}},
		{"content", "body of other", []int64{2}},
		{"author", "ali", []int64{2}},
		{"whitespace is no search", "   ", []int64{1, 2}},
		{"no match", "zzz", []int64{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ids(Filter(posts, Criteria{Query: tt.query}))
			if !equalIDs(got, tt.want) {
				t.Fatalf("got %v want %v", got, tt.want)
			}
		})
	}
}

func TestSortKeys(t *testing.T) {
	posts := []models.Post{
		post(1, "banana", 2*time.Hour),
		post(2, "Apple", 1*time.Hour),
		post(3, "cherry", 3*time.Hour),
	}
	tests := []struct {
		key  SortKey
		want []int64
	}{
		{SortLatest, []int64{2, 1, 3}},
		{SortOldest, []int64{3, 1, 2}},
		{SortAlphabetical, []int64{2, 1, 3}},
		{"bogus", []int64{1, 2, 3}},
	}
	for _, tt := range tests {
		t.Run(string(tt.key), func(t *testing.T) {
			cp := append([]models.Post(nil), posts...)
			Sort(cp, tt.key)
			if got := ids(cp); !equalIDs(got, tt.want) {
				t.Fatalf("got %v want %v", got, tt.want)
			}
		})
	}
}

func TestSortHappensBeforePagination(t *testing.T) {
	posts := many(12)
	// oldest first puts the last-created posts at the end of page 2
	got := Page(Apply(posts, Criteria{Sort: SortOldest}), 1)
	if got[0].ID != 12 || len(got) != PageSize {
		t.Fatalf("page 1 starts with %d (len %d), want 12 (len %d)", got[0].ID, len(got), PageSize)
	}
	second := Page(Apply(posts, Criteria{Sort: SortOldest}), 2)
	if !equalIDs(ids(second), []int64{3, 2, 1}) {
		t.Fatalf("page 2 = %v", ids(second))
	}
}

func TestPaginationBoundary(t *testing.T) {
	tests := []struct {
		n          int
		totalPages int
		show       bool
	}{
		{0, 0, false},
		{9, 1, false},
		{10, 2, true},
		{18, 2, true},
		{19, 3, true},
	}
	for _, tt := range tests {
		p := NewPipeline()
		p.SetPosts(many(tt.n))
		v := p.View()
		if v.TotalPages != tt.totalPages || v.ShowPagination != tt.show {
			t.Fatalf("n=%d: totalPages=%d show=%v, want %d %v", tt.n, v.TotalPages, v.ShowPagination, tt.totalPages, tt.show)
		}
	}
}

func TestPipelineCriteriaResetPage(t *testing.T) {
	p := NewPipeline()
	p.SetPosts(many(30))
	p.SetPage(3)
	if v := p.View(); v.Page != 3 {
		t.Fatalf("page = %d, want 3", v.Page)
	}

	p.SetQuery("post")
	if v := p.View(); v.Page != 1 {
		t.Fatalf("after query: page = %d", v.Page)
	}
	p.Next()
	p.SetSort(SortAlphabetical)
	if v := p.View(); v.Page != 1 {
		t.Fatalf("after sort: page = %d", v.Page)
	}
	p.Next()
	p.SetCategory(nil)
	if v := p.View(); v.Page != 1 {
		t.Fatalf("after category: page = %d", v.Page)
	}
}

func TestPipelineNextPrevClamp(t *testing.T) {
	p := NewPipeline()
	p.SetPosts(many(10))
	p.Prev()
	if v := p.View(); v.Page != 1 {
		t.Fatalf("prev on first page: %d", v.Page)
	}
	p.Next()
	p.Next()
	p.Next()
	v := p.View()
	if v.Page != 2 || len(v.Items) != 1 {
		t.Fatalf("page=%d items=%d, want 2 and 1", v.Page, len(v.Items))
	}
}

func TestPipelineFoundOnlyWithQuery(t *testing.T) {
	p := NewPipeline()
	p.SetPosts(many(5))
	if v := p.View(); v.Found != nil {
		t.Fatalf("found without query: %d", *v.Found)
	}
	p.SetQuery("Post 0")
	v := p.View()
	if v.Found == nil || *v.Found != 5 {
		t.Fatalf("found = %v", v.Found)
	}
	if v.Total != 5 {
		t.Fatalf("total = %d", v.Total)
	}
}

func TestPipelineRemovePost(t *testing.T) {
	p := NewPipeline()
	p.SetPosts(many(3))
	p.RemovePost(2)
	if got := ids(p.View().Items); !equalIDs(got, []int64{1, 3}) {
		t.Fatalf("got %v", got)
	}
}
