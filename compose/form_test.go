package compose

import (
	"reflect"
	"testing"

	"github.com/cppla/webblog/models"
)

func TestValidateTitle(t *testing.T) {
	tests := []struct {
		title string
		want  string
	}{
		{"", MsgTitleRequired},
		{"   ", MsgTitleRequired},
		{"Hello", ""},
		{"  Go 1.22 notes  ", ""},
		{"!!!", MsgTitleUnreadable},
		{"A", MsgTitleUnreadable},
	}
	for _, tt := range tests {
		if got := ValidateTitle(tt.title); got != tt.want {
			t.Fatalf("ValidateTitle(%q) = %q, want %q", tt.title, got, tt.want)
		}
	}
}

func TestValidate(t *testing.T) {
	errs := Validate(models.Draft{Title: " ", Content: "\n"})
	if errs["title"] != MsgTitleRequired || errs["content"] != MsgContentRequired {
		t.Fatalf("errs = %v", errs)
	}
	if errs := Validate(models.Draft{Title: "Title", Content: "Body"}); len(errs) != 0 {
		t.Fatalf("valid draft: %v", errs)
	}
}

func TestSubmitState(t *testing.T) {
	full := models.Draft{Title: "Title", Content: "Body"}
	tests := []struct {
		name    string
		draft   models.Draft
		blocked bool
		want    Submit
	}{
		{"complete", full, false, Submit{}},
		{"blank title", models.Draft{Content: "Body"}, false, Submit{Disabled: true}},
		{"blank content", models.Draft{Title: "Title", Content: "  "}, false, Submit{Disabled: true}},
		{"blocked author", full, true, Submit{Disabled: true, Tooltip: MsgRestricted}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SubmitState(tt.draft, tt.blocked); got != tt.want {
				t.Fatalf("got %+v want %+v", got, tt.want)
			}
		})
	}
}

func TestInput(t *testing.T) {
	got := Input(models.Draft{Title: " T ", Content: " C ", Category: "7"})
	want := models.PostInput{Title: "T", Content: "C", CategoryIDs: []int64{7}}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %+v want %+v", got, want)
	}
	for _, cat := range []string{"", "all", "-1", "x"} {
		if in := Input(models.Draft{Title: "T", Content: "C", Category: cat}); in.CategoryIDs != nil {
			t.Fatalf("category %q produced %v", cat, in.CategoryIDs)
		}
	}
}
