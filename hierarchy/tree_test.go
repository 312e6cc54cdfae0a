package hierarchy

import (
	"testing"

	"github.com/toothbrush/confluence-export/confluence"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

func page(id, title, parentID, parentType string) confluence.Page {
	return confluence.Page{ID: id, Title: title, ParentID: parentID, ParentType: parentType}
}

func TestBuildRootAndChild(t *testing.T) {
	f := Build([]confluence.Page{
		page("1", "Root", "", confluence.ParentSpace),
		page("2", "Child", "1", confluence.ParentPage),
	})

	if len(f.Roots) != 1 || f.Roots[0].ID != "1" {
		t.Fatalf("roots = %+v, want single root 1", f.Roots)
	}
	if kids := f.Roots[0].Children; len(kids) != 1 || kids[0].ID != "2" {
		t.Fatalf("children of 1 = %+v, want [2]", kids)
	}

	stats := ComputeStats(f)
	if stats.MaxDepth != 2 {
		t.Errorf("MaxDepth = %d, want 2", stats.MaxDepth)
	}
	if stats.RootCount != 1 {
		t.Errorf("RootCount = %d, want 1", stats.RootCount)
	}
	if stats.PagesByLevel[1] != 1 || stats.PagesByLevel[2] != 1 {
		t.Errorf("PagesByLevel = %v", stats.PagesByLevel)
	}
}

func TestBuildOrphanBecomesRoot(t *testing.T) {
	f := Build([]confluence.Page{
		page("1", "Root", "", confluence.ParentSpace),
		page("7", "Lost", "missing", confluence.ParentPage),
	})

	if len(f.Roots) != 2 {
		t.Fatalf("got %d roots, want 2", len(f.Roots))
	}
	if len(f.Orphans) != 1 || f.Orphans[0] != "7" {
		t.Errorf("Orphans = %v, want [7]", f.Orphans)
	}
}

func TestBuildCountsEveryPageOnce(t *testing.T) {
	tests := []struct {
		name  string
		pages []confluence.Page
		want  int
	}{
		{name: "empty", pages: nil, want: 0},
		{
			name: "deep chain",
			pages: []confluence.Page{
				page("1", "a", "", confluence.ParentSpace),
				page("2", "b", "1", confluence.ParentPage),
				page("3", "c", "2", confluence.ParentPage),
				page("4", "d", "3", confluence.ParentPage),
			},
			want: 4,
		},
		{
			name: "duplicates ignored",
			pages: []confluence.Page{
				page("1", "a", "", ""),
				page("1", "a again", "", ""),
				page("2", "b", "1", confluence.ParentPage),
			},
			want: 2,
		},
		{
			name: "two-page cycle",
			pages: []confluence.Page{
				page("1", "root", "", confluence.ParentSpace),
				page("2", "x", "3", confluence.ParentPage),
				page("3", "y", "2", confluence.ParentPage),
				page("4", "under x", "2", confluence.ParentPage),
			},
			want: 4,
		},
		{
			name: "self parent",
			pages: []confluence.Page{
				page("5", "me", "5", confluence.ParentPage),
			},
			want: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := Build(tt.pages)
			if f.TotalPages != tt.want {
				t.Errorf("TotalPages = %d, want %d", f.TotalPages, tt.want)
			}
			sum := 0
			for _, r := range f.Roots {
				sum += CountAll(r)
			}
			if sum != f.TotalPages {
				t.Errorf("reachable = %d, TotalPages = %d", sum, f.TotalPages)
			}
			if got := ComputeStats(f).TotalPages; got != f.TotalPages {
				t.Errorf("stats TotalPages = %d, want %d", got, f.TotalPages)
			}
		})
	}
}

func TestBuildBreaksCycleOnce(t *testing.T) {
	f := Build([]confluence.Page{
		page("2", "x", "3", confluence.ParentPage),
		page("3", "y", "2", confluence.ParentPage),
		page("4", "under x", "2", confluence.ParentPage),
	})

	if len(f.CycleBreaks) != 1 {
		t.Fatalf("CycleBreaks = %v, want exactly one", f.CycleBreaks)
	}
	if len(f.Roots) != 1 {
		t.Fatalf("got %d roots, want 1", len(f.Roots))
	}
	if f.Roots[0].ID == "4" {
		t.Errorf("page 4 is not on the cycle and should stay a child")
	}
}

func TestBuildSortsSiblings(t *testing.T) {
	f := Build([]confluence.Page{
		page("1", "root", "", confluence.ParentSpace),
		page("2", "zebra", "1", confluence.ParentPage),
		page("3", "Apple", "1", confluence.ParentPage),
		page("4", "éclair", "1", confluence.ParentPage),
		page("5", "banana", "1", confluence.ParentPage),
		page("6", "Ärger", "", confluence.ParentSpace),
	})

	c := collate.New(language.English)
	var check func(level []*Node)
	check = func(level []*Node) {
		for i := 1; i < len(level); i++ {
			if c.CompareString(level[i-1].Title, level[i].Title) > 0 {
				t.Errorf("%q sorted before %q", level[i-1].Title, level[i].Title)
			}
		}
		for _, n := range level {
			check(n.Children)
		}
	}
	check(f.Roots)

	got := []string{}
	for _, n := range f.Roots[1].Children {
		got = append(got, n.Title)
	}
	want := []string{"Apple", "banana", "éclair", "zebra"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("children = %v, want %v", got, want)
		}
	}
}

func TestComputeStatsEmpty(t *testing.T) {
	stats := ComputeStats(Build(nil))
	if stats.MaxDepth != 0 || stats.RootCount != 0 || stats.TotalPages != 0 {
		t.Errorf("stats = %+v, want zeroes", stats)
	}
	if ComputeStats(nil).MaxDepth != 0 {
		t.Error("nil forest should have zero depth")
	}
}
