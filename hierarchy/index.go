package hierarchy

import "github.com/toothbrush/confluence-export/confluence"

// Link names one page in an ancestor chain.
type Link struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

// Index is an id→page lookup over one job's pages.  It isn't modified after NewIndex.
type Index struct {
	pages    map[string]confluence.Page
	detached map[string]bool
}

// NewIndex builds an Index.  Like Build, the first page with a given ID wins.  Pages listed in
// detached are treated as roots when climbing; pass Forest.CycleBreaks so chains agree with the
// forest.
func NewIndex(pages []confluence.Page, detached ...string) *Index {
	idx := &Index{
		pages:    make(map[string]confluence.Page, len(pages)),
		detached: make(map[string]bool, len(detached)),
	}
	for _, p := range pages {
		if _, ok := idx.pages[p.ID]; !ok {
			idx.pages[p.ID] = p
		}
	}
	for _, id := range detached {
		idx.detached[id] = true
	}
	return idx
}

// Page looks a page up by ID.
func (idx *Index) Page(id string) (confluence.Page, bool) {
	p, ok := idx.pages[id]
	return p, ok
}

// Chain returns the root-to-page chain of links ending with id itself.  It stops climbing at a
// space-rooted or detached page, at a parent that isn't in the index, or when an ID repeats.
// Unknown ids yield nil.
func (idx *Index) Chain(id string) []Link {
	page, ok := idx.pages[id]
	if !ok {
		return nil
	}

	var reversed []Link
	seen := map[string]bool{}
	for {
		seen[page.ID] = true
		reversed = append(reversed, Link{ID: page.ID, Title: page.Title})
		if page.IsRoot() || idx.detached[page.ID] {
			break
		}
		parent, ok := idx.pages[page.ParentID]
		if !ok || seen[parent.ID] {
			break
		}
		page = parent
	}

	chain := make([]Link, len(reversed))
	for i, l := range reversed {
		chain[len(reversed)-1-i] = l
	}
	return chain
}

// Titles returns the titles of id's ancestors, nearest root first, excluding id itself.
func (idx *Index) Titles(id string) []string {
	chain := idx.Chain(id)
	if len(chain) == 0 {
		return nil
	}
	titles := make([]string, 0, len(chain)-1)
	for _, l := range chain[:len(chain)-1] {
		titles = append(titles, l.Title)
	}
	return titles
}
