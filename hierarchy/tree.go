// Package hierarchy rebuilds a space's page tree from the flat, parent-pointer page list the
// Confluence API hands us.
package hierarchy

import (
	"sort"

	"github.com/toothbrush/confluence-export/confluence"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// Node is one page in the rebuilt tree.
type Node struct {
	ID         string
	Title      string
	ParentID   string
	ParentType string
	Status     string
	CreatedAt  string
	Children   []*Node
}

// OrphanPolicy decides where a page goes when its declared parent isn't part of the page set.
type OrphanPolicy int

const (
	// OrphansAsRoots hangs orphans off the top level, so nothing silently disappears from an
	// export.  Every orphan is reported in Forest.Orphans.
	OrphansAsRoots OrphanPolicy = iota
)

// Forest is the result of Build.  It is read-only once built.
type Forest struct {
	Roots      []*Node
	TotalPages int

	// Orphans lists the IDs of pages whose parent was missing and which were promoted to roots.
	Orphans []string
	// CycleBreaks lists the IDs of pages detached from their parent to break a parent-pointer
	// cycle; they are roots as well.
	CycleBreaks []string
}

type options struct {
	locale language.Tag
	orphans OrphanPolicy
}

type Option func(*options)

// WithLocale sets the collation used to order siblings by title.
func WithLocale(tag language.Tag) Option {
	return func(o *options) { o.locale = tag }
}

// WithOrphanPolicy sets the orphan policy.  OrphansAsRoots is the default and, for now, the only
// one.
func WithOrphanPolicy(p OrphanPolicy) Option {
	return func(o *options) { o.orphans = p }
}

// Build turns pages into a forest.  Pages under a space (or without a parent) become roots,
// pages with a known parent become that parent's children, and everything else is handled by the
// orphan policy.  Siblings are ordered by title.
func Build(pages []confluence.Page, opts ...Option) *Forest {
	o := options{locale: language.English, orphans: OrphansAsRoots}
	for _, opt := range opts {
		opt(&o)
	}

	forest := &Forest{}
	nodes := make(map[string]*Node, len(pages))
	order := make([]*Node, 0, len(pages))

	for _, page := range pages {
		if _, ok := nodes[page.ID]; ok {
			// the API shouldn't hand us duplicates; first one wins.
			continue
		}
		n := &Node{
			ID:         page.ID,
			Title:      page.Title,
			ParentID:   page.ParentID,
			ParentType: page.ParentType,
			Status:     page.Status,
			CreatedAt:  page.CreatedAt,
			Children:   []*Node{},
		}
		nodes[page.ID] = n
		order = append(order, n)
	}
	forest.TotalPages = len(order)

	for _, n := range order {
		switch {
		case n.ParentType == confluence.ParentSpace || n.ParentID == "":
			forest.Roots = append(forest.Roots, n)
		case nodes[n.ParentID] != nil:
			parent := nodes[n.ParentID]
			parent.Children = append(parent.Children, n)
		default:
			forest.Roots = append(forest.Roots, n)
			forest.Orphans = append(forest.Orphans, n.ID)
		}
	}

	forest.breakCycles(order, nodes)

	c := collate.New(o.locale)
	sortNodes(c, forest.Roots)
	return forest
}

// breakCycles promotes members of parent-pointer cycles to roots.  Nodes in a cycle are never
// reachable from a root, so without this they'd vanish from the export.
func (f *Forest) breakCycles(order []*Node, nodes map[string]*Node) {
	reached := make(map[*Node]bool, len(order))
	mark := func(from *Node) {
		stack := []*Node{from}
		for len(stack) > 0 {
			n := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			if reached[n] {
				continue
			}
			reached[n] = true
			stack = append(stack, n.Children...)
		}
	}
	for _, r := range f.Roots {
		mark(r)
	}

	for _, n := range order {
		if reached[n] {
			continue
		}
		// walk up until a node repeats; that one sits on the cycle.
		seen := map[*Node]bool{}
		cur := n
		for !seen[cur] {
			seen[cur] = true
			cur = nodes[cur.ParentID]
		}
		parent := nodes[cur.ParentID]
		parent.Children = removeChild(parent.Children, cur)
		f.Roots = append(f.Roots, cur)
		f.CycleBreaks = append(f.CycleBreaks, cur.ID)
		mark(cur)
	}
}

func removeChild(children []*Node, child *Node) []*Node {
	for i, c := range children {
		if c == child {
			return append(children[:i], children[i+1:]...)
		}
	}
	return children
}

func sortNodes(c *collate.Collator, nodes []*Node) {
	stack := [][]*Node{nodes}
	for len(stack) > 0 {
		level := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		sort.SliceStable(level, func(i, j int) bool {
			return c.CompareString(level[i].Title, level[j].Title) < 0
		})
		for _, n := range level {
			if len(n.Children) > 0 {
				stack = append(stack, n.Children)
			}
		}
	}
}

// CountAll counts n and all of its descendants.
func CountAll(n *Node) int {
	count := 0
	stack := []*Node{n}
	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		count++
		stack = append(stack, cur.Children...)
	}
	return count
}
