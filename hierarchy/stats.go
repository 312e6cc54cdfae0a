package hierarchy

// Stats summarises a forest.
type Stats struct {
	TotalPages int
	RootCount  int
	// MaxDepth is the deepest level reached, where roots are level 1.
	MaxDepth     int
	PagesByLevel map[int]int
}

// ComputeStats walks f with an explicit stack, so arbitrarily deep trees are fine.
func ComputeStats(f *Forest) Stats {
	stats := Stats{PagesByLevel: map[int]int{}}
	if f == nil {
		return stats
	}
	stats.RootCount = len(f.Roots)

	type frame struct {
		node  *Node
		level int
	}
	stack := make([]frame, 0, len(f.Roots))
	for _, r := range f.Roots {
		stack = append(stack, frame{r, 1})
	}
	for len(stack) > 0 {
		top := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		stats.TotalPages++
		stats.PagesByLevel[top.level]++
		if top.level > stats.MaxDepth {
			stats.MaxDepth = top.level
		}
		for _, c := range top.node.Children {
			stack = append(stack, frame{c, top.level + 1})
		}
	}
	return stats
}
