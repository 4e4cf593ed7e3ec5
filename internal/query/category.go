package query

// Descendants returns root together with every node whose parent chain leads
// to root. parents maps a node id to its parent id ("" for roots).
// The walk is breadth-first and never revisits a node, so cyclic or
// self-referencing input terminates.
func Descendants(root string, parents map[string]string) map[string]struct{} {
	children := make(map[string][]string, len(parents))
	for id, parent := range parents {
		if parent != "" {
			children[parent] = append(children[parent], id)
		}
	}

	seen := map[string]struct{}{root: {}}
	queue := []string{root}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for _, child := range children[cur] {
			if _, ok := seen[child]; ok {
				continue
			}
			seen[child] = struct{}{}
			queue = append(queue, child)
		}
	}
	return seen
}

// IsAncestor reports whether ancestor appears in the parent chain starting at
// node (node itself included).
func IsAncestor(ancestor, node string, parents map[string]string) bool {
	seen := map[string]struct{}{}
	for cur := node; cur != ""; cur = parents[cur] {
		if cur == ancestor {
			return true
		}
		if _, ok := seen[cur]; ok {
			return false
		}
		seen[cur] = struct{}{}
	}
	return false
}
