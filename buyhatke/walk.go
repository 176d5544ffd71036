package buyhatke

import "sort"

// maxWalkDepth bounds recursion into hydration payloads, which nest deeply
// and can self-reference through framework bookkeeping nodes.
const maxWalkDepth = 15

// walkJSON visits every node of a decoded JSON tree depth-first. visit is
// called for each node; returning false prunes that node's children. Object
// keys are visited in sorted order so walks behave deterministically.
func walkJSON(node any, depth int, visit func(node any, depth int) bool) {
	if depth > maxWalkDepth {
		return
	}
	if !visit(node, depth) {
		return
	}
	switch n := node.(type) {
	case []any:
		for _, item := range n {
			walkJSON(item, depth+1, visit)
		}
	case map[string]any:
		keys := make([]string, 0, len(n))
		for k := range n {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			walkJSON(n[k], depth+1, visit)
		}
	}
}
