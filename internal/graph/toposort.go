package graph

import (
	"sort"
	"strings"

	"git.home.luguber.info/inful/mdcombine/internal/document"
)

// Group is one pattern bucket of the custom sort mode. Documents whose path
// contains Pattern (first match wins) are sorted together; documents matching
// no group fall into a trailing catch-all.
type Group struct {
	Pattern string
}

// TopoSort orders documents by their dependencies using Kahn's algorithm.
//
// Ready candidates are always considered in the documents' original relative
// order and then stably sorted by (layer, category, title) ascending, which
// makes the output deterministic regardless of filesystem iteration order.
//
// Cycles never raise: once no node is ready, the remaining nodes are appended
// in their original relative order. Every document appears exactly once.
func TopoSort(docs []*document.Document) []*document.Document {
	if len(docs) <= 1 {
		out := make([]*document.Document, len(docs))
		copy(out, docs)
		return out
	}

	index := make(map[string]int, len(docs))
	for i, d := range docs {
		index[normalizePath(d.Path)] = i
	}

	inDegree := make([]int, len(docs))
	dependents := make([][]int, len(docs))
	for _, e := range BuildEdges(docs) {
		from := index[e.From]
		to := index[e.To]
		// The edge points dependency -> dependent: To must come out first.
		inDegree[from]++
		dependents[to] = append(dependents[to], from)
	}

	visited := make([]bool, len(docs))
	out := make([]*document.Document, 0, len(docs))

	for len(out) < len(docs) {
		// Collect ready nodes in original order, then stable-sort by the
		// tie-break tuple so equal tuples keep their relative order.
		var ready []int
		for i := range docs {
			if !visited[i] && inDegree[i] == 0 {
				ready = append(ready, i)
			}
		}
		if len(ready) == 0 {
			// Cycle: append whatever remains in original relative order.
			for i := range docs {
				if !visited[i] {
					visited[i] = true
					out = append(out, docs[i])
				}
			}
			break
		}

		sort.SliceStable(ready, func(a, b int) bool {
			return lessByTuple(docs[ready[a]], docs[ready[b]])
		})

		next := ready[0]
		visited[next] = true
		out = append(out, docs[next])
		for _, dep := range dependents[next] {
			inDegree[dep]--
		}
	}

	return out
}

// lessByTuple compares by (layer, category, title) ascending.
func lessByTuple(a, b *document.Document) bool {
	if a.Layer() != b.Layer() {
		return a.Layer() < b.Layer()
	}
	if a.Category() != b.Category() {
		return a.Category() < b.Category()
	}
	return a.Title() < b.Title()
}

// SortCustom partitions documents into ordered pattern groups (first matching
// substring wins; non-matches fall into a trailing catch-all), topologically
// sorts each group independently, and concatenates the groups in order.
func SortCustom(docs []*document.Document, groups []Group) []*document.Document {
	buckets := make([][]*document.Document, len(groups)+1)
	for _, d := range docs {
		placed := false
		for gi, g := range groups {
			if g.Pattern != "" && strings.Contains(d.Path, g.Pattern) {
				buckets[gi] = append(buckets[gi], d)
				placed = true
				break
			}
		}
		if !placed {
			buckets[len(groups)] = append(buckets[len(groups)], d)
		}
	}

	out := make([]*document.Document, 0, len(docs))
	for _, bucket := range buckets {
		out = append(out, TopoSort(bucket)...)
	}
	return out
}
