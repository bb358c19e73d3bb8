package analysis

import (
	"time"

	"depscope/internal/graph"
)

// Result is one finished analysis run.
type Result struct {
	RunID    string        `json:"runId"`
	Target   string        `json:"target"`
	Root     string        `json:"root"`
	Files    int           `json:"files"`
	Duration time.Duration `json:"duration"`
	Graph    *graph.Graph  `json:"-"`
}

// TracePaths collects up to limit import chains from one file to another
// by breadth-first search over resolved edges. Paths come back shortest
// first; each is the full node sequence including both endpoints.
func TracePaths(g *graph.Graph, from, to string, limit int) [][]string {
	type queueItem struct {
		node string
		path []string
	}

	visited := make(map[string]struct{})
	queue := []queueItem{{node: from, path: []string{from}}}
	var paths [][]string

	for len(queue) > 0 && len(paths) < limit {
		item := queue[0]
		queue = queue[1:]

		if _, seen := visited[item.node]; seen {
			continue
		}
		visited[item.node] = struct{}{}

		node, ok := g.Nodes[item.node]
		if !ok {
			continue
		}
		for _, imported := range graph.SortedKeys(node.Imports) {
			next := make([]string, len(item.path), len(item.path)+1)
			copy(next, item.path)
			next = append(next, imported)

			if imported == to {
				paths = append(paths, next)
				if len(paths) >= limit {
					break
				}
			} else if _, seen := visited[imported]; !seen {
				queue = append(queue, queueItem{node: imported, path: next})
			}
		}
	}

	return paths
}
