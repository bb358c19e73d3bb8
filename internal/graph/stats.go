package graph

import "sort"

// rankLimit caps the most-imported / most-imports tables.
const rankLimit = 5

// PathCount pairs a file with an occurrence count for ranking tables.
type PathCount struct {
	Path  string `json:"path"`
	Count int    `json:"count"`
}

// Stats summarizes a finished graph.
type Stats struct {
	TotalFiles        int         `json:"totalFiles"`
	TotalDependencies int         `json:"totalDependencies"`
	TotalExternal     int         `json:"totalExternal"`
	Cycles            int         `json:"cycles"`
	MostImported      []PathCount `json:"mostImported"`
	MostImports       []PathCount `json:"mostImports"`
}

// Stats computes summary counters and the top-5 rankings. Ties rank by
// path so output is stable across runs.
func (g *Graph) Stats() Stats {
	totalDeps := 0
	totalExternal := 0
	inDegree := make(map[string]int)

	for _, node := range g.Nodes {
		totalDeps += len(node.Imports)
		totalExternal += len(node.Externals)
		for target := range node.Imports {
			inDegree[target]++
		}
	}

	// Only files someone actually imports appear here.
	mostImported := make([]PathCount, 0, len(inDegree))
	for path, count := range inDegree {
		mostImported = append(mostImported, PathCount{Path: path, Count: count})
	}
	rank(mostImported)

	// Every file appears here, zero-importers included.
	mostImports := make([]PathCount, 0, len(g.Nodes))
	for path, node := range g.Nodes {
		mostImports = append(mostImports, PathCount{Path: path, Count: len(node.Imports)})
	}
	rank(mostImports)

	return Stats{
		TotalFiles:        len(g.Nodes),
		TotalDependencies: totalDeps,
		TotalExternal:     totalExternal,
		Cycles:            len(g.FindCycles()),
		MostImported:      truncate(mostImported),
		MostImports:       truncate(mostImports),
	}
}

func rank(items []PathCount) {
	sort.Slice(items, func(i, j int) bool {
		if items[i].Count != items[j].Count {
			return items[i].Count > items[j].Count
		}
		return items[i].Path < items[j].Path
	})
}

func truncate(items []PathCount) []PathCount {
	if len(items) > rankLimit {
		return items[:rankLimit]
	}
	return items
}
