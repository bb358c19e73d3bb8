package graph

// tarjanFrame is one suspended visit on the explicit work stack.
type tarjanFrame struct {
	node      string
	neighbors []string
	next      int
}

// FindCycles enumerates circular dependency groups: strongly connected
// components of size two or more under the imports relation. Self-loops
// stay in the edge sets but are never reported. Component members appear
// in discovery order.
//
// The traversal is iterative; recursion depth would otherwise track the
// longest import chain in the tree.
func (g *Graph) FindCycles() [][]string {
	index := 0
	indices := make(map[string]int, len(g.Nodes))
	lowlinks := make(map[string]int, len(g.Nodes))
	onStack := make(map[string]bool, len(g.Nodes))
	stack := make([]string, 0, len(g.Nodes))
	var cycles [][]string

	push := func(work []tarjanFrame, node string) []tarjanFrame {
		indices[node] = index
		lowlinks[node] = index
		index++
		stack = append(stack, node)
		onStack[node] = true
		return append(work, tarjanFrame{node: node, neighbors: g.sortedImports(node)})
	}

	for _, start := range g.sortedPaths() {
		if _, seen := indices[start]; seen {
			continue
		}

		work := push(nil, start)
		for len(work) > 0 {
			top := len(work) - 1
			v := work[top].node

			if work[top].next < len(work[top].neighbors) {
				w := work[top].neighbors[work[top].next]
				work[top].next++

				if _, seen := indices[w]; !seen {
					work = push(work, w)
				} else if onStack[w] && indices[w] < lowlinks[v] {
					lowlinks[v] = indices[w]
				}
				continue
			}

			work = work[:top]
			if len(work) > 0 {
				parent := work[len(work)-1].node
				if lowlinks[v] < lowlinks[parent] {
					lowlinks[parent] = lowlinks[v]
				}
			}

			if lowlinks[v] != indices[v] {
				continue
			}
			var component []string
			for {
				w := stack[len(stack)-1]
				stack = stack[:len(stack)-1]
				onStack[w] = false
				component = append(component, w)
				if w == v {
					break
				}
			}
			if len(component) > 1 && g.isGenuineCycle(component) {
				cycles = append(cycles, component)
			}
		}
	}

	return cycles
}

// isGenuineCycle verifies that every member reaches every other member
// using only intra-component edges. Tarjan already guarantees this; the
// check doubles as a structural invariant on the traversal above.
func (g *Graph) isGenuineCycle(component []string) bool {
	members := make(map[string]struct{}, len(component))
	for _, path := range component {
		members[path] = struct{}{}
	}

	for _, start := range component {
		visited := map[string]struct{}{start: {}}
		queue := []string{start}
		for len(queue) > 0 {
			current := queue[0]
			queue = queue[1:]

			node, ok := g.Nodes[current]
			if !ok {
				continue
			}
			for neighbor := range node.Imports {
				if _, in := members[neighbor]; !in {
					continue
				}
				if _, seen := visited[neighbor]; seen {
					continue
				}
				visited[neighbor] = struct{}{}
				queue = append(queue, neighbor)
			}
		}
		if len(visited) != len(component) {
			return false
		}
	}
	return true
}
