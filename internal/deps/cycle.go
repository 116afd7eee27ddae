package deps

import (
	"slices"

	"gonum.org/v1/gonum/graph"
	"gonum.org/v1/gonum/graph/simple"
	"gonum.org/v1/gonum/graph/topo"
)

// cycleError names the variables of one cycle inside the stuck nodes. The
// stuck set also holds nodes that merely wait on a cycle; Tarjan's strongly
// connected components separate the two.
func (m *Map) cycleError(stuck []int) error {
	inStuck := make(map[int]bool, len(stuck))
	for _, i := range stuck {
		inStuck[i] = true
	}

	for _, i := range stuck {
		if slices.Contains(m.infos[i].dependsIdx, i) {
			return &CycleError{Variables: []string{m.infos[i].v.String()}}
		}
	}

	g := simple.NewDirectedGraph()
	for _, i := range stuck {
		g.AddNode(simple.Node(int64(i)))
	}
	for _, i := range stuck {
		for _, d := range m.infos[i].dependsIdx {
			if inStuck[d] {
				g.SetEdge(g.NewEdge(simple.Node(int64(d)), simple.Node(int64(i))))
			}
		}
	}

	var best []graph.Node
	bestMin := -1
	for _, comp := range topo.TarjanSCC(g) {
		if len(comp) < 2 {
			continue
		}
		lowest := int(comp[0].ID())
		for _, n := range comp[1:] {
			lowest = min(lowest, int(n.ID()))
		}
		if bestMin < 0 || lowest < bestMin {
			best, bestMin = comp, lowest
		}
	}

	names := make([]string, 0, len(best))
	for _, n := range best {
		names = append(names, m.infos[n.ID()].v.String())
	}
	slices.Sort(names)
	return &CycleError{Variables: names}
}
