package deps

import (
	"context"
	"slices"
	"sync"

	"github.com/vk/varflow/internal/ctxlog"
	"github.com/vk/varflow/internal/scope"
	"github.com/vk/varflow/internal/variable"
	"github.com/vk/varflow/internal/varpath"
	"github.com/zclconf/go-cty/cty"
)

// DummyName is the name of the map-owned always-dirty variable.
const DummyName = "__always_dirty__"

// Visitor reports the ids a variable's expression reads. The reserved id
// variable.AlwaysDirty stands for state outside the hierarchy.
type Visitor interface {
	Dependencies(v *variable.Variable) (variable.IDSet, error)
}

// varInfo is one node of the graph. The index slices mirror dependsOn and
// modifies as positions in Map.infos, restricted to ids present in the map.
type varInfo struct {
	v           *variable.Variable
	dependsOn   []variable.ID
	modifies    []variable.ID
	dependsIdx  []int
	modifiesIdx []int
	counter     int
}

// VarInfo is a read-only view of one graph node.
type VarInfo struct {
	Variable  *variable.Variable
	DependsOn []variable.ID
	Modifies  []variable.ID
}

// Map is the dependency graph of every non-constant variable of a scope
// hierarchy. After construction only the per-node counters change; they are
// scratch state of a single ordering query, which the map serializes.
type Map struct {
	mu    sync.Mutex
	infos []varInfo
	index map[variable.ID]int
	dummy int
}

// NewMap walks the hierarchy rooted at root and builds its dependency graph
// using visitor to extract the edges.
func NewMap(ctx context.Context, root *scope.Scope, visitor Visitor) (*Map, error) {
	var vars []*variable.Variable
	_ = root.Walk(func(s *scope.Scope) error {
		vars = append(vars, s.Variables()...)
		return nil
	})
	return build(ctx, vars, visitor)
}

func build(ctx context.Context, vars []*variable.Variable, visitor Visitor) (*Map, error) {
	logger := ctxlog.FromContext(ctx)

	dummy, err := variable.NewInput(varpath.New(DummyName), cty.DynamicPseudoType, cty.NilVal)
	if err != nil {
		return nil, err
	}
	m := &Map{
		infos: []varInfo{{v: dummy}},
		index: map[variable.ID]int{dummy.ID(): 0},
		dummy: 0,
	}

	// First pass: forward edges.
	for _, v := range vars {
		if v.IsConstant() {
			continue
		}
		if _, ok := m.index[v.ID()]; ok {
			return nil, graphErrorf(ErrDuplicateVariableID, "%s (id %d)", v, v.ID())
		}
		ids, err := visitor.Dependencies(v)
		if err != nil {
			return nil, err
		}
		if ids.Has(variable.AlwaysDirty) {
			ids.Remove(variable.AlwaysDirty)
			ids.Add(dummy.ID())
		}
		m.index[v.ID()] = len(m.infos)
		m.infos = append(m.infos, varInfo{v: v, dependsOn: ids.Sorted()})
	}

	// Second pass: reverse edges, which need every node to be known.
	edges := 0
	for i := range m.infos {
		for _, d := range m.infos[i].dependsOn {
			j, ok := m.index[d]
			if !ok {
				continue
			}
			m.infos[i].dependsIdx = append(m.infos[i].dependsIdx, j)
			m.infos[j].modifies = append(m.infos[j].modifies, m.infos[i].v.ID())
			m.infos[j].modifiesIdx = append(m.infos[j].modifiesIdx, i)
			edges++
		}
	}

	logger.Debug("Dependency map built.", "variables", len(m.infos)-1, "edges", edges)
	return m, nil
}

// Dummy returns the always-dirty variable owned by the map.
func (m *Map) Dummy() *variable.Variable {
	return m.infos[m.dummy].v
}

// Len returns the number of nodes, the dummy included.
func (m *Map) Len() int {
	return len(m.infos)
}

// Contains reports whether v is a node of the map.
func (m *Map) Contains(v *variable.Variable) bool {
	_, ok := m.index[v.ID()]
	return ok
}

// Info returns a copy of the node recorded for id.
func (m *Map) Info(id variable.ID) (VarInfo, bool) {
	i, ok := m.index[id]
	if !ok {
		return VarInfo{}, false
	}
	info := m.infos[i]
	return VarInfo{
		Variable:  info.v,
		DependsOn: slices.Clone(info.dependsOn),
		Modifies:  slices.Clone(info.modifies),
	}, true
}

// ResetCounters sets every counter to the number of in-map dependencies,
// preparing a sort over the whole graph.
func (m *Map) ResetCounters() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.resetCounters()
}

func (m *Map) resetCounters() {
	for i := range m.infos {
		m.infos[i].counter = len(m.infos[i].dependsIdx)
	}
}

func (m *Map) indices(vars []*variable.Variable) ([]int, error) {
	out := make([]int, 0, len(vars))
	for _, v := range vars {
		i, ok := m.index[v.ID()]
		if !ok {
			return nil, graphErrorf(ErrUnknownVariable, "%s (id %d)", v, v.ID())
		}
		out = append(out, i)
	}
	return out, nil
}
