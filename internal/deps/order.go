package deps

import (
	"context"

	"github.com/vk/varflow/internal/ctxlog"
	"github.com/vk/varflow/internal/variable"
)

// MakeUpdateList returns the variables that must be re-evaluated, in order,
// so that every variable in dependents reflects the current values of the
// variables in independents.
//
// Only variables both needed by the dependents and reachable from the
// independents are listed. The independents themselves and the dummy are
// considered up to date and never appear in the result. A cycle anywhere
// among the variables the dependents need is reported as a *CycleError, even
// when no independent reaches it; no partial list is returned.
func (m *Map) MakeUpdateList(ctx context.Context, independents, dependents []*variable.Variable) ([]*variable.Variable, error) {
	roots, err := m.indices(independents)
	if err != nil {
		return nil, err
	}
	targets, err := m.indices(dependents)
	if err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	preds, nPreds := m.predecessors(targets, roots)
	followers, nFollowers := m.followers(roots, preds)

	// Sorting every predecessor, not just the followers, surfaces cycles the
	// roots cannot reach. Restricted to the followers the order stays valid.
	for i := range m.infos {
		if !preds[i] {
			continue
		}
		n := 0
		for _, d := range m.infos[i].dependsIdx {
			if preds[d] {
				n++
			}
		}
		m.infos[i].counter = n
	}
	order, err := m.sort(preds, nPreds)
	if err != nil {
		return nil, err
	}

	skip := make([]bool, len(m.infos))
	skip[m.dummy] = true
	for _, r := range roots {
		skip[r] = true
	}
	list := make([]*variable.Variable, 0, len(order))
	for _, i := range order {
		if followers[i] && !skip[i] {
			list = append(list, m.infos[i].v)
		}
	}

	ctxlog.FromContext(ctx).Debug("Update list computed.",
		"independents", len(roots),
		"dependents", len(targets),
		"predecessors", nPreds,
		"followers", nFollowers,
		"updates", len(list),
	)
	return list, nil
}

// predecessors marks every node the targets transitively depend on, the
// targets included. An edge to the dummy pulls in every root as well.
func (m *Map) predecessors(targets, roots []int) ([]bool, int) {
	marked := make([]bool, len(m.infos))
	count := 0
	queue := make([]int, 0, len(targets))
	visit := func(i int) {
		if !marked[i] {
			marked[i] = true
			count++
			queue = append(queue, i)
		}
	}

	for _, t := range targets {
		visit(t)
	}
	for len(queue) > 0 {
		i := queue[0]
		queue = queue[1:]
		for _, d := range m.infos[i].dependsIdx {
			if d == m.dummy {
				for _, r := range roots {
					visit(r)
				}
			}
			visit(d)
		}
	}
	return marked, count
}

// followers marks the predecessors reachable forward from the roots. The
// dummy follows whenever any root does.
func (m *Map) followers(roots []int, preds []bool) ([]bool, int) {
	marked := make([]bool, len(m.infos))
	count := 0
	var queue []int
	visit := func(i int) {
		if preds[i] && !marked[i] {
			marked[i] = true
			count++
			queue = append(queue, i)
		}
	}

	for _, r := range roots {
		visit(r)
	}
	if count > 0 {
		visit(m.dummy)
	}
	for len(queue) > 0 {
		i := queue[0]
		queue = queue[1:]
		for _, f := range m.infos[i].modifiesIdx {
			visit(f)
		}
	}
	return marked, count
}

// sort orders the nodes of set by repeatedly taking one whose counter is
// zero and releasing the nodes that read it. Counters must already hold the
// number of unresolved dependencies inside set.
func (m *Map) sort(set []bool, size int) ([]int, error) {
	ready := make([]int, 0, size)
	for i := range m.infos {
		if set[i] && m.infos[i].counter == 0 {
			ready = append(ready, i)
		}
	}

	order := make([]int, 0, size)
	for len(ready) > 0 {
		i := ready[0]
		ready = ready[1:]
		order = append(order, i)
		for _, f := range m.infos[i].modifiesIdx {
			if !set[f] {
				continue
			}
			m.infos[f].counter--
			if m.infos[f].counter == 0 {
				ready = append(ready, f)
			}
		}
	}

	if len(order) != size {
		done := make([]bool, len(m.infos))
		for _, i := range order {
			done[i] = true
		}
		stuck := make([]int, 0, size-len(order))
		for i := range m.infos {
			if set[i] && !done[i] {
				stuck = append(stuck, i)
			}
		}
		return nil, m.cycleError(stuck)
	}
	return order, nil
}

// Order returns every variable of the map in a valid evaluation order.
func (m *Map) Order() ([]*variable.Variable, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.resetCounters()
	all := make([]bool, len(m.infos))
	for i := range all {
		all[i] = true
	}
	order, err := m.sort(all, len(m.infos))
	if err != nil {
		return nil, err
	}

	list := make([]*variable.Variable, 0, len(order))
	for _, i := range order {
		if i != m.dummy {
			list = append(list, m.infos[i].v)
		}
	}
	return list, nil
}

// UpdateAll evaluates every variable of the map in order. A failing
// variable does not stop the others; its failure is logged and returned.
// Only a cycle aborts the pass.
func (m *Map) UpdateAll(ctx context.Context) ([]*EvaluationError, error) {
	logger := ctxlog.FromContext(ctx)

	order, err := m.Order()
	if err != nil {
		return nil, err
	}

	var failures []*EvaluationError
	for _, v := range order {
		if ferr := evaluate(v); ferr != nil {
			logger.Warn("Variable evaluation failed.", "variable", ferr.Name, "error", ferr.Err)
			failures = append(failures, ferr)
		}
	}
	logger.Debug("Full update finished.", "variables", len(order), "failures", len(failures))
	return failures, nil
}
