package planner

import (
	"mozok/internal/action"
	"mozok/internal/model"
	"mozok/internal/state"
)

// stateNode is one visited node in the search graph: the state it
// represents, the cheapest-known predecessor that reached it, and the
// action/arguments that produced it from that predecessor (both nil for
// the search's initial node).
type stateNode struct {
	state     *state.State
	preceding *stateNode
	action    *action.Action
	arguments model.ObjectVec

	gScore int // cheapest known distance from the initial state
	fScore int // gScore + heuristic estimate to the goal
}

// nodeHeap is a container/heap min-heap on fScore, giving the planner's
// open set the lowest-f-score-first pop order A* requires. Less compares
// fScore only, so ties are left to container/heap, which is not stable:
// equal-f nodes do not come out in push order.
type nodeHeap []*stateNode

func (h nodeHeap) Len() int            { return len(h) }
func (h nodeHeap) Less(i, j int) bool  { return h[i].fScore < h[j].fScore }
func (h nodeHeap) Swap(i, j int)       { h[i], h[j] = h[j], h[i] }
func (h *nodeHeap) Push(x interface{}) { *h = append(*h, x.(*stateNode)) }
func (h *nodeHeap) Pop() interface{} {
	old := *h
	n := len(old)
	item := old[n-1]
	old[n-1] = nil
	*h = old[:n-1]
	return item
}

// stateSet is a hash-bucketed set of *state.State, mirroring
// internal/state's statementSet design: Go can't key a map on a type
// with custom value equality, so bucket by the state's own hash and
// fall back to State.Equal within a bucket.
type stateSet struct {
	buckets map[uint64][]*state.State
}

func newStateSet() *stateSet {
	return &stateSet{buckets: make(map[uint64][]*state.State)}
}

func (s *stateSet) contains(st *state.State) bool {
	for _, cand := range s.buckets[st.Hash()] {
		if cand.Equal(st) {
			return true
		}
	}
	return false
}

func (s *stateSet) add(st *state.State) {
	if s.contains(st) {
		return
	}
	h := st.Hash()
	s.buckets[h] = append(s.buckets[h], st)
}
