// Package state implements the quest world's fact-set store: an
// unordered set of statements carrying an XOR-combinable hash, cheap
// incremental add/remove, and quest-filtered duplication for the
// planner's per-quest view.
package state

import "mozok/internal/model"

// statementSet is a hash-bucketed set of *model.Statement, keyed by each
// statement's cached hash with full value-equality as the tiebreak.
// Statements are compared by value (relation + positional argument
// identity), not Go pointer identity, because the same logical
// statement is legitimately rebuilt by different Substitute calls - see
// model.Statement.Equal. A plain Go map can't use a struct-with-slice
// key, so bucketing by hash with a short Equal-bounded scan is the
// natural alternative (mirrors the design notes' "hash then full
// equality" requirement for collision safety).
type statementSet struct {
	buckets map[uint64][]*model.Statement
	size    int
}

func newStatementSet() *statementSet {
	return &statementSet{buckets: make(map[uint64][]*model.Statement)}
}

func (s *statementSet) contains(stmt *model.Statement) bool {
	for _, cand := range s.buckets[stmt.Hash()] {
		if cand.Equal(stmt) {
			return true
		}
	}
	return false
}

// add inserts stmt if not already present, returning true if it changed
// the set's membership (the caller uses this to decide whether to fold
// the statement's hash into the running XOR total).
func (s *statementSet) add(stmt *model.Statement) bool {
	if s.contains(stmt) {
		return false
	}
	h := stmt.Hash()
	s.buckets[h] = append(s.buckets[h], stmt)
	s.size++
	return true
}

// remove deletes stmt if present, returning true if it changed the
// set's membership.
func (s *statementSet) remove(stmt *model.Statement) bool {
	h := stmt.Hash()
	bucket := s.buckets[h]
	for i, cand := range bucket {
		if cand.Equal(stmt) {
			bucket[i] = bucket[len(bucket)-1]
			s.buckets[h] = bucket[:len(bucket)-1]
			if len(s.buckets[h]) == 0 {
				delete(s.buckets, h)
			}
			s.size--
			return true
		}
	}
	return false
}

// clone returns a shallow copy: a fresh bucket map whose slices are
// fresh too (so future adds/removes to the clone never alias the
// original), but whose *model.Statement values are shared, since
// statements are immutable once constructed.
func (s *statementSet) clone() *statementSet {
	out := &statementSet{buckets: make(map[uint64][]*model.Statement, len(s.buckets)), size: s.size}
	for h, bucket := range s.buckets {
		cp := make([]*model.Statement, len(bucket))
		copy(cp, bucket)
		out.buckets[h] = cp
	}
	return out
}

// all iterates every statement currently in the set.
func (s *statementSet) all(yield func(*model.Statement) bool) {
	for _, bucket := range s.buckets {
		for _, stmt := range bucket {
			if !yield(stmt) {
				return
			}
		}
	}
}
