package state

import "mozok/internal/model"

// QuestView is the minimal interface State.Duplicate needs from a quest
// in order to build its filtered view, kept narrow to avoid an import
// cycle between internal/state and internal/quest (the quest package
// imports internal/state, not the other way around).
type QuestView interface {
	IsRelationRelevant(relationID int) bool
	IsObjectRelevant(objectID int) bool
}

// State is the quest world's current fact-set: a set of statements plus
// an XOR-combinable hash that cheaply tracks incremental add/remove.
type State struct {
	set  *statementSet
	hash uint64
}

// New builds a state containing exactly the given statements.
func New(statements []*model.Statement) *State {
	s := &State{set: newStatementSet()}
	s.Add(statements)
	return s
}

// Hash returns the state's cached XOR hash. Invariant: always equal to
// the XOR of every member statement's own hash.
func (s *State) Hash() uint64 { return s.hash }

// Size returns the number of statements currently in the state.
func (s *State) Size() int { return s.set.size }

// HasSubstate reports whether every statement in substate is already a
// member of this state (universal containment).
func (s *State) HasSubstate(substate []*model.Statement) bool {
	for _, stmt := range substate {
		if !s.set.contains(stmt) {
			return false
		}
	}
	return true
}

// Contains reports whether a single statement is a member.
func (s *State) Contains(stmt *model.Statement) bool {
	return s.set.contains(stmt)
}

// Add inserts each statement not already present, folding its hash into
// the running XOR total. Idempotent w.r.t. membership: adding an
// already-present statement is a no-op.
func (s *State) Add(statements []*model.Statement) {
	for _, stmt := range statements {
		if s.set.add(stmt) {
			s.hash ^= stmt.Hash()
		}
	}
}

// Remove deletes each statement, folding its hash back out of the
// running XOR total. Idempotent w.r.t. membership.
func (s *State) Remove(statements []*model.Statement) {
	for _, stmt := range statements {
		if s.set.remove(stmt) {
			s.hash ^= stmt.Hash()
		}
	}
}

// Duplicate returns a deep copy of the state: same statements (shared,
// since they're immutable), independent set and hash bookkeeping so
// mutating the copy never affects the original.
func (s *State) Duplicate() *State {
	return &State{set: s.set.clone(), hash: s.hash}
}

// DuplicateFiltered returns a duplicate keeping only statements whose
// relation is relevant to quest *and* all of whose arguments are
// relevant objects of quest - the "view" the planner searches over.
func (s *State) DuplicateFiltered(quest QuestView) *State {
	out := &State{set: newStatementSet()}
	s.set.all(func(stmt *model.Statement) bool {
		if !quest.IsRelationRelevant(stmt.Relation.ID) {
			return true
		}
		for _, arg := range stmt.Arguments() {
			if !quest.IsObjectRelevant(arg.ID) {
				return true
			}
		}
		if out.set.add(stmt) {
			out.hash ^= stmt.Hash()
		}
		return true
	})
	return out
}

// Statements returns every statement currently in the state. The order
// is unspecified; callers that need determinism (save-file emission)
// must sort by their own criteria.
func (s *State) Statements() []*model.Statement {
	out := make([]*model.Statement, 0, s.set.size)
	s.set.all(func(stmt *model.Statement) bool {
		out = append(out, stmt)
		return true
	})
	return out
}

// Equal reports whether two states contain exactly the same statements,
// using the cached hash as a fast-reject before the full comparison -
// this is the closed-set deduplication key the planner relies on.
func (s *State) Equal(other *State) bool {
	if s == other {
		return true
	}
	if s.hash != other.hash || s.set.size != other.set.size {
		return false
	}
	equal := true
	s.set.all(func(stmt *model.Statement) bool {
		if !other.set.contains(stmt) {
			equal = false
			return false
		}
		return true
	})
	return equal
}
