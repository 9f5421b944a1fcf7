// Package quest implements a single quest definition: its preconditions,
// ordered goals, permitted actions, relevant objects and subquests, plus
// the derived caches (candidate objects per action argument slot,
// relevance sets) that make the planner's search loop and the state's
// per-quest filtered view cheap.
package quest

import (
	"mozok/internal/action"
	"mozok/internal/ids"
	"mozok/internal/model"
	"mozok/internal/state"
)

// Goal is one ordered milestone: a statement vector that must all hold
// simultaneously for the goal to be considered reached.
type Goal = []*model.Statement

// ApplicableActionsIterator receives every substitution the enumeration
// in IterateOverApplicableActions discovers. Returning false halts the
// search immediately, short-circuiting any outstanding actions/argument
// slots still to be tried.
type ApplicableActionsIterator interface {
	ActionCallback(act *action.Action, arguments model.ObjectVec) bool
}

// Quest is a named, ordered sequence of goals reachable through a fixed
// set of permitted local actions over a fixed set of relevant objects,
// optionally decomposed into subquests.
type Quest struct {
	Name          string
	ID            ids.ID
	Preconditions []*model.Statement
	Goals         []Goal
	Actions       []*action.Action
	Objects       model.ObjectVec
	Subquests     []*Quest

	// actionArgObjects[i][j] holds every relevant object whose type set
	// is compatible with Actions[i]'s j-th parameter slot - the
	// candidate pool IterateOverApplicableActions enumerates over. An
	// action with any empty-but-nonzero-arity slot can never fire and is
	// recorded here as an empty outer slice (see buildActionArgObjects).
	actionArgObjects [][]model.ObjectVec
	idToAction       map[ids.ID]*action.Action
	relevantActions  map[ids.ID]struct{}
	relevantObjects  map[ids.ID]struct{}
	relevantRelations map[ids.ID]struct{}
}

// New builds a quest and its derived caches from its definition. Caches
// are computed once, here, since every field is immutable afterward.
func New(name string, id ids.ID, preconditions []*model.Statement, goals []Goal, actions []*action.Action, objects model.ObjectVec, subquests []*Quest) *Quest {
	q := &Quest{
		Name:          name,
		ID:            id,
		Preconditions: preconditions,
		Goals:         goals,
		Actions:       actions,
		Objects:       objects,
		Subquests:     subquests,
	}
	q.actionArgObjects = q.buildActionArgObjects()
	q.idToAction = q.buildIdToActionMap()
	q.relevantActions = q.buildRelevantActions(actions)
	q.relevantObjects = q.buildRelevantObjects(objects)
	q.relevantRelations = q.buildRelevantRelations(actions)
	return q
}

func (q *Quest) buildActionArgObjects() [][]model.ObjectVec {
	result := make([][]model.ObjectVec, len(q.Actions))
	for ai, act := range q.Actions {
		params := act.Parameters
		argObjs := make([]model.ObjectVec, len(params))
		notEmpty := true
		for i, param := range params {
			for _, obj := range q.Objects {
				if model.AreTypesetsCompatible(obj.TypeSet, param.TypeSet) {
					argObjs[i] = append(argObjs[i], obj)
				}
			}
			if len(argObjs[i]) == 0 {
				notEmpty = false
				break
			}
		}
		if notEmpty {
			result[ai] = argObjs
		} else {
			// Action can never be applicable: some slot has no candidate.
			result[ai] = nil
		}
	}
	return result
}

func (q *Quest) buildIdToActionMap() map[ids.ID]*action.Action {
	res := make(map[ids.ID]*action.Action, len(q.Actions))
	for _, act := range q.Actions {
		res[act.ID] = act
	}
	return res
}

func (q *Quest) buildRelevantActions(actions []*action.Action) map[ids.ID]struct{} {
	res := make(map[ids.ID]struct{}, len(actions))
	for _, act := range actions {
		res[act.ID] = struct{}{}
	}
	return res
}

func (q *Quest) buildRelevantObjects(objects model.ObjectVec) map[ids.ID]struct{} {
	res := make(map[ids.ID]struct{}, len(objects))
	for _, obj := range objects {
		res[obj.ID] = struct{}{}
	}
	return res
}

func (q *Quest) buildRelevantRelations(actions []*action.Action) map[ids.ID]struct{} {
	res := make(map[ids.ID]struct{})
	for _, act := range actions {
		for _, stmt := range act.Pre.Statements {
			res[stmt.Relation.ID] = struct{}{}
		}
		for _, stmt := range act.Rem.Statements {
			res[stmt.Relation.ID] = struct{}{}
		}
		for _, stmt := range act.Add.Statements {
			res[stmt.Relation.ID] = struct{}{}
		}
	}
	for _, stmt := range q.Preconditions {
		res[stmt.Relation.ID] = struct{}{}
	}
	for _, goal := range q.Goals {
		for _, stmt := range goal {
			res[stmt.Relation.ID] = struct{}{}
		}
	}
	return res
}

// GetAction looks up one of the quest's permitted actions by ID, or nil
// if actionId doesn't name one of them.
func (q *Quest) GetAction(actionID ids.ID) *action.Action {
	return q.idToAction[actionID]
}

// IsActionRelevant reports whether actionID names one of the quest's
// permitted actions.
func (q *Quest) IsActionRelevant(actionID ids.ID) bool {
	_, ok := q.relevantActions[actionID]
	return ok
}

// IsObjectRelevant reports whether objectID names one of the quest's
// relevant objects. Satisfies state.QuestView.
func (q *Quest) IsObjectRelevant(objectID int) bool {
	_, ok := q.relevantObjects[objectID]
	return ok
}

// IsRelationRelevant reports whether relationID is mentioned by any of
// the quest's preconditions, goals, or permitted actions. Satisfies
// state.QuestView.
func (q *Quest) IsRelationRelevant(relationID int) bool {
	_, ok := q.relevantRelations[relationID]
	return ok
}

// IterateOverApplicableActions enumerates, deterministically in action
// definition order and then relevant-object order, every substitution of
// every permitted action whose arguments are type-compatible and whose
// preconditions hold against state. actionPreBuffers must hold one
// pre-buffer per action (see action.Action.NewPreBuffer), indexed the
// same as q.Actions, reused across calls to stay allocation-free. The
// iterator may halt the whole search early by returning false from
// ActionCallback.
func (q *Quest) IterateOverApplicableActions(st *state.State, it ApplicableActionsIterator, actionPreBuffers [][]*model.Statement) {
	for actionIndx, act := range q.Actions {
		if len(q.actionArgObjects[actionIndx]) == 0 && len(act.Parameters) > 0 {
			continue // This action is not applicable at all.
		}
		objects := make(model.ObjectVec, len(act.Parameters))
		objectSet := make(map[*model.Object]struct{}, len(act.Parameters))
		if !q.findNextObj(st, it, actionPreBuffers, objects, objectSet, actionIndx, 0) {
			break // Iterator asked us to stop the whole search.
		}
	}
}

// findNextObj recursively extends objects[0:argIndx] with every
// candidate at argIndx, keeping objectSet as a running no-repeats guard
// (the reference engine never substitutes the same object for two
// distinct parameter slots of one action). At the base case it verifies
// preconditions via the fast buffered path and invokes the iterator.
// Returns false to propagate an iterator-requested halt up the stack.
func (q *Quest) findNextObj(st *state.State, it ApplicableActionsIterator, actionPreBuffers [][]*model.Statement, objects model.ObjectVec, objectSet map[*model.Object]struct{}, actionIndx, argIndx int) bool {
	if argIndx >= len(q.actionArgObjects[actionIndx]) {
		act := q.Actions[actionIndx]
		if act.CheckPreconditionsFast(objects, st, actionPreBuffers[actionIndx]) {
			return it.ActionCallback(act, append(model.ObjectVec(nil), objects...))
		}
		return true
	}
	for _, obj := range q.actionArgObjects[actionIndx][argIndx] {
		if _, used := objectSet[obj]; used {
			continue
		}
		objectSet[obj] = struct{}{}
		objects[argIndx] = obj
		if !q.findNextObj(st, it, actionPreBuffers, objects, objectSet, actionIndx, argIndx+1) {
			delete(objectSet, obj)
			return false
		}
		delete(objectSet, obj)
	}
	return true
}
