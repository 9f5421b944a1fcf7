// Package action implements the quest engine's operators: named
// parameterised effects over the world state, with precondition
// checking and the precomputed-buffer fast path the planner's search
// loop relies on.
package action

import (
	"mozok/internal/ids"
	"mozok/internal/model"
	"mozok/internal/result"
	"mozok/internal/state"
)

// ActionError classifies why applying an action failed, exposed to
// hosts via onActionError so a UI can localise the message instead of
// parsing the Result description.
type ActionError int

const (
	NoError ActionError = iota
	UndefinedAction
	ArityError
	UndefinedObject
	TypeError
	PreconditionsError
	NAAction
	OtherError
)

func (e ActionError) String() string {
	switch e {
	case NoError:
		return "NO_ERROR"
	case UndefinedAction:
		return "UNDEFINED_ACTION"
	case ArityError:
		return "ARITY_ERROR"
	case UndefinedObject:
		return "UNDEFINED_OBJECT"
	case TypeError:
		return "TYPE_ERROR"
	case PreconditionsError:
		return "PRECONDITIONS_ERROR"
	case NAAction:
		return "NA_ACTION"
	default:
		return "OTHER"
	}
}

// Action is a named operator: a parameter list plus precondition/
// remove/add statement lists, each represented as a RelationList so
// they share relation lists' substitution and fast-buffer machinery.
type Action struct {
	ID                ids.ID
	Name              string
	IsNotApplicable   bool
	Parameters        model.ObjectVec
	Pre, Rem, Add     *model.RelationList
	isGlobal          bool
}

// New constructs an action, computing its locality flag from the
// statements in pre/rem/add.
func New(name string, id ids.ID, isNA bool, parameters model.ObjectVec, pre, rem, add []*model.Statement) *Action {
	a := &Action{
		ID:              id,
		Name:            name,
		IsNotApplicable: isNA,
		Parameters:      parameters,
		Pre:             &model.RelationList{Name: "_pre", ID: -1, Parameters: parameters, Statements: pre},
		Rem:             &model.RelationList{Name: "_rem", ID: -1, Parameters: parameters, Statements: rem},
		Add:             &model.RelationList{Name: "_add", ID: -1, Parameters: parameters, Statements: add},
	}
	a.isGlobal = a.calculateLocality()
	return a
}

func (a *Action) calculateLocality() bool {
	for _, rlist := range [3]*model.RelationList{a.Pre, a.Rem, a.Add} {
		for _, stmt := range rlist.Statements {
			if stmt.IsGlobal() {
				return true
			}
		}
	}
	return false
}

// IsGlobal reports whether the action refers to anything beyond its own
// parameters. Only local actions may be listed as a quest's permitted
// actions.
func (a *Action) IsGlobal() bool { return a.isGlobal }

// EvaluateApplicability validates arguments against arity, per-slot type
// compatibility, and (unless skipped) preconditions in state, in that
// order - matching the reference engine's check ordering exactly so
// ActionError reflects the first violated constraint.
func (a *Action) EvaluateApplicability(skipPreconditions bool, arguments model.ObjectVec, st *state.State) (result.Result, ActionError) {
	if len(arguments) != len(a.Parameters) {
		return result.ActionArgErrorInvalidArity(a.Name, len(a.Parameters), len(arguments)), ArityError
	}
	for i, obj := range arguments {
		param := a.Parameters[i]
		if !model.AreTypesetsCompatible(obj.TypeSet, param.TypeSet) {
			return result.ActionArgErrorInvalidType(a.Name, i, obj.Name, obj.TypeSet.Names(), param.TypeSet.Names()), TypeError
		}
	}
	if !skipPreconditions {
		preconditions := a.Pre.Substitute(arguments)
		if !st.HasSubstate(preconditions) {
			return result.ActionPreconditionsFailed("", a.Name), PreconditionsError
		}
	}
	return result.OK(), NoError
}

// Apply validates applicability (full checks) then mutates st by
// removing _rem's substituted statements followed by adding _add's. On
// any validation failure st is left unmodified.
func (a *Action) Apply(arguments model.ObjectVec, st *state.State) (result.Result, ActionError) {
	res, actionErr := a.EvaluateApplicability(false, arguments, st)
	if res.IsError() {
		return res, actionErr
	}
	st.Remove(a.Rem.Substitute(arguments))
	st.Add(a.Add.Substitute(arguments))
	return res, actionErr
}

// ApplyUnsafe mutates st without any validation. Used exclusively by
// the planner's search loop, which only ever proposes substitutions it
// has already validated via CheckPreconditionsFast.
func (a *Action) ApplyUnsafe(arguments model.ObjectVec, st *state.State) {
	st.Remove(a.Rem.Substitute(arguments))
	st.Add(a.Add.Substitute(arguments))
}

// NewPreBuffer builds the precondition buffer CheckPreconditionsFast
// expects: a statement vector structurally identical to a.Pre's
// statements (same relations, same order, same constants), built once
// per action so the hot loop never reallocates it.
func (a *Action) NewPreBuffer() []*model.Statement {
	return a.Pre.Substitute(a.Parameters)
}

// CheckPreconditionsFast is the planner's optimized substitute: it
// mutates preBuffer in place via RelationList.SubstituteFast instead of
// allocating a fresh statement vector, then checks containment. Callers
// must have verified arguments are fully compatible with a.Parameters
// already (the planner's candidate-slot enumeration guarantees this).
func (a *Action) CheckPreconditionsFast(arguments model.ObjectVec, st *state.State, preBuffer []*model.Statement) bool {
	a.Pre.SubstituteFast(preBuffer, arguments)
	return st.HasSubstate(preBuffer)
}
