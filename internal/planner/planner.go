// Package planner implements the quest engine's forward-search planner:
// an A*-style best-first search over action-induced state transitions,
// using the reference engine's simple additive heuristic (unmet-goal
// statement arity, plus a per-statement omega penalty) and a priority
// queue ordered by f-score. Nodes with equal f-scores come out in
// whatever order container/heap's sifting leaves them: the same for the
// same push sequence, but not push (FIFO) order, since container/heap
// is not stable.
package planner

import (
	"container/heap"

	"mozok/internal/action"
	"mozok/internal/model"
	"mozok/internal/qstatus"
	"mozok/internal/quest"
	"mozok/internal/state"
)

// QuestManagerView is the minimal view Planner needs of a quest
// manager, kept narrow to avoid an import cycle (internal/questmgr
// depends on this package, not the other way around).
type QuestManagerView interface {
	Quest() *quest.Quest
	LastActiveGoalIndx() int
}

// LimitSink receives the two limit-reached notifications a search can
// produce. internal/message.Queue satisfies this directly.
type LimitSink interface {
	PushSearchLimitReached(worldName, questName string, searchLimitValue int)
	PushSpaceLimitReached(worldName, questName string, spaceLimitValue int)
}

// Step is one action application within a plan: the action taken and
// the concrete arguments it was substituted with. The reference engine
// reuses its Action type (with empty pre/rem/add) to record this; a
// dedicated struct is the idiomatic Go equivalent.
type Step struct {
	Action    *action.Action
	Arguments model.ObjectVec
}

// Plan is the result of searching for one quest goal: either the goal
// was already satisfied (Done), reached via Steps (Reachable), provably
// unreachable (Unreachable), or left Unknown because a search/space
// limit cut the search short.
type Plan struct {
	GivenSubstateID int
	GivenState      *state.State
	Quest           *quest.Quest
	GoalIndx        int
	Status          qstatus.Status
	Steps           []Step
}

// Planner searches for a plan to complete one quest's goals, starting
// from a fixed snapshot of the world state.
type Planner struct {
	givenSubstateID  int
	givenState       *state.State
	questManager     QuestManagerView
	actionPreBuffers [][]*model.Statement
}

// New builds a planner. givenState is duplicated immediately so the
// caller's world state can keep mutating without affecting the search.
func New(givenSubstateID int, givenState *state.State, qm QuestManagerView) *Planner {
	p := &Planner{
		givenSubstateID: givenSubstateID,
		givenState:      givenState.Duplicate(),
		questManager:    qm,
	}
	p.actionPreBuffers = make([][]*model.Statement, len(qm.Quest().Actions))
	for i, act := range qm.Quest().Actions {
		p.actionPreBuffers[i] = act.NewPreBuffer()
	}
	return p
}

// FindQuestPlan searches goals in order starting from the quest
// manager's last active goal index, stopping at the first goal that
// isn't Unreachable - matching the reference engine's "skip goals we've
// already proven unreachable from here" short-circuit.
func (p *Planner) FindQuestPlan(worldName string, limits LimitSink, searchLimit, spaceLimit, omega int) *Plan {
	goals := p.questManager.Quest().Goals
	var last *Plan
	for goalIndx := p.questManager.LastActiveGoalIndx(); goalIndx < len(goals); goalIndx++ {
		last = p.findGoalPlan(goalIndx, worldName, limits, searchLimit, spaceLimit, omega)
		if last.Status != qstatus.Unreachable {
			break
		}
	}
	return last
}

func (p *Planner) findGoalPlan(goalIndx int, worldName string, limits LimitSink, searchLimit, spaceLimit, omega int) *Plan {
	q := p.questManager.Quest()
	goal := q.Goals[goalIndx]

	if p.givenState.HasSubstate(goal) {
		return &Plan{p.givenSubstateID, p.givenState, q, goalIndx, qstatus.Done, nil}
	}

	initial := &stateNode{state: p.givenState}
	known := newStateSet()
	known.add(p.givenState)

	open := &nodeHeap{initial}
	heap.Init(open)

	var final *stateNode
	searchStep := 0

	for open.Len() > 0 {
		searchStep++
		searchLimitReached := searchStep > searchLimit
		spaceLimitReached := open.Len() > spaceLimit
		if searchLimitReached || spaceLimitReached {
			if searchLimitReached {
				limits.PushSearchLimitReached(worldName, q.Name, searchLimit)
			}
			if spaceLimitReached {
				limits.PushSpaceLimitReached(worldName, q.Name, spaceLimit)
			}
			return &Plan{p.givenSubstateID, p.givenState, q, goalIndx, qstatus.Unknown, nil}
		}

		node := heap.Pop(open).(*stateNode)

		if node.state.HasSubstate(goal) {
			final = node
			break
		}

		p.findSubstitutions(node, known, goal, open, spaceLimit, omega)
	}

	if final == nil {
		return &Plan{p.givenSubstateID, p.givenState, q, goalIndx, qstatus.Unreachable, nil}
	}

	steps := make([]Step, final.gScore)
	for n := final; n != nil && n.action != nil; n = n.preceding {
		steps[n.gScore-1] = Step{Action: n.action, Arguments: n.arguments}
	}
	return &Plan{p.givenSubstateID, p.givenState, q, goalIndx, qstatus.Reachable, steps}
}

// findSubstitutions expands node via every applicable action
// substitution the quest can enumerate, adding each newly-discovered
// state to knownStates and open. This is the callback driving
// Quest.IterateOverApplicableActions, so it implements
// quest.ApplicableActionsIterator.
func (p *Planner) findSubstitutions(node *stateNode, known *stateSet, goal quest.Goal, open *nodeHeap, spaceLimit, omega int) {
	q := p.questManager.Quest()
	it := &expandIterator{node: node, known: known, goal: goal, open: open, spaceLimit: spaceLimit, omega: omega}
	q.IterateOverApplicableActions(node.state, it, p.actionPreBuffers)
}

type expandIterator struct {
	node       *stateNode
	known      *stateSet
	goal       quest.Goal
	open       *nodeHeap
	spaceLimit int
	omega      int
}

func (it *expandIterator) ActionCallback(act *action.Action, arguments model.ObjectVec) bool {
	if it.open.Len() > it.spaceLimit {
		return false
	}

	newState := it.node.state.Duplicate()
	// Arguments were already selected to be type- and precondition-
	// compatible by the quest's enumeration, so the unsafe apply is
	// sound here.
	act.ApplyUnsafe(arguments, newState)

	if it.known.contains(newState) {
		return true
	}

	hSimple := 0
	for _, goalStatement := range it.goal {
		if !newState.HasSubstate([]*model.Statement{goalStatement}) {
			hSimple += len(goalStatement.Arguments()) + it.omega
		}
	}

	newNode := &stateNode{
		state:     newState,
		preceding: it.node,
		action:    act,
		arguments: arguments,
		gScore:    it.node.gScore + 1,
	}
	newNode.fScore = newNode.gScore + hSimple

	it.known.add(newState)
	if it.open.Len() <= it.spaceLimit {
		heap.Push(it.open, newNode)
	}
	return true
}
