// Package questmgr tracks one quest's lifecycle status and drives its
// planning: when it may be (re-)planned, whether a freshly computed
// plan supersedes the one already known, and the planner settings a
// host can tune per quest.
package questmgr

import (
	"mozok/internal/logging"
	"mozok/internal/planner"
	"mozok/internal/qstatus"
	"mozok/internal/quest"
	"mozok/internal/state"
)

const (
	DefaultSearchLimit = 1000
	DefaultSpaceLimit  = 10000
	DefaultOmega       = 0
)

// Option names one of the tunable planner settings, set via SetOption.
type Option int

const (
	OptionSearchLimit Option = iota
	OptionSpaceLimit
	OptionOmega
	OptionHeuristic
)

// Heuristic selects the planner's cost estimate. Only Simple is
// implemented by internal/planner (matching the reference engine,
// whose planner only ever evaluates the additive unmet-goal-arity
// heuristic); HSP is accepted by SetOption for forward compatibility
// but currently behaves identically to Simple.
type Heuristic int

const (
	Simple Heuristic = iota
	HSP
)

// Manager tracks a single quest's status, plan, and planner settings.
// Four rules govern every transition (enforced by Activate, SetPlan and
// PerformPlanning, not by the caller): an active quest never returns to
// inactive; DONE and UNREACHABLE are terminal; a quest's active goal
// index never regresses; and plans computed against a stale substate
// are rejected. SetQuestStatus, which applies a forced status, bypasses
// all four.
type Manager struct {
	quest *quest.Quest

	status            qstatus.Status
	lastSubstateID    int
	currentSubstateID int
	lastPlan          *planner.Plan
	lastActiveGoal    int

	searchLimit int
	spaceLimit  int
	omega       int
	heuristic   Heuristic

	parentQuest     *quest.Quest
	parentQuestGoal int
}

// New builds a manager for q, inactive, with default planner settings.
func New(q *quest.Quest) *Manager {
	return &Manager{
		quest:           q,
		status:          qstatus.Inactive,
		lastSubstateID:  -1,
		lastActiveGoal:  0,
		searchLimit:     DefaultSearchLimit,
		spaceLimit:      DefaultSpaceLimit,
		omega:           DefaultOmega,
		parentQuestGoal: -1,
	}
}

// Quest returns the managed quest. Satisfies planner.QuestManagerView.
func (m *Manager) Quest() *quest.Quest { return m.quest }

// Activate moves an inactive quest to Unknown. A no-op on any quest
// that has already left Inactive (rule 1: an active quest never
// reverts to inactive).
func (m *Manager) Activate() {
	if m.status == qstatus.Inactive {
		m.status = qstatus.Unknown
	}
}

// SetPlan adopts plan as the manager's most recent plan unless it was
// computed against a substate older than the last one already recorded
// (a stale, superseded result from a concurrent or delayed planning
// pass), or the quest is already DONE or UNREACHABLE. Returns whether
// the plan was adopted.
func (m *Manager) SetPlan(plan *planner.Plan) bool {
	if m.status == qstatus.Done || m.status == qstatus.Unreachable {
		return false
	}
	if plan.GivenSubstateID < m.lastSubstateID {
		return false
	}
	m.lastPlan = plan
	m.status = plan.Status
	m.lastSubstateID = plan.GivenSubstateID
	m.lastActiveGoal = plan.GoalIndx
	return true
}

func (m *Manager) LastPlan() *planner.Plan { return m.lastPlan }

// LastActiveGoalIndx returns the most recent active goal index.
// Satisfies planner.QuestManagerView.
func (m *Manager) LastActiveGoalIndx() int { return m.lastActiveGoal }

func (m *Manager) Status() qstatus.Status { return m.status }

func (m *Manager) LastSubstateID() int { return m.lastSubstateID }

func (m *Manager) CurrentSubstateID() int { return m.currentSubstateID }

// IncreaseCurrentSubstateID advances the substate counter, called by
// the world orchestrator once per applied action relevant to this
// quest.
func (m *Manager) IncreaseCurrentSubstateID() { m.currentSubstateID++ }

// SetQuestStatus forces a new status and active goal, used by the
// `status` hook lines of a .quest action when that action is applied.
// Bypasses the plan-staleness and terminal-status checks SetPlan applies,
// by design: an explicit script directive always wins.
func (m *Manager) SetQuestStatus(status qstatus.Status, goal int) {
	m.status = status
	m.lastActiveGoal = goal
}

func (m *Manager) SetOption(option Option, value int) {
	switch option {
	case OptionSearchLimit:
		m.searchLimit = value
	case OptionSpaceLimit:
		m.spaceLimit = value
	case OptionOmega:
		m.omega = value
	case OptionHeuristic:
		m.heuristic = Heuristic(value)
	}
}

func (m *Manager) SetParentQuest(parentQuest *quest.Quest, parentGoal int) {
	m.parentQuest = parentQuest
	m.parentQuestGoal = parentGoal
}

// ParentQuest returns nil for a main quest, the parent quest for an
// activated subquest.
func (m *Manager) ParentQuest() *quest.Quest { return m.parentQuest }

// ParentQuestGoal returns -1 for a main quest, the parent quest's goal
// index that activated this subquest otherwise.
func (m *Manager) ParentQuestGoal() int { return m.parentQuestGoal }

// PerformPlanning (re-)plans m if it is eligible: active, not yet DONE
// or UNREACHABLE, and not already planned for a substate at least as
// recent as substateID. Returns whether a new plan was adopted; when it
// was, worldName-scoped status-change and new-plan messages are queued
// on sink. No new-plan message is queued for an UNKNOWN plan (a search
// or space limit was hit).
func PerformPlanning(worldName string, substateID int, st *state.State, m *Manager, sink planSink) bool {
	if m.status == qstatus.Inactive || m.status == qstatus.Done || m.status == qstatus.Unreachable {
		return false
	}
	if m.lastSubstateID >= substateID {
		return false
	}

	p := planner.New(substateID, st, m)
	plan := p.FindQuestPlan(worldName, sink, m.searchLimit, m.spaceLimit, m.omega)

	oldStatus := m.status
	if !m.SetPlan(plan) {
		return false
	}

	if plan.Status != oldStatus {
		logging.QuestMgrDebug("quest '%s' on world '%s' changed status %v -> %v", m.quest.Name, worldName, oldStatus, plan.Status)
		sink.PushNewQuestStatus(worldName, m.quest.Name, plan.Status)
	}

	if plan.Status == qstatus.Unknown {
		return true
	}

	actions := make([]string, len(plan.Steps))
	actionArgs := make([][]string, len(plan.Steps))
	for i, step := range plan.Steps {
		actions[i] = step.Action.Name
		args := make([]string, len(step.Arguments))
		for j, obj := range step.Arguments {
			args[j] = obj.Name
		}
		actionArgs[i] = args
	}
	sink.PushNewQuestPlan(worldName, m.quest.Name, actions, actionArgs)

	return true
}

// planSink is the subset of message.Queue's API PerformPlanning needs.
type planSink interface {
	planner.LimitSink
	PushNewQuestStatus(worldName, questName string, status qstatus.Status)
	PushNewQuestPlan(worldName, questName string, actionList []string, actionArgsList [][]string)
}
