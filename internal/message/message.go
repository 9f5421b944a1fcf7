// Package message implements the engine's outward notification channel:
// a strictly-ordered FIFO queue of world events, drained by a
// caller-supplied Processor so hosts can observe quest state changes,
// plans, and errors without blocking the worker loop that produced them.
package message

import (
	"sync"

	"mozok/internal/action"
	"mozok/internal/logging"
	"mozok/internal/qstatus"
	"mozok/internal/result"
)

// Processor receives queued messages in order. Embedding NoopProcessor
// gives a concrete type every method with a default no-op body, so hosts
// only override the kinds they care about - mirroring the reference
// engine's virtual methods with default (empty) bodies.
type Processor interface {
	OnActionError(worldName, actionName string, actionArguments []string, errorResult result.Result, actionError action.ActionError, data int)
	OnNewMainQuest(worldName, questName string)
	OnNewSubQuest(worldName, subquestName, parentQuestName string, goal int)
	OnNewQuestState(worldName, questName string)
	OnNewQuestStatus(worldName, questName string, status qstatus.Status)
	OnNewQuestGoal(worldName, questName string, newGoal, oldGoal int)
	OnNewQuestPlan(worldName, questName string, actionList []string, actionArgsList [][]string)
	OnSearchLimitReached(worldName, questName string, searchLimitValue int)
	OnSpaceLimitReached(worldName, questName string, spaceLimitValue int)
}

// NoopProcessor implements Processor with empty bodies. Embed it in a
// host's processor type and override only the methods of interest.
type NoopProcessor struct{}

func (NoopProcessor) OnActionError(string, string, []string, result.Result, action.ActionError, int) {}
func (NoopProcessor) OnNewMainQuest(string, string)                                                 {}
func (NoopProcessor) OnNewSubQuest(string, string, string, int)                                     {}
func (NoopProcessor) OnNewQuestState(string, string)                                                {}
func (NoopProcessor) OnNewQuestStatus(string, string, qstatus.Status)                                {}
func (NoopProcessor) OnNewQuestGoal(string, string, int, int)                                       {}
func (NoopProcessor) OnNewQuestPlan(string, string, []string, [][]string)                           {}
func (NoopProcessor) OnSearchLimitReached(string, string, int)                                      {}
func (NoopProcessor) OnSpaceLimitReached(string, string, int)                                       {}

// message is a queued event: the worldName it originated from plus a
// closure that replays it against a Processor. A closure stands in for
// the reference engine's per-kind Message subclasses - idiomatic Go
// favors one function value per event over a small class hierarchy.
type message struct {
	worldName string
	dispatch  func(Processor)
}

// Queue is a mutex-guarded FIFO of pending messages. Push methods never
// block; Process* methods run each message's callback with the lock
// released, so a slow or reentrant Processor can never deadlock a
// producer still pushing to the same queue.
type Queue struct {
	mu    sync.Mutex
	items []message
}

func NewQueue() *Queue { return &Queue{} }

func (q *Queue) push(worldName string, dispatch func(Processor)) {
	q.mu.Lock()
	q.items = append(q.items, message{worldName: worldName, dispatch: dispatch})
	depth := len(q.items)
	q.mu.Unlock()
	logging.MessageDebug("queued message for world '%s' (%d pending)", worldName, depth)
}

// ProcessNext pops and runs the oldest pending message, returning false
// if the queue was empty.
func (q *Queue) ProcessNext(p Processor) bool {
	q.mu.Lock()
	if len(q.items) == 0 {
		q.mu.Unlock()
		return false
	}
	msg := q.items[0]
	q.items = q.items[1:]
	q.mu.Unlock()
	msg.dispatch(p)
	return true
}

// ProcessAll drains the queue, running every pending message in FIFO
// order against p.
func (q *Queue) ProcessAll(p Processor) {
	for q.ProcessNext(p) {
	}
}

func (q *Queue) PushActionError(worldName, actionName string, actionArguments []string, errorResult result.Result, actionError action.ActionError, data int) {
	q.push(worldName, func(p Processor) {
		p.OnActionError(worldName, actionName, actionArguments, errorResult, actionError, data)
	})
}

func (q *Queue) PushNewMainQuest(worldName, questName string) {
	q.push(worldName, func(p Processor) { p.OnNewMainQuest(worldName, questName) })
}

func (q *Queue) PushNewSubQuest(worldName, subquestName, parentQuestName string, goal int) {
	q.push(worldName, func(p Processor) { p.OnNewSubQuest(worldName, subquestName, parentQuestName, goal) })
}

func (q *Queue) PushNewQuestState(worldName, questName string) {
	q.push(worldName, func(p Processor) { p.OnNewQuestState(worldName, questName) })
}

func (q *Queue) PushNewQuestStatus(worldName, questName string, status qstatus.Status) {
	q.push(worldName, func(p Processor) { p.OnNewQuestStatus(worldName, questName, status) })
}

func (q *Queue) PushNewQuestGoal(worldName, questName string, newGoal, oldGoal int) {
	q.push(worldName, func(p Processor) { p.OnNewQuestGoal(worldName, questName, newGoal, oldGoal) })
}

func (q *Queue) PushNewQuestPlan(worldName, questName string, actionList []string, actionArgsList [][]string) {
	q.push(worldName, func(p Processor) { p.OnNewQuestPlan(worldName, questName, actionList, actionArgsList) })
}

func (q *Queue) PushSearchLimitReached(worldName, questName string, searchLimitValue int) {
	q.push(worldName, func(p Processor) { p.OnSearchLimitReached(worldName, questName, searchLimitValue) })
}

// PushSpaceLimitReached enqueues a space-limit event. The reference
// engine's C++ implementation of this push method mistakenly constructs
// an OnSearchLimitReached message here instead of its own kind; this
// port dispatches to the correct OnSpaceLimitReached callback.
func (q *Queue) PushSpaceLimitReached(worldName, questName string, spaceLimitValue int) {
	q.push(worldName, func(p Processor) { p.OnSpaceLimitReached(worldName, questName, spaceLimitValue) })
}
