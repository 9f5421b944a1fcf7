package main

import (
	"encoding/json"
	"os"

	"go.uber.org/zap"

	"mozok/internal/action"
	"mozok/internal/message"
	"mozok/internal/qstatus"
	"mozok/internal/result"
)

// consoleProcessor logs action errors, quest status changes, new plans
// and search/space limit hits through zap, used when --export-timeline
// isn't set. Other message kinds are ignored.
type consoleProcessor struct {
	message.NoopProcessor
	logger *zap.Logger
}

func (p *consoleProcessor) OnActionError(worldName, actionName string, actionArguments []string, errorResult result.Result, actionError action.ActionError, data int) {
	p.logger.Warn("action error", zap.String("world", worldName), zap.String("action", actionName), zap.String("reason", errorResult.Description()))
}

func (p *consoleProcessor) OnNewQuestStatus(worldName, questName string, status qstatus.Status) {
	p.logger.Info("quest status", zap.String("world", worldName), zap.String("quest", questName), zap.String("status", status.String()))
}

func (p *consoleProcessor) OnNewQuestPlan(worldName, questName string, actionList []string, actionArgsList [][]string) {
	p.logger.Info("quest plan", zap.String("world", worldName), zap.String("quest", questName), zap.Int("steps", len(actionList)))
}

func (p *consoleProcessor) OnSearchLimitReached(worldName, questName string, searchLimitValue int) {
	p.logger.Warn("search limit reached", zap.String("world", worldName), zap.String("quest", questName), zap.Int("limit", searchLimitValue))
}

func (p *consoleProcessor) OnSpaceLimitReached(worldName, questName string, spaceLimitValue int) {
	p.logger.Warn("space limit reached", zap.String("world", worldName), zap.String("quest", questName), zap.Int("limit", spaceLimitValue))
}

// timelineEvent is one line of a --export-timeline file: a uniform,
// greppable shape for every message kind the engine can emit.
type timelineEvent struct {
	Kind   string   `json:"kind"`
	World  string   `json:"world"`
	Quest  string   `json:"quest,omitempty"`
	Action string   `json:"action,omitempty"`
	Status string   `json:"status,omitempty"`
	Steps  []string `json:"steps,omitempty"`
	Reason string   `json:"reason,omitempty"`
	Limit  int      `json:"limit,omitempty"`
}

// timelineRecorder implements message.Processor, appending one JSON
// line per message to an export file as the messages are processed.
type timelineRecorder struct {
	message.NoopProcessor
	file *os.File
	enc  *json.Encoder
}

func newTimelineRecorder(path string) (*timelineRecorder, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, err
	}
	return &timelineRecorder{file: f, enc: json.NewEncoder(f)}, nil
}

func (r *timelineRecorder) Close() error { return r.file.Close() }

func (r *timelineRecorder) OnActionError(worldName, actionName string, actionArguments []string, errorResult result.Result, actionError action.ActionError, data int) {
	r.enc.Encode(timelineEvent{Kind: "action_error", World: worldName, Action: actionName, Reason: errorResult.Description()})
}

func (r *timelineRecorder) OnNewMainQuest(worldName, questName string) {
	r.enc.Encode(timelineEvent{Kind: "new_main_quest", World: worldName, Quest: questName})
}

func (r *timelineRecorder) OnNewSubQuest(worldName, subquestName, parentQuestName string, goal int) {
	r.enc.Encode(timelineEvent{Kind: "new_subquest", World: worldName, Quest: subquestName, Reason: parentQuestName})
}

func (r *timelineRecorder) OnNewQuestState(worldName, questName string) {
	r.enc.Encode(timelineEvent{Kind: "quest_state", World: worldName, Quest: questName})
}

func (r *timelineRecorder) OnNewQuestStatus(worldName, questName string, status qstatus.Status) {
	r.enc.Encode(timelineEvent{Kind: "quest_status", World: worldName, Quest: questName, Status: status.String()})
}

func (r *timelineRecorder) OnNewQuestGoal(worldName, questName string, newGoal, oldGoal int) {
	r.enc.Encode(timelineEvent{Kind: "quest_goal", World: worldName, Quest: questName})
}

func (r *timelineRecorder) OnNewQuestPlan(worldName, questName string, actionList []string, actionArgsList [][]string) {
	r.enc.Encode(timelineEvent{Kind: "quest_plan", World: worldName, Quest: questName, Steps: actionList})
}

func (r *timelineRecorder) OnSearchLimitReached(worldName, questName string, searchLimitValue int) {
	r.enc.Encode(timelineEvent{Kind: "search_limit_reached", World: worldName, Quest: questName, Limit: searchLimitValue})
}

func (r *timelineRecorder) OnSpaceLimitReached(worldName, questName string, spaceLimitValue int) {
	r.enc.Encode(timelineEvent{Kind: "space_limit_reached", World: worldName, Quest: questName, Limit: spaceLimitValue})
}
