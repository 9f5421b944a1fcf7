// Package server is the engine's host-facing facade: it owns a named
// set of worlds, accepts project source and pushed actions from a host
// application, and drives planning and message delivery either
// synchronously (host calls Update/ProcessNextMessage itself) or via an
// optional background worker thread.
package server

import (
	"encoding/binary"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"mozok/internal/action"
	"mozok/internal/logging"
	"mozok/internal/message"
	"mozok/internal/qstatus"
	"mozok/internal/questmgr"
	"mozok/internal/result"
	"mozok/internal/world"
)

// OneQuestTick is the worker thread's polling period, matching the
// reference engine's ONE_QUEST_TICK constant.
const OneQuestTick = 40 * time.Millisecond

// ActionStatus reports whether a pushed or queried action can currently
// be applied.
type ActionStatus int

const (
	ActionUndefined ActionStatus = iota
	ActionApplicable
	ActionNotApplicable
)

// pendingAction is one action awaiting application via the worker
// thread or the next Update call. A plain FIFO queue, unlike the
// priority-tiered request queue a generic job server might use: the
// engine applies pushed actions strictly in push order, since applying
// action A before action B can change whether B is even applicable.
type pendingAction struct {
	worldName string
	name      string
	arguments []string
	data      int
}

// newCorrelationID derives an int correlation ID from a fresh uuid, for
// PushAction calls that don't supply their own data value. Only the
// leading 32 bits are kept since the engine's data field (following the
// reference engine) is a plain int, not a full uuid.
func newCorrelationID() int {
	id := uuid.New()
	return int(binary.BigEndian.Uint32(id[:4]))
}

// Server hosts any number of named worlds sharing one message queue and
// one pushed-action FIFO.
type Server struct {
	name string

	mu     sync.Mutex
	worlds map[string]*world.World
	queue  []pendingAction

	messages *message.Queue

	workerMu  sync.Mutex
	running   bool
	stopCh    chan struct{}
	wg        sync.WaitGroup
}

// CreateServer constructs an empty, named server.
func CreateServer(name string) *Server {
	logging.Boot("creating server '%s'", name)
	return &Server{
		name:     name,
		worlds:   make(map[string]*world.World),
		messages: message.NewQueue(),
	}
}

func (s *Server) Name() string { return s.name }

// --- World group ---

func (s *Server) CreateWorld(worldName string) result.Result {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.worlds[worldName]; ok {
		return result.WorldAlreadyExists(s.name, worldName)
	}
	s.worlds[worldName] = world.New(s.name, worldName)
	logging.ServerDebug("world '%s' created on server '%s'", worldName, s.name)
	return result.OK()
}

func (s *Server) DeleteWorld(worldName string) result.Result {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.worlds[worldName]; !ok {
		return result.WorldDoesntExist(s.name, worldName)
	}
	delete(s.worlds, worldName)
	return result.OK()
}

func (s *Server) HasWorld(worldName string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.worlds[worldName]
	return ok
}

func (s *Server) getWorld(worldName string) (*world.World, result.Result) {
	w, ok := s.worlds[worldName]
	if !ok {
		return nil, result.WorldDoesntExist(s.name, worldName)
	}
	return w, result.OK()
}

// --- Project / script group ---

// ProjectLoader parses and applies a .quest project's statements into a
// world, and parses a .qsf script's header into a ScriptPlan.
// internal/parser's loader implements this; the interface lives here
// (not in internal/parser) so server never imports parser directly,
// keeping script-format changes out of the facade.
type ProjectLoader interface {
	AddProject(w *world.World, projectFileName, sourceDir string) result.Result
	ParseScript(scriptFileName, scriptSrc string) (ScriptPlan, result.Result)
}

// ScriptPlan is the server-facing view of a parsed .qsf script: the
// worlds it declares, the projects to load into each, and the init
// actions to apply afterward.
type ScriptPlan struct {
	Worlds      []string
	Projects    []ScriptProject
	InitActions []ScriptAction
}

// ScriptProject is one `projects:` body line: a project file to load
// into World (every declared world, if World is empty).
type ScriptProject struct {
	World string
	Path  string
}

// ScriptAction is one `init:` body line: an action to apply to World
// (every declared world, if World is empty).
type ScriptAction struct {
	World     string
	Action    string
	Arguments []string
}

// AddProject loads the .quest project file projectFileName (resolved
// against sourceDir) via loader into worldName. Not transactional: if a
// definition partway through the file fails, the definitions applied
// before it remain applied.
func (s *Server) AddProject(loader ProjectLoader, worldName, projectFileName, sourceDir string) result.Result {
	s.mu.Lock()
	w, res := s.getWorld(worldName)
	s.mu.Unlock()
	if res.IsError() {
		return res
	}
	return loader.AddProject(w, projectFileName, sourceDir)
}

// TryProject behaves like AddProject but against a fresh, empty scratch
// world, so a host can validate a project without mutating live state.
// The scratch world does not copy worldName's existing definitions, so a
// project that refers to them fails validation.
// Like the reference engine's tryProject, the validation world is
// simply discarded afterward; nothing about the attempt is transactional
// beyond that isolation.
func (s *Server) TryProject(loader ProjectLoader, worldName, projectFileName, sourceDir string) result.Result {
	s.mu.Lock()
	_, res := s.getWorld(worldName)
	s.mu.Unlock()
	if res.IsError() {
		return res
	}
	scratch := world.New(s.name, worldName+"$try")
	return loader.AddProject(scratch, projectFileName, sourceDir)
}

// LoadQuestScriptFile parses scriptSrc (in the .qsf format) via loader,
// creates every world it declares that doesn't already exist, applies
// its projects, and - if applyInitActions is set - applies its init
// actions. Not transactional: a failure partway through leaves every
// world/project/action already applied in place.
func (s *Server) LoadQuestScriptFile(loader ProjectLoader, scriptFileName, scriptSrc string, applyInitActions bool) result.Result {
	plan, res := loader.ParseScript(scriptFileName, scriptSrc)
	if res.IsError() {
		return res
	}

	for _, w := range plan.Worlds {
		if s.HasWorld(w) {
			continue
		}
		if res := s.CreateWorld(w); res.IsError() {
			return res
		}
	}

	sourceDir := filepath.Dir(scriptFileName)
	for _, proj := range plan.Projects {
		for _, w := range s.expandWorlds(proj.World, plan.Worlds) {
			if res := s.AddProject(loader, w, proj.Path, sourceDir); res.IsError() {
				return res
			}
		}
	}

	if !applyInitActions {
		return result.OK()
	}
	for _, act := range plan.InitActions {
		for _, w := range s.expandWorlds(act.World, plan.Worlds) {
			if res, _ := s.ApplyAction(w, act.Action, act.Arguments); res.IsError() {
				return res
			}
		}
	}
	return result.OK()
}

// expandWorlds resolves a script line's optional bracketed world
// prefix: an empty prefix applies to every world the script declared.
func (s *Server) expandWorlds(prefix string, all []string) []string {
	if prefix != "" {
		return []string{prefix}
	}
	return all
}


// --- Objects ---

func (s *Server) HasObject(worldName, objectName string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	w, res := s.getWorld(worldName)
	if res.IsError() {
		return false
	}
	return w.HasObject(objectName)
}

// --- Quests ---

func (s *Server) HasMainQuest(worldName, questName string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	w, res := s.getWorld(worldName)
	if res.IsError() {
		return false
	}
	return w.HasMainQuest(questName)
}

func (s *Server) HasSubQuest(worldName, questName string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	w, res := s.getWorld(worldName)
	if res.IsError() {
		return false
	}
	return w.HasSubquest(questName)
}

func (s *Server) QuestStatus(worldName, questName string) qstatus.Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	w, res := s.getWorld(worldName)
	if res.IsError() {
		return qstatus.Unknown
	}
	return w.QuestStatus(questName)
}

func (s *Server) SetQuestOption(worldName, questName string, option questmgr.Option, value int) result.Result {
	s.mu.Lock()
	defer s.mu.Unlock()
	w, res := s.getWorld(worldName)
	if res.IsError() {
		return res
	}
	return w.SetQuestOption(questName, option, value)
}

// --- Actions ---

// getActionStatus reports ActionNotApplicable for an N/A action and for
// anything CheckAction rejects (undefined objects, bad arity/types,
// failed preconditions), and ActionUndefined only when the world itself,
// or the action by name, doesn't exist.
func (s *Server) getActionStatus(w *world.World, actionName string, actionArguments []string) ActionStatus {
	if !w.HasAction(actionName) {
		return ActionUndefined
	}
	if w.IsActionNotApplicable(actionName) {
		return ActionNotApplicable
	}
	if w.CheckAction(false, actionName, actionArguments).IsError() {
		return ActionNotApplicable
	}
	return ActionApplicable
}

func (s *Server) GetActionStatus(worldName, actionName string, actionArguments []string) ActionStatus {
	s.mu.Lock()
	defer s.mu.Unlock()
	w, res := s.getWorld(worldName)
	if res.IsError() {
		return ActionUndefined
	}
	return s.getActionStatus(w, actionName, actionArguments)
}

// ApplyAction applies the action immediately and synchronously,
// queueing any resulting messages on the server's message queue. On
// error it returns the failure directly and does not raise an
// OnActionError message - unlike PushAction, whose failures are only
// observable asynchronously through the message queue.
func (s *Server) ApplyAction(worldName, actionName string, actionArguments []string) (result.Result, action.ActionError) {
	s.mu.Lock()
	w, res := s.getWorld(worldName)
	if res.IsError() {
		s.mu.Unlock()
		return res, action.OtherError
	}
	res, actionErr := w.ApplyAction(actionName, actionArguments, s.messages)
	if res.IsError() {
		logging.ServerWarn("action '%s' rejected on world '%s': %s", actionName, worldName, res.Description())
	}
	s.mu.Unlock()
	return res, actionErr
}

// PushAction enqueues an action for later application (by Update or the
// worker thread) without blocking. Always succeeds; errors from an
// unresolvable action surface later as an OnActionError message, same as
// the reference engine's non-blocking pushAction. data is an
// opaque value the caller can use to correlate a later OnActionError
// message back to this push; when omitted, a correlation ID derived
// from a fresh uuid is generated so correlation stays unambiguous even
// when the caller doesn't supply its own.
func (s *Server) PushAction(worldName, actionName string, actionArguments []string, data ...int) {
	d := 0
	if len(data) > 0 {
		d = data[0]
	} else {
		d = newCorrelationID()
	}
	s.mu.Lock()
	s.queue = append(s.queue, pendingAction{worldName: worldName, name: actionName, arguments: actionArguments, data: d})
	s.mu.Unlock()
}

// applyOnePending pops and applies the oldest queued action, if any.
// Reports whether one was applied.
func (s *Server) applyOnePending() bool {
	s.mu.Lock()
	if len(s.queue) == 0 {
		s.mu.Unlock()
		return false
	}
	next := s.queue[0]
	s.queue = s.queue[1:]

	w, res := s.getWorld(next.worldName)
	if res.IsError() {
		s.mu.Unlock()
		s.messages.PushActionError(next.worldName, next.name, next.arguments, res, action.OtherError, next.data)
		return true
	}
	res, actionErr := w.ApplyAction(next.name, next.arguments, s.messages)
	s.mu.Unlock()
	if res.IsError() {
		s.messages.PushActionError(next.worldName, next.name, next.arguments, res, actionErr, next.data)
	}
	return true
}

// --- Messages ---

func (s *Server) ProcessNextMessage(p message.Processor) bool {
	return s.messages.ProcessNext(p)
}

func (s *Server) ProcessAllMessages(p message.Processor) {
	s.messages.ProcessAll(p)
}

// --- Planner ---

func (s *Server) PerformPlanning(worldName string) result.Result {
	s.mu.Lock()
	defer s.mu.Unlock()
	w, res := s.getWorld(worldName)
	if res.IsError() {
		return res
	}
	w.PerformPlanning(s.messages)
	return result.OK()
}

// performPlanningAll plans every world independently and concurrently:
// each world owns its own state, and s.messages is mutex-guarded, so
// there's nothing for the worlds to race on.
func (s *Server) performPlanningAll() {
	s.mu.Lock()
	worlds := make([]*world.World, 0, len(s.worlds))
	for _, w := range s.worlds {
		worlds = append(worlds, w)
	}
	s.mu.Unlock()

	var eg errgroup.Group
	for _, w := range worlds {
		w := w
		eg.Go(func() error {
			w.PerformPlanning(s.messages)
			return nil
		})
	}
	eg.Wait()
}

// Update drains every pending pushed action across all worlds and
// performs one planning sweep. Called once per tick by the worker
// thread, or directly by a host driving the server on its own loop
// instead of StartWorkerThread.
func (s *Server) Update() {
	for s.applyOnePending() {
	}
	s.performPlanningAll()
}

// --- Worker thread ---

// StartWorkerThread launches a background goroutine calling Update once
// every OneQuestTick until StopWorkerThread is called. Returns a
// ServerWorkerIsRunning error, and starts nothing, if already running.
func (s *Server) StartWorkerThread() result.Result {
	s.workerMu.Lock()
	defer s.workerMu.Unlock()
	if s.running {
		return result.ServerWorkerIsRunning(s.name)
	}
	s.running = true
	s.stopCh = make(chan struct{})
	s.wg.Add(1)
	go s.workerLoop(s.stopCh)
	logging.Server("worker thread started for server '%s'", s.name)
	return result.OK()
}

func (s *Server) workerLoop(stopCh chan struct{}) {
	defer s.wg.Done()
	ticker := time.NewTicker(OneQuestTick)
	defer ticker.Stop()
	for {
		select {
		case <-stopCh:
			// Drain whatever's still queued and run a final planning
			// sweep before exiting, so an action pushed just before
			// StopWorkerThread is never silently lost.
			s.Update()
			return
		case <-ticker.C:
			s.Update()
		}
	}
}

// StopWorkerThread signals the worker goroutine and waits for it to
// exit. A no-op if no worker is running.
func (s *Server) StopWorkerThread() {
	s.workerMu.Lock()
	if !s.running {
		s.workerMu.Unlock()
		return
	}
	close(s.stopCh)
	s.running = false
	s.workerMu.Unlock()
	s.wg.Wait()
	logging.Server("worker thread stopped for server '%s'", s.name)
}

func (s *Server) IsWorkerRunning() bool {
	s.workerMu.Lock()
	defer s.workerMu.Unlock()
	return s.running
}

// --- Saving ---

func (s *Server) GenerateSaveFile(worldName string) (string, result.Result) {
	s.mu.Lock()
	defer s.mu.Unlock()
	w, res := s.getWorld(worldName)
	if res.IsError() {
		return "", res
	}
	return w.GenerateSaveFile(), result.OK()
}
