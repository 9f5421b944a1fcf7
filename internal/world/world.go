// Package world implements the top-level quest world orchestrator: the
// mutable collection of types, objects, relations, relation lists,
// actions and quests that together with the current state form one
// playable world, plus the operations (applying actions, running
// planning, emitting save files) that drive it.
package world

import (
	"fmt"
	"strings"

	"mozok/internal/action"
	"mozok/internal/ids"
	"mozok/internal/message"
	"mozok/internal/model"
	"mozok/internal/qstatus"
	"mozok/internal/quest"
	"mozok/internal/questmgr"
	"mozok/internal/result"
	"mozok/internal/state"
)

// statusChangeCommand is one `status` directive attached to an action:
// when that action is applied, the named quest's status is forced to
// status/goal, optionally recording a parent quest for a subquest.
type statusChangeCommand struct {
	quest        *questmgr.Manager
	status       qstatus.Status
	goal         int
	parentQuest  *questmgr.Manager
	parentGoal   int
}

// World is one self-contained quest world: its definitional graph (the
// types/objects/relations/actions/quests that never change once added)
// plus the state that does.
type World struct {
	serverName string
	worldName  string

	state   *state.State
	stateID int

	types    []*model.Type
	typeByID map[string]ids.ID

	objects    model.ObjectVec
	objectByID map[string]ids.ID

	relations    []*model.Relation
	relationByID map[string]ids.ID

	relationLists    []*model.RelationList
	relationListByID map[string]ids.ID

	actions      []*action.Action
	actionByID   map[string]ids.ID
	actionGroups map[string][]*action.Action

	mainQuests    []*questmgr.Manager
	subquests     []*questmgr.Manager
	mainQuestByID map[string]ids.ID
	subquestByID  map[string]ids.ID

	actionStatusChangeCommands map[ids.ID][]statusChangeCommand
}

// New builds an empty world belonging to serverName.
func New(serverName, worldName string) *World {
	return &World{
		serverName:                 serverName,
		worldName:                  worldName,
		state:                      state.New(nil),
		typeByID:                   make(map[string]ids.ID),
		objectByID:                 make(map[string]ids.ID),
		relationByID:               make(map[string]ids.ID),
		relationListByID:           make(map[string]ids.ID),
		actionByID:                 make(map[string]ids.ID),
		actionGroups:               make(map[string][]*action.Action),
		mainQuestByID:              make(map[string]ids.ID),
		subquestByID:               make(map[string]ids.ID),
		actionStatusChangeCommands: make(map[ids.ID][]statusChangeCommand),
	}
}

func (w *World) ServerName() string { return w.serverName }
func (w *World) WorldName() string  { return w.worldName }

// ServerWorldName returns the combined "ServerName:WorldName" name used
// to scope error messages and log lines.
func (w *World) ServerWorldName() string { return w.serverName + ":" + w.worldName }

// ===================== TYPES ===================== //

func (w *World) HasType(name string) bool { _, ok := w.typeByID[name]; return ok }

func (w *World) getType(name string) *model.Type {
	id, ok := w.typeByID[name]
	if !ok {
		return nil
	}
	return w.types[id]
}

// AddType defines a new type with the given supertype names, which must
// already be defined. The new type's Supertypes set is the transitive
// closure: itself plus every supertype's own closure.
func (w *World) AddType(name string, supertypeNames []string) result.Result {
	if w.HasType(name) {
		return result.TypeAlreadyExists(w.ServerWorldName(), name)
	}
	supertypes, res := w.constructFullType(supertypeNames)
	if res.IsError() {
		return res
	}
	id := ids.ID(len(w.types))
	t := &model.Type{ID: id, Name: name, Supertypes: supertypes}
	t.Supertypes[t] = struct{}{}
	w.typeByID[name] = id
	w.types = append(w.types, t)
	return result.OK()
}

func (w *World) constructFullType(typeNames []string) (model.TypeSet, result.Result) {
	out := make(model.TypeSet)
	for _, name := range typeNames {
		if !w.HasType(name) {
			return nil, result.UndefinedType(w.ServerWorldName(), name)
		}
		t := w.getType(name)
		out[t] = struct{}{}
		for st := range t.Supertypes {
			out[st] = struct{}{}
		}
	}
	return out, result.OK()
}

// ===================== OBJECTS ===================== //

func (w *World) HasObject(name string) bool { _, ok := w.objectByID[name]; return ok }

func (w *World) getObject(name string) *model.Object {
	id, ok := w.objectByID[name]
	if !ok {
		return nil
	}
	return w.objects[id]
}

// AddObject defines a new real (id >= 0) object of the given types.
func (w *World) AddObject(name string, typeNames []string) result.Result {
	if w.HasObject(name) {
		return result.ObjectAlreadyExists(w.ServerWorldName(), name)
	}
	types, res := w.constructFullType(typeNames)
	if res.IsError() {
		return res
	}
	id := ids.ID(len(w.objects))
	obj := &model.Object{ID: id, Name: name, TypeSet: types}
	w.objectByID[name] = id
	w.objects = append(w.objects, obj)
	return result.OK()
}

// Objects returns the names of every defined object.
func (w *World) Objects() []string {
	out := make([]string, len(w.objects))
	for i, obj := range w.objects {
		out[i] = obj.Name
	}
	return out
}

// ObjectType returns the names of every type objectName belongs to, or
// nil if objectName is undefined.
func (w *World) ObjectType(objectName string) []string {
	obj := w.getObject(objectName)
	if obj == nil {
		return nil
	}
	return obj.TypeSet.Names()
}

// constructArguments builds the ephemeral parameter objects (negative
// IDs, 1-based) for an action or relation list's formal argument list,
// given as [["argName", "Type1", "Type2", ...], ...].
func (w *World) constructArguments(arguments [][]string) (model.ObjectVec, result.Result) {
	out := make(model.ObjectVec, 0, len(arguments))
	id := -1
	for _, arg := range arguments {
		name := arg[0]
		if w.HasObject(name) {
			return nil, result.ObjectAlreadyExists(w.ServerWorldName(), name)
		}
		types, res := w.constructFullType(arg[1:])
		if res.IsError() {
			return nil, res
		}
		out = append(out, model.NewParam(-id, name, types))
		id--
	}
	return out, result.OK()
}

// ===================== RELATIONS ===================== //

func (w *World) HasRelation(name string) bool { _, ok := w.relationByID[name]; return ok }

func (w *World) getRelation(name string) *model.Relation {
	id, ok := w.relationByID[name]
	if !ok {
		return nil
	}
	return w.relations[id]
}

// AddRelation defines a new n-ary predicate schema over argTypeNames,
// possibly empty (a zero-arity relation, always global per Statement).
func (w *World) AddRelation(name string, argTypeNames []string) result.Result {
	if w.HasRelation(name) {
		return result.RelAlreadyExists(w.ServerWorldName(), name)
	}
	argTypes := make([]*model.Type, len(argTypeNames))
	for i, tn := range argTypeNames {
		if !w.HasType(tn) {
			return result.UndefinedType(w.ServerWorldName(), tn)
		}
		argTypes[i] = w.getType(tn)
	}
	id := ids.ID(len(w.relations))
	r := &model.Relation{ID: id, Name: name, ArgTypes: argTypes}
	w.relationByID[name] = id
	w.relations = append(w.relations, r)
	return result.OK()
}

// ===================== RELATION LISTS ===================== //

func (w *World) HasRelationList(name string) bool {
	_, ok := w.relationListByID[name]
	return ok
}

func (w *World) getRelationList(name string) *model.RelationList {
	id, ok := w.relationListByID[name]
	if !ok {
		return nil
	}
	return w.relationLists[id]
}

// AddRelationList defines a named, parameterised statement-vector macro.
func (w *World) AddRelationList(name string, arguments [][]string, list [][]string) result.Result {
	if w.HasRelationList(name) {
		return result.RListAlreadyExists(w.ServerWorldName(), name)
	}
	params, res := w.constructArguments(arguments)
	if res.IsError() {
		return res
	}
	statements, res := w.constructStatements(list, params)
	if res.IsError() {
		return res
	}
	id := ids.ID(len(w.relationLists))
	rl := &model.RelationList{ID: id, Name: name, Parameters: params, Statements: statements}
	w.relationListByID[name] = id
	w.relationLists = append(w.relationLists, rl)
	return result.OK()
}

// constructStatements resolves a [["RelOrRListName", "obj", ...], ...]
// command list into a flat statement vector: relation commands become
// one statement each, relation-list commands expand to their full
// (possibly multi-statement) substituted definition. localObjects names
// formal parameters visible within this command list (an action's
// arguments, say), checked before falling back to world objects.
func (w *World) constructStatements(list [][]string, localObjects model.ObjectVec) ([]*model.Statement, result.Result) {
	localByName := make(map[string]*model.Object, len(localObjects))
	for _, obj := range localObjects {
		localByName[obj.Name] = obj
	}

	var out []*model.Statement
	for _, command := range list {
		name := command[0]
		isRelation := w.HasRelation(name)
		isRList := w.HasRelationList(name)
		if !isRelation && !isRList {
			return nil, result.UndefinedRel(w.ServerWorldName(), name)
		}

		args := make(model.ObjectVec, 0, len(command)-1)
		for _, argName := range command[1:] {
			if obj, ok := localByName[argName]; ok {
				args = append(args, obj)
			} else if w.HasObject(argName) {
				args = append(args, w.getObject(argName))
			} else {
				return nil, result.UndefinedObject(w.ServerWorldName(), argName)
			}
		}

		if isRelation {
			rel := w.getRelation(name)
			if res := rel.CheckArgumentsCompatibility(args); res.IsError() {
				return nil, res
			}
			out = append(out, model.NewStatement(rel, args))
		} else {
			rl := w.getRelationList(name)
			if res := rl.CheckArgumentsCompatibility(args); res.IsError() {
				return nil, res
			}
			out = append(out, rl.Substitute(args)...)
		}
	}
	return out, result.OK()
}

// ===================== ACTIONS ===================== //

func (w *World) HasAction(name string) bool { _, ok := w.actionByID[name]; return ok }

func (w *World) getAction(name string) *action.Action {
	id, ok := w.actionByID[name]
	if !ok {
		return nil
	}
	return w.actions[id]
}

func (w *World) HasActionGroup(name string) bool {
	_, ok := w.actionGroups[name]
	return ok
}

// AddActionGroup defines an empty, named bucket that AddAction can
// later assign actions into, letting a quest grant every action in the
// group via a single entry in its permitted-action list.
func (w *World) AddActionGroup(name string) result.Result {
	if w.HasActionGroup(name) {
		return result.ActionGroupAlreadyExists(w.ServerWorldName(), name)
	}
	w.actionGroups[name] = nil
	return result.OK()
}

// AddAction defines a new action, adding it to every named group
// (which must already exist).
func (w *World) AddAction(name string, groups []string, isNA bool, arguments [][]string, preList, remList, addList [][]string) result.Result {
	definitionErr := result.ActionCantDefine(w.ServerWorldName(), name)
	if w.HasAction(name) {
		return result.ActionAlreadyExists(w.ServerWorldName(), name).Combine(definitionErr)
	}
	for _, g := range groups {
		if !w.HasActionGroup(g) {
			return result.UndefinedActionGroup(w.ServerWorldName(), g).Combine(definitionErr)
		}
	}

	argObjects, res := w.constructArguments(arguments)
	if res.IsError() {
		return res.Combine(definitionErr)
	}
	pre, res := w.constructStatements(preList, argObjects)
	if res.IsError() {
		return res.Combine(result.ActionPreError()).Combine(definitionErr)
	}
	rem, res := w.constructStatements(remList, argObjects)
	if res.IsError() {
		return res.Combine(result.ActionRemError()).Combine(definitionErr)
	}
	add, res := w.constructStatements(addList, argObjects)
	if res.IsError() {
		return res.Combine(result.ActionAddError()).Combine(definitionErr)
	}

	id := ids.ID(len(w.actions))
	newAction := action.New(name, id, isNA, argObjects, pre, rem, add)
	w.actionByID[name] = id
	w.actions = append(w.actions, newAction)
	for _, g := range groups {
		w.actionGroups[g] = append(w.actionGroups[g], newAction)
	}
	return result.OK()
}

func (w *World) IsActionNotApplicable(name string) bool {
	act := w.getAction(name)
	return act == nil || act.IsNotApplicable
}

// CheckAction validates actionName/actionArguments without mutating
// state: arity and type compatibility always, preconditions unless
// doNotCheckPreconditions is set.
func (w *World) CheckAction(doNotCheckPreconditions bool, actionName string, actionArguments []string) result.Result {
	if !w.HasAction(actionName) {
		return result.UndefinedAction(w.ServerWorldName(), actionName)
	}
	act := w.getAction(actionName)
	objects, res := w.resolveObjects(actionArguments)
	if res.IsError() {
		return res
	}
	res, _ = act.EvaluateApplicability(doNotCheckPreconditions, objects, w.state)
	return res
}

func (w *World) resolveObjects(names []string) (model.ObjectVec, result.Result) {
	out := make(model.ObjectVec, 0, len(names))
	for _, name := range names {
		if !w.HasObject(name) {
			return nil, result.UndefinedObject(w.ServerWorldName(), name)
		}
		out = append(out, w.getObject(name))
	}
	return out, result.OK()
}

// ApplyAction validates and applies actionName/actionArguments against
// the world state, then runs every status-change command attached to
// it, advances the substate counters of every quest the action could
// plausibly affect, and activates any previously inactive main quest
// whose preconditions now hold. The second return value is the precise
// action.ActionError classification on failure.
func (w *World) ApplyAction(actionName string, actionArguments []string, sink *message.Queue) (result.Result, action.ActionError) {
	if !w.HasAction(actionName) {
		return result.UndefinedAction(w.ServerWorldName(), actionName), action.UndefinedAction
	}
	act := w.getAction(actionName)
	if act.IsNotApplicable {
		return result.CantApplyNAAction(w.ServerWorldName(), actionName), action.NAAction
	}

	objects, res := w.resolveObjects(actionArguments)
	if res.IsError() {
		return res, action.UndefinedObject
	}

	res, actionErr := act.Apply(objects, w.state)
	if res.IsError() {
		return res, actionErr
	}
	w.stateID++

	for _, cmd := range w.actionStatusChangeCommands[act.ID] {
		w.runStatusChangeCommand(cmd, sink)
	}

	for _, qm := range w.allQuests() {
		switch qm.Status() {
		case qstatus.Inactive, qstatus.Done, qstatus.Unreachable:
			continue
		}
		relevant := act.IsGlobal()
		if !relevant {
			for _, obj := range objects {
				if qm.Quest().IsObjectRelevant(obj.ID) {
					relevant = true
					break
				}
			}
		}
		if relevant {
			qm.IncreaseCurrentSubstateID()
			sink.PushNewQuestState(w.worldName, qm.Quest().Name)
		}
	}

	w.activateInactiveMainQuests(sink)
	return result.OK(), action.NoError
}

func (w *World) runStatusChangeCommand(cmd statusChangeCommand, sink *message.Queue) {
	prevStatus := cmd.quest.Status()
	if cmd.parentQuest != nil {
		if prevStatus == qstatus.Inactive && cmd.status != qstatus.Inactive {
			cmd.quest.SetParentQuest(cmd.parentQuest.Quest(), cmd.parentGoal)
			sink.PushNewSubQuest(w.worldName, cmd.quest.Quest().Name, cmd.parentQuest.Quest().Name, cmd.parentGoal)
		}
	} else if prevStatus == qstatus.Inactive && cmd.status != qstatus.Inactive {
		sink.PushNewMainQuest(w.worldName, cmd.quest.Quest().Name)
	}

	cmd.quest.IncreaseCurrentSubstateID()
	oldGoal := cmd.quest.LastActiveGoalIndx()
	cmd.quest.SetQuestStatus(cmd.status, cmd.goal)

	if !(prevStatus == qstatus.Inactive && cmd.status == qstatus.Inactive) {
		sink.PushNewQuestStatus(w.worldName, cmd.quest.Quest().Name, cmd.status)
	}
	if oldGoal != cmd.goal || (prevStatus == qstatus.Inactive && cmd.status != qstatus.Inactive && cmd.status != qstatus.Unknown) {
		sink.PushNewQuestGoal(w.worldName, cmd.quest.Quest().Name, cmd.goal, oldGoal)
	}
}

// AddActionQuestStatusChange attaches a `status` directive to
// actionName: applying it forces questName's status, optionally
// recording parentQuestName as the quest that activated it (for
// subquests).
func (w *World) AddActionQuestStatusChange(actionName, questName string, status qstatus.Status, goal int, parentQuestName string, parentQuestGoal int) result.Result {
	if !w.HasAction(actionName) {
		return result.UndefinedAction(w.ServerWorldName(), actionName)
	}
	if !w.HasMainQuest(questName) && !w.HasSubquest(questName) {
		return result.UndefinedQuest(w.ServerWorldName(), questName)
	}
	var parentQuest *questmgr.Manager
	if parentQuestName != "" {
		if !w.HasMainQuest(parentQuestName) && !w.HasSubquest(parentQuestName) {
			return result.UndefinedQuest(w.ServerWorldName(), parentQuestName)
		}
		if !w.HasSubquest(questName) {
			return result.UndefinedSubQuest(w.ServerWorldName(), questName)
		}
		parentQuest = w.getAnyQuest(parentQuestName)
	}

	act := w.getAction(actionName)
	qm := w.getAnyQuest(questName)
	w.actionStatusChangeCommands[act.ID] = append(w.actionStatusChangeCommands[act.ID], statusChangeCommand{
		quest:       qm,
		status:      status,
		goal:        goal,
		parentQuest: parentQuest,
		parentGoal:  parentQuestGoal,
	})
	return result.OK()
}

func (w *World) Actions() []string {
	out := make([]string, len(w.actions))
	for i, a := range w.actions {
		out[i] = a.Name
	}
	return out
}

// ===================== QUESTS ===================== //

func (w *World) HasMainQuest(name string) bool { _, ok := w.mainQuestByID[name]; return ok }
func (w *World) HasSubquest(name string) bool  { _, ok := w.subquestByID[name]; return ok }

func (w *World) getMainQuest(name string) *questmgr.Manager {
	id, ok := w.mainQuestByID[name]
	if !ok {
		return nil
	}
	return w.mainQuests[id]
}

func (w *World) getSubquest(name string) *questmgr.Manager {
	id, ok := w.subquestByID[name]
	if !ok {
		return nil
	}
	return w.subquests[id]
}

func (w *World) getAnyQuest(name string) *questmgr.Manager {
	if qm := w.getMainQuest(name); qm != nil {
		return qm
	}
	return w.getSubquest(name)
}

func (w *World) allQuests() []*questmgr.Manager {
	out := make([]*questmgr.Manager, 0, len(w.mainQuests)+len(w.subquests))
	out = append(out, w.mainQuests...)
	out = append(out, w.subquests...)
	return out
}

// AddQuest defines a new quest. A questActionNames entry that names a
// defined action group expands to every member action; any other entry
// names a single action. A questObjectNames entry starting with an
// uppercase letter names a type (expanding to every compatible object);
// anything else names a single object directly - matching the .quest
// format's convention that type names are capitalized and object names
// are not.
func (w *World) AddQuest(name string, isMainQuest bool, preconditions [][]string, goals [][][]string, questActionNames, questObjectNames, questSubquestNames []string) result.Result {
	definitionErr := result.QuestCantDefine(w.ServerWorldName(), name)
	if w.HasMainQuest(name) || w.HasSubquest(name) {
		return result.QuestAlreadyExists(w.ServerWorldName(), name).Combine(definitionErr)
	}

	pre, res := w.constructStatements(preconditions, nil)
	if res.IsError() {
		return res.Combine(result.QuestPreconditionsError()).Combine(definitionErr)
	}

	goalVec := make([]quest.Goal, len(goals))
	for i, goalList := range goals {
		goal, res := w.constructStatements(goalList, nil)
		if res.IsError() {
			return res.Combine(result.QuestGoalError(i)).Combine(definitionErr)
		}
		goalVec[i] = goal
	}

	actions, res := w.resolveQuestActions(name, questActionNames)
	if res.IsError() {
		return res.Combine(definitionErr)
	}

	objects, res := w.resolveQuestObjects(questObjectNames)
	if res.IsError() {
		return res.Combine(definitionErr)
	}

	subquests := make([]*quest.Quest, 0, len(questSubquestNames))
	var subErr result.Result
	for _, sName := range questSubquestNames {
		if !w.HasSubquest(sName) {
			subErr = subErr.Combine(result.UndefinedQuest(w.ServerWorldName(), sName))
			continue
		}
		subquests = append(subquests, w.getSubquest(sName).Quest())
	}
	if subErr.IsError() {
		return subErr.Combine(result.QuestSubquestsError()).Combine(definitionErr)
	}

	var quests *[]*questmgr.Manager
	var nameToID map[string]ids.ID
	if isMainQuest {
		quests, nameToID = &w.mainQuests, w.mainQuestByID
	} else {
		quests, nameToID = &w.subquests, w.subquestByID
	}
	id := ids.ID(len(*quests))
	nameToID[name] = id
	newQuest := quest.New(name, id, pre, goalVec, actions, objects, subquests)
	*quests = append(*quests, questmgr.New(newQuest))
	return result.OK()
}

func (w *World) resolveQuestActions(questName string, names []string) ([]*action.Action, result.Result) {
	var out []*action.Action
	added := make(map[*action.Action]struct{})
	var errs result.Result
	for _, name := range names {
		if w.HasActionGroup(name) {
			for _, act := range w.actionGroups[name] {
				if _, ok := added[act]; !ok {
					added[act] = struct{}{}
					out = append(out, act)
				}
			}
		} else {
			if !w.HasAction(name) {
				errs = errs.Combine(result.UndefinedAction(w.ServerWorldName(), name))
				continue
			}
			act := w.getAction(name)
			if _, ok := added[act]; !ok {
				added[act] = struct{}{}
				out = append(out, act)
			}
		}
	}
	for _, act := range out {
		if act.IsGlobal() {
			errs = errs.Combine(result.QuestActionIsGlobal(questName, act.Name))
		}
	}
	if errs.IsError() {
		return nil, errs.Combine(result.QuestActionsError())
	}
	return out, result.OK()
}

func (w *World) resolveQuestObjects(names []string) (model.ObjectVec, result.Result) {
	var out model.ObjectVec
	added := make(map[*model.Object]struct{})
	var errs result.Result
	for _, name := range names {
		if isCapitalized(name) {
			if !w.HasType(name) {
				errs = errs.Combine(result.UndefinedType(w.ServerWorldName(), name))
				continue
			}
			t := w.getType(name)
			for _, obj := range w.objects {
				if model.AreTypesetsCompatible(obj.TypeSet, model.NewTypeSet(t)) {
					if _, ok := added[obj]; !ok {
						added[obj] = struct{}{}
						out = append(out, obj)
					}
				}
			}
		} else {
			if !w.HasObject(name) {
				errs = errs.Combine(result.UndefinedObject(w.ServerWorldName(), name))
				continue
			}
			obj := w.getObject(name)
			if _, ok := added[obj]; !ok {
				added[obj] = struct{}{}
				out = append(out, obj)
			}
		}
	}
	if errs.IsError() {
		return nil, errs.Combine(result.QuestObjectsError())
	}
	return out, result.OK()
}

func isCapitalized(s string) bool {
	return len(s) > 0 && s[0] >= 'A' && s[0] <= 'Z'
}

// QuestStatus returns questName's current status, Inactive if
// undefined.
func (w *World) QuestStatus(questName string) qstatus.Status {
	qm := w.getAnyQuest(questName)
	if qm == nil {
		return qstatus.Inactive
	}
	return qm.Status()
}

// SetQuestOption sets a planner tuning option on an already-defined
// quest.
func (w *World) SetQuestOption(questName string, option questmgr.Option, value int) result.Result {
	qm := w.getAnyQuest(questName)
	if qm == nil {
		return result.UndefinedQuest(w.ServerWorldName(), questName)
	}
	qm.SetOption(option, value)
	return result.OK()
}

// ===================== PLANNING ===================== //

func (w *World) activateInactiveMainQuests(sink *message.Queue) {
	for _, qm := range w.mainQuests {
		if qm.Status() == qstatus.Inactive && w.state.HasSubstate(qm.Quest().Preconditions) {
			qm.Activate()
			sink.PushNewMainQuest(w.worldName, qm.Quest().Name)
		}
	}
}

// PerformPlanning (re-)plans every quest whose substate has advanced
// since its last known plan, in main-quest-then-subquest, definition
// order - matching the reference engine's deterministic sweep.
func (w *World) PerformPlanning(sink *message.Queue) {
	for _, qm := range w.allQuests() {
		switch qm.Status() {
		case qstatus.Inactive, qstatus.Done:
			continue
		}
		if qm.LastSubstateID() == qm.CurrentSubstateID() {
			continue
		}
		w.performQuestPlanning(qm, sink)
	}
}

func (w *World) performQuestPlanning(qm *questmgr.Manager, sink *message.Queue) {
	planningState := w.state.DuplicateFiltered(qm.Quest())
	newPlan := questmgr.PerformPlanning(w.worldName, qm.CurrentSubstateID(), planningState, qm, sink)
	if newPlan {
		w.findNewSubquest(qm, sink)
	}
}

// findNewSubquest checks whether qm's freshly computed plan's first
// step is an N/A action (the .quest format's convention for "this
// transition represents handing off to a subquest") and, if so,
// activates whichever of qm's subquests now has its own preconditions
// satisfied and at least one goal already reached in the resulting
// state.
func (w *World) findNewSubquest(qm *questmgr.Manager, sink *message.Queue) {
	plan := qm.LastPlan()
	q := qm.Quest()
	if len(q.Subquests) == 0 || plan == nil || len(plan.Steps) == 0 {
		return
	}
	first := plan.Steps[0]
	act := q.GetAction(first.Action.ID)
	if act == nil || !act.IsNotApplicable {
		return
	}

	post := plan.GivenState.Duplicate()
	act.ApplyUnsafe(first.Arguments, post)

	for _, sub := range q.Subquests {
		subManager := w.getSubquest(sub.Name)
		if subManager == nil || subManager.Status() != qstatus.Inactive {
			continue
		}
		if !plan.GivenState.HasSubstate(sub.Preconditions) {
			continue
		}
		for _, goal := range sub.Goals {
			if post.HasSubstate(goal) {
				subManager.SetParentQuest(q, plan.GoalIndx)
				subManager.Activate()
				sink.PushNewSubQuest(w.worldName, sub.Name, q.Name, plan.GoalIndx)
				w.performQuestPlanning(subManager, sink)
				break
			}
		}
	}
}

// ===================== SAVE FILE ===================== //

// GenerateSaveFile renders the world's current state as a self-
// contained .quest script: a synthetic, applicable "Load" action whose
// status commands and add-list reconstruct every quest's status and the
// entire current state when loaded into a fresh world.
func (w *World) GenerateSaveFile() string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Save file for '%s'\n", w.ServerWorldName())
	b.WriteString("version 1 0\n")
	fmt.Fprintf(&b, "project %s\n\n", w.worldName)
	b.WriteString("action Load:\n")

	for _, quests := range [][]*questmgr.Manager{w.mainQuests, w.subquests} {
		// Output in reverse definition order so a parent quest's status
		// command always precedes its subquest's (subquests can only
		// reference subquests already defined earlier).
		for i := len(quests) - 1; i >= 0; i-- {
			qm := quests[i]
			fmt.Fprintf(&b, "    status %s ", qm.Quest().Name)
			switch qm.Status() {
			case qstatus.Inactive:
				b.WriteString("INACTIVE ")
			case qstatus.Unreachable:
				b.WriteString("UNREACHABLE ")
			case qstatus.Done:
				fmt.Fprintf(&b, "DONE %d", qm.LastActiveGoalIndx())
			default:
				fmt.Fprintf(&b, "ACTIVE %d", qm.LastActiveGoalIndx())
			}
			if qm.Status() != qstatus.Inactive && qm.ParentQuest() != nil {
				fmt.Fprintf(&b, " PARENT %s %d", qm.ParentQuest().Name, qm.ParentQuestGoal())
			}
			b.WriteString("\n")
		}
	}

	b.WriteString("    pre # none\n")
	b.WriteString("    rem # none\n")
	b.WriteString("    add # Current State:\n        ")
	for _, st := range w.state.Statements() {
		fmt.Fprintf(&b, "%s(", st.Relation.Name)
		args := st.Arguments()
		for i, arg := range args {
			b.WriteString(arg.Name)
			if i != len(args)-1 {
				b.WriteString(", ")
			}
		}
		b.WriteString(")\n        ")
	}
	return b.String()
}
