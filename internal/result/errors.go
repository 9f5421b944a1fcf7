package result

import "strings"

// Constructors for the well-known error families named in error_utils.hpp
// of the reference implementation. Keeping them as named functions (rather
// than ad-hoc Errorf calls scattered through the codebase) gives every
// caller an identical message shape and a single place to adjust wording.

func strVec(vec []string) string {
	return strings.Join(vec, ",")
}

// World errors.

func WorldAlreadyExists(serverName, worldName string) Result {
	return Errorf("World '%s' already exists on server '%s'.", worldName, serverName)
}

func WorldDoesntExist(serverName, worldName string) Result {
	return Errorf("World '%s' doesn't exist on server '%s'.", worldName, serverName)
}

func WorldOtherError(worldName, msg string) Result {
	return Errorf("World '%s': %s", worldName, msg)
}

func CantApplyNAAction(worldName, actionName string) Result {
	return Errorf("Action '%s' in world '%s' is N/A (not applicable).", actionName, worldName)
}

// Type errors.

func TypeAlreadyExists(worldName, typeName string) Result {
	return Errorf("Type '%s' already exists in world '%s'.", typeName, worldName)
}

func UndefinedType(worldName, typeName string) Result {
	return Errorf("Type '%s' is undefined in world '%s'.", typeName, worldName)
}

// Object errors.

func ObjectAlreadyExists(worldName, objectName string) Result {
	return Errorf("Object '%s' already exists in world '%s'.", objectName, worldName)
}

func UndefinedObject(worldName, objectName string) Result {
	return Errorf("Object '%s' is undefined in world '%s'.", objectName, worldName)
}

// Relation errors.

func RelAlreadyExists(worldName, relationName string) Result {
	return Errorf("Relation '%s' already exists in world '%s'.", relationName, worldName)
}

func UndefinedRel(worldName, relationName string) Result {
	return Errorf("Relation '%s' is undefined in world '%s'.", relationName, worldName)
}

func RelArgErrorInvalidArity(relationName string, expectedArity, givenArity int) Result {
	return Errorf("Relation '%s' expecting %d arguments but %d arguments were given.",
		relationName, expectedArity, givenArity)
}

func RelArgErrorInvalidType(relationName string, indx int, argObjName string, argObjType []string, expectedType string) Result {
	return Errorf("Relation '%s' %d-th argument '%s' has an incompatible type ('%s'). Expected an object compatible with '%s' type.",
		relationName, indx+1, argObjName, strVec(argObjType), expectedType)
}

// Relation list errors.

func RListAlreadyExists(worldName, rlistName string) Result {
	return Errorf("Relation list '%s' already exists in world '%s'.", rlistName, worldName)
}

func UndefinedRList(worldName, rlistName string) Result {
	return Errorf("Relation list '%s' is undefined in world '%s'.", rlistName, worldName)
}

func RListArgErrorInvalidArity(rlistName string, expectedArity, givenArity int) Result {
	return Errorf("Relation list '%s' expecting %d arguments but %d arguments were given.",
		rlistName, expectedArity, givenArity)
}

func RListArgErrorInvalidType(rlistName string, indx int, argObjName string, argObjType, expectedType []string) Result {
	return Errorf("Relation list '%s' %d-th argument '%s' has an incompatible type ('%s'). Expected an object compatible with '%s' type.",
		rlistName, indx+1, argObjName, strVec(argObjType), strVec(expectedType))
}

// Action errors.

func ActionAlreadyExists(worldName, actionName string) Result {
	return Errorf("Action '%s' already exists in world '%s'.", actionName, worldName)
}

func UndefinedAction(worldName, actionName string) Result {
	return Errorf("Action '%s' is undefined in world '%s'.", actionName, worldName)
}

func ActionArgErrorInvalidArity(actionName string, expectedArity, givenArity int) Result {
	return Errorf("Action '%s' expecting %d arguments but %d arguments were given.",
		actionName, expectedArity, givenArity)
}

func ActionArgErrorInvalidType(actionName string, indx int, argObjName string, argObjType, expectedType []string) Result {
	return Errorf("Action '%s' %d-th argument '%s' has an incompatible type ('%s'). Expected an object compatible with '%s' type.",
		actionName, indx+1, argObjName, strVec(argObjType), strVec(expectedType))
}

func ActionPreconditionsFailed(worldName, actionName string) Result {
	return Errorf("Action '%s' preconditions are not satisfied in world '%s'.", actionName, worldName)
}

func ActionParameterShadowsObject(actionName, paramName string) Result {
	return Errorf("Action '%s' parameter '%s' has the same name as an existing object.", actionName, paramName)
}

// Quest errors.

func QuestAlreadyExists(worldName, questName string) Result {
	return Errorf("Quest '%s' already exists in world '%s'.", questName, worldName)
}

func UndefinedQuest(worldName, questName string) Result {
	return Errorf("Quest '%s' is undefined in world '%s'.", questName, worldName)
}

func UndefinedSubQuest(worldName, subquestName string) Result {
	return Errorf("Sub-quest '%s' is undefined in world '%s'.", subquestName, worldName)
}

func UndefinedMainQuest(worldName, questName string) Result {
	return Errorf("Main quest '%s' is undefined in world '%s'.", questName, worldName)
}

func QuestActionIsGlobal(questName, actionName string) Result {
	return Errorf("Quest '%s' cannot permit action '%s' because it is global.", questName, actionName)
}

func QuestCantDefine(worldName, questName string) Result {
	return Errorf("Can't define quest '%s' in world '%s'.", questName, worldName)
}

func QuestPreconditionsError() Result {
	return Errorf("Error in quest preconditions (see previous error).")
}

func QuestGoalError(goalIndx int) Result {
	return Errorf("Error in %d-th quest goal (see previous error).", goalIndx+1)
}

func QuestActionsError() Result {
	return Errorf("Error in quest action list (see previous error).")
}

func QuestObjectsError() Result {
	return Errorf("Error in quest object list (see previous error).")
}

func QuestSubquestsError() Result {
	return Errorf("Error in quest subquest list (see previous error).")
}

// Action group errors.

func ActionGroupAlreadyExists(worldName, groupName string) Result {
	return Errorf("Action group '%s' already exists in world '%s'.", groupName, worldName)
}

func UndefinedActionGroup(worldName, groupName string) Result {
	return Errorf("Action group '%s' is undefined in world '%s'.", groupName, worldName)
}

func ActionCantDefine(worldName, actionName string) Result {
	return Errorf("Can't define action '%s' in world '%s'.", actionName, worldName)
}

func ActionPreError() Result {
	return Errorf("Error in action's `pre` list (see previous error).")
}

func ActionRemError() Result {
	return Errorf("Error in action's `rem` list (see previous error).")
}

func ActionAddError() Result {
	return Errorf("Error in action's `add` list (see previous error).")
}

// Server errors.

func ServerWorkerIsRunning(serverName string) Result {
	return Errorf("Server '%s': this operation is forbidden while the worker thread is running.", serverName)
}

// Parser errors.

func ParserError(fileName string, line, col int, msg string) Result {
	return Errorf("%s [%s:%d:%d]", msg, fileName, line+1, col+1)
}

func ExpectingKeyword(fileName string, line, col int, keyword string) Result {
	return ParserError(fileName, line, col, "Expecting `"+keyword+"` keyword.")
}

func ExpectingToken(fileName string, line, col int, what string) Result {
	return ParserError(fileName, line, col, "Expecting "+what+".")
}

func UnsupportedVersion(fileName string, line, col, curMajor, curMinor, badMajor, badMinor int) Result {
	return ParserError(fileName, line, col, Errorf("Version (%d.%d) is not supported. Expected version (%d.%d).",
		badMajor, badMinor, curMajor, curMinor).Description())
}
