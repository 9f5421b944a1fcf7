// Package mozok is the public shim over the engine's internal
// packages, re-exporting the types and functions a host program needs
// without letting it reach into internal/* directly.
package mozok

import (
	"mozok/internal/action"
	"mozok/internal/fs"
	"mozok/internal/message"
	"mozok/internal/parser"
	"mozok/internal/qstatus"
	"mozok/internal/questmgr"
	"mozok/internal/result"
	"mozok/internal/server"
)

// Server re-exports internal/server.Server.
type Server = server.Server

var CreateServer = server.CreateServer

type ActionStatus = server.ActionStatus

const (
	ActionUndefined    = server.ActionUndefined
	ActionApplicable   = server.ActionApplicable
	ActionNotApplicable = server.ActionNotApplicable
)

// ProjectLoader re-exports the seam a host implements (or uses
// NewLoader for) to supply .quest/.qsf file contents to the server.
type ProjectLoader = server.ProjectLoader

// NewLoader builds the default ProjectLoader, reading files through fs.
func NewLoader(fileSystem fs.FileSystem) *parser.Loader {
	return parser.NewLoader(fileSystem)
}

// FileSystem re-exports the file-access seam; OS is its default,
// disk-backed implementation.
type FileSystem = fs.FileSystem

var DefaultFileSystem = fs.OS{}

// ScriptHeader, WorldFile and WorldAction re-export the parsed,
// pre-application contents of a .qsf file.
type ScriptHeader = parser.ScriptHeader
type WorldFile = parser.WorldFile
type WorldAction = parser.WorldAction

var ParseScriptHeader = parser.ParseScriptHeader

// Result re-exports the engine's Result type, returned by every
// operation that can fail per the reference engine's Result-returning
// surface.
type Result = result.Result

// Status re-exports a quest's lifecycle status.
type Status = qstatus.Status

const (
	StatusInactive    = qstatus.Inactive
	StatusUnknown     = qstatus.Unknown
	StatusReachable   = qstatus.Reachable
	StatusUnreachable = qstatus.Unreachable
	StatusDone        = qstatus.Done
)

// Option re-exports the tunable per-quest planner settings.
type Option = questmgr.Option

const (
	OptionSearchLimit = questmgr.OptionSearchLimit
	OptionSpaceLimit  = questmgr.OptionSpaceLimit
	OptionOmega       = questmgr.OptionOmega
	OptionHeuristic   = questmgr.OptionHeuristic
)

// Processor re-exports the message-notification interface a host
// implements to observe quest status changes, plans, and errors.
type Processor = message.Processor
type NoopProcessor = message.NoopProcessor

// ActionError re-exports the action-application failure classification.
type ActionError = action.ActionError

const (
	NoActionError           = action.NoError
	UndefinedActionError    = action.UndefinedAction
	ArityActionError        = action.ArityError
	UndefinedObjectError    = action.UndefinedObject
	TypeActionError         = action.TypeError
	PreconditionsActionError = action.PreconditionsError
	NAActionError           = action.NAAction
	OtherActionError        = action.OtherError
)
