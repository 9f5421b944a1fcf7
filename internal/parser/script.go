package parser

import (
	"strings"

	"mozok/internal/fs"
	"mozok/internal/result"
	"mozok/internal/server"
	"mozok/internal/world"
)

// ScriptHeader is the parsed, pre-action-application contents of a .qsf
// file's header: the worlds it declares, the projects to load into each,
// and the init actions to apply afterward - everything up to (but not
// including) any `debug:` section, which is the debugging tool's
// concern, not the engine's.
type ScriptHeader struct {
	Name        string
	Worlds      []string
	Projects    []WorldFile
	InitActions []WorldAction
}

type WorldFile struct {
	World string
	Path  string
}

type WorldAction struct {
	World     string
	Action    string
	Arguments []string
}

// ParseScriptHeader parses scriptSrc (in the .qsf format) up to its
// optional `debug:` section.
func ParseScriptHeader(fileName, scriptSrc string) (*ScriptHeader, result.Result) {
	r := newLineReader(fileName, scriptSrc)
	h := &ScriptHeader{}

	l, ok := r.next()
	if !ok {
		return nil, r.errf("Expecting `version` directive.")
	}
	c := &cursor{file: fileName, line: l.num - 1, text: l.text}
	if res := c.keyword("version"); res.IsError() {
		return nil, res
	}
	c.space(1)
	major, res := c.posInt()
	if res.IsError() {
		return nil, res
	}
	c.space(1)
	minor, res := c.posInt()
	if res.IsError() {
		return nil, res
	}
	if major != supportedMajor || minor > supportedMinor {
		return nil, result.UnsupportedVersion(fileName, l.num-1, 0, supportedMajor, supportedMinor, major, minor)
	}

	l, ok = r.next()
	if !ok {
		return nil, r.errf("Expecting `script` directive.")
	}
	name, _, res := headerName(fileName, l, "script", CaseBoth)
	if res.IsError() {
		return nil, res
	}
	h.Name = name

	for !r.eof() {
		l, _ = r.peek()
		kw := strings.TrimSuffix(firstWord(l.text), ":")
		if kw == "debug" {
			break
		}
		r.next()
		body := r.block(l.indent)
		switch kw {
		case "worlds":
			h.Worlds = append(h.Worlds, nameLines(body)...)
		case "projects":
			for _, bl := range body {
				wf, res := parseWorldFile(fileName, bl)
				if res.IsError() {
					return nil, res
				}
				h.Projects = append(h.Projects, wf)
			}
		case "init":
			for _, bl := range body {
				wa, res := parseWorldAction(fileName, bl)
				if res.IsError() {
					return nil, res
				}
				h.InitActions = append(h.InitActions, wa)
			}
		default:
			return nil, r.errAt(l, "Unrecognized script section `%s`.", kw)
		}
	}
	return h, result.OK()
}

// parseWorldFile parses one `projects:` body line: `[world] path`. A
// bare path (no bracketed world) applies to every declared world.
func parseWorldFile(file string, l sourceLine) (WorldFile, result.Result) {
	text := l.text
	worldName := ""
	if strings.HasPrefix(text, "[") {
		end := strings.IndexByte(text, ']')
		if end < 0 {
			return WorldFile{}, (&cursor{file: file, line: l.num - 1}).errf("Expecting `]`.")
		}
		worldName = strings.TrimSpace(text[1:end])
		text = strings.TrimSpace(text[end+1:])
	}
	return WorldFile{World: worldName, Path: text}, result.OK()
}

// parseWorldAction parses one `init:` body line: `[world] Action(args)`.
func parseWorldAction(file string, l sourceLine) (WorldAction, result.Result) {
	text := l.text
	worldName := ""
	if strings.HasPrefix(text, "[") {
		end := strings.IndexByte(text, ']')
		if end < 0 {
			return WorldAction{}, (&cursor{file: file, line: l.num - 1}).errf("Expecting `]`.")
		}
		worldName = strings.TrimSpace(text[1:end])
		text = strings.TrimSpace(text[end+1:])
	}
	name, args, res := parseStatement(file, sourceLine{num: l.num, indent: l.indent, text: text})
	if res.IsError() {
		return WorldAction{}, res
	}
	return WorldAction{World: worldName, Action: name, Arguments: args}, result.OK()
}

// Loader implements server.ProjectLoader: it resolves file paths
// through a fs.FileSystem and drives both the .quest project parser and
// .qsf script header parser.
type Loader struct {
	FS fs.FileSystem
}

func NewLoader(fileSystem fs.FileSystem) *Loader {
	return &Loader{FS: fileSystem}
}

func (ld *Loader) AddProject(w *world.World, projectFileName, sourceDir string) result.Result {
	return ld.addProjectFile(w, joinPath(sourceDir, projectFileName))
}

func (ld *Loader) addProjectFile(w *world.World, path string) result.Result {
	src, res := ld.FS.GetTextFile(path)
	if res.IsError() {
		return res
	}
	return AddProject(w, path, src)
}

// ParseScript implements server.ProjectLoader: it parses scriptSrc's
// header into the server-facing ScriptPlan shape, translating the
// parser's WorldFile/WorldAction lines one-to-one.
func (ld *Loader) ParseScript(scriptFileName, scriptSrc string) (server.ScriptPlan, result.Result) {
	h, res := ParseScriptHeader(scriptFileName, scriptSrc)
	if res.IsError() {
		return server.ScriptPlan{}, res
	}
	plan := server.ScriptPlan{Worlds: h.Worlds}
	for _, p := range h.Projects {
		plan.Projects = append(plan.Projects, server.ScriptProject{World: p.World, Path: p.Path})
	}
	for _, a := range h.InitActions {
		plan.InitActions = append(plan.InitActions, server.ScriptAction{World: a.World, Action: a.Action, Arguments: a.Arguments})
	}
	return plan, result.OK()
}

func joinPath(dir, name string) string {
	if dir == "" || dir == "." {
		return name
	}
	return strings.TrimRight(dir, "/") + "/" + name
}
