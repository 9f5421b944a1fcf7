package parser

import (
	"strings"

	"mozok/internal/logging"
	"mozok/internal/qstatus"
	"mozok/internal/result"
	"mozok/internal/world"
)

const (
	supportedMajor = 1
	supportedMinor = 0
)

// AddProject parses projectSrc (in the .quest project format) and
// applies every definition it contains, in file order, to w. Not
// transactional: a failure partway through leaves every definition
// already applied in place, matching the reference engine's
// addFromProjectSRC contract.
func AddProject(w *world.World, projectFileName, projectSrc string) result.Result {
	logging.ParserDebug("parsing project file '%s'", projectFileName)
	p := &projectParser{r: newLineReader(projectFileName, projectSrc), world: w}
	res := p.parse()
	if res.IsError() {
		logging.ParserError("failed to parse '%s': %s", projectFileName, res.Description())
	}
	return res
}

type projectParser struct {
	r     *lineReader
	world *world.World
}

func (p *projectParser) parse() result.Result {
	if res := p.version(); res.IsError() {
		return res
	}
	if res := p.projectName(); res.IsError() {
		return res
	}
	for !p.r.eof() {
		l, _ := p.r.peek()
		kw := firstWord(l.text)
		var res result.Result
		switch kw {
		case "type":
			res = p.typeDecl(l)
		case "object":
			res = p.objectDecl(l)
		case "rel":
			res = p.relationDecl(l)
		case "rlist":
			res = p.relationListDecl(l)
		case "agroup":
			res = p.actionGroupDecl(l)
		case "action":
			res = p.actionDecl(l)
		case "quest", "main_quest":
			res = p.questDecl(l, kw == "main_quest")
		default:
			return p.r.errAt(l, "Unrecognized top-level definition `%s`.", kw)
		}
		if res.IsError() {
			return res
		}
	}
	return result.OK()
}

func firstWord(s string) string {
	i := strings.IndexAny(s, " \t(")
	if i < 0 {
		return s
	}
	return s[:i]
}

func (p *projectParser) version() result.Result {
	l, ok := p.r.next()
	if !ok {
		return p.r.errf("Expecting `version` directive.")
	}
	c := &cursor{file: p.r.file, line: l.num - 1, text: l.text}
	if res := c.keyword("version"); res.IsError() {
		return res
	}
	c.space(1)
	major, res := c.posInt()
	if res.IsError() {
		return res
	}
	c.space(1)
	minor, res := c.posInt()
	if res.IsError() {
		return res
	}
	if major != supportedMajor || minor > supportedMinor {
		return result.UnsupportedVersion(p.r.file, l.num-1, 0, supportedMajor, supportedMinor, major, minor)
	}
	return result.OK()
}

func (p *projectParser) projectName() result.Result {
	l, ok := p.r.next()
	if !ok {
		return p.r.errf("Expecting `project` directive.")
	}
	_, _, res := headerName(p.r.file, l, "project", CaseBoth)
	return res
}

// --- type ---

func (p *projectParser) typeDecl(l sourceLine) result.Result {
	p.r.next()
	c := &cursor{file: p.r.file, line: l.num - 1, text: l.text}
	if res := c.keyword("type"); res.IsError() {
		return res
	}
	c.space(1)
	name, res := c.name(CaseUpper)
	if res.IsError() {
		return res
	}
	var supertypes []string
	c.space(0)
	if !c.eof() && c.cur() == ':' {
		c.advance()
		c.space(0)
		supertypes, res = c.nameList(CaseUpper)
		if res.IsError() {
			return res
		}
	}
	return p.world.AddType(name, supertypes)
}

// --- object ---

func (p *projectParser) objectDecl(l sourceLine) result.Result {
	p.r.next()
	c := &cursor{file: p.r.file, line: l.num - 1, text: l.text}
	if res := c.keyword("object"); res.IsError() {
		return res
	}
	c.space(1)
	name, res := c.name(CaseLower)
	if res.IsError() {
		return res
	}
	c.space(0)
	if res = c.colon(); res.IsError() {
		return res
	}
	c.space(0)
	types, res := c.nameList(CaseUpper)
	if res.IsError() {
		return res
	}
	return p.world.AddObject(name, types)
}

// --- rel ---

func (p *projectParser) relationDecl(l sourceLine) result.Result {
	p.r.next()
	c := &cursor{file: p.r.file, line: l.num - 1, text: l.text}
	if res := c.keyword("rel"); res.IsError() {
		return res
	}
	c.space(0)
	name, res := c.name(CaseUpper)
	if res.IsError() {
		return res
	}
	c.space(0)
	if res = c.parOpen(); res.IsError() {
		return res
	}
	c.space(0)
	var types []string
	if c.cur() != ')' {
		types, res = c.nameList(CaseUpper)
		if res.IsError() {
			return res
		}
		c.space(0)
	}
	if res = c.parClose(); res.IsError() {
		return res
	}
	return p.world.AddRelation(name, types)
}

// --- rlist ---

func (p *projectParser) relationListDecl(l sourceLine) result.Result {
	p.r.next()
	name, _, res := headerName(p.r.file, l, "rlist", CaseLower)
	if res.IsError() {
		return res
	}
	body := p.r.block(l.indent)
	if len(body) == 0 {
		return p.r.errAt(l, "Expecting an argument declaration.")
	}
	arguments, res := argList(p.r.file, body[0])
	if res.IsError() {
		return res
	}
	stmts, res := statementList(p.r.file, body[1:])
	if res.IsError() {
		return res
	}
	return p.world.AddRelationList(name, arguments, stmts)
}

// argList parses `name1:Type1,Type2, name2:Type3` into the
// [["name1","Type1","Type2"],["name2","Type3"]] shape the World API
// expects.
func argList(file string, l sourceLine) ([][]string, result.Result) {
	names, types, res := typedNameList(file, l)
	if res.IsError() {
		return nil, res
	}
	out := make([][]string, len(names))
	for i := range names {
		out[i] = append([]string{names[i]}, types[i]...)
	}
	return out, result.OK()
}

func statementList(file string, lines []sourceLine) ([][]string, result.Result) {
	out := make([][]string, 0, len(lines))
	for _, l := range lines {
		name, args, res := parseStatement(file, l)
		if res.IsError() {
			return nil, res
		}
		out = append(out, append([]string{name}, args...))
	}
	return out, result.OK()
}

// --- agroup ---

func (p *projectParser) actionGroupDecl(l sourceLine) result.Result {
	p.r.next()
	c := &cursor{file: p.r.file, line: l.num - 1, text: l.text}
	if res := c.keyword("agroup"); res.IsError() {
		return res
	}
	c.space(1)
	name, res := c.name(CaseLower)
	if res.IsError() {
		return res
	}
	return p.world.AddActionGroup(name)
}

// --- action ---

func (p *projectParser) actionDecl(l sourceLine) result.Result {
	p.r.next()
	c := &cursor{file: p.r.file, line: l.num - 1, text: l.text}
	if res := c.keyword("action"); res.IsError() {
		return res
	}
	c.space(1)
	isNA := false
	if c.keyword("N/A").IsOK() {
		isNA = true
		c.space(1)
	}
	name, res := c.name(CaseUpper)
	if res.IsError() {
		return res
	}
	c.space(0)
	var groups []string
	if !c.eof() && c.cur() == '{' {
		c.advance()
		c.space(0)
		groups, res = c.nameList(CaseLower)
		if res.IsError() {
			return res
		}
		c.space(0)
		if res = c.symbol('}', "`}`"); res.IsError() {
			return res
		}
	}

	body := p.r.block(l.indent)
	if len(body) == 0 {
		return p.r.errAt(l, "Expecting an argument declaration.")
	}
	arguments, res := argList(p.r.file, body[0])
	if res.IsError() {
		return res
	}
	body = body[1:]

	statusCmds, preList, remList, addList, res := actionSections(p.r.file, body)
	if res.IsError() {
		return res
	}

	if res = p.world.AddAction(name, groups, isNA, arguments, preList, remList, addList); res.IsError() {
		return res
	}
	for _, sc := range statusCmds {
		if res = p.world.AddActionQuestStatusChange(name, sc.quest, sc.status, sc.goal, sc.parentQuest, sc.parentGoal); res.IsError() {
			return res
		}
	}
	return result.OK()
}

type statusCmd struct {
	quest       string
	status      qstatus.Status
	goal        int
	parentQuest string
	parentGoal  int
}

// actionSections splits an action body into its `status` hook lines
// (any order, interspersed before the pre:/rem:/add: headers) and the
// pre/rem/add statement blocks.
func actionSections(file string, body []sourceLine) (cmds []statusCmd, pre, rem, add [][]string, res result.Result) {
	i := 0
	for i < len(body) && firstWord(body[i].text) == "status" {
		cmd, r := parseStatusLine(file, body[i])
		if r.IsError() {
			return nil, nil, nil, nil, r
		}
		cmds = append(cmds, cmd)
		i++
	}
	base := 0
	if len(body) > 0 {
		base = body[0].indent
	}
	rest := body[i:]
	var rr *lineReader
	rr = &lineReader{file: file, lines: rest}
	for !rr.eof() {
		l, _ := rr.next()
		name := strings.TrimSuffix(l.text, ":")
		blockLines := rr.block(base)
		stmts, r := statementList(file, blockLines)
		if r.IsError() {
			return nil, nil, nil, nil, r
		}
		switch name {
		case "pre":
			pre = stmts
		case "rem":
			rem = stmts
		case "add":
			add = stmts
		default:
			return nil, nil, nil, nil, rr.errAt(l, "Expecting `pre:`, `rem:` or `add:`.")
		}
	}
	return cmds, pre, rem, add, result.OK()
}

// parseStatusLine parses `status <quest> <STATUS> [<goal>] [PARENT <parentQuest> <parentGoal>]`,
// the same line shape GenerateSaveFile emits for its synthetic Load
// action.
func parseStatusLine(file string, l sourceLine) (statusCmd, result.Result) {
	fields := strings.Fields(l.text)
	if len(fields) < 3 || fields[0] != "status" {
		return statusCmd{}, (&cursor{file: file, line: l.num - 1}).errf("Expecting `status <quest> <STATUS>`.")
	}
	cmd := statusCmd{quest: fields[1], status: parseStatus(fields[2]), parentGoal: -1}
	idx := 3
	if idx < len(fields) {
		if n := atoiOr(fields[idx], -1); n >= 0 {
			cmd.goal = n
			idx++
		}
	}
	if idx < len(fields) && fields[idx] == "PARENT" && idx+2 < len(fields) {
		cmd.parentQuest = fields[idx+1]
		cmd.parentGoal = atoiOr(fields[idx+2], -1)
	}
	return cmd, result.OK()
}

func parseStatus(s string) qstatus.Status {
	switch s {
	case "DONE":
		return qstatus.Done
	case "REACHABLE":
		return qstatus.Reachable
	case "UNREACHABLE":
		return qstatus.Unreachable
	case "UNKNOWN", "ACTIVE":
		return qstatus.Unknown
	default:
		return qstatus.Inactive
	}
}
