package parser

import (
	"strings"

	"mozok/internal/questmgr"
	"mozok/internal/result"
)

func (p *projectParser) questDecl(l sourceLine, isMain bool) result.Result {
	p.r.next()
	kw := "quest"
	if isMain {
		kw = "main_quest"
	}
	name, _, res := headerName(p.r.file, l, kw, CaseUpper)
	if res.IsError() {
		return res
	}

	body := p.r.block(l.indent)
	sections := splitSections(body, l.indent)

	var preconditions [][]string
	var goals [][][]string
	var actionNames, objectNames, subquestNames []string
	var options [][2]string

	for _, sec := range sections {
		switch sec.name {
		case "options":
			options = append(options, parseOptionLines(sec.body)...)
		case "preconditions":
			stmts, r := statementList(p.r.file, sec.body)
			if r.IsError() {
				return r
			}
			preconditions = stmts
		case "goal":
			stmts, r := statementList(p.r.file, sec.body)
			if r.IsError() {
				return r
			}
			goals = append(goals, stmts)
		case "actions":
			actionNames = append(actionNames, nameLines(sec.body)...)
		case "objects":
			objectNames = append(objectNames, nameLines(sec.body)...)
		case "subquests":
			subquestNames = append(subquestNames, nameLines(sec.body)...)
		default:
			return p.r.errAt(l, "Unrecognized quest section `%s`.", sec.name)
		}
	}

	if res = p.world.AddQuest(name, isMain, preconditions, goals, actionNames, objectNames, subquestNames); res.IsError() {
		return res
	}
	for _, opt := range options {
		if res = applyQuestOption(p.world, name, opt[0], opt[1]); res.IsError() {
			return res
		}
	}
	return result.OK()
}

type section struct {
	name string
	body []sourceLine
}

// splitSections breaks a quest body into its named `<word>:` sections
// (options/preconditions/goal/actions/objects/subquests), each owning
// every subsequent line indented deeper than the section header -
// `goal:` may repeat, once per alternative goal.
func splitSections(body []sourceLine, baseIndent int) []section {
	var out []section
	rr := &lineReader{lines: body}
	for !rr.eof() {
		l, _ := rr.next()
		name := strings.TrimSuffix(l.text, ":")
		secBody := rr.block(l.indent)
		out = append(out, section{name: name, body: secBody})
	}
	return out
}

func nameLines(body []sourceLine) []string {
	var out []string
	for _, l := range body {
		for _, n := range strings.Split(l.text, ",") {
			n = strings.TrimSpace(n)
			if n != "" {
				out = append(out, n)
			}
		}
	}
	return out
}

// parseOptionLines parses `searchLimit 500`, `spaceLimit 5000`,
// `omega 1`, `heuristic SIMPLE`, `strategy ASTAR` style option lines
// into (key, value) pairs for applyQuestOption.
func parseOptionLines(body []sourceLine) [][2]string {
	out := make([][2]string, 0, len(body))
	for _, l := range body {
		fields := strings.Fields(l.text)
		if len(fields) == 0 {
			continue
		}
		val := ""
		if len(fields) > 1 {
			val = fields[1]
		}
		out = append(out, [2]string{fields[0], val})
	}
	return out
}

func applyQuestOption(w interface {
	SetQuestOption(questName string, option questmgr.Option, value int) result.Result
}, questName, key, val string) result.Result {
	switch key {
	case "searchLimit":
		return w.SetQuestOption(questName, questmgr.OptionSearchLimit, atoiOr(val, questmgr.DefaultSearchLimit))
	case "spaceLimit":
		return w.SetQuestOption(questName, questmgr.OptionSpaceLimit, atoiOr(val, questmgr.DefaultSpaceLimit))
	case "omega":
		return w.SetQuestOption(questName, questmgr.OptionOmega, atoiOr(val, questmgr.DefaultOmega))
	case "heuristic":
		h := questmgr.Simple
		if val == "HSP" {
			h = questmgr.HSP
		}
		return w.SetQuestOption(questName, questmgr.OptionHeuristic, int(h))
	case "strategy", "use_atree":
		// Both the reference engine's alternate DFS search strategy and
		// its action-tree indexing mode are accepted here but have no
		// effect: this port's planner always runs the A* search
		// described in the specification.
		return result.OK()
	default:
		return result.Errorf("Unrecognized quest option `%s`.", key)
	}
}
