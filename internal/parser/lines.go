package parser

import (
	"strconv"
	"strings"

	"mozok/internal/result"
)

// sourceLine is one physical source line after comment stripping: its
// 1-based number (for error messages), indentation depth, and trimmed
// content.
type sourceLine struct {
	num    int
	indent int
	text   string
}

// lineReader walks a flat list of sourceLines with lookahead, the
// granularity every block-structured rule in the .quest/.qsf grammar
// operates at: a header line ending in ':' followed by a deeper-indented
// body, terminated by dedent or EOF.
type lineReader struct {
	file  string
	lines []sourceLine
	pos   int
}

func newLineReader(file, src string) *lineReader {
	raw := strings.Split(stripComments(src), "\n")
	lines := make([]sourceLine, 0, len(raw))
	for i, text := range raw {
		if strings.TrimSpace(text) == "" {
			continue
		}
		lines = append(lines, sourceLine{num: i + 1, indent: indent(text), text: strings.TrimSpace(text)})
	}
	return &lineReader{file: file, lines: lines}
}

func (r *lineReader) eof() bool { return r.pos >= len(r.lines) }

func (r *lineReader) peek() (sourceLine, bool) {
	if r.eof() {
		return sourceLine{}, false
	}
	return r.lines[r.pos], true
}

func (r *lineReader) next() (sourceLine, bool) {
	l, ok := r.peek()
	if ok {
		r.pos++
	}
	return l, ok
}

func (r *lineReader) errAt(l sourceLine, format string, args ...any) result.Result {
	c := &cursor{file: r.file, line: l.num - 1}
	return c.errf(format, args...)
}

func (r *lineReader) errf(format string, args ...any) result.Result {
	n := 0
	if !r.eof() {
		n = r.lines[r.pos].num
	} else if len(r.lines) > 0 {
		n = r.lines[len(r.lines)-1].num
	}
	c := &cursor{file: r.file, line: n - 1}
	return c.errf(format, args...)
}

// block collects every subsequent line strictly more indented than
// baseIndent, stopping at the first line indented at baseIndent or
// less (or EOF). This is how every ":"-headed section in the grammar
// (argument blocks, pre/rem/add, quest sections) delimits its body.
func (r *lineReader) block(baseIndent int) []sourceLine {
	var body []sourceLine
	for {
		l, ok := r.peek()
		if !ok || l.indent <= baseIndent {
			return body
		}
		body = append(body, l)
		r.pos++
	}
}

// parseStatement parses one `RelationName(arg1, arg2, ...)` or bare
// zero-arity `RelationName` line, the form used throughout pre/rem/add
// lists, goal blocks, and save-file `add` lists.
func parseStatement(file string, l sourceLine) (name string, args []string, res result.Result) {
	c := &cursor{file: file, line: l.num - 1, text: l.text}
	name, res = c.name(CaseUpper)
	if res.IsError() {
		return "", nil, res
	}
	c.space(0)
	if c.cur() != '(' {
		return name, nil, result.OK()
	}
	if res = c.parOpen(); res.IsError() {
		return "", nil, res
	}
	c.space(0)
	if c.cur() == ')' {
		c.advance()
		return name, nil, result.OK()
	}
	args, res = c.nameList(CaseBoth)
	if res.IsError() {
		return "", nil, res
	}
	c.space(0)
	if res = c.parClose(); res.IsError() {
		return "", nil, res
	}
	return name, args, result.OK()
}

// typedNameList parses a `name1:Type1,Type2, name2:Type3` parameter
// declaration list, the form action/rlist argument blocks and relation/
// relation-list type signatures share. Every parameter name must be
// lowercase-first (CaseLower), the same rule object names follow, since
// action parameters and object names share one namespace.
func typedNameList(file string, l sourceLine) ([]string, [][]string, result.Result) {
	c := &cursor{file: file, line: l.num - 1, text: l.text}
	var names []string
	var types [][]string
	for {
		c.space(0)
		n, res := c.name(CaseLower)
		if res.IsError() {
			return nil, nil, res
		}
		if res = c.colon(); res.IsError() {
			return nil, nil, res
		}
		ts, res := c.nameList(CaseUpper)
		if res.IsError() {
			return nil, nil, res
		}
		names = append(names, n)
		types = append(types, ts)
		c.space(0)
		if c.eof() || c.cur() != ',' {
			break
		}
		c.advance()
	}
	return names, types, result.OK()
}

// headerName parses `<keyword> <Name>` possibly followed by a trailing
// `:`, returning the name and whether a trailing colon was present.
func headerName(file string, l sourceLine, kw string, first Case) (string, bool, result.Result) {
	c := &cursor{file: file, line: l.num - 1, text: l.text}
	if res := c.keyword(kw); res.IsError() {
		return "", false, res
	}
	if res := c.space(1); res.IsError() {
		return "", false, res
	}
	name, res := c.name(first)
	if res.IsError() {
		return "", false, res
	}
	c.space(0)
	hasColon := c.cur() == ':'
	return name, hasColon, result.OK()
}

func atoiOr(s string, def int) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return def
	}
	return n
}
