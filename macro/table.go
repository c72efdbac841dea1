// Copyright (C) 2017 Google Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package macro's table.go is adapted from the teacher's
// preprocessorImpl.go: processMacro, readMacroArgs, parseMacroCallArgs,
// processDefine and parseDefMacroArgs, generalized to this core's token.Info
// vocabulary and extended with stringize, paste validation, variadic
// arguments, and redefinition-compatibility checking in place of the
// teacher's silent overwrite.
package macro

import (
	"github.com/codedhead/glslpp/diag"
	"github.com/codedhead/glslpp/token"
)

// bodyKind classifies one element of a compiled macro body.
type bodyKind int

const (
	bodyLiteral bodyKind = iota
	bodyParam
	bodyHashHash
)

type bodyTok struct {
	kind  bodyKind
	info  token.Info // valid when kind == bodyLiteral or bodyHashHash
	param int         // valid when kind == bodyParam
}

// Definition is one macro's table entry: the teacher's macroDefinition,
// generalized with a Variadic flag and compiled body tokens instead of a
// []macroExpander closure list, so the stringize/paste pass can see the
// body's literal structure directly.
type Definition struct {
	Name     string
	Function bool
	Variadic bool
	ArgCount int // not counting a trailing variadic parameter
	Body     []bodyTok

	// Params, in declaration order, for redefinition-compatibility checks
	// and for mapping argument index back to a parameter name.
	Params []string
}

// sameDefinition reports whether two Definitions are token-identical
// replacement lists with the same parameter list, the compatibility check
// spec.md requires before allowing a redefinition (the teacher's
// processDefine instead silently deleted the old entry).
func sameDefinition(a, b *Definition) bool {
	if a.Function != b.Function || a.Variadic != b.Variadic || len(a.Params) != len(b.Params) || len(a.Body) != len(b.Body) {
		return false
	}
	for i := range a.Params {
		if a.Params[i] != b.Params[i] {
			return false
		}
	}
	for i := range a.Body {
		if a.Body[i].kind != b.Body[i].kind || a.Body[i].param != b.Body[i].param || a.Body[i].info.Text != b.Body[i].info.Text {
			return false
		}
	}
	return true
}

// Table is the live set of #define'd macros for one preprocessing run.
type Table struct {
	macros map[string]*Definition
	diag   *diag.Collector
}

// NewTable builds an empty Table reporting diagnostics to collector.
func NewTable(collector *diag.Collector) *Table {
	return &Table{macros: make(map[string]*Definition), diag: collector}
}

// Lookup returns name's current definition, if any.
func (t *Table) Lookup(name string) (*Definition, bool) {
	d, ok := t.macros[name]
	return d, ok
}

// IsDefined reports whether name currently names a macro.
func (t *Table) IsDefined(name string) bool {
	_, ok := t.macros[name]
	return ok
}

// DefineBuiltin installs an object-like macro whose single expansion is a
// fixed token, e.g. the __VERSION__/GL_* builtins. A nil collector diag
// call site is never reached for builtins, since they are never
// redefined through this path.
func (t *Table) DefineBuiltin(name string, value token.Info) {
	t.macros[name] = &Definition{
		Name: name,
		Body: []bodyTok{{kind: bodyLiteral, info: value}},
	}
}

// Undef removes name's definition, reporting whether it had one. #undef of
// a never-defined name is a silent no-op; the directive layer reports only
// the builtin-specific case (UndefBuiltin).
func (t *Table) Undef(name string) bool {
	if _, ok := t.macros[name]; !ok {
		return false
	}
	delete(t.macros, name)
	return true
}

// Define installs a macro from a #define directive's argument tokens
// (everything after the "define" keyword up to end of line). It returns
// false if the syntax was invalid; a BadDefineSyntax diagnostic has
// already been reported in that case.
func (t *Table) Define(args []token.Info) bool {
	if len(args) == 0 || args[0].Kind != token.Ident {
		span := token.Span{}
		if len(args) > 0 {
			span = args[0].Span
		}
		t.diag.Report(diag.New(diag.Error, diag.BadDefineSyntax, span, "macro name must be an identifier"))
		return false
	}
	name := args[0].Text
	rest := args[1:]

	var def *Definition
	if len(rest) == 0 || rest[0].LeadingWhitespace || !rest[0].IsPunct("(") {
		def = &Definition{Name: name, Body: compileObjectBody(rest)}
	} else {
		params, variadic, body, ok := parseDefMacroArgs(t.diag, rest[1:])
		if !ok {
			return false
		}
		compiled := compileFunctionBody(body, params, variadic)
		argCount := len(params)
		if variadic {
			// params' last entry is the synthetic "__VA_ARGS__" parameter
			// standing in for "...", not a named argument slot; the
			// variadic-merging arithmetic in parseMacroCallArgs counts
			// only the named ones here.
			argCount--
		}
		def = &Definition{
			Name:     name,
			Function: true,
			Variadic: variadic,
			ArgCount: argCount,
			Params:   params,
			Body:     compiled,
		}
	}

	if existing, ok := t.macros[name]; ok && !sameDefinition(existing, def) {
		t.diag.Report(diag.New(diag.Warning, diag.RedefinitionMismatch, args[0].Span,
			"redefinition of macro %q is not identical to its previous definition", name))
	}
	t.macros[name] = def
	return true
}

func compileObjectBody(rest []token.Info) []bodyTok {
	body := make([]bodyTok, len(rest))
	for i, tk := range rest {
		if tk.Kind == token.HashHash {
			body[i] = bodyTok{kind: bodyHashHash, info: tk}
			continue
		}
		body[i] = bodyTok{kind: bodyLiteral, info: tk}
	}
	return body
}

// parseDefMacroArgs consumes a function-like macro's parameter list
// (the tokens after "(", before the matching ")"), returning the parameter
// names, whether the list ends in a variadic "...", and the replacement
// tokens that follow. Adapted from the teacher's parseDefMacroArgs.
func parseDefMacroArgs(collector *diag.Collector, args []token.Info) (params []string, variadic bool, body []token.Info, ok bool) {
	if len(args) == 0 {
		collector.Report(diag.New(diag.Error, diag.BadDefineSyntax, token.Span{}, "macro parameter list is not closed"))
		return nil, false, nil, false
	}
	if args[0].IsPunct(")") {
		return nil, false, args[1:], true
	}
	for {
		if len(args) == 0 {
			collector.Report(diag.New(diag.Error, diag.BadDefineSyntax, token.Span{}, "macro definition ended unexpectedly"))
			return nil, false, nil, false
		}
		if args[0].IsPunct("...") {
			params = append(params, "__VA_ARGS__")
			variadic = true
			if len(args) < 2 || !args[1].IsPunct(")") {
				collector.Report(diag.New(diag.Error, diag.BadDefineSyntax, args[0].Span, "'...' must be the last macro parameter"))
				return nil, false, nil, false
			}
			return params, variadic, args[2:], true
		}
		if args[0].Kind != token.Ident {
			collector.Report(diag.New(diag.Error, diag.BadDefineSyntax, args[0].Span,
				"expected a parameter name, got %q", args[0].Text))
			return nil, false, nil, false
		}
		name := args[0].Text
		for _, p := range params {
			if p == name {
				collector.Report(diag.New(diag.Error, diag.BadDefineSyntax, args[0].Span,
					"duplicate macro parameter %q", name))
			}
		}
		params = append(params, name)
		if len(args) < 2 {
			collector.Report(diag.New(diag.Error, diag.BadDefineSyntax, args[0].Span, "macro definition ended unexpectedly"))
			return nil, false, nil, false
		}
		switch {
		case args[1].IsPunct(")"):
			return params, variadic, args[2:], true
		case args[1].IsPunct(","):
			args = args[2:]
			continue
		default:
			collector.Report(diag.New(diag.Error, diag.BadDefineSyntax, args[1].Span,
				"expected ',' or ')', got %q", args[1].Text))
			return nil, false, nil, false
		}
	}
}

func compileFunctionBody(body []token.Info, params []string, variadic bool) []bodyTok {
	index := make(map[string]int, len(params))
	for i, p := range params {
		index[p] = i
	}
	out := make([]bodyTok, 0, len(body))
	for _, tk := range body {
		if tk.Kind == token.HashHash {
			out = append(out, bodyTok{kind: bodyHashHash, info: tk})
			continue
		}
		if (tk.Kind == token.Ident) || (variadic && tk.Text == "__VA_ARGS__") {
			if idx, ok := index[tk.Text]; ok {
				out = append(out, bodyTok{kind: bodyParam, param: idx})
				continue
			}
		}
		out = append(out, bodyTok{kind: bodyLiteral, info: tk})
	}
	return out
}

// Reader is a pull-based source of Expansions, implemented either by a
// listReader (rescanning a macro's own expansion) or by the driver's own
// token stream.
type Reader interface {
	Next() Expansion
	Peek() Expansion
}

// listReader reads from an in-memory list, falling through to a nested
// Reader once the list is exhausted — used to rescan a macro expansion
// while still being able to read past it into the original stream for
// e.g. an unbalanced function-macro invocation. Kept from the teacher's
// listReader.
type listReader struct {
	list []Expansion
	next Reader
}

func (r *listReader) Next() (t Expansion) {
	if len(r.list) > 0 {
		t = r.list[0]
		r.list = r.list[1:]
		return t
	}
	if r.next != nil {
		return r.next.Next()
	}
	return Expansion{Info: token.Info{Kind: token.EOF}}
}

func (r *listReader) Peek() (t Expansion) {
	if len(r.list) > 0 {
		return r.list[0]
	}
	if r.next != nil {
		return r.next.Peek()
	}
	return Expansion{Info: token.Info{Kind: token.EOF}}
}

// ProcessList runs ProcessMacro over every token of an in-memory list,
// used for pre-expanding macro arguments and by the driver for whole
// directive tails (#if/#elif, #line, #include). Adapted from the teacher's
// processList.
func (t *Table) ProcessList(list []Expansion) []Expansion {
	r := &listReader{list: list}
	var result []Expansion
	for len(r.list) > 0 {
		tok := r.Next()
		result = append(result, t.ProcessMacro(tok, r)...)
	}
	return result
}

// readMacroArgs reads a function-like macro's call arguments up to the
// matching ")", honoring nested parentheses, and splits them on top-level
// commas. Also returns the closing ")" token itself, needed for the
// hide-set intersection in parseMacroCallArgs. Adapted from the teacher's
// readMacroArgs.
func (t *Table) readMacroArgs(reader Reader) (args [][]Expansion, closeParen Expansion, ok bool) {
	var arg []Expansion
	level := 0
	for {
		if reader.Peek().Info.Kind == token.EOF {
			t.diag.Report(diag.New(diag.Error, diag.MacroArity, reader.Peek().Info.Span, "unexpected end of input in macro argument list"))
			return args, Expansion{}, false
		}
		if level == 0 {
			switch {
			case reader.Peek().Info.IsPunct(")"):
				args = append(args, arg)
				return args, reader.Next(), true
			case reader.Peek().Info.IsPunct("("):
				level++
				arg = append(arg, reader.Next())
				continue
			case reader.Peek().Info.IsPunct(","):
				reader.Next()
				args = append(args, arg)
				arg = nil
				continue
			}
		}
		switch {
		case reader.Peek().Info.IsPunct(")"):
			level--
			arg = append(arg, reader.Next())
		case reader.Peek().Info.IsPunct("("):
			level++
			arg = append(arg, reader.Next())
		default:
			arg = append(arg, reader.Next())
		}
	}
}

// parseMacroCallArgs reads and pre-expands a function-like macro's call
// arguments, returning the raw (unexpanded) argument lists, the
// pre-expanded argument lists, and the intersection of hide sets between
// the macro name token and the closing ")". Returns ok=false if the next
// token isn't "(" (the macro is not invoked) or argument reading failed.
func (t *Table) parseMacroCallArgs(reader Reader, macro Expansion, def *Definition) (raw, expanded [][]Expansion, hide HideSet, ok bool) {
	if !reader.Peek().Info.IsPunct("(") {
		return nil, nil, nil, false
	}
	reader.Next()
	raw, closeParen, readOK := t.readMacroArgs(reader)
	if !readOK {
		return nil, nil, nil, false
	}

	want := def.ArgCount
	if def.Variadic {
		// The variadic slot may absorb zero or more comma-separated
		// arguments; collapse any beyond the named ones into one.
		if len(raw) < want {
			t.diag.Report(diag.New(diag.Error, diag.MacroArity, macro.Info.Span,
				"macro %q requires at least %d arguments", def.Name, want))
			for len(raw) <= want {
				raw = append(raw, nil)
			}
		} else if len(raw) > want+1 {
			merged := raw[want]
			for _, extra := range raw[want+1:] {
				merged = append(merged, NewExpansion(token.Info{Kind: token.Punct, Text: ","}))
				merged = append(merged, extra...)
			}
			raw = append(raw[:want], merged)
		} else if len(raw) == want {
			raw = append(raw, nil)
		}
	} else if len(raw) != want {
		t.diag.Report(diag.New(diag.Error, diag.MacroArity, macro.Info.Span,
			"macro %q expects %d arguments, got %d", def.Name, want, len(raw)))
		for len(raw) < want {
			raw = append(raw, nil)
		}
		raw = raw[:want]
	}

	expanded = make([][]Expansion, len(raw))
	for i := range raw {
		expanded[i] = t.ProcessList(cloneExpansions(raw[i]))
	}

	hide = Intersect(macro.Hide, closeParen.Hide)
	return raw, expanded, hide, true
}

// ProcessMacro checks tok for a macro invocation and, if found, fully
// expands it (argument substitution, stringize, paste, hide-set extension
// and rescan). reader supplies the tokens following tok, needed to read a
// function-like macro's call arguments. Adapted from the teacher's
// processMacro.
func (t *Table) ProcessMacro(tok Expansion, reader Reader) []Expansion {
	if tok.Info.Kind == token.EOF || tok.Info.Kind != token.Ident {
		return []Expansion{tok}
	}

	def, present := t.macros[tok.Info.Text]
	if !present {
		return []Expansion{tok}
	}
	if _, hidden := tok.Hide[tok.Info.Text]; hidden {
		return []Expansion{tok}
	}

	var raw, expanded [][]Expansion
	hide := tok.Hide
	if def.Function {
		var ok bool
		raw, expanded, hide, ok = t.parseMacroCallArgs(reader, tok, def)
		if !ok {
			return []Expansion{tok}
		}
	}

	substituted := t.substitute(def, raw, expanded)
	pasted := t.paste(substituted)

	for i := range pasted {
		pasted[i].Hide = pasted[i].Hide.Clone()
		pasted[i].Hide.AddAll(hide)
		pasted[i].Hide[tok.Info.Text] = struct{}{}
	}

	// Rescan the substituted-and-pasted body, falling through to reader so
	// an unbalanced function-macro invocation can still read past the end
	// of the body into the surrounding stream.
	rescan := &listReader{list: pasted, next: reader}
	var result []Expansion
	for len(rescan.list) > 0 {
		next := rescan.Next()
		result = append(result, t.ProcessMacro(next, rescan)...)
	}
	return result
}

// substitute walks def.Body, substituting each parameter with either its
// raw or pre-expanded argument form depending on adjacency to "#"/"##",
// and expanding "#"+param into a stringized STRING token. Literal body
// tokens pass through unchanged except for a fresh hide set.
func (t *Table) substitute(def *Definition, raw, expanded [][]Expansion) []Expansion {
	var out []Expansion
	body := def.Body
	for i := 0; i < len(body); i++ {
		item := body[i]
		switch item.kind {
		case bodyLiteral:
			if item.info.Kind == token.Hash && def.Function && i+1 < len(body) && body[i+1].kind == bodyParam {
				str := stringizeRaw(raw[body[i+1].param])
				out = append(out, NewExpansion(token.Info{Kind: token.String, Text: str}))
				i++
				continue
			}
			out = append(out, NewExpansion(item.info))
		case bodyHashHash:
			out = append(out, NewExpansion(token.Info{Kind: token.HashHash, Text: "##"}))
		case bodyParam:
			adjacentPaste := (i+1 < len(body) && body[i+1].kind == bodyHashHash) ||
				(i > 0 && body[i-1].kind == bodyHashHash)
			if adjacentPaste {
				out = append(out, cloneExpansions(raw[item.param])...)
			} else {
				out = append(out, cloneExpansions(expanded[item.param])...)
			}
		}
	}
	return out
}

// paste performs the left-to-right "##" pasting pass over a substituted
// body. An invalid paste (operands that don't re-lex to exactly one
// token, or one side missing — e.g. an empty variadic tail) is reported
// as PasteInvalid and resolved by dropping the "##" and keeping whichever
// side is non-empty, per the design decision recorded for this case.
func (t *Table) paste(in []Expansion) []Expansion {
	var out []Expansion
	for i := 0; i < len(in); i++ {
		if in[i].Info.Kind != token.HashHash {
			out = append(out, in[i])
			continue
		}
		if len(out) == 0 {
			// "##" with nothing on the left: drop it, e.g. variadic tail
			// with zero extra arguments.
			t.diag.Report(diag.New(diag.Warning, diag.PasteInvalid, in[i].Info.Span,
				"'##' has no left operand"))
			continue
		}
		if i+1 >= len(in) {
			t.diag.Report(diag.New(diag.Warning, diag.PasteInvalid, in[i].Info.Span,
				"'##' has no right operand"))
			continue
		}
		left := out[len(out)-1]
		right := in[i+1]
		i++ // consume the right operand too

		if left.Info.Text == "" {
			out[len(out)-1] = right
			continue
		}
		if right.Info.Text == "" {
			continue
		}
		pasted, ok := pasteTokens(left.Info, right.Info)
		if !ok {
			t.diag.Report(diag.New(diag.Warning, diag.PasteInvalid, left.Info.Span,
				"pasting %q and %q does not form a valid token", left.Info.Text, right.Info.Text))
			out = append(out, right)
			continue
		}
		pasted.Span = left.Info.Span.Cover(right.Info.Span)
		out[len(out)-1] = NewExpansion(pasted)
	}
	return out
}
