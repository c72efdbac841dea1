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

// Package preprocessor is the Driver (spec.md §4.8): it orchestrates the
// lexer, the macro table, the conditional stack, the extension registry
// and the include stack as a single pull-based sequence of output events.
//
// Structurally this follows the teacher's Preprocessor{impl worker,
// lookahead []tokenExpansion} (gapis/.../preprocessor/preprocessor.go):
// Peek/PeekN/Next buffer just enough lookahead, pulling one unit of work at
// a time from an internal step function. Where the teacher's worker
// interface produced a flat token list per Work() call, this Driver's
// step() produces a richer Event (directive effects and diagnostics are
// first-class, not folded into the token stream), since spec.md's output
// contract requires those to be independently observable.
package preprocessor

import (
	"strconv"

	"github.com/codedhead/glslpp/charstream"
	"github.com/codedhead/glslpp/cond"
	"github.com/codedhead/glslpp/diag"
	"github.com/codedhead/glslpp/ext"
	"github.com/codedhead/glslpp/include"
	"github.com/codedhead/glslpp/lexer"
	"github.com/codedhead/glslpp/macro"
	"github.com/codedhead/glslpp/ppconfig"
	"github.com/codedhead/glslpp/token"
)

// Driver is the top-level preprocessing run. It exclusively owns the
// MacroTable, ConditionalStack, IncludeStack and ExtensionRegistry for its
// lifetime (spec.md §5); nothing about it is safe for concurrent use, and
// it advances strictly once per pull.
type Driver struct {
	cfg      *ppconfig.Config
	diagc    *diag.Collector
	macros   *macro.Table
	conds    *cond.Stack
	exts     *ext.Registry
	includes *include.Stack
	resolver include.Resolver

	version      int
	profile      string
	versionSeen  bool
	sawCodeToken bool

	queue []Event
	ended bool
}

// New builds a Driver over the top-level source src, named initialName (or
// cfg.InitialSourceName if initialName is empty). cfg may be nil, in which
// case ppconfig.Default() is used. resolver may be nil if the source is
// known not to contain any #include.
func New(initialName string, src []byte, cfg *ppconfig.Config, resolver include.Resolver) *Driver {
	if cfg == nil {
		cfg = ppconfig.Default()
	}
	d := &Driver{
		cfg:      cfg,
		diagc:    &diag.Collector{},
		conds:    &cond.Stack{},
		resolver: resolver,
	}
	d.macros = macro.NewTable(d.diagc)
	d.exts = ext.NewRegistry(convertExtDefaults(cfg.KnownExtensions))
	d.includes = include.NewStack(cfg.MaxIncludeDepth)

	for name, repl := range cfg.PredefinedMacros {
		d.defineFromString(name, repl)
	}

	name := initialName
	if name == "" {
		name = cfg.InitialSourceName
	}
	frame, _ := d.includes.Push(name, d.conds)
	frame.Stream = charstream.New(frame.ID, src)
	frame.Lexer = lexer.New(frame.ID, src, d.diagc)
	return d
}

// Diagnostics returns every diagnostic reported so far, in report order.
func (d *Driver) Diagnostics() []*diag.Diagnostic { return d.diagc.Diagnostics() }

// Peek returns the next event without consuming it.
func (d *Driver) Peek() Event { return d.PeekN(0) }

// PeekN returns the event n positions ahead (0 is the same as Peek) without
// consuming anything.
func (d *Driver) PeekN(n int) Event {
	d.ensure(n)
	if len(d.queue) <= n {
		return Event{Kind: EventEnd}
	}
	return d.queue[n]
}

// Next consumes and returns the next event. Once an EventEnd has been
// returned, every subsequent call returns another EventEnd.
func (d *Driver) Next() Event {
	d.ensure(0)
	if len(d.queue) == 0 {
		return Event{Kind: EventEnd}
	}
	ev := d.queue[0]
	d.queue = d.queue[1:]
	return ev
}

// ensure runs step() until the queue holds at least n+1 events or the run
// has ended.
func (d *Driver) ensure(n int) {
	for len(d.queue) <= n && !d.ended {
		d.step()
	}
}

// currentLexer returns the lexer of the innermost open source.
func (d *Driver) currentLexer() *lexer.Lexer {
	return d.includes.Top().Lexer
}

// step performs one unit of work, appending zero or more events to the
// queue. It is the pull loop spec.md §4.8 describes: advance the lexer,
// recognize and execute a directive line, or run the macro expander over
// one code token.
func (d *Driver) step() {
	top := d.includes.Top()
	l := top.Lexer
	tok := l.Peek()

	switch {
	case tok.Kind == token.EOF:
		d.handleFrameEOF()
	case tok.Kind == token.Newline:
		l.Next()
		top.Line++
	case tok.Kind == token.Hash && tok.StartOfLine:
		d.processDirectiveLine()
	case !d.conds.Active():
		l.Next() // discard: inside a skipped conditional region
	default:
		d.emitCodeToken(l.Next())
	}
}

// handleFrameEOF pops the innermost frame on reaching its end of input,
// emitting IncludeEnd for an #include'd source or End for the top-level
// one, and checking the unterminated-conditional invariant either way.
func (d *Driver) handleFrameEOF() {
	frame, balanced := d.includes.Pop(d.conds)
	if !balanced {
		d.report(diag.Error, diag.UnterminatedConditional, token.Span{Source: frame.ID},
			"unterminated #if in %q", frame.Name)
	}
	if d.includes.Depth() == 0 {
		d.queue = append(d.queue, Event{Kind: EventEnd})
		d.ended = true
		return
	}
	d.queue = append(d.queue, Event{Kind: EventIncludeEnd, Include: &IncludeInfo{Name: frame.Name, SourceID: frame.ID}})
}

// emitCodeToken runs one non-directive token through builtin-macro
// interception and then the expander, queuing a Token event per resulting
// token.
func (d *Driver) emitCodeToken(raw token.Info) {
	d.sawCodeToken = true
	if synth, ok := d.tryBuiltin(raw); ok {
		d.queue = append(d.queue, Event{Kind: EventToken, Token: synth})
		return
	}
	for _, r := range d.macros.ProcessMacro(macro.NewExpansion(raw), lexerReader{d}) {
		d.queue = append(d.queue, Event{Kind: EventToken, Token: r.Info})
	}
}

// tryBuiltin intercepts the dynamic builtins (__LINE__, __FILE__,
// __VERSION__, GL_ES), whose value changes over the run and so cannot be
// represented as a fixed macro.Definition the way the teacher's
// addBuiltinMacro did. Every other identifier falls through to the macro
// table unchanged.
func (d *Driver) tryBuiltin(raw token.Info) (token.Info, bool) {
	if raw.Kind != token.Ident {
		return token.Info{}, false
	}
	frame := d.includes.Top()
	switch raw.Text {
	case "__LINE__":
		return token.Info{Kind: token.IntConst, Text: strconv.Itoa(frame.Line), Span: raw.Span}, true
	case "__FILE__":
		if frame.LineOverride != nil {
			return token.Info{Kind: token.IntConst, Text: strconv.Itoa(*frame.LineOverride), Span: raw.Span}, true
		}
		return token.Info{Kind: token.String, Text: strconv.Quote(frame.Name), Span: raw.Span}, true
	case "__VERSION__":
		v := d.version
		if v == 0 {
			v = 110
		}
		return token.Info{Kind: token.IntConst, Text: strconv.Itoa(v), Span: raw.Span}, true
	case "GL_ES":
		if d.profile == "es" {
			return token.Info{Kind: token.IntConst, Text: "1", Span: raw.Span}, true
		}
		return token.Info{}, false
	}
	return token.Info{}, false
}

// isBuiltinName reports whether name is one of the names #undef may never
// remove (spec.md §3: "#undef on a builtin raises a diagnostic and is
// ignored").
func (d *Driver) isBuiltinName(name string) bool {
	switch name {
	case "__LINE__", "__FILE__", "__VERSION__", "GL_ES":
		return true
	}
	return false
}

// isDefined reports whether name currently names a macro, dynamic builtins
// included, for #ifdef/#ifndef/"defined".
func (d *Driver) isDefined(name string) bool {
	switch name {
	case "__LINE__", "__FILE__", "__VERSION__":
		return true
	case "GL_ES":
		return d.profile == "es"
	}
	return d.macros.IsDefined(name)
}

// defineFromString installs one of cfg.PredefinedMacros exactly as if the
// host had written "#define name repl" at the top of the source (spec.md
// §6: predefined macros are "parsed identically to #define").
func (d *Driver) defineFromString(name, repl string) {
	src := []byte(name + " " + repl)
	l := lexer.New(token.SourceID(-1), src, d.diagc)
	var toks []token.Info
	for {
		t := l.Next()
		if t.Kind == token.EOF {
			break
		}
		if t.Kind == token.Newline {
			continue
		}
		toks = append(toks, t)
	}
	d.macros.Define(toks)
}

// report builds and records a diagnostic, queuing it as an event and, for
// Fatal severity, immediately ending the run (spec.md §7's propagation
// policy: a fatal diagnostic is followed immediately by End).
func (d *Driver) report(sev diag.Severity, kind diag.Kind, span token.Span, format string, args ...interface{}) {
	d.reportDiag(diag.New(sev, kind, span, format, args...))
}

func (d *Driver) reportDiag(dg *diag.Diagnostic) {
	d.diagc.Report(dg)
	d.queue = append(d.queue, Event{Kind: EventDiagnostic, Diagnostic: dg})
	if dg.Severity == diag.Fatal {
		d.queue = append(d.queue, Event{Kind: EventEnd})
		d.ended = true
	}
}

// lexerReader adapts the Driver's current-frame lexer to macro.Reader,
// silently skipping NEWLINE tokens: a function-like macro invocation may
// span lines that are not themselves directive lines (spec.md §4.4), and
// once outside a directive, a newline carries no information the expander
// needs.
type lexerReader struct{ d *Driver }

func (r lexerReader) skipNewlines() {
	l := r.d.currentLexer()
	for l.Peek().Kind == token.Newline {
		l.Next()
		r.d.includes.Top().Line++
	}
}

func (r lexerReader) Next() macro.Expansion {
	r.skipNewlines()
	return macro.NewExpansion(r.d.currentLexer().Next())
}

func (r lexerReader) Peek() macro.Expansion {
	r.skipNewlines()
	return macro.NewExpansion(r.d.currentLexer().Peek())
}

func convertExtDefaults(in map[string]ppconfig.ExtensionDefault) map[string]ext.Behavior {
	out := make(map[string]ext.Behavior, len(in))
	for k, v := range in {
		b, _ := ext.ParseBehavior(string(v))
		out[k] = b
	}
	return out
}

func wrapExpansions(toks []token.Info) []macro.Expansion {
	out := make([]macro.Expansion, len(toks))
	for i, t := range toks {
		out[i] = macro.NewExpansion(t)
	}
	return out
}

func unwrapExpansions(exps []macro.Expansion) []token.Info {
	out := make([]token.Info, len(exps))
	for i, e := range exps {
		out[i] = e.Info
	}
	return out
}
