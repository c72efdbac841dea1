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

// Package diag defines the diagnostic model the driver reports alongside
// tokens: severities, kinds, and a Diagnostic type that is itself a Go
// error so a host can treat it uniformly with any other failure.
package diag

import (
	"fmt"

	"github.com/pkg/errors"

	"github.com/codedhead/glslpp/token"
)

// Severity ranks a Diagnostic the way the host's own logs rank entries:
// higher is worse. Fatal aborts the preprocessing run; Error and Warning
// do not.
type Severity int

const (
	Warning Severity = iota
	Error
	Fatal
)

func (s Severity) String() string {
	switch s {
	case Warning:
		return "warning"
	case Error:
		return "error"
	case Fatal:
		return "fatal"
	default:
		return fmt.Sprintf("Severity(%d)", int(s))
	}
}

// Kind enumerates every distinct diagnosis this core can produce.
type Kind int

const (
	LexicalError Kind = iota
	UnterminatedComment
	UnterminatedConditional
	StrayDirective
	UnknownDirective
	BadDefineSyntax
	RedefinitionMismatch
	UndefBuiltin
	IfExprError
	IncludeNotAllowed
	IncludeResolveFailed
	IncludeDepthExceeded
	ExtensionUnknown
	VersionMisplaced
	UserError
	MacroArity
	PasteInvalid
	StringizeInvalid
	LineSyntax
	PragmaOnceNoop
)

var kindNames = [...]string{
	LexicalError:            "LexicalError",
	UnterminatedComment:     "UnterminatedComment",
	UnterminatedConditional: "UnterminatedConditional",
	StrayDirective:          "StrayDirective",
	UnknownDirective:        "UnknownDirective",
	BadDefineSyntax:         "BadDefineSyntax",
	RedefinitionMismatch:    "RedefinitionMismatch",
	UndefBuiltin:            "UndefBuiltin",
	IfExprError:             "IfExprError",
	IncludeNotAllowed:       "IncludeNotAllowed",
	IncludeResolveFailed:    "IncludeResolveFailed",
	IncludeDepthExceeded:    "IncludeDepthExceeded",
	ExtensionUnknown:        "ExtensionUnknown",
	VersionMisplaced:        "VersionMisplaced",
	UserError:               "UserError",
	MacroArity:              "MacroArity",
	PasteInvalid:            "PasteInvalid",
	StringizeInvalid:        "StringizeInvalid",
	LineSyntax:              "LineSyntax",
	PragmaOnceNoop:          "PragmaOnceNoop",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) && kindNames[k] != "" {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Diagnostic is one reported problem. It satisfies error, so a Collector's
// contents can be handed anywhere a []error is expected.
type Diagnostic struct {
	Severity Severity
	Kind     Kind
	Message  string
	Span     token.Span

	// Cause, when set, is the underlying error this diagnostic wraps —
	// typically an IncludeResolver failure. It is attached with
	// github.com/pkg/errors.Wrap so that formatting a Diagnostic with
	// "%+v" also prints the resolver's own stack trace, the way the
	// teacher's gapii/gapis code wraps foreign errors before logging them.
	Cause error
}

func (d *Diagnostic) Error() string {
	if d.Cause != nil {
		return fmt.Sprintf("%s: %s: %s", d.Severity, d.Kind, d.Cause)
	}
	return fmt.Sprintf("%s: %s: %s", d.Severity, d.Kind, d.Message)
}

// Unwrap exposes Cause through errors.Is/errors.As.
func (d *Diagnostic) Unwrap() error { return d.Cause }

// Format implements fmt.Formatter so that "%+v" forwards to the wrapped
// cause's stack trace when there is one.
func (d *Diagnostic) Format(s fmt.State, verb rune) {
	switch verb {
	case 'v':
		if s.Flag('+') && d.Cause != nil {
			fmt.Fprintf(s, "%s: %s: %s\n%+v", d.Severity, d.Kind, d.Message, d.Cause)
			return
		}
		fmt.Fprint(s, d.Error())
	default:
		fmt.Fprint(s, d.Error())
	}
}

// New builds a Diagnostic with no wrapped cause.
func New(sev Severity, kind Kind, span token.Span, format string, args ...interface{}) *Diagnostic {
	return &Diagnostic{
		Severity: sev,
		Kind:     kind,
		Message:  fmt.Sprintf(format, args...),
		Span:     span,
	}
}

// Wrap builds a Diagnostic around a foreign error, e.g. one returned by an
// IncludeResolver, attaching a stack trace to causes that don't already
// carry one via github.com/pkg/errors.Wrap.
func Wrap(sev Severity, kind Kind, span token.Span, cause error, format string, args ...interface{}) *Diagnostic {
	return &Diagnostic{
		Severity: sev,
		Kind:     kind,
		Message:  fmt.Sprintf(format, args...),
		Span:     span,
		Cause:    errors.Wrap(cause, fmt.Sprintf(format, args...)),
	}
}

// Collector accumulates diagnostics in report order and tracks whether any
// reported diagnostic was severe enough to abort the run.
type Collector struct {
	diags []*Diagnostic
	fatal bool
}

// Report appends d to the collector, as well as marking the collector
// fatally-terminated when d.Severity is Fatal.
func (c *Collector) Report(d *Diagnostic) {
	c.diags = append(c.diags, d)
	if d.Severity == Fatal {
		c.fatal = true
	}
}

// Diagnostics returns every diagnostic reported so far, in report order.
func (c *Collector) Diagnostics() []*Diagnostic { return c.diags }

// Fatal reports whether a Fatal-severity diagnostic has been collected.
func (c *Collector) Fatal() bool { return c.fatal }
