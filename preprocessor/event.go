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

package preprocessor

import (
	"github.com/codedhead/glslpp/diag"
	"github.com/codedhead/glslpp/ext"
	"github.com/codedhead/glslpp/token"
)

// EventKind tags one element of the Driver's output stream (spec.md §6's
// output contract).
type EventKind int

const (
	EventToken EventKind = iota
	EventVersion
	EventExtension
	EventPragma
	EventIncludeStart
	EventIncludeEnd
	EventLine
	EventDiagnostic
	EventEnd
)

func (k EventKind) String() string {
	switch k {
	case EventToken:
		return "Token"
	case EventVersion:
		return "Version"
	case EventExtension:
		return "Extension"
	case EventPragma:
		return "Pragma"
	case EventIncludeStart:
		return "IncludeStart"
	case EventIncludeEnd:
		return "IncludeEnd"
	case EventLine:
		return "Line"
	case EventDiagnostic:
		return "Diagnostic"
	case EventEnd:
		return "End"
	default:
		return "Unknown"
	}
}

// VersionInfo is the payload of a Directive::Version event.
type VersionInfo struct {
	Number  int
	Profile string
	Span    token.Span
}

// ExtensionInfo is the payload of a Directive::Extension event.
type ExtensionInfo struct {
	Name     string
	Behavior ext.Behavior
	Span     token.Span
}

// PragmaInfo is the payload of a Directive::Pragma event. The core
// interprets only "#pragma once" itself (see Driver.handlePragma); every
// other pragma is opaque and passed through verbatim for the host.
type PragmaInfo struct {
	Tokens []token.Info
	Span   token.Span
}

// IncludeInfo is the payload of an IncludeStart/IncludeEnd event pair.
type IncludeInfo struct {
	Name     string
	SourceID token.SourceID
	Span     token.Span
}

// LineInfo is the payload of a Directive::Line event.
type LineInfo struct {
	Line int
	File string
	Span token.Span
}

// Event is one element of the Driver's pull-based output stream. Exactly
// one of the payload fields is populated, selected by Kind; EventToken
// populates Token directly rather than through a pointer since every event
// carries at least this much and it is by far the most frequent kind.
type Event struct {
	Kind       EventKind
	Token      token.Info
	Version    *VersionInfo
	Extension  *ExtensionInfo
	Pragma     *PragmaInfo
	Include    *IncludeInfo
	Line       *LineInfo
	Diagnostic *diag.Diagnostic
}
