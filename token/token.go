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

// Package token defines the lexical vocabulary shared by the lexer, the
// macro expander and the directive interpreter: token kinds, source spans,
// and the wire-level Info the driver hands to the host.
package token

import "fmt"

// SourceID identifies one input buffer on the include stack. It is assigned
// by the driver when a source is pushed and remains valid (and resolvable)
// for the lifetime of a preprocessing run, even after the frame is popped.
type SourceID int

// Span locates a token in the unspliced bytes of one source. Offsets are
// byte offsets, not rune or line/column positions; this package does not
// map them to line/column.
type Span struct {
	Source     SourceID
	Start, End int
}

// Len returns the number of bytes the span covers.
func (s Span) Len() int { return s.End - s.Start }

// Cover returns the smallest span enclosing both s and other. Both must
// belong to the same source; Cover does not check this.
func (s Span) Cover(other Span) Span {
	start, end := s.Start, s.End
	if other.Start < start {
		start = other.Start
	}
	if other.End > end {
		end = other.End
	}
	return Span{Source: s.Source, Start: start, End: end}
}

// Kind classifies a token the way the output contract (spec §6) describes
// it on the wire. Unlike the teacher's flyweight Token interface (which
// distinguished every keyword and operator as its own comparable value),
// Kind only carries the coarse classification; exact punctuation and
// identifier text live in Info.Text. This follows the spec's explicit
// design note (§9): ambiguous identifier/keyword classification is a
// property of the downstream parser, so this core never special-cases
// GLSL keywords — every identifier-shaped token, keyword or not, is Ident.
type Kind uint8

const (
	Invalid Kind = iota
	Newline
	Whitespace
	Comment
	Hash
	HashHash
	Ident
	IntConst
	UintConst
	FloatConst
	String
	AngleString
	Punct
	EOF
)

var kindNames = [...]string{
	Invalid:     "Invalid",
	Newline:     "NEWLINE",
	Whitespace:  "WS",
	Comment:     "COMMENT",
	Hash:        "HASH",
	HashHash:    "HASH_HASH",
	Ident:       "IDENT",
	IntConst:    "INT_CONST",
	UintConst:   "UINT_CONST",
	FloatConst:  "FLOAT_CONST",
	String:      "STRING",
	AngleString: "ANGLE_STRING",
	Punct:       "PUNCT",
	EOF:         "EOF",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) && kindNames[k] != "" {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", k)
}

// Info is one token as it crosses the wire to the host: its kind, its
// verbatim text (except for tokens synthesized by # or ##, whose text is
// the synthesized form), its span, and the two flags the expander and the
// directive recognizer both need to make their decisions.
type Info struct {
	Kind Kind
	Text string
	Span Span

	// LeadingWhitespace is true if this token was preceded by whitespace
	// or a comment (a comment counts as a single space, per spec §3).
	LeadingWhitespace bool
	// StartOfLine is true if this token is the first token on its
	// logical line, i.e. it was preceded only by whitespace/comments
	// since the last NEWLINE (or input start).
	StartOfLine bool
}

func (t Info) String() string { return t.Text }

// IsEOF reports whether t is the sentinel end-of-input token.
func (t Info) IsEOF() bool { return t.Kind == EOF }

// Is reports whether t has the given kind and literal text. Used
// throughout the directive interpreter and expander instead of the
// teacher's singleton-operator-value comparisons, since this core does not
// allocate one comparable value per punctuation string.
func (t Info) Is(kind Kind, text string) bool {
	return t.Kind == kind && t.Text == text
}

// IsPunct is shorthand for Is(Punct, text).
func (t Info) IsPunct(text string) bool { return t.Is(Punct, text) }
