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

// Package charstream provides the byte-addressable scanning primitive the
// lexer is built on: a cursor over one source's bytes, with line-splicing
// (backslash-newline) resolved up front but spans always reported against
// the original, unspliced bytes.
//
// The method set mirrors core/text/parse's Reader (Peek/PeekN/String/Space/
// EOL/SeekByte/AlphaNumeric/Numeric), adapted from runes to bytes: GLSL's
// preprocessor-visible grammar is pure ASCII, so byte indexing loses
// nothing and keeps every Span byte-accurate.
package charstream

import (
	"sort"

	"github.com/codedhead/glslpp/token"
)

// NumberKind classifies the pattern Numeric matched, the same states the
// teacher's Reader.Numeric produces.
type NumberKind uint8

const (
	NotNumeric NumberKind = iota
	Decimal
	Octal
	Hexadecimal
	Floating
	Scientific

	atDot
	atE
	atESign
)

// splice records one backslash-newline (or backslash-CRLF) elided from the
// spliced buffer, so that a cursor position in the spliced buffer can be
// mapped back to its true offset in the original bytes.
type splice struct {
	splicedAt int // offset in the spliced buffer where bytes were elided
	origLen   int // number of original bytes elided at that point
}

// Stream scans one source's bytes. It is not safe for concurrent use.
type Stream struct {
	Source token.SourceID

	raw     []byte // the original, unspliced bytes
	spliced []byte // raw with backslash-newline sequences removed

	splices []splice // ascending by splicedAt

	offset int // start of the current token, in spliced-buffer coordinates
	cursor int // offset of the next unscanned byte, in spliced-buffer coordinates
}

// New builds a Stream over src, splicing backslash-newline line
// continuations per GLSL's preprocessing-phase-2 rule.
func New(id token.SourceID, src []byte) *Stream {
	s := &Stream{Source: id, raw: src}
	s.splice(src)
	return s
}

func (s *Stream) splice(src []byte) {
	out := make([]byte, 0, len(src))
	for i := 0; i < len(src); {
		if src[i] == '\\' && i+1 < len(src) {
			if src[i+1] == '\n' {
				s.splices = append(s.splices, splice{splicedAt: len(out), origLen: 2})
				i += 2
				continue
			}
			if src[i+1] == '\r' && i+2 < len(src) && src[i+2] == '\n' {
				s.splices = append(s.splices, splice{splicedAt: len(out), origLen: 3})
				i += 3
				continue
			}
		}
		out = append(out, src[i])
		i++
	}
	s.spliced = out
}

// toOrig maps a spliced-buffer offset back to the corresponding offset in
// the original, unspliced bytes, accounting for every splice that occurred
// before it.
func (s *Stream) toOrig(splicedOff int) int {
	elided := 0
	idx := sort.Search(len(s.splices), func(i int) bool { return s.splices[i].splicedAt > splicedOff })
	for i := 0; i < idx; i++ {
		elided += s.splices[i].origLen - 0
	}
	// Each splice removed origLen bytes and contributed 0 bytes to the
	// spliced buffer at that point, so the accumulated original-side shift
	// is the sum of origLen for every splice at or before splicedOff.
	return splicedOff + elided
}

// Token returns the span of the currently-scanned (not yet consumed) token,
// resolved against the original unspliced bytes.
func (s *Stream) Token() token.Span {
	return token.Span{Source: s.Source, Start: s.toOrig(s.offset), End: s.toOrig(s.cursor)}
}

// Text returns the spliced text of the currently-scanned token.
func (s *Stream) Text() string {
	return string(s.spliced[s.offset:s.cursor])
}

// Consume returns the current token's span and advances the token start to
// the cursor.
func (s *Stream) Consume() token.Span {
	sp := s.Token()
	s.offset = s.cursor
	return sp
}

// Rollback resets the cursor back to the last consume point, discarding any
// scanning done since.
func (s *Stream) Rollback() { s.cursor = s.offset }

// Advance moves the cursor one byte forward.
func (s *Stream) Advance() {
	if s.cursor < len(s.spliced) {
		s.cursor++
	}
}

// AdvanceN moves the cursor n bytes forward, clamped to the end of input.
func (s *Stream) AdvanceN(n int) {
	if s.cursor+n < len(s.spliced) {
		s.cursor += n
	} else {
		s.cursor = len(s.spliced)
	}
}

// IsEOF reports whether the cursor has reached the end of input.
func (s *Stream) IsEOF() bool { return s.cursor >= len(s.spliced) }

// Peek returns the next unscanned byte without advancing, or 0 at EOF.
func (s *Stream) Peek() byte { return s.PeekN(0) }

// PeekN returns the n'th next byte without advancing, or 0 past EOF.
func (s *Stream) PeekN(n int) byte {
	if s.cursor+n >= len(s.spliced) {
		return 0
	}
	return s.spliced[s.cursor+n]
}

// IsEOL reports whether the cursor sits at a newline (\n or \r\n), without
// moving it.
func (s *Stream) IsEOL() bool {
	return s.PeekN(0) == '\n' || (s.PeekN(0) == '\r' && s.PeekN(1) == '\n')
}

// EOL consumes a newline if the cursor is at one, reporting whether it did.
func (s *Stream) EOL() bool {
	if !s.IsEOL() {
		return false
	}
	s.Byte('\r')
	s.Byte('\n')
	return true
}

// Byte advances and returns true if the next byte equals b.
func (s *Stream) Byte(b byte) bool {
	if s.cursor >= len(s.spliced) || s.spliced[s.cursor] != b {
		return false
	}
	s.cursor++
	return true
}

// SeekByte advances the cursor to the next occurrence of b, returning true
// if found; otherwise the cursor is left at EOF.
func (s *Stream) SeekByte(b byte) bool {
	for i := s.cursor; i < len(s.spliced); i++ {
		if s.spliced[i] == b {
			s.cursor = i
			return true
		}
	}
	s.cursor = len(s.spliced)
	return false
}

// String reports whether value occurs at the cursor, advancing past it if
// so.
func (s *Stream) String(value string) bool {
	end := s.cursor + len(value)
	if end > len(s.spliced) {
		return false
	}
	if string(s.spliced[s.cursor:end]) != value {
		return false
	}
	s.cursor = end
	return true
}

// Space skips ASCII whitespace other than newline, reporting whether it
// advanced. Newlines are left for the caller, since they are significant
// (end-of-directive, StartOfLine tracking).
func (s *Stream) Space() bool {
	i := s.cursor
	for ; i < len(s.spliced); i++ {
		b := s.spliced[i]
		if b == '\n' || !isSpace(b) {
			break
		}
	}
	if i == s.cursor {
		return false
	}
	s.cursor = i
	return true
}

// NotSpace skips non-whitespace bytes, reporting whether it advanced.
func (s *Stream) NotSpace() bool {
	i := s.cursor
	for ; i < len(s.spliced); i++ {
		if isSpace(s.spliced[i]) {
			break
		}
	}
	if i == s.cursor {
		return false
	}
	s.cursor = i
	return true
}

func isSpace(b byte) bool {
	switch b {
	case ' ', '\t', '\v', '\f', '\r', '\n':
		return true
	}
	return false
}

// AlphaNumericIdent moves past a C-identifier-shaped run ([A-Za-z_] followed
// by [A-Za-z0-9_]*), reporting whether it matched.
func (s *Stream) AlphaNumericIdent() bool {
	i := s.cursor
	if i >= len(s.spliced) {
		return false
	}
	next := s.spliced[i]
	if next == '_' || isAlpha(next) {
		for i++; i < len(s.spliced); i++ {
			next := s.spliced[i]
			if next != '_' && !isAlpha(next) && !isDigit(next) {
				break
			}
		}
	}
	if i == s.cursor {
		return false
	}
	s.cursor = i
	return true
}

func isAlpha(b byte) bool { return (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z') }
func isDigit(b byte) bool { return b >= '0' && b <= '9' }

// Numeric moves past a GLSL numeric-literal pattern (decimal/octal/hex/
// float/scientific, including trailing u/U/f/F/lf/LF suffixes), returning
// the NumberKind it recognized. The state machine follows the teacher's
// Reader.Numeric transition table, extended with the suffix handling GLSL
// needs that classic byte-for-byte C does not.
func (s *Stream) Numeric() NumberKind {
	state := NotNumeric
	i := s.cursor
	lower := func(b byte) byte {
		if b >= 'A' && b <= 'Z' {
			return b + ('a' - 'A')
		}
		return b
	}
	peek := func(idx int) byte {
		if idx < len(s.spliced) {
			return lower(s.spliced[idx])
		}
		return 0
	}
	for {
		next := peek(i)
		i++
		switch state {
		case NotNumeric:
			switch {
			case next == '0':
				state = Octal
			case next >= '1' && next <= '9':
				state = Decimal
			case next == '.':
				state = atDot
			default:
				return NotNumeric
			}
		case Decimal:
			switch {
			case next >= '0' && next <= '9':
			case next == '.':
				state = atDot
			case next == 'e':
				state = atE
			case next == 'u':
				s.cursor = i
				return Decimal
			default:
				s.cursor = i - 1
				return Decimal
			}
		case Octal:
			switch {
			case next >= '0' && next <= '7':
			case next == 'x':
				state = Hexadecimal
			case next == 'u':
				s.cursor = i
				return Octal
			case next == '.' && i == s.cursor+2:
				state = atDot
			default:
				s.cursor = i - 1
				return Octal
			}
		case Hexadecimal:
			switch {
			case (next >= '0' && next <= '9') || (next >= 'a' && next <= 'f'):
			case next == 'u':
				s.cursor = i
				return Hexadecimal
			default:
				s.cursor = i - 1
				return Hexadecimal
			}
		case atDot:
			switch {
			case next >= '0' && next <= '9':
				state = Floating
			case next == 'f':
				s.cursor = i
				return Floating
			case i > s.cursor+2:
				if next == 'e' {
					state = atE
				} else {
					s.cursor = i - 1
					return Floating
				}
			default:
				return NotNumeric
			}
		case Floating:
			switch {
			case next >= '0' && next <= '9':
			case next == 'f':
				s.cursor = i
				return Floating
			case next == 'l' && peek(i) == 'f':
				s.cursor = i + 1
				return Floating
			case next == 'e':
				state = atE
			default:
				s.cursor = i - 1
				return Floating
			}
		case atE:
			switch {
			case next >= '0' && next <= '9':
				state = Scientific
			case next == '+' || next == '-':
				state = atESign
			default:
				return NotNumeric
			}
		case atESign:
			switch {
			case next >= '0' && next <= '9':
				state = Scientific
			default:
				return NotNumeric
			}
		case Scientific:
			switch {
			case next >= '0' && next <= '9':
			case next == 'f':
				s.cursor = i
				return Scientific
			default:
				s.cursor = i - 1
				return Scientific
			}
		}
	}
}
