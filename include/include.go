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

// Package include implements #include resolution and the bounded stack of
// pushed sources. The teacher's GLSL-ES dialect predates #include entirely,
// so there is no teacher file to adapt here; this is built in the same
// stack-of-frames idiom the teacher used for ifStack (see cond.Stack),
// since that shape — a bounded slice of frames, pushed and popped in strict
// LIFO order, each owning per-frame state — is exactly what an include
// stack needs too.
package include

import (
	"github.com/codedhead/glslpp/charstream"
	"github.com/codedhead/glslpp/cond"
	"github.com/codedhead/glslpp/lexer"
	"github.com/codedhead/glslpp/token"
)

// DefaultMaxDepth is the default bound on simultaneously nested #includes,
// guarding against runaway or cyclic resolution (spec.md §3).
const DefaultMaxDepth = 256

// Resolver is the host-supplied capability that turns an #include
// filename into source bytes. The core never touches a filesystem itself
// (spec.md §1): every #include is resolved through this interface.
type Resolver interface {
	// Resolve looks up name (the text between quotes or angle brackets),
	// relative to fromName (the including source's own name; for the
	// top-level source, the name the driver was created with). angle is
	// true for the "<...>" spelling. It returns
	// the resolved source's canonical name and its bytes.
	Resolve(name, fromName string, angle bool) (resolvedName string, data []byte, err error)
}

// Frame is one pushed source on the include stack.
type Frame struct {
	Name   string
	ID     token.SourceID
	Lexer  *lexer.Lexer
	Stream *charstream.Stream

	// CondDepthAtEntry is the depth of the conditional stack at the moment
	// this source was pushed; on pop, if the current depth differs, some
	// #if in this source was never closed (spec.md §3's unterminated-
	// conditional-at-EOF check, generalized to apply per include frame
	// rather than only at the top-level EOF).
	CondDepthAtEntry int

	// PragmaOnce is set if this source declared "#pragma once": the stack
	// remembers it so a later #include of the same resolved name becomes
	// a silent no-op.
	PragmaOnce bool

	// Line is the current logical line number within this frame, 1-based,
	// advanced once per physical newline and retargetable by "#line N" for
	// __LINE__.
	Line int

	// LineOverride, when non-nil, is the numeric source id a "#line N M"
	// directive set in this frame, which __FILE__ reports instead of Name
	// once set (GLSL's source-string-number convention).
	LineOverride *int
}

// Stack is the bounded LIFO of currently-open sources.
type Stack struct {
	MaxDepth int

	frames []Frame
	nextID token.SourceID

	// onceGuard remembers every resolved name that was ever popped with
	// PragmaOnce set, across the whole run, not just the current nesting.
	onceGuard map[string]bool
}

// NewStack builds an empty Stack with the given depth bound (0 means
// DefaultMaxDepth).
func NewStack(maxDepth int) *Stack {
	if maxDepth <= 0 {
		maxDepth = DefaultMaxDepth
	}
	return &Stack{MaxDepth: maxDepth, onceGuard: make(map[string]bool)}
}

// AlreadyOnce reports whether resolvedName was previously included under
// #pragma once and should be silently skipped.
func (s *Stack) AlreadyOnce(resolvedName string) bool { return s.onceGuard[resolvedName] }

// Push opens a new source frame, failing with ok=false if doing so would
// exceed MaxDepth. The caller fills in the returned frame's Lexer/Stream
// once it has built them from the resolver's bytes.
func (s *Stack) Push(name string, conditionals *cond.Stack) (*Frame, bool) {
	if len(s.frames) >= s.MaxDepth {
		return nil, false
	}
	id := s.nextID
	s.nextID++
	f := Frame{
		Name:             name,
		ID:               id,
		CondDepthAtEntry: conditionals.Depth(),
		Line:             1,
	}
	s.frames = append(s.frames, f)
	return &s.frames[len(s.frames)-1], true
}

// Top returns the innermost open frame, or nil if the stack is empty.
func (s *Stack) Top() *Frame {
	if len(s.frames) == 0 {
		return nil
	}
	return &s.frames[len(s.frames)-1]
}

// Pop closes the innermost frame, reporting it and whether the conditional
// stack depth matches what it was at entry (a mismatch means an
// unterminated or over-terminated #if inside that source).
func (s *Stack) Pop(conditionals *cond.Stack) (Frame, bool) {
	if len(s.frames) == 0 {
		return Frame{}, false
	}
	top := s.frames[len(s.frames)-1]
	s.frames = s.frames[:len(s.frames)-1]
	if top.PragmaOnce {
		s.onceGuard[top.Name] = true
	}
	balanced := conditionals.Depth() == top.CondDepthAtEntry
	return top, balanced
}

// Depth returns the number of currently-open include frames.
func (s *Stack) Depth() int { return len(s.frames) }
