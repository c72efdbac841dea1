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

package cond

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStackEmptyIsActive(t *testing.T) {
	var s Stack
	assert.True(t, s.Active())
	assert.Equal(t, 0, s.Depth())
	assert.False(t, s.NeedsElifEval())
}

func TestIfTrueThenElse(t *testing.T) {
	var s Stack
	s.Push(true)
	assert.True(t, s.Active())

	ok := s.Else()
	require.True(t, ok)
	assert.False(t, s.Active(), "#else after a taken #if must be skipped")

	require.True(t, s.Pop())
	assert.True(t, s.Active())
}

func TestIfFalseThenElse(t *testing.T) {
	var s Stack
	s.Push(false)
	assert.False(t, s.Active())

	ok := s.Else()
	require.True(t, ok)
	assert.True(t, s.Active(), "#else must activate once no prior branch matched")
}

func TestElifChain(t *testing.T) {
	var s Stack
	s.Push(false)
	assert.False(t, s.Active())
	assert.True(t, s.NeedsElifEval(), "first #elif in an unresolved group should be worth evaluating")

	ok := s.Elif(false)
	require.True(t, ok)
	assert.False(t, s.Active())
	assert.True(t, s.NeedsElifEval())

	ok = s.Elif(true)
	require.True(t, ok)
	assert.True(t, s.Active())
	assert.False(t, s.NeedsElifEval(), "group already resolved Active, later #elif is dead")

	// A further #elif is evaluated structurally but never takes effect.
	ok = s.Elif(true)
	require.True(t, ok)
	assert.False(t, s.Active(), "once Done, the group cannot reactivate")
}

func TestElifAfterElseIsStray(t *testing.T) {
	var s Stack
	s.Push(true)
	require.True(t, s.Else())
	ok := s.Elif(true)
	assert.False(t, ok, "#elif after #else is a structural error")

	ok = s.Else()
	assert.False(t, ok, "a second #else is a structural error")
}

func TestNestedSkippedParentForcesSkip(t *testing.T) {
	var s Stack
	s.Push(false) // outer: skipping
	s.Push(true)  // inner: condition true, but parent inactive
	assert.False(t, s.Active(), "a nested #if cannot be Active while its parent is Skipping")
	assert.False(t, s.NeedsElifEval(), "an #elif whose parent is inactive is never worth evaluating")

	require.True(t, s.Pop())
	require.True(t, s.Pop())
	assert.True(t, s.Active())
}

func TestPopEmptyFails(t *testing.T) {
	var s Stack
	assert.False(t, s.Pop())
	assert.False(t, s.Elif(true))
	assert.False(t, s.Else())
}

func TestDepthTracksNesting(t *testing.T) {
	var s Stack
	s.Push(true)
	s.Push(true)
	assert.Equal(t, 2, s.Depth())
	s.Pop()
	assert.Equal(t, 1, s.Depth())
}
