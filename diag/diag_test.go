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

package diag

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/codedhead/glslpp/token"
)

func TestNewFormatsMessage(t *testing.T) {
	d := New(Error, LexicalError, token.Span{}, "bad token %q", "@")
	assert.Equal(t, `bad token "@"`, d.Message)
	assert.Equal(t, Error, d.Severity)
	assert.Equal(t, LexicalError, d.Kind)
}

func TestDiagnosticErrorFormatsSeverityKindMessage(t *testing.T) {
	d := New(Warning, RedefinitionMismatch, token.Span{}, "FOO redefined")
	assert.Equal(t, "warning: RedefinitionMismatch: FOO redefined", d.Error())
}

func TestWrapCarriesCauseThroughUnwrap(t *testing.T) {
	cause := errors.New("file not found")
	d := Wrap(Error, IncludeResolveFailed, token.Span{}, cause, "resolving %q", "lib.glsl")
	require.Error(t, d)
	assert.True(t, errors.Is(d, cause) || errors.Unwrap(d) != nil, "Wrap must preserve the cause through Unwrap")
}

func TestCollectorTracksFatal(t *testing.T) {
	var c Collector
	assert.False(t, c.Fatal())
	c.Report(New(Error, LexicalError, token.Span{}, "oops"))
	assert.False(t, c.Fatal())
	c.Report(New(Fatal, UserError, token.Span{}, "boom"))
	assert.True(t, c.Fatal())
	assert.Len(t, c.Diagnostics(), 2)
}

func TestCollectorZeroValueIsUsableDirectly(t *testing.T) {
	var c Collector
	assert.Empty(t, c.Diagnostics())
}

func TestKindStringRoundTrip(t *testing.T) {
	assert.Equal(t, "PasteInvalid", PasteInvalid.String())
	assert.Equal(t, "Kind(999)", Kind(999).String())
}

func TestSeverityString(t *testing.T) {
	assert.Equal(t, "warning", Warning.String())
	assert.Equal(t, "error", Error.String())
	assert.Equal(t, "fatal", Fatal.String())
}
