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

package lexer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/codedhead/glslpp/diag"
	"github.com/codedhead/glslpp/token"
)

func scanAll(t *testing.T, src string) []token.Info {
	t.Helper()
	var c diag.Collector
	l := New(0, []byte(src), &c)
	var toks []token.Info
	for {
		tok := l.Next()
		toks = append(toks, tok)
		if tok.Kind == token.EOF {
			break
		}
	}
	return toks
}

func kinds(toks []token.Info) []token.Kind {
	out := make([]token.Kind, len(toks))
	for i, t := range toks {
		out[i] = t.Kind
	}
	return out
}

func TestIdentifiersAndKeywordsAreUniformlyIdent(t *testing.T) {
	toks := scanAll(t, "float foo_bar")
	require.Len(t, toks, 3) // float, foo_bar, EOF
	assert.Equal(t, token.Ident, toks[0].Kind, "GLSL keywords are not special-cased at this layer")
	assert.Equal(t, "float", toks[0].Text)
	assert.Equal(t, token.Ident, toks[1].Kind)
	assert.Equal(t, "foo_bar", toks[1].Text)
}

func TestHashAtLineStart(t *testing.T) {
	toks := scanAll(t, "#define FOO 1")
	require.NotEmpty(t, toks)
	assert.Equal(t, token.Hash, toks[0].Kind)
	assert.True(t, toks[0].StartOfLine)
}

func TestHashHash(t *testing.T) {
	toks := scanAll(t, "a ## b")
	require.Len(t, toks, 4) // a, ##, b, EOF
	assert.Equal(t, token.HashHash, toks[1].Kind)
	assert.Equal(t, "##", toks[1].Text)
}

func TestStringLiteral(t *testing.T) {
	toks := scanAll(t, `"hello world"`)
	require.NotEmpty(t, toks)
	assert.Equal(t, token.String, toks[0].Kind)
	assert.Equal(t, `"hello world"`, toks[0].Text)
}

func TestAngleStringOnlyWhenArmed(t *testing.T) {
	toks := scanAll(t, "<foo/bar.glsl>")
	require.NotEmpty(t, toks)
	assert.NotEqual(t, token.AngleString, toks[0].Kind, "without SetAngleStringMode, '<' lexes as ordinary punctuation")
}

func TestAngleStringModeArmsExactlyOneToken(t *testing.T) {
	var c diag.Collector
	l := New(0, []byte("<foo.glsl> < 1"), &c)
	l.SetAngleStringMode(true)
	first := l.Next()
	assert.Equal(t, token.AngleString, first.Kind)
	assert.Equal(t, "<foo.glsl>", first.Text, "Text includes the delimiters, like a STRING keeps its quotes; the directive layer strips them")

	// A later unrelated '<' must not still be armed.
	for {
		tok := l.Next()
		if tok.Kind == token.EOF {
			t.Fatal("expected to find the trailing '<' before EOF")
		}
		if tok.Text == "<" {
			assert.Equal(t, token.Punct, tok.Kind, "angle mode must not leak past the token immediately following SetAngleStringMode")
			break
		}
	}
}

func TestAngleStringModeConsumedEvenWithoutAngleBracket(t *testing.T) {
	var c diag.Collector
	l := New(0, []byte("MACRO_PATH < 1"), &c)
	l.SetAngleStringMode(true)
	first := l.Next() // MACRO_PATH, not a literal '<...>' path
	assert.Equal(t, token.Ident, first.Kind)

	for {
		tok := l.Next()
		if tok.Kind == token.EOF {
			t.Fatal("expected to find '<' before EOF")
		}
		if tok.Text == "<" {
			assert.Equal(t, token.Punct, tok.Kind, "angle mode armed for a non-literal include argument must not leak to a later '<'")
			break
		}
	}
}

func TestLineCommentSkipped(t *testing.T) {
	toks := scanAll(t, "a // a comment\nb")
	texts := []string{}
	for _, tk := range toks {
		if tk.Kind != token.Newline && tk.Kind != token.EOF {
			texts = append(texts, tk.Text)
		}
	}
	assert.Equal(t, []string{"a", "b"}, texts)
}

func TestBlockCommentCountsAsWhitespace(t *testing.T) {
	toks := scanAll(t, "a/* block */b")
	require.True(t, len(toks) >= 2)
	assert.True(t, toks[1].LeadingWhitespace, "a block comment counts as a single space")
}

func TestUnterminatedBlockCommentReportsDiagnostic(t *testing.T) {
	var c diag.Collector
	l := New(0, []byte("a /* never closed"), &c)
	for {
		tok := l.Next()
		if tok.Kind == token.EOF {
			break
		}
	}
	require.NotEmpty(t, c.Diagnostics())
	assert.Equal(t, diag.UnterminatedComment, c.Diagnostics()[0].Kind)
}

func TestIntegerLiteralKinds(t *testing.T) {
	toks := scanAll(t, "10 010 0x1F 10u")
	require.True(t, len(toks) >= 4)
	assert.Equal(t, token.IntConst, toks[0].Kind)
	assert.Equal(t, token.IntConst, toks[1].Kind)
	assert.Equal(t, token.IntConst, toks[2].Kind)
	assert.Equal(t, token.UintConst, toks[3].Kind)
}

func TestFloatLiteralKind(t *testing.T) {
	toks := scanAll(t, "1.5 .5 1.5e10 1.0f")
	require.True(t, len(toks) >= 4)
	for i := 0; i < 4; i++ {
		assert.Equal(t, token.FloatConst, toks[i].Kind, toks[i].Text)
	}
}

func TestOperatorGreedyMatch(t *testing.T) {
	toks := scanAll(t, "<<=")
	require.NotEmpty(t, toks)
	assert.Equal(t, "<<=", toks[0].Text, "the longest operator spelling must win over '<<' or '<'")
}

func TestLineContinuationSplicesAndSpanMapsBack(t *testing.T) {
	src := "FO\\\nO 1"
	toks := scanAll(t, src)
	require.NotEmpty(t, toks)
	assert.Equal(t, "FOO", toks[0].Text, "a backslash-newline splices two physical lines into one identifier")
	assert.Equal(t, 0, toks[0].Span.Start)
	assert.Equal(t, len("FO\\\nO"), toks[0].Span.End, "the span must cover the original, unspliced bytes")
}

func TestNewlineTokenEmitted(t *testing.T) {
	toks := scanAll(t, "a\nb")
	assert.Equal(t, []token.Kind{token.Ident, token.Newline, token.Ident, token.EOF}, kinds(toks))
}
