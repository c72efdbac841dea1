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

package ifexpr

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/codedhead/glslpp/diag"
	"github.com/codedhead/glslpp/lexer"
	"github.com/codedhead/glslpp/token"
	"github.com/codedhead/glslpp/value"
)

func tokenize(t *testing.T, src string) []token.Info {
	t.Helper()
	var c diag.Collector
	l := lexer.New(0, []byte(src), &c)
	var toks []token.Info
	for {
		tok := l.Next()
		if tok.Kind == token.EOF || tok.Kind == token.Newline {
			break
		}
		toks = append(toks, tok)
	}
	require.Empty(t, c.Diagnostics(), "unexpected lexical diagnostics for %q", src)
	return toks
}

func TestEvaluateArithmetic(t *testing.T) {
	cases := []struct {
		expr string
		want int32
	}{
		{"1 + 2 * 3", 7},
		{"(1 + 2) * 3", 9},
		{"10 / 3", 3},
		{"10 % 3", 1},
		{"-5 + 2", -3},
		{"1 << 4", 16},
		{"256 >> 4", 16},
		{"1 == 1", 1},
		{"1 != 1", 0},
		{"1 && 0", 0},
		{"1 || 0", 1},
		{"!0", 1},
		{"~0", -1},
		{"1 ? 42 : 0", 42},
		{"0 ? 42 : 7", 7},
		{"5 & 3", 1},
		{"5 | 2", 7},
		{"5 ^ 1", 4},
	}
	for _, c := range cases {
		v, err := Evaluate(tokenize(t, c.expr))
		require.NoError(t, err, c.expr)
		assert.Equal(t, c.want, int32(v), c.expr)
	}
}

func TestEvaluateUnsignedPromotion(t *testing.T) {
	v, err := Evaluate(tokenize(t, "1u - 2"))
	require.NoError(t, err)
	assert.Equal(t, int32(-1), int32(v), "mixing a uint operand promotes the whole expression to unsigned, wrapping -1")
}

func TestEvaluateDivisionByZero(t *testing.T) {
	_, err := Evaluate(tokenize(t, "1 / 0"))
	assert.Error(t, err)
}

func TestEvaluateEmptyExpression(t *testing.T) {
	_, err := Evaluate(nil)
	assert.Error(t, err)
}

func TestEvaluateIdentifierIsError(t *testing.T) {
	// A driver must macro-expand and resolve "defined" before calling
	// Evaluate; any identifier reaching here is necessarily undefined.
	_, err := Evaluate(tokenize(t, "FOO + 1"))
	assert.Error(t, err)
}

func TestEvaluateUnbalancedParens(t *testing.T) {
	_, err := Evaluate(tokenize(t, "(1 + 2"))
	assert.Error(t, err)
}

func TestValueCoercions(t *testing.T) {
	assert.Equal(t, value.IntValue(1), value.ToInt(value.BoolValue(true)))
	assert.Equal(t, value.IntValue(0), value.ToInt(value.BoolValue(false)))
	assert.True(t, bool(value.ToBool(value.IntValue(5))))
	assert.False(t, bool(value.ToBool(value.IntValue(0))))
	assert.True(t, value.IsZero(value.UintValue(0)))
	assert.False(t, value.IsZero(value.UintValue(1)))
}
