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

package token

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSpanLen(t *testing.T) {
	sp := Span{Start: 3, End: 10}
	assert.Equal(t, 7, sp.Len())
}

func TestSpanCoverTakesOuterBounds(t *testing.T) {
	a := Span{Source: 1, Start: 5, End: 10}
	b := Span{Source: 1, Start: 2, End: 7}
	assert.Equal(t, Span{Source: 1, Start: 2, End: 10}, a.Cover(b))
}

func TestKindStringKnownAndUnknown(t *testing.T) {
	assert.Equal(t, "IDENT", Ident.String())
	assert.Equal(t, "Kind(200)", Kind(200).String())
}

func TestInfoIsAndIsPunct(t *testing.T) {
	tok := Info{Kind: Punct, Text: "+"}
	assert.True(t, tok.Is(Punct, "+"))
	assert.True(t, tok.IsPunct("+"))
	assert.False(t, tok.IsPunct("-"))
}

func TestInfoIsEOF(t *testing.T) {
	assert.True(t, Info{Kind: EOF}.IsEOF())
	assert.False(t, Info{Kind: Ident}.IsEOF())
}

func TestInfoStringIsItsText(t *testing.T) {
	assert.Equal(t, "foo", Info{Kind: Ident, Text: "foo"}.String())
}
