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

package macro

import (
	"strings"

	"github.com/codedhead/glslpp/token"
)

// Expansion is one token produced during macro expansion, carrying the
// hide set that travels with it. This is the teacher's tokenExpansion,
// renamed and rehosted on token.Info instead of the teacher's CST-backed
// TokenInfo.
type Expansion struct {
	Info token.Info
	Hide HideSet
}

// NewExpansion wraps info with a fresh, empty hide set.
func NewExpansion(info token.Info) Expansion {
	return Expansion{Info: info, Hide: make(HideSet)}
}

func cloneExpansions(in []Expansion) []Expansion {
	out := make([]Expansion, len(in))
	for i, e := range in {
		out[i] = Expansion{Info: e.Info, Hide: e.Hide.Clone()}
	}
	return out
}

// stringizeRaw implements the GLSL "#" operator: it joins an argument's raw
// (unexpanded) token texts with single spaces between tokens that were
// themselves separated by whitespace, and wraps the result in quotes,
// escaping any embedded backslash or quote the way the C/GLSL standard
// requires.
func stringizeRaw(arg []Expansion) string {
	var b strings.Builder
	b.WriteByte('"')
	for i, e := range arg {
		if i > 0 && e.Info.LeadingWhitespace {
			b.WriteByte(' ')
		}
		text := e.Info.Text
		if e.Info.Kind == token.String || e.Info.Kind == token.AngleString {
			text = strings.ReplaceAll(text, `\`, `\\`)
			text = strings.ReplaceAll(text, `"`, `\"`)
		}
		b.WriteString(text)
	}
	b.WriteByte('"')
	return b.String()
}

// pasteTokens combines two tokens' verbatim text, reporting whether the
// concatenation is accepted as one token. It does not re-lex the text; it
// decides from the operand kinds: an identifier followed by an identifier
// or an integer constant gives an identifier, an integer constant followed
// by an integer or unsigned constant gives a constant of the right
// operand's kind, and two punctuators give a punctuator when their
// concatenation is a known operator. Every other pairing is reported
// invalid.
func pasteTokens(a, b token.Info) (token.Info, bool) {
	combined := a.Text + b.Text
	switch {
	case a.Kind == token.Ident && (b.Kind == token.Ident || b.Kind == token.IntConst):
		return token.Info{Kind: token.Ident, Text: combined}, isValidIdent(combined)
	case a.Kind == token.IntConst && (b.Kind == token.IntConst || b.Kind == token.UintConst):
		return token.Info{Kind: b.Kind, Text: combined}, true
	case a.Kind == token.Punct && b.Kind == token.Punct:
		for _, op := range token.Operators {
			if op == combined {
				return token.Info{Kind: token.Punct, Text: combined}, true
			}
		}
		return token.Info{}, false
	default:
		return token.Info{}, false
	}
}

func isValidIdent(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		if r == '_' || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') {
			continue
		}
		if i > 0 && r >= '0' && r <= '9' {
			continue
		}
		return false
	}
	return true
}
