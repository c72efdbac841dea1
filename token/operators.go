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

import "sort"

// Operators lists every punctuation sequence the lexer recognizes, longest
// first, so that e.g. "<<=" is matched before "<<" before "<". The
// teacher's ast.Operators table is built and sorted the same way
// (appendBinaryOperator/appendUnaryOperator followed by a length sort in
// an init()); this core only needs the literal strings; it has no need for
// the teacher's per-operator singleton value type, since nothing here
// distinguishes unary "-" from binary "-" or pre/post "++" — that
// disambiguation is, like keyword classification, left to the downstream
// parser (spec §9).
var Operators []string

func appendOp(s string) { Operators = append(Operators, s) }

func init() {
	// Three-character operators.
	appendOp("<<=")
	appendOp(">>=")
	appendOp("...")

	// Two-character operators. "##" is deliberately excluded: the lexer
	// recognizes it as its own HashHash kind, not as Punct text, since
	// spec §3 calls it out as a structural kind of its own.
	for _, op := range []string{
		"++", "--", "<<", ">>", "<=", ">=", "==", "!=",
		"&&", "||", "^^", "+=", "-=", "*=", "/=", "%=",
		"&=", "|=", "^=",
	} {
		appendOp(op)
	}

	// Single-character operators and punctuation. "#" is deliberately
	// excluded for the same reason (it is the Hash kind).
	for _, op := range []string{
		"+", "-", "*", "/", "%", "<", ">", "=", "!", "~",
		"&", "|", "^", "?", ":", ";", ",", ".",
		"(", ")", "{", "}", "[", "]",
	} {
		appendOp(op)
	}

	sort.SliceStable(Operators, func(i, j int) bool {
		return len(Operators[i]) > len(Operators[j])
	})
}
