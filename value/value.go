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

// Package value defines the constant domain used by #if/#elif evaluation:
// 32-bit signed and unsigned integers, floats (though #if never produces
// one), and booleans.
//
// This is a deliberately narrow cousin of the teacher's ast.Value domain
// (gapis/gfxapi/gles/glsl/ast/value.go), which additionally covered
// vectors, matrices, structs and arrays for full GLSL expression
// evaluation. Those belong to the downstream language evaluator; spec §1
// calls evaluating arbitrary language-level expressions outside #if a
// non-goal, and spec §4.6 fixes #if's domain at 32-bit int/uint.
package value

import "strconv"

// Value is any constant value producible in this domain.
type Value interface {
	// IsUnsigned reports whether arithmetic on this value should follow
	// the unsigned promotion rules of spec §4.6.
	IsUnsigned() bool
	String() string
}

// IntValue is a signed 32-bit integer constant.
type IntValue int32

func (v IntValue) IsUnsigned() bool { return false }
func (v IntValue) String() string   { return strconv.FormatInt(int64(v), 10) }

// UintValue is an unsigned 32-bit integer constant. Its string form carries
// the trailing "u" GLSL uses for unsigned literals, matching the teacher's
// ast.UintValue.String().
type UintValue uint32

func (v UintValue) IsUnsigned() bool { return true }
func (v UintValue) String() string   { return strconv.FormatUint(uint64(v), 10) + "u" }

// FloatValue is a 64-bit float constant. #if never yields one (spec §4.6
// restricts the domain to integers); the coercions below accept it so the
// domain is complete.
type FloatValue float64

func (v FloatValue) IsUnsigned() bool { return false }
func (v FloatValue) String() string   { return strconv.FormatFloat(float64(v), 'g', -1, 64) }

// BoolValue is the intermediate result of a comparison or logical operator
// inside #if; it is coerced back to IntValue before the expression's final
// result is reported, since #if always yields an integer truth value.
type BoolValue bool

func (v BoolValue) IsUnsigned() bool { return false }
func (v BoolValue) String() string {
	if v {
		return "1"
	}
	return "0"
}

// ToInt coerces any Value in this domain to its truth/ordinal integer form,
// the way the teacher's convertInt did for the full GLSL domain.
func ToInt(v Value) IntValue {
	switch v := v.(type) {
	case IntValue:
		return v
	case UintValue:
		return IntValue(v)
	case BoolValue:
		if v {
			return 1
		}
		return 0
	case FloatValue:
		return IntValue(v)
	}
	return 0
}

// ToUint coerces any Value in this domain to UintValue.
func ToUint(v Value) UintValue {
	switch v := v.(type) {
	case UintValue:
		return v
	case IntValue:
		return UintValue(v)
	case BoolValue:
		if v {
			return 1
		}
		return 0
	case FloatValue:
		return UintValue(v)
	}
	return 0
}

// ToBool coerces any Value in this domain to a truth value.
func ToBool(v Value) BoolValue {
	switch v := v.(type) {
	case BoolValue:
		return v
	case IntValue:
		return v != 0
	case UintValue:
		return v != 0
	case FloatValue:
		return v != 0
	}
	return false
}

// IsZero reports whether v is the zero value of its underlying type,
// e.g. to implement division-by-zero checks uniformly.
func IsZero(v Value) bool {
	switch v := v.(type) {
	case IntValue:
		return v == 0
	case UintValue:
		return v == 0
	case FloatValue:
		return v == 0
	case BoolValue:
		return !bool(v)
	}
	return false
}
