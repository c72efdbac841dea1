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

package value

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsUnsignedPerKind(t *testing.T) {
	assert.False(t, IntValue(1).IsUnsigned())
	assert.True(t, UintValue(1).IsUnsigned())
	assert.False(t, FloatValue(1).IsUnsigned())
	assert.False(t, BoolValue(true).IsUnsigned())
}

func TestStringForms(t *testing.T) {
	assert.Equal(t, "-1", IntValue(-1).String())
	assert.Equal(t, "1u", UintValue(1).String(), "unsigned values carry GLSL's trailing 'u'")
	assert.Equal(t, "1", BoolValue(true).String())
	assert.Equal(t, "0", BoolValue(false).String())
}

func TestToIntCoercions(t *testing.T) {
	assert.Equal(t, IntValue(-1), ToInt(UintValue(0xFFFFFFFF)))
	assert.Equal(t, IntValue(1), ToInt(BoolValue(true)))
	assert.Equal(t, IntValue(0), ToInt(BoolValue(false)))
}

func TestToUintCoercions(t *testing.T) {
	assert.Equal(t, UintValue(0xFFFFFFFF), ToUint(IntValue(-1)))
	assert.Equal(t, UintValue(1), ToUint(BoolValue(true)))
}

func TestToBoolCoercions(t *testing.T) {
	assert.Equal(t, BoolValue(true), ToBool(IntValue(5)))
	assert.Equal(t, BoolValue(false), ToBool(IntValue(0)))
	assert.Equal(t, BoolValue(true), ToBool(UintValue(1)))
}

func TestIsZero(t *testing.T) {
	assert.True(t, IsZero(IntValue(0)))
	assert.False(t, IsZero(IntValue(1)))
	assert.True(t, IsZero(UintValue(0)))
	assert.True(t, IsZero(BoolValue(false)))
	assert.False(t, IsZero(BoolValue(true)))
}
