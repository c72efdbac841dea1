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

package ppconfig

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	assert.Equal(t, 256, cfg.MaxIncludeDepth)
	assert.Empty(t, cfg.PredefinedMacros)
	assert.Empty(t, cfg.KnownExtensions)
	assert.Equal(t, "<source>", cfg.InitialSourceName)
}

func TestLoadFillsInProvidedFields(t *testing.T) {
	doc := `
maxIncludeDepth: 8
predefinedMacros:
  FOO: "1"
  BAR: "(1 + 2)"
knownExtensions:
  GL_GOOGLE_include_directive: enable
initialSourceName: shader.vert
`
	cfg, err := Load(strings.NewReader(doc))
	require.NoError(t, err)
	assert.Equal(t, 8, cfg.MaxIncludeDepth)
	assert.Equal(t, "1", cfg.PredefinedMacros["FOO"])
	assert.Equal(t, "(1 + 2)", cfg.PredefinedMacros["BAR"])
	assert.Equal(t, Enable, cfg.KnownExtensions["GL_GOOGLE_include_directive"])
	assert.Equal(t, "shader.vert", cfg.InitialSourceName)
}

func TestLoadEmptyDocumentFillsDefaults(t *testing.T) {
	cfg, err := Load(strings.NewReader(""))
	require.NoError(t, err)
	assert.Equal(t, 256, cfg.MaxIncludeDepth)
	assert.Equal(t, "<source>", cfg.InitialSourceName)
	assert.NotNil(t, cfg.PredefinedMacros)
	assert.NotNil(t, cfg.KnownExtensions)
}

func TestLoadPartialDocumentStillFillsMissingDefaults(t *testing.T) {
	cfg, err := Load(strings.NewReader("predefinedMacros:\n  X: \"1\"\n"))
	require.NoError(t, err)
	assert.Equal(t, 256, cfg.MaxIncludeDepth, "an omitted field falls back to its default even in a non-empty document")
	assert.Equal(t, "1", cfg.PredefinedMacros["X"])
}
