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

// Package ppconfig is the ambient configuration layer: the host's
// predefined-macros/known-extensions bundle, loadable from a YAML document
// or built programmatically. The core driver never reads a file itself
// (spec.md §1); a CLI or build system loads one of these and hands it to
// the driver.
package ppconfig

import (
	"io"

	"gopkg.in/yaml.v3"
)

// ExtensionDefault is the #extension behavior a known extension starts
// with before any #extension directive in the source overrides it.
type ExtensionDefault string

const (
	Disable ExtensionDefault = "disable"
	Warn    ExtensionDefault = "warn"
	Enable  ExtensionDefault = "enable"
	Require ExtensionDefault = "require"
)

// Config is the input contract's predefined-macros/known-extensions
// bundle (spec.md §3/§6), plus the two run-wide parameters that have no
// natural home on a per-source basis: the include-depth bound and the
// name the very first pushed source is reported under.
type Config struct {
	MaxIncludeDepth   int                         `yaml:"maxIncludeDepth"`
	PredefinedMacros  map[string]string           `yaml:"predefinedMacros"`
	KnownExtensions   map[string]ExtensionDefault `yaml:"knownExtensions"`
	InitialSourceName string                      `yaml:"initialSourceName"`
}

// Default returns the zero-config default: no predefined macros beyond the
// driver's own builtins, no known extensions, and the default include
// depth bound.
func Default() *Config {
	return &Config{
		MaxIncludeDepth:   256,
		PredefinedMacros:  map[string]string{},
		KnownExtensions:   map[string]ExtensionDefault{},
		InitialSourceName: "<source>",
	}
}

// Load parses a YAML document of the form described in SPEC_FULL.md §6
// into a Config, filling in defaults for any field the document omits.
func Load(r io.Reader) (*Config, error) {
	cfg := Default()
	dec := yaml.NewDecoder(r)
	if err := dec.Decode(cfg); err != nil && err != io.EOF {
		return nil, err
	}
	if cfg.MaxIncludeDepth <= 0 {
		cfg.MaxIncludeDepth = 256
	}
	if cfg.PredefinedMacros == nil {
		cfg.PredefinedMacros = map[string]string{}
	}
	if cfg.KnownExtensions == nil {
		cfg.KnownExtensions = map[string]ExtensionDefault{}
	}
	if cfg.InitialSourceName == "" {
		cfg.InitialSourceName = "<source>"
	}
	return cfg, nil
}
