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

// Package ext tracks #extension state. The teacher only ever recorded a
// bare []Extension list with no behavior semantics (its GLSL-ES dialect
// never conditioned anything on extension behavior); this core needs the
// real four-state GLSL behavior model because it gates which #include
// style is accepted (spec.md §4.3/§4.7).
package ext

// Behavior is one of the four states GLSL's #extension directive can set
// for a named extension.
type Behavior int

const (
	Disable Behavior = iota
	Warn
	Enable
	Require
)

func (b Behavior) String() string {
	switch b {
	case Disable:
		return "disable"
	case Warn:
		return "warn"
	case Enable:
		return "enable"
	case Require:
		return "require"
	default:
		return "unknown"
	}
}

// ParseBehavior parses one of the four directive keywords, reporting
// whether s was recognized.
func ParseBehavior(s string) (Behavior, bool) {
	switch s {
	case "disable":
		return Disable, true
	case "warn":
		return Warn, true
	case "enable":
		return Enable, true
	case "require":
		return Require, true
	default:
		return Disable, false
	}
}

// Registry is the live #extension state for one preprocessing run, seeded
// from ppconfig.Config.KnownExtensions and mutated by #extension
// directives as they're processed.
type Registry struct {
	known map[string]Behavior
}

// NewRegistry builds a Registry preloaded with defaults, e.g. from
// Config.KnownExtensions.
func NewRegistry(defaults map[string]Behavior) *Registry {
	r := &Registry{known: make(map[string]Behavior, len(defaults))}
	for name, b := range defaults {
		r.known[name] = b
	}
	return r
}

// Set records name's behavior as set by an #extension directive, including
// the special "all" name that applies to every known extension at once
// (per the GLSL #extension grammar, "all" is only valid with warn/disable).
func (r *Registry) Set(name string, b Behavior) {
	if r.known == nil {
		r.known = make(map[string]Behavior)
	}
	if name == "all" {
		for k := range r.known {
			r.known[k] = b
		}
		return
	}
	r.known[name] = b
}

// Behavior returns name's current behavior and whether it is known at all.
func (r *Registry) Behavior(name string) (Behavior, bool) {
	b, ok := r.known[name]
	return b, ok
}

// Enabled reports whether name's current behavior is Enable or Require.
func (r *Registry) Enabled(name string) bool {
	b, ok := r.known[name]
	return ok && (b == Enable || b == Require)
}
