/*
   Copyright 2025 The DIRPX Authors.

   Licensed under the Apache License, Version 2.0 (the "License");
   you may not use this file except in compliance with the License.
   You may obtain a copy of the License at

       http://www.apache.org/licenses/LICENSE-2.0

   Unless required by applicable law or agreed to in writing, software
   distributed under the License is distributed on an "AS IS" BASIS,
   WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
   See the License for the specific language governing permissions and
   limitations under the License.
*/

package config

import (
	"dirpx.dev/cvx/apis"
)

const (
	// DefaultIncludeDefaults represents the default for IncludeDefaults.
	// When true, the stock converter set is registered at build time.
	DefaultIncludeDefaults = true
	// DefaultIncludeAdapters represents the default for IncludeAdapters.
	// When true, the composite adapters (sequences, maps, singletons,
	// pointers) are registered at build time.
	DefaultIncludeAdapters = true
	// DefaultMaxDepth represents the default for MaxDepth.
	// A value of 32 should be sufficient for all practical nesting.
	DefaultMaxDepth = 32
)

// NewConfig constructs an apis.Config from the given options.
func NewConfig(opts ...Option) apis.Config {
	cfg := DefaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	// Ensure MaxDepth is valid.
	if cfg.MaxDepth <= 0 {
		cfg.MaxDepth = DefaultMaxDepth
	}
	return cfg
}

// DefaultConfig is the default configuration used when none is provided.
func DefaultConfig() apis.Config {
	return apis.Config{
		IncludeDefaults: DefaultIncludeDefaults,
		IncludeAdapters: DefaultIncludeAdapters,
		MaxDepth:        DefaultMaxDepth,
	}
}

// Option is a functional option that mutates an apis.Config during construction.
type Option func(*apis.Config)

// WithIncludeDefaults sets the IncludeDefaults option.
func WithIncludeDefaults(include bool) Option {
	return func(c *apis.Config) {
		c.IncludeDefaults = include
	}
}

// WithIncludeAdapters sets the IncludeAdapters option.
func WithIncludeAdapters(include bool) Option {
	return func(c *apis.Config) {
		c.IncludeAdapters = include
	}
}

// WithMaxDepth sets the MaxDepth option.
// A non-positive value resets to the default.
func WithMaxDepth(depth int) Option {
	return func(c *apis.Config) {
		if depth <= 0 {
			c.MaxDepth = DefaultMaxDepth
			return
		}
		c.MaxDepth = depth
	}
}
