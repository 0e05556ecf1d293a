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

package builder

import (
	"fmt"

	"go.uber.org/multierr"

	"dirpx.dev/cvx/adapters"
	"dirpx.dev/cvx/apis"
	"dirpx.dev/cvx/converters"
	"dirpx.dev/cvx/registry"
	"dirpx.dev/cvx/resolver"
	"dirpx.dev/cvx/service"
)

// New creates and returns a new instance of an apis.Builder.
func New() apis.Builder {
	return &builder{}
}

// builder is an empty struct to be used as a receiver for builder methods.
type builder struct{}

// ruleExporter is the optional registry capability used for migration. The
// apis.Registry contract only exposes a diagnostics snapshot without
// conversion funcs; the package registry implementation additionally
// exports the executable rule set.
type ruleExporter interface {
	Rules() []*apis.Rule
}

// BuildRegistry builds and returns a new apis.Registry based on the provided
// configuration and pre-existing registry. A fresh build (nil preg) is
// seeded with the stock converters and composite adapters according to cfg.
// When a pre-existing registry is provided its rules are migrated instead,
// so runtime registrations survive a rebuild; a registry that does not
// export its rules falls back to cfg-based seeding.
func (b *builder) BuildRegistry(cfg apis.Config, preg apis.Registry, _ any) apis.Registry {
	nreg := registry.New()

	if exp, ok := preg.(ruleExporter); ok {
		mustRegister(migrate(nreg, exp.Rules()))
		return nreg
	}

	var err error
	if cfg.IncludeDefaults {
		err = multierr.Append(err, converters.RegisterAll(nreg))
	}
	if cfg.IncludeAdapters {
		err = multierr.Append(err, adapters.RegisterAll(nreg))
	}
	mustRegister(err)
	return nreg
}

// mustRegister panics on a registration failure during a build. The stock
// rule set and migrated rules were validated when first registered, so a
// failure here is a wiring bug, not a runtime condition the caller could
// handle.
func mustRegister(err error) {
	if err != nil {
		panic(fmt.Sprintf("cvx(builder): registry build failed: %v", err))
	}
}

// BuildResolver builds and returns a new apis.Resolver based on the provided
// configuration and registry, using the default lattice over reg.
func (b *builder) BuildResolver(_ apis.Config, reg apis.Registry, _ apis.Resolver, _ any) apis.Resolver {
	return resolver.New(reg, nil)
}

// BuildService builds and returns a new apis.Service dispatching through reg
// and res, with the stock fallback chain wired in.
func (b *builder) BuildService(cfg apis.Config, reg apis.Registry, res apis.Resolver, _ apis.Service, _ any) apis.Service {
	return service.New(reg, res, cfg, service.DefaultFallbacks()...)
}

// migrate replays rules into nreg through the public Add operations,
// preserving family and factory order and therefore tie-break behavior.
func migrate(nreg apis.Registry, rules []*apis.Rule) error {
	var errs error
	for _, rule := range rules {
		switch rule.Kind {
		case apis.RuleDirect:
			errs = multierr.Append(errs, nreg.AddNamedDirect(rule.Name, rule.Pairs[0], rule.Fn))
		case apis.RuleFamily:
			errs = multierr.Append(errs, nreg.AddFamily(apis.FamilyRule{
				Name:    rule.Name,
				Pairs:   rule.Pairs,
				Matches: rule.Matches,
				Fn:      rule.Fam,
			}))
		case apis.RuleFactory:
			errs = multierr.Append(errs, nreg.AddFactory(rule.Pairs[0].Source, rule.Pairs[0].Target, rule.Mint))
		}
	}
	return errs
}
