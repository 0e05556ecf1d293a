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

package converters_test

import (
	"reflect"
	"testing"
	"time"

	"github.com/blang/semver/v4"
	"github.com/davecgh/go-spew/spew"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"

	"dirpx.dev/cvx/apis"
	"dirpx.dev/cvx/config"
	"dirpx.dev/cvx/converters"
	"dirpx.dev/cvx/registry"
	"dirpx.dev/cvx/resolver"
	"dirpx.dev/cvx/service"
)

// newConverter wires a service over the stock rule set only; composite
// adapters stay out so these tests exercise the library in isolation.
func newConverter(t *testing.T) apis.Service {
	t.Helper()
	reg := registry.New()
	require.NoError(t, converters.RegisterAll(reg))
	return service.New(reg, resolver.New(reg, nil), config.DefaultConfig())
}

func convert[T any](t *testing.T, svc apis.Service, v any) T {
	t.Helper()
	out, err := svc.Convert(v, reflect.TypeFor[T]())
	require.NoError(t, err, "convert %s", spew.Sdump(v))
	return out.(T)
}

func TestText(t *testing.T) {
	t.Parallel()
	svc := newConverter(t)

	assert.Equal(t, []byte("abc"), convert[[]byte](t, svc, "abc"))
	assert.Equal(t, "abc", convert[string](t, svc, []byte("abc")))
	assert.Equal(t, true, convert[bool](t, svc, "true"))
	assert.Equal(t, "false", convert[string](t, svc, false))
	assert.Equal(t, []string{"a", "b", "c"}, convert[[]string](t, svc, "a, b,c"))
	assert.Equal(t, []string{}, convert[[]string](t, svc, ""))
	assert.Equal(t, "a,b", convert[string](t, svc, []string{"a", "b"}))
}

func TestNumericParseAndFormat(t *testing.T) {
	t.Parallel()
	svc := newConverter(t)

	assert.Equal(t, 42, convert[int](t, svc, "42"))
	assert.Equal(t, int8(-7), convert[int8](t, svc, "-7"))
	assert.Equal(t, uint16(65535), convert[uint16](t, svc, "65535"))
	assert.Equal(t, 2.5, convert[float64](t, svc, "2.5"))
	assert.Equal(t, "42", convert[string](t, svc, 42))
	assert.Equal(t, "2.5", convert[string](t, svc, 2.5))

	t.Run("named kinds are covered", func(t *testing.T) {
		t.Parallel()
		type port uint16
		assert.Equal(t, port(8080), convert[port](t, svc, "8080"))
		assert.Equal(t, "8080", convert[string](t, svc, port(8080)))
	})

	t.Run("out of range parse fails", func(t *testing.T) {
		t.Parallel()
		_, err := svc.Convert("256", reflect.TypeFor[int8]())
		require.Error(t, err)
	})
}

func TestNumericCross(t *testing.T) {
	t.Parallel()
	svc := newConverter(t)

	assert.Equal(t, int64(7), convert[int64](t, svc, 7))
	assert.Equal(t, uint8(200), convert[uint8](t, svc, 200))
	assert.Equal(t, 3.0, convert[float64](t, svc, 3))
	assert.Equal(t, 8, convert[int](t, svc, 8.0))

	for name, in := range map[string]struct {
		v   any
		dst reflect.Type
	}{
		"overflow":   {300, reflect.TypeFor[int8]()},
		"sign loss":  {-1, reflect.TypeFor[uint]()},
		"fractional": {1.5, reflect.TypeFor[int]()},
	} {
		t.Run(name+" fails", func(t *testing.T) {
			_, err := svc.Convert(in.v, in.dst)
			require.Error(t, err)
		})
	}
}

func TestTime(t *testing.T) {
	t.Parallel()
	svc := newConverter(t)

	want := time.Date(2026, 8, 25, 10, 30, 0, 0, time.UTC)
	got := convert[time.Time](t, svc, "2026-08-25T10:30:00Z")
	assert.True(t, want.Equal(got), "got %v", got)
	assert.Equal(t, "2026-08-25T10:30:00Z", convert[string](t, svc, want))

	assert.Equal(t, 90*time.Minute, convert[time.Duration](t, svc, "1h30m"))
	assert.Equal(t, "1h30m0s", convert[string](t, svc, 90*time.Minute))

	assert.True(t, time.Unix(1735689600, 0).Equal(convert[time.Time](t, svc, int64(1735689600))))
	assert.Equal(t, want.Unix(), convert[int64](t, svc, want))
}

func TestIdentifier(t *testing.T) {
	t.Parallel()
	svc := newConverter(t)

	t.Run("uuid round trip", func(t *testing.T) {
		t.Parallel()
		id := uuid.MustParse("4be0643f-1d98-573b-97cd-ca98a65347dd")
		assert.Equal(t, id, convert[uuid.UUID](t, svc, id.String()))
		assert.Equal(t, id.String(), convert[string](t, svc, id))
	})

	t.Run("semver round trip", func(t *testing.T) {
		t.Parallel()
		v := semver.MustParse("1.2.3-rc.1")
		assert.Equal(t, v, convert[semver.Version](t, svc, "1.2.3-rc.1"))
		assert.Equal(t, "1.2.3-rc.1", convert[string](t, svc, v))
	})

	t.Run("invalid inputs fail", func(t *testing.T) {
		t.Parallel()
		_, err := svc.Convert("not-a-uuid", reflect.TypeFor[uuid.UUID]())
		require.Error(t, err)
		_, err = svc.Convert("not-a-version", reflect.TypeFor[semver.Version]())
		require.Error(t, err)
	})
}

func TestLocale(t *testing.T) {
	t.Parallel()
	svc := newConverter(t)

	tag := convert[language.Tag](t, svc, "en-US")
	assert.Equal(t, "en-US", tag.String())
	assert.Equal(t, "en-US", convert[string](t, svc, tag))

	_, err := svc.Convert("definitely not a tag!", reflect.TypeFor[language.Tag]())
	require.Error(t, err)
}

func TestStructured(t *testing.T) {
	t.Parallel()
	svc := newConverter(t)

	doc := convert[map[string]any](t, svc, "name: cvx\nport: 8080")
	assert.Equal(t, map[string]any{"name": "cvx", "port": 8080}, doc)

	rendered := convert[string](t, svc, map[string]any{"name": "cvx"})
	back := convert[map[string]any](t, svc, rendered)
	assert.Equal(t, map[string]any{"name": "cvx"}, back)
}

// level follows the stdlib text convention the encoding rules target.
type level int

func (l level) MarshalText() ([]byte, error) {
	if l == 1 {
		return []byte("high"), nil
	}
	return []byte("low"), nil
}

func (l *level) UnmarshalText(text []byte) error {
	if string(text) == "high" {
		*l = 1
		return nil
	}
	*l = 0
	return nil
}

func TestEncoding(t *testing.T) {
	t.Parallel()
	svc := newConverter(t)

	t.Run("unmarshal into value target", func(t *testing.T) {
		t.Parallel()
		assert.Equal(t, level(1), convert[level](t, svc, "high"))
		assert.Equal(t, level(0), convert[level](t, svc, []byte("low")))
	})

	t.Run("factory mints pointer targets", func(t *testing.T) {
		t.Parallel()
		out := convert[*level](t, svc, "high")
		require.NotNil(t, out)
		assert.Equal(t, level(1), *out)
	})

	t.Run("marshal from value source", func(t *testing.T) {
		t.Parallel()
		assert.Equal(t, "high", convert[string](t, svc, level(1)))
	})
}

func TestRegisterAllIsCleanOnFreshRegistry(t *testing.T) {
	t.Parallel()
	reg := registry.New()
	require.NoError(t, converters.RegisterAll(reg))
	assert.Greater(t, reg.Count(), 15)
}
