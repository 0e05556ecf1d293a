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

package reflect_test

import (
	"reflect"
	"testing"

	uref "dirpx.dev/cvx/utils/reflect"
)

func TestAnyType(t *testing.T) {
	if uref.AnyType.Kind() != reflect.Interface {
		t.Fatalf("AnyType kind = %v, want interface", uref.AnyType.Kind())
	}
	if uref.AnyType.NumMethod() != 0 {
		t.Fatalf("AnyType methods = %d, want 0", uref.AnyType.NumMethod())
	}
	if !reflect.TypeOf(42).AssignableTo(uref.AnyType) {
		t.Fatal("int not assignable to AnyType")
	}
}

func TestIsSequence(t *testing.T) {
	cases := []struct {
		name string
		typ  reflect.Type
		want bool
	}{
		{"slice", reflect.TypeOf([]int(nil)), true},
		{"array", reflect.TypeOf([2]int{}), true},
		{"named slice", reflect.TypeOf(ids(nil)), true},
		{"map", reflect.TypeOf(map[int]int(nil)), false},
		{"string", reflect.TypeOf(""), false},
		{"nil", nil, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := uref.IsSequence(tc.typ); got != tc.want {
				t.Fatalf("IsSequence(%v) = %v, want %v", tc.typ, got, tc.want)
			}
		})
	}
}

func TestIsSet(t *testing.T) {
	cases := []struct {
		name string
		typ  reflect.Type
		want bool
	}{
		{"string set", reflect.TypeOf(map[string]struct{}(nil)), true},
		{"int set", reflect.TypeOf(map[int]struct{}(nil)), true},
		{"plain map", reflect.TypeOf(map[string]int(nil)), false},
		{"bool-valued map", reflect.TypeOf(map[string]bool(nil)), false},
		{"slice", reflect.TypeOf([]struct{}(nil)), false},
		{"nil", nil, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := uref.IsSet(tc.typ); got != tc.want {
				t.Fatalf("IsSet(%v) = %v, want %v", tc.typ, got, tc.want)
			}
		})
	}
}

func TestIsNilValue(t *testing.T) {
	var nilMap map[string]int
	var nilSlice []int
	var nilPtr *int
	n := 5

	cases := []struct {
		name string
		v    any
		want bool
	}{
		{"untyped nil", nil, true},
		{"nil map", nilMap, true},
		{"nil slice", nilSlice, true},
		{"nil ptr", nilPtr, true},
		{"non-nil ptr", &n, false},
		{"int", 42, false},
		{"empty string", "", false},
		{"empty slice", []int{}, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := uref.IsNilValue(tc.v); got != tc.want {
				t.Fatalf("IsNilValue(%v) = %v, want %v", tc.v, got, tc.want)
			}
		})
	}
}

func TestZero(t *testing.T) {
	if got := uref.Zero(reflect.TypeOf(0)); got != 0 {
		t.Fatalf("Zero(int) = %v, want 0", got)
	}
	if got := uref.Zero(reflect.TypeOf("")); got != "" {
		t.Fatalf("Zero(string) = %v, want empty", got)
	}
	if got := uref.Zero(reflect.TypeOf((*int)(nil))); got != (*int)(nil) {
		t.Fatalf("Zero(*int) = %v, want nil", got)
	}
	if got := uref.Zero(nil); got != nil {
		t.Fatalf("Zero(nil) = %v, want nil", got)
	}
	if got := uref.Zero(uref.AnyType); got != nil {
		t.Fatalf("Zero(any) = %v, want nil", got)
	}
}
