// Copyright 2026 The Greekc Authors. All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package collections provides a small generic Set used by the checker for
// import-cycle detection (the visited-imports set in spec §4.6) and by the
// code generator for the compiled-modules guard (spec §4.5).
package collections

import (
	"iter"
	"maps"
)

// Set is a generic implementation of a mathematical set for comparable
// types, implemented as a map with empty struct values for minimal memory
// use.
type Set[T comparable] map[T]struct{}

// NewSet creates a new Set containing the given elements.
func NewSet[T comparable](elems ...T) Set[T] {
	s := make(Set[T], len(elems))
	for _, elem := range elems {
		s.Add(elem)
	}
	return s
}

// Add inserts an element into the Set. Returns the Set to allow chaining.
func (s Set[T]) Add(elem T) Set[T] {
	s[elem] = struct{}{}
	return s
}

// Remove deletes an element from the Set, if present.
func (s Set[T]) Remove(elem T) {
	delete(s, elem)
}

// Contains checks whether an element exists in the Set.
func (s Set[T]) Contains(elem T) bool {
	_, exists := s[elem]
	return exists
}

// All returns a sequence over the Set's elements. The order is not
// guaranteed.
func (s Set[T]) All() iter.Seq[T] {
	return maps.Keys(s)
}
