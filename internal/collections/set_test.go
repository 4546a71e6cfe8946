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

package collections

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSetAddContains(t *testing.T) {
	s := NewSet("a", "b")
	assert.True(t, s.Contains("a"))
	assert.True(t, s.Contains("b"))
	assert.False(t, s.Contains("c"))

	s.Add("c")
	assert.True(t, s.Contains("c"))
}

func TestSetRemove(t *testing.T) {
	s := NewSet("a", "b")
	s.Remove("a")
	assert.False(t, s.Contains("a"))
	assert.True(t, s.Contains("b"))
}

func TestSetAllVisitsEveryElement(t *testing.T) {
	s := NewSet(1, 2, 3)
	seen := NewSet[int]()
	for elem := range s.All() {
		seen.Add(elem)
	}
	assert.Equal(t, s, seen)
}
