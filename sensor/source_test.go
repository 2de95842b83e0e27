/*
Copyright (c) Facebook, Inc. and its affiliates.

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

package sensor

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRandomSourceStaysInBounds(t *testing.T) {
	s := NewRandomSource()
	for i := 0; i < 1000; i++ {
		r := s.Read()
		require.GreaterOrEqual(t, r.Temperature, int16(minTemperature))
		require.LessOrEqual(t, r.Temperature, int16(maxTemperature))
		require.GreaterOrEqual(t, r.Brightness, uint16(minBrightness))
		require.LessOrEqual(t, r.Brightness, uint16(maxBrightness))
	}
}
