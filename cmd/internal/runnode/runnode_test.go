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

package runnode

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/facebookincubator/beaconmesh/node"
)

func TestNewCommandRejectsWrongArgCount(t *testing.T) {
	cmd := NewCommand("controlnode", node.RoleControl)
	cmd.SetArgs([]string{"239.1.1.1"})
	require.Error(t, cmd.Execute(), "one positional argument must be rejected by ExactArgs(2)")
}

func TestNewCommandRejectsTooManyArgs(t *testing.T) {
	cmd := NewCommand("indicationnode", node.RoleIndication)
	cmd.SetArgs([]string{"127.0.0.1", "239.1.1.1", "extra"})
	require.Error(t, cmd.Execute())
}

func TestNewCommandRejectsUnrecognizedFlag(t *testing.T) {
	cmd := NewCommand("controlnode", node.RoleControl)
	cmd.SetArgs([]string{"--notaflag", "127.0.0.1", "239.1.1.1"})
	require.Error(t, cmd.Execute())
}
