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

package timers

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestEngineFiresArmedPurpose(t *testing.T) {
	e := NewEngine()
	e.Arm(PurposeGetDataCycle, 5*time.Millisecond)
	require.Equal(t, PurposeGetDataCycle, e.Purpose())

	select {
	case <-e.C():
	case <-time.After(time.Second):
		t.Fatal("timer never fired")
	}
}

func TestEngineRearmCancelsPrior(t *testing.T) {
	e := NewEngine()
	e.Arm(PurposeSlaveNeededSent, time.Hour)
	e.Arm(PurposeGetDataCycle, 5*time.Millisecond)
	require.Equal(t, PurposeGetDataCycle, e.Purpose(), "re-arming switches purpose")

	select {
	case <-e.C():
	case <-time.After(time.Second):
		t.Fatal("re-armed timer never fired")
	}
}

func TestEngineCancelDisarms(t *testing.T) {
	e := NewEngine()
	e.Arm(PurposeNoRequestFromMaster, 5*time.Millisecond)
	e.Cancel()
	require.Equal(t, PurposeNone, e.Purpose())

	select {
	case <-e.C():
		t.Fatal("cancelled timer must not fire")
	case <-time.After(20 * time.Millisecond):
	}
}

func TestAttemptCounter(t *testing.T) {
	a := NewAttemptCounter(2)
	require.True(t, a.HasNext())
	require.Equal(t, 2, a.Remaining())

	a.Consume()
	require.True(t, a.HasNext())
	require.Equal(t, 1, a.Remaining())

	a.Consume()
	require.False(t, a.HasNext())
	require.Equal(t, 0, a.Remaining())

	a.Consume()
	require.Equal(t, 0, a.Remaining(), "consuming past zero stays at zero")

	a.Reset(3)
	require.True(t, a.HasNext())
	require.Equal(t, 3, a.Remaining())
}

func TestConstantsMatchSpec(t *testing.T) {
	require.Equal(t, 3*time.Second, SlaveNeededRetryInterval)
	require.Equal(t, 2, SlaveNeededRetryAttempts)
	require.Equal(t, 1*time.Second, MasterNeededRetryInterval)
	require.Equal(t, 3, MasterNeededRetryAttempts)
	require.Equal(t, 5*time.Second, GetDataCycleInterval)
	require.Equal(t, 30*time.Second, NoRequestFromMasterTimeout)
}
