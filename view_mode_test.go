package camrig

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFreeRoamMode_ToggleCycle(t *testing.T) {
	cycle := []FreeRoamMode{FreeRoamOff, FreeRoamFree, FreeRoamLocked, FreeRoamFollowBody, FreeRoamFollowHead}

	for start := range cycle {
		for n := 0; n < 12; n++ {
			v := NewViewModes(SchemeCycle)
			v.current.FreeRoam = cycle[start]
			v.next = v.current
			for i := 0; i < n; i++ {
				v.AdvanceFreeRoam(FreeRoamTriggers{Toggle: true})
				v.Commit()
			}
			assert.Equal(t, cycle[(start+n)%5], v.Snapshot().FreeRoam, "start=%v n=%d", cycle[start], n)
		}
	}
}

func TestPointOfView_FullCycle(t *testing.T) {
	v := NewViewModes(SchemeCycle)
	seen := []PointOfView{}
	for i := 0; i < 3; i++ {
		v.AdvancePointOfView(true)
		v.Commit()
		seen = append(seen, v.Snapshot().PointOfView)
	}
	assert.Equal(t, []PointOfView{ThirdPerson, OverShoulder, FirstPerson}, seen)

	v.AdvancePointOfView(false)
	v.Commit()
	assert.Equal(t, FirstPerson, v.Snapshot().PointOfView, "no edge, no change")
}

func TestViewModes_ChangesWaitForCommit(t *testing.T) {
	v := NewViewModes(SchemeCycle)

	v.AdvanceFreeRoam(FreeRoamTriggers{Toggle: true})
	assert.Equal(t, FreeRoamOff, v.Snapshot().FreeRoam)
	assert.Equal(t, FreeRoamFree, v.Staged().FreeRoam)

	assert.True(t, v.Commit())
	assert.Equal(t, FreeRoamFree, v.Snapshot().FreeRoam)
	assert.False(t, v.Commit(), "nothing staged")
}

func TestViewModes_SpeedTierOnlyInFree(t *testing.T) {
	v := NewViewModes(SchemeCycle)

	assert.False(t, v.SelectSpeedTier(SpeedMedium))
	v.Commit()
	assert.Equal(t, float32(1.0), v.Snapshot().SpeedScale)

	v.AdvanceFreeRoam(FreeRoamTriggers{Toggle: true})
	// Same frame as the toggle: the snapshot is still Off.
	assert.False(t, v.SelectSpeedTier(SpeedFast))
	v.Commit()
	require.Equal(t, FreeRoamFree, v.Snapshot().FreeRoam)

	assert.True(t, v.SelectSpeedTier(SpeedFast))
	v.Commit()
	assert.Equal(t, float32(2.0), v.Snapshot().SpeedScale)

	assert.False(t, v.SelectSpeedTier(SpeedTier(7)))
	assert.False(t, v.SelectSpeedTier(SpeedTier(0)))
}

func TestSpeedTier_Scales(t *testing.T) {
	want := []float32{0.5, 1.0, 1.5, 2.0, 3.0, 5.0}
	for i, w := range want {
		s, ok := SpeedTier(i + 1).Scale()
		require.True(t, ok)
		assert.Equal(t, w, s)
	}
}

func TestViewModes_DirectScheme(t *testing.T) {
	v := NewViewModes(SchemeDirect)

	v.AdvanceFreeRoam(FreeRoamTriggers{Jump: FreeRoamFollowBody, HasJump: true})
	v.Commit()
	assert.Equal(t, FreeRoamFollowBody, v.Snapshot().FreeRoam)

	// Jumping to the current mode is allowed and changes nothing.
	v.AdvanceFreeRoam(FreeRoamTriggers{Jump: FreeRoamFollowBody, HasJump: true})
	assert.False(t, v.Commit())

	// The toggle still cycles.
	v.AdvanceFreeRoam(FreeRoamTriggers{Toggle: true})
	v.Commit()
	assert.Equal(t, FreeRoamFollowHead, v.Snapshot().FreeRoam)

	// A jump wins over a toggle in the same frame.
	v.AdvanceFreeRoam(FreeRoamTriggers{Toggle: true, Jump: FreeRoamLocked, HasJump: true})
	v.Commit()
	assert.Equal(t, FreeRoamLocked, v.Snapshot().FreeRoam)
}

func TestViewModes_CycleSchemeIgnoresJumps(t *testing.T) {
	v := NewViewModes(SchemeCycle)
	v.AdvanceFreeRoam(FreeRoamTriggers{Jump: FreeRoamLocked, HasJump: true})
	v.Commit()
	assert.Equal(t, FreeRoamOff, v.Snapshot().FreeRoam)
}

func TestViewModes_AxesAreIndependent(t *testing.T) {
	v := NewViewModes(SchemeCycle)
	v.AdvancePointOfView(true)
	v.AdvanceFreeRoam(FreeRoamTriggers{Toggle: true})
	v.Commit()

	assert.Equal(t, ModeState{PointOfView: ThirdPerson, FreeRoam: FreeRoamFree, SpeedScale: 1.0}, v.Snapshot())

	v.Reset()
	assert.Equal(t, DefaultModeState(), v.Snapshot())
}

func TestParseFreeRoamMode(t *testing.T) {
	for m := FreeRoamOff; m < freeRoamModeCount; m++ {
		got, err := ParseFreeRoamMode(m.String())
		require.NoError(t, err)
		assert.Equal(t, m, got)
	}
	_, err := ParseFreeRoamMode("orbit")
	assert.Error(t, err)
}

func TestParseTransitionScheme(t *testing.T) {
	s, err := ParseTransitionScheme("Direct")
	require.NoError(t, err)
	assert.Equal(t, SchemeDirect, s)

	s, err = ParseTransitionScheme("")
	require.NoError(t, err)
	assert.Equal(t, SchemeCycle, s)

	_, err = ParseTransitionScheme("toggle")
	assert.Error(t, err)
}
