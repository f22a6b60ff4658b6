package camrig

// modeSwitchSystem turns this frame's key edges into staged mode changes.
// Every check reads the frame snapshot, so a toggle and a tier key pressed
// together do not see each other.
func modeSwitchSystem(input *Input, kb *Keybinds, modes *ViewModes) {
	modes.AdvancePointOfView(kb.JustPressed(input, ActionPovSwitch))
	modes.AdvanceFreeRoam(freeRoamTriggers(input, kb))

	for i, action := range speedTierActions {
		if kb.JustPressed(input, action) {
			modes.SelectSpeedTier(SpeedTier(i + 1))
		}
	}
}

func freeRoamTriggers(input *Input, kb *Keybinds) FreeRoamTriggers {
	t := FreeRoamTriggers{Toggle: kb.JustPressed(input, ActionFreecamToggle)}
	for _, jump := range directJumpActions {
		if kb.JustPressed(input, jump.action) {
			t.Jump, t.HasJump = jump.mode, true
		}
	}
	return t
}

// modeCommitSystem runs last in the frame; what it publishes is the
// snapshot for every system of the next frame, fixed ticks included. A
// free-roam change also runs the OnExit/OnEnter hooks.
func modeCommitSystem(cmd *Commands, modes *ViewModes) {
	prev := modes.Snapshot().FreeRoam
	if modes.Commit() {
		cmd.app.changeState(prev, modes.Snapshot().FreeRoam)
	}
}
