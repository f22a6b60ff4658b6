package camrig

// ApplyInputGate attaches or removes the player's PlayerInputEnabled marker
// so that the player only takes movement input outside Free mode. It
// returns the number of mutations it queued; a second call with the same
// mode (after a flush) queues none.
func ApplyInputGate(cmd *Commands, mode FreeRoamMode) int {
	allow := mode != FreeRoamFree

	eid, _, ok := MakeQuery1[TransformComponent](cmd).
		WithTypes(Player{}).
		Single()
	if !ok {
		return 0
	}

	queued := 0
	has := HasComponent[PlayerInputEnabled](cmd, eid)
	switch {
	case allow && !has:
		cmd.AddComponents(eid, PlayerInputEnabled{})
		queued++
	case !allow && has:
		cmd.RemoveComponents(eid, PlayerInputEnabled{})
		queued++
	}
	return queued
}

func inputGateSystem(cmd *Commands, modes *ViewModes) {
	ApplyInputGate(cmd, modes.Snapshot().FreeRoam)
}
