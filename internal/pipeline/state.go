package pipeline

// RunState carries the run's failed flag from gate to gate. The zero value
// has not failed. Once failed, every state derived from it has failed too.
type RunState struct {
	failed bool
}

// Failed reports whether any stage or check so far has failed.
func (s RunState) Failed() bool {
	return s.failed
}

// Merge returns the state after one more outcome.
func (s RunState) Merge(failed bool) RunState {
	return RunState{failed: s.failed || failed}
}
