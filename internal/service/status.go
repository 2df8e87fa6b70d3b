package service

// SyncStatus is the sync-side state machine. One enum, not a pile of
// booleans: the UI shows exactly one of these at a time.
type SyncStatus int

const (
	SyncIdle SyncStatus = iota
	SyncReconciling
	// SyncDegraded means the last remote fetch failed; the app serves the
	// local cache and does not retry on its own.
	SyncDegraded
)

func (s SyncStatus) String() string {
	switch s {
	case SyncReconciling:
		return "syncing"
	case SyncDegraded:
		return "offline"
	default:
		return "idle"
	}
}

// MutationStatus is the write-path state machine.
type MutationStatus int

const (
	MutationIdle MutationStatus = iota
	MutationSaving
	// MutationFailed means the optimistic local write stuck but the
	// remote persist failed. The local state is not rolled back.
	MutationFailed
)

func (s MutationStatus) String() string {
	switch s {
	case MutationSaving:
		return "saving"
	case MutationFailed:
		return "save failed"
	default:
		return "idle"
	}
}
