package synccmd

type (
	// Sent to update the total target count.
	EventSetTargetTotal int

	// Sent when a target sync has started.
	EventSyncingTarget string

	// Sent when a target has been synced, or when a fatal error occurs while
	// syncing a target.
	EventSyncedTarget struct {
		Err    error
		Target string
	}

	// Sent when all work has completed.
	EventDone struct {
		Err error
	}
)
