package ops

// Phase is the lifecycle position of one (app, kind) pair.
//
//	Idle -> Running -> Succeeded | Failed -> Idle
//
// Settled phases return to Idle when the next operation on the same app begins.
type Phase int

const (
	Idle Phase = iota
	Running
	Succeeded
	Failed
)

func (p Phase) String() string {
	switch p {
	case Idle:
		return "idle"
	case Running:
		return "running"
	case Succeeded:
		return "succeeded"
	case Failed:
		return "failed"
	default:
		return "unknown"
	}
}

// Status is the OperationStatus of one kind on one app.
type Status struct {
	Phase   Phase
	Message string // set once settled
}

// Settled reports whether the operation reached Succeeded or Failed.
func (s Status) Settled() bool {
	return s.Phase == Succeeded || s.Phase == Failed
}
