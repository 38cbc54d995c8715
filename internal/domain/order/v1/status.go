package orderv1

// Status is the lifecycle state of an order.
type Status string

const (
	StatusNew             Status = "new"
	StatusPending         Status = "pending"
	StatusExecuting       Status = "executing"
	StatusPartiallyFilled Status = "partially_filled"
	StatusExecuted        Status = "executed"
	StatusCanceled        Status = "canceled"
	StatusRemoved         Status = "removed"
	StatusStopping        Status = "stopping"
	StatusRejected        Status = "rejected"
)

var transitions = map[Status][]Status{
	StatusNew:             {StatusPending, StatusStopping, StatusRejected, StatusCanceled},
	StatusStopping:        {StatusPending, StatusCanceled, StatusRemoved},
	StatusPending:         {StatusExecuting, StatusPartiallyFilled, StatusExecuted, StatusCanceled, StatusRemoved, StatusRejected},
	StatusExecuting:       {StatusPartiallyFilled, StatusExecuted, StatusCanceled, StatusRemoved},
	StatusPartiallyFilled: {StatusExecuting, StatusExecuted, StatusCanceled, StatusRemoved},
}

// CanTransition reports whether an order in s may move to next.
func (s Status) CanTransition(next Status) bool {
	for _, allowed := range transitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// IsTerminal reports whether no further transition is possible.
func (s Status) IsTerminal() bool {
	switch s {
	case StatusExecuted, StatusCanceled, StatusRemoved, StatusRejected:
		return true
	}
	return false
}

// Cancelable reports whether a cancel command applies to an order in s.
func (s Status) Cancelable() bool {
	return s.CanTransition(StatusCanceled)
}
