package scheduling

// transitions lists the statuses reachable from each status. Terminal
// statuses have no entry.
var transitions = map[string][]string{
	StatusScheduled: {StatusCompleted, StatusCancelled, StatusNoShow},
}

var validStatuses = map[string]bool{
	StatusScheduled: true,
	StatusCompleted: true,
	StatusCancelled: true,
	StatusNoShow:    true,
}

func ValidStatus(s string) bool {
	return validStatuses[s]
}

func CanTransition(from, to string) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// canPatientCancel also accepts an already cancelled appointment; repeating a
// cancellation re-sends the email.
func canPatientCancel(from string) bool {
	return from == StatusCancelled || CanTransition(from, StatusCancelled)
}
