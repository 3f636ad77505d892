package ui

import "github.com/calvinmclean/autofeeder"

type state int

const (
	stateUnknown state = iota
	stateInactive
	stateActive
	// stateUnconfirmed means the device didn't report the value that was just sent
	stateUnconfirmed
)

func (s state) String() string {
	switch s {
	case stateInactive:
		return "Off"
	case stateActive:
		return "On"
	case stateUnconfirmed:
		return "Not confirmed"
	default:
		return "Unknown"
	}
}

// slot is what the UI shows for one task slot
type slot struct {
	Time  autofeeder.TimeOfDay
	State state
}

func slotsFromList(list []autofeeder.TimeOfDay) [autofeeder.MaxTasks]slot {
	var result [autofeeder.MaxTasks]slot
	for i := range result {
		if i >= len(list) {
			continue
		}
		result[i].Time = list[i]
		result[i].State = stateInactive
		if list[i].Valid() {
			result[i].State = stateActive
		}
	}
	return result
}
