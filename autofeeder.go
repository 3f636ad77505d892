package autofeeder

const (
	// MaxTasks is the number of schedule slots on the device
	MaxTasks = 6

	// MaxPayloadSize is the largest payload accepted in a single frame
	MaxPayloadSize = 8

	// InactiveHour is written to a slot's hour to mark it removed
	InactiveHour = 100
)

// TimeOfDay is the hour:minute granularity used for scheduling
type TimeOfDay struct {
	Hour   uint8
	Minute uint8
}

// Valid is true when the time is a real time of day. Slots holding an invalid time are inactive
func (t TimeOfDay) Valid() bool {
	return t.Hour <= 23 && t.Minute <= 59
}

// Inactive is the sentinel time stored in a removed slot
func Inactive() TimeOfDay {
	return TimeOfDay{Hour: InactiveHour, Minute: 0}
}

func (t TimeOfDay) String() string {
	if !t.Valid() {
		return "--:--"
	}
	return twoDigits(t.Hour) + ":" + twoDigits(t.Minute)
}

func twoDigits(v uint8) string {
	return string([]byte{'0' + v/10, '0' + v%10})
}

// Command is the first byte of every inbound frame
type Command byte

const (
	CommandAddTask    Command = 0x00
	CommandRemoveTask Command = 0x01
	CommandListTasks  Command = 0x02
	CommandSetClock   Command = 0x03
	CommandFireNow    Command = 0x04
)

func (c Command) String() string {
	switch c {
	case CommandAddTask:
		return "AddTask"
	case CommandRemoveTask:
		return "RemoveTask"
	case CommandListTasks:
		return "ListTasks"
	case CommandSetClock:
		return "SetClock"
	case CommandFireNow:
		return "FireNow"
	default:
		return "Unknown"
	}
}
