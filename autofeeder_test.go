package autofeeder

import "testing"

func TestTimeOfDay(t *testing.T) {
	tests := []struct {
		name  string
		in    TimeOfDay
		valid bool
		str   string
	}{
		{"Midnight", TimeOfDay{0, 0}, true, "00:00"},
		{"LastMinute", TimeOfDay{23, 59}, true, "23:59"},
		{"Afternoon", TimeOfDay{14, 30}, true, "14:30"},
		{"Sentinel", Inactive(), false, "--:--"},
		{"MinuteOutOfRange", TimeOfDay{10, 60}, false, "--:--"},
		{"BlankEEPROM", TimeOfDay{0xFF, 0xFF}, false, "--:--"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.in.Valid() != tt.valid {
				t.Errorf("expected valid=%v, got %v", tt.valid, tt.in.Valid())
			}
			if tt.in.String() != tt.str {
				t.Errorf("expected=%q, got=%q", tt.str, tt.in.String())
			}
		})
	}
}

func TestCommandString(t *testing.T) {
	if CommandSetClock.String() != "SetClock" {
		t.Errorf("unexpected name: %s", CommandSetClock)
	}
	if Command(0x7F).String() != "Unknown" {
		t.Errorf("unexpected name: %s", Command(0x7F))
	}
}
