package agenda

import (
	"errors"
	"testing"

	"gopkg.in/yaml.v3"
)

func TestParseTimeOfDay(t *testing.T) {
	tests := []struct {
		input string
		want  TimeOfDay
		err   bool
	}{
		{"09:00", At(9, 0), false},
		{"9:05", At(9, 5), false},
		{" 23:59 ", At(23, 59), false},
		{"24:00", At(24, 0), false},
		{"24:01", TimeOfDay{}, true},
		{"25:00", TimeOfDay{}, true},
		{"10:60", TimeOfDay{}, true},
		{"1000", TimeOfDay{}, true},
		{"ab:cd", TimeOfDay{}, true},
		{"", TimeOfDay{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseTimeOfDay(tt.input)
			if tt.err {
				if !errors.Is(err, ErrInvalidTime) {
					t.Errorf("ParseTimeOfDay(%q) error = %v, want ErrInvalidTime", tt.input, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseTimeOfDay(%q) unexpected error: %v", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("ParseTimeOfDay(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestTimeOfDayHours(t *testing.T) {
	if got := At(10, 30).Hours(); got != 10.5 {
		t.Errorf("10:30 Hours() = %v, want 10.5", got)
	}
	if got := At(0, 15).Hours(); got != 0.25 {
		t.Errorf("00:15 Hours() = %v, want 0.25", got)
	}
}

func TestTimeOfDayStringAndOrder(t *testing.T) {
	if got := At(7, 5).String(); got != "07:05" {
		t.Errorf("String() = %q, want 07:05", got)
	}
	if !At(9, 0).Before(At(9, 1)) {
		t.Error("09:00 should be before 09:01")
	}
	if At(9, 0).Before(At(9, 0)) {
		t.Error("Before must be strict")
	}
}

func TestTimeOfDayYAML(t *testing.T) {
	type doc struct {
		Start TimeOfDay `yaml:"start"`
	}
	out, err := yaml.Marshal(doc{Start: At(18, 45)})
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	var back doc
	if err := yaml.Unmarshal(out, &back); err != nil {
		t.Fatalf("Unmarshal(%q): %v", out, err)
	}
	if back.Start != At(18, 45) {
		t.Errorf("round trip = %v, want 18:45", back.Start)
	}

	var d doc
	if err := yaml.Unmarshal([]byte("start: \"06:30\"\n"), &d); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if d.Start != At(6, 30) {
		t.Errorf("Unmarshal = %v, want 06:30", d.Start)
	}

	if err := yaml.Unmarshal([]byte("start: \"nope\"\n"), &d); err == nil {
		t.Error("Unmarshal should reject malformed times")
	}
}
