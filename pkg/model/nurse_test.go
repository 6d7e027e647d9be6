package model

import "testing"

func TestNormalizeEmploymentType(t *testing.T) {
	tests := []struct {
		name  string
		value string
		want  string
	}{
		{"标准全职", "full_time", EmploymentFullTime},
		{"连字符写法", "Full-Time", EmploymentFullTime},
		{"缩写ft", "ft", EmploymentFullTime},
		{"空值回退全职", "", EmploymentFullTime},
		{"带空白", "  part time ", EmploymentPartTime},
		{"缩写pt", "pt", EmploymentPartTime},
		{"临时工", "temp", EmploymentContract},
		{"temporary", "Temporary", EmploymentContract},
		{"未知值原样透传", "intern", "intern"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NormalizeEmploymentType(tt.value); got != tt.want {
				t.Errorf("NormalizeEmploymentType(%q) = %q, want %q", tt.value, got, tt.want)
			}
		})
	}
}

func TestNurse_IsSenior(t *testing.T) {
	tests := []struct {
		name  string
		level int
		want  bool
	}{
		{"初级", 1, false},
		{"资深", 2, true},
		{"更高职级", 5, true},
		{"零值", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n := &Nurse{Level: tt.level}
			if got := n.IsSenior(); got != tt.want {
				t.Errorf("Level %d: IsSenior() = %v, want %v", tt.level, got, tt.want)
			}
		})
	}
}
