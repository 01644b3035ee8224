package process

import "testing"

func TestMatchName(t *testing.T) {
	tests := []struct {
		procName string
		query    string
		want     bool
	}{
		{"Terraria.exe", "terraria", true},
		{"terraria", "Terraria.exe", true},
		{"TERRARIA.EXE", "Terraria.exe", true},
		{"Terraria.bin", "terraria", true},
		{"Terraria", "Terrarium", false},
		{"steam", "terraria", false},
		{"", "", true},
	}
	for _, tt := range tests {
		if got := MatchName(tt.procName, tt.query); got != tt.want {
			t.Errorf("MatchName(%q, %q) = %v, want %v", tt.procName, tt.query, got, tt.want)
		}
	}
}

func TestValueString(t *testing.T) {
	if got := Int32Value(-5).String(); got != "int32(-5)" {
		t.Errorf("String() = %q, want %q", got, "int32(-5)")
	}
	if got := Float32Value(2.5).String(); got != "float32(2.5)" {
		t.Errorf("String() = %q, want %q", got, "float32(2.5)")
	}
	if got := Float64Value(0).Size(); got != 8 {
		t.Errorf("Size() = %d, want 8", got)
	}
	if got := Int32Value(0).Size(); got != 4 {
		t.Errorf("Size() = %d, want 4", got)
	}
}
