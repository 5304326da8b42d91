package livestatus

import "testing"

func TestParsePerfdata_Basic(t *testing.T) {
	got := parsePerfdata("time=0.021s;;;0.000;10.000 size=1234B;;;0")
	if got["time"] != 0.021 {
		t.Errorf("time = %v, want 0.021", got["time"])
	}
	if got["size"] != 1234 {
		t.Errorf("size = %v, want 1234", got["size"])
	}
}

func TestParsePerfdata_QuotedLabel(t *testing.T) {
	got := parsePerfdata("'disk space'=5632MB;6000;6500;0;7000")
	if got["disk space"] != 5632 {
		t.Errorf("'disk space' = %v, want 5632", got["disk space"])
	}
}

func TestParsePerfdata_SkipsMalformedTokens(t *testing.T) {
	got := parsePerfdata("ok=1 noequals notanumber=abc another=2")
	if len(got) != 2 {
		t.Fatalf("expected 2 parsed values, got %d: %v", len(got), got)
	}
	if got["ok"] != 1 || got["another"] != 2 {
		t.Errorf("unexpected parse result: %v", got)
	}
}

func TestParsePerfdata_Empty(t *testing.T) {
	got := parsePerfdata("")
	if len(got) != 0 {
		t.Errorf("expected no values from empty string, got %v", got)
	}
}

func TestParsePerfdata_NegativeAndPercent(t *testing.T) {
	got := parsePerfdata("offset=-3.5 load=42%")
	if got["offset"] != -3.5 {
		t.Errorf("offset = %v, want -3.5", got["offset"])
	}
	if got["load"] != 42 {
		t.Errorf("load = %v, want 42", got["load"])
	}
}

func TestSplitPerfdataFields_HonorsQuoting(t *testing.T) {
	fields := splitPerfdataFields("'disk space'=1MB plain=2")
	if len(fields) != 2 {
		t.Fatalf("expected 2 fields, got %d: %v", len(fields), fields)
	}
	if fields[0] != "disk space=1MB" {
		t.Errorf("fields[0] = %q, want %q", fields[0], "disk space=1MB")
	}
}

func TestStripUnit(t *testing.T) {
	tests := []struct{ in, want string }{
		{"10.000", "10.000"},
		{"1234B", "1234"},
		{"5632MB", "5632"},
		{"0.021s", "0.021"},
		{"-3.5", "-3.5"},
		{"42%", "42"},
		{"100c", "100"},
	}
	for _, tt := range tests {
		if got := stripUnit(tt.in); got != tt.want {
			t.Errorf("stripUnit(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
