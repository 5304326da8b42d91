package livestatus

import "testing"

func TestLocaltimeOffset_RoundsToHalfHour(t *testing.T) {
	tests := []struct {
		name   string
		client int64
		server int64
		want   int64
	}{
		{"no skew", 1000, 1000, 0},
		{"rounds down", 1000 + 600, 1000, 0},
		{"rounds up", 1000 + 1000, 1000, 1800},
		{"negative rounds toward zero magnitude", 1000 - 600, 1000, 0},
		{"one full half hour", 1000 + 1800, 1000, 1800},
		{"negative half hour", 1000 - 1800, 1000, -1800},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := LocaltimeOffset(tt.client, tt.server)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("LocaltimeOffset(%d, %d) = %d, want %d", tt.client, tt.server, got, tt.want)
			}
		})
	}
}

func TestLocaltimeOffset_RejectsImplausibleSkew(t *testing.T) {
	_, err := LocaltimeOffset(1000+49*1800, 1000)
	if err == nil {
		t.Errorf("expected error for skew beyond 48 half-hours")
	}
}

func TestLocaltimeOffset_AcceptsBoundary(t *testing.T) {
	_, err := LocaltimeOffset(1000+48*1800, 1000)
	if err != nil {
		t.Errorf("unexpected error at the 48-half-hour boundary: %v", err)
	}
}
