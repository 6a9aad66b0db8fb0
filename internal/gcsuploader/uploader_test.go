package gcsuploader

import "testing"

func TestReportObjectName(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{"revenue-2025-07.csv", "reports/revenue-2025-07.csv"},
		{"/tmp/out/revenue-2025-07.csv", "reports/revenue-2025-07.csv"},
	}

	for _, tt := range tests {
		if got := ReportObjectName(tt.path); got != tt.want {
			t.Errorf("ReportObjectName(%q) = %q, want %q", tt.path, got, tt.want)
		}
	}
}
