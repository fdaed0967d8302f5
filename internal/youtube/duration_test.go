package youtube

import "testing"

func TestParseDuration(t *testing.T) {
	tests := []struct {
		iso     string
		want    int
		wantErr bool
	}{
		{iso: "PT1H2M3S", want: 3723},
		{iso: "PT45S", want: 45},
		{iso: "PT0S", want: 0},
		{iso: "PT10M", want: 600},
		{iso: "PT2H", want: 7200},
		{iso: "PT1H30S", want: 3630},
		{iso: "PT90M", want: 5400},
		{iso: "", wantErr: true},
		{iso: "1h2m", wantErr: true},
		{iso: "P1DT2H", wantErr: true},
		{iso: "PTXS", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.iso, func(t *testing.T) {
			got, err := ParseDuration(tt.iso)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("ParseDuration(%q) = %d, want error", tt.iso, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseDuration(%q) error = %v", tt.iso, err)
			}
			if got != tt.want {
				t.Errorf("ParseDuration(%q) = %d, want %d", tt.iso, got, tt.want)
			}
		})
	}
}
