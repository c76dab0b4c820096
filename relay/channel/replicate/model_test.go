package replicate

import (
	"encoding/json"
	"testing"
)

func TestOutputURL(t *testing.T) {
	tests := []struct {
		name    string
		output  string
		want    string
		wantErr bool
	}{
		{
			name:   "single string",
			output: `"https://replicate.delivery/pbxt/abc/out.png"`,
			want:   "https://replicate.delivery/pbxt/abc/out.png",
		},
		{
			name:   "list takes first element",
			output: `["https://replicate.delivery/pbxt/a.png", "https://replicate.delivery/pbxt/b.png"]`,
			want:   "https://replicate.delivery/pbxt/a.png",
		},
		{
			name:    "empty list",
			output:  `[]`,
			wantErr: true,
		},
		{
			name:    "missing output",
			output:  "",
			wantErr: true,
		},
		{
			name:    "unexpected object",
			output:  `{"url": "https://replicate.delivery/pbxt/a.png"}`,
			wantErr: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := &Prediction{}
			if tt.output != "" {
				p.Output = json.RawMessage(tt.output)
			}
			got, err := p.OutputURL()
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error, got %q", got)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}
