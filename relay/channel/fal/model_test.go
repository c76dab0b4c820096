package fal

import "testing"

func TestResultImageURL(t *testing.T) {
	testCases := []struct {
		name    string
		body    string
		want    string
		wantErr bool
	}{
		{
			name: "image object",
			body: `{"image": {"url": "https://cdn.fal.ai/r/1.png", "width": 768}}`,
			want: "https://cdn.fal.ai/r/1.png",
		},
		{
			name: "image string",
			body: `{"image": "https://cdn.fal.ai/r/2.png"}`,
			want: "https://cdn.fal.ai/r/2.png",
		},
		{
			name: "images list of objects",
			body: `{"images": [{"url": "https://cdn.fal.ai/r/3.png"}, {"url": "https://cdn.fal.ai/r/4.png"}]}`,
			want: "https://cdn.fal.ai/r/3.png",
		},
		{
			name: "images list of strings",
			body: `{"images": ["https://cdn.fal.ai/r/5.png"]}`,
			want: "https://cdn.fal.ai/r/5.png",
		},
		{
			name:    "neither key",
			body:    `{"detail": "unexpected"}`,
			wantErr: true,
		},
		{
			name:    "not json",
			body:    `<html>502</html>`,
			wantErr: true,
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ResultImageURL([]byte(tc.body))
			if tc.wantErr {
				if err == nil {
					t.Fatalf("expected error, got %q", got)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tc.want {
				t.Errorf("got %q, want %q", got, tc.want)
			}
		})
	}
}
