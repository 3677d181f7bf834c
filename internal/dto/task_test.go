package dto

import (
	"encoding/json"
	"testing"
	"time"
)

func TestDueAtUnmarshal(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want *time.Time
	}{
		{
			"date only becomes start of day UTC",
			`"2026-02-19"`,
			tp(time.Date(2026, 2, 19, 0, 0, 0, 0, time.UTC)),
		},
		{
			"rfc3339",
			`"2026-02-19T15:04:05Z"`,
			tp(time.Date(2026, 2, 19, 15, 4, 5, 0, time.UTC)),
		},
		{
			"datetime without zone",
			`"2026-02-19T15:04:05"`,
			tp(time.Date(2026, 2, 19, 15, 4, 5, 0, time.UTC)),
		},
		{"null", `null`, nil},
		{"empty string", `""`, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var d DueAt
			if err := json.Unmarshal([]byte(tt.in), &d); err != nil {
				t.Fatalf("unmarshal %s: %v", tt.in, err)
			}
			got := d.Ptr()
			if tt.want == nil {
				if got != nil {
					t.Errorf("got %v, want nil", got)
				}
				return
			}
			if got == nil || !got.Equal(*tt.want) {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestDueAtUnmarshalRejectsGarbage(t *testing.T) {
	var d DueAt
	if err := json.Unmarshal([]byte(`"next tuesday"`), &d); err == nil {
		t.Error("garbage date accepted")
	}
}

func tp(t time.Time) *time.Time { return &t }
