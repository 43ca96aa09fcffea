package scheduling

import (
	"testing"
	"time"
)

func TestSlotsFixedGrid(t *testing.T) {
	slots := Slots()
	if len(slots) != 8 {
		t.Fatalf("expected 8 slots, got %d", len(slots))
	}
	for i, want := range []string{"09:00", "10:00", "11:00", "12:00", "13:00", "14:00", "15:00", "16:00"} {
		if got := slots[i].String(); got != want {
			t.Errorf("slot %d: got %s, want %s", i, got, want)
		}
	}
}

func TestGenerateSlots(t *testing.T) {
	tests := []struct {
		name        string
		start, end  time.Duration
		granularity time.Duration
		want        []string
	}{
		{
			name:  "full working day",
			start: 9 * time.Hour, end: 17 * time.Hour, granularity: time.Hour,
			want: []string{"09:00", "10:00", "11:00", "12:00", "13:00", "14:00", "15:00", "16:00"},
		},
		{
			name:  "last slot excluded when it would overrun",
			start: 9 * time.Hour, end: 12*time.Hour + 30*time.Minute, granularity: time.Hour,
			want: []string{"09:00", "10:00", "11:00"},
		},
		{
			name:  "half hour granularity",
			start: 9 * time.Hour, end: 11 * time.Hour, granularity: 30 * time.Minute,
			want: []string{"09:00", "09:30", "10:00", "10:30"},
		},
		{
			name:  "window shorter than granularity",
			start: 9 * time.Hour, end: 9*time.Hour + 15*time.Minute, granularity: time.Hour,
			want: nil,
		},
		{
			name:  "empty window",
			start: 9 * time.Hour, end: 9 * time.Hour, granularity: time.Hour,
			want: nil,
		},
		{
			name:  "inverted window",
			start: 17 * time.Hour, end: 9 * time.Hour, granularity: time.Hour,
			want: nil,
		},
		{
			name:  "zero granularity",
			start: 9 * time.Hour, end: 17 * time.Hour, granularity: 0,
			want: nil,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := GenerateSlots(tt.start, tt.end, tt.granularity)
			if len(got) != len(tt.want) {
				t.Fatalf("got %d slots, want %d (%v)", len(got), len(tt.want), got)
			}
			for i := range got {
				if got[i].String() != tt.want[i] {
					t.Errorf("slot %d: got %s, want %s", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestGenerateSlotsOrdered(t *testing.T) {
	slots := GenerateSlots(8*time.Hour, 18*time.Hour, 20*time.Minute)
	for i := 1; i < len(slots); i++ {
		if slots[i-1].minutes() >= slots[i].minutes() {
			t.Fatalf("slots out of order at %d: %s then %s", i, slots[i-1], slots[i])
		}
	}
}

func TestTimeOfDayAt(t *testing.T) {
	day := time.Date(2024, 6, 1, 15, 42, 13, 0, time.UTC)
	got := TimeOfDay{Hour: 9, Minute: 30}.At(day)
	want := time.Date(2024, 6, 1, 9, 30, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	if tod := TimeOfDayOf(got); tod != (TimeOfDay{Hour: 9, Minute: 30}) {
		t.Fatalf("round trip gave %v", tod)
	}
}
