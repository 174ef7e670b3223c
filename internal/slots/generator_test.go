package slots

import "testing"

func TestGenerate(t *testing.T) {
	tests := []struct {
		name          string
		open          string
		close         string
		step          int
		expectedCount int
		first         string
		last          string
	}{
		{
			name:          "default restaurant hours",
			open:          "11:00",
			close:         "22:00",
			step:          30,
			expectedCount: 23, // 11 hours on a 30-minute grid, both bounds included
			first:         "11:00",
			last:          "22:00",
		},
		{
			name:          "close off the grid is excluded",
			open:          "11:00",
			close:         "12:15",
			step:          30,
			expectedCount: 3,
			first:         "11:00",
			last:          "12:00",
		},
		{
			name:          "hourly step",
			open:          "09:00",
			close:         "12:00",
			step:          60,
			expectedCount: 4,
			first:         "09:00",
			last:          "12:00",
		},
		{
			name:          "close equals open yields single slot",
			open:          "11:00",
			close:         "11:00",
			step:          30,
			expectedCount: 1,
			first:         "11:00",
			last:          "11:00",
		},
		{
			name:          "close before open yields nothing",
			open:          "22:00",
			close:         "11:00",
			step:          30,
			expectedCount: 0,
		},
		{
			name:          "malformed open yields nothing",
			open:          "eleven",
			close:         "22:00",
			step:          30,
			expectedCount: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			grid := Generate(tt.open, tt.close, tt.step)

			if len(grid) != tt.expectedCount {
				t.Fatalf("expected %d slots, got %d: %v", tt.expectedCount, len(grid), grid)
			}
			if tt.expectedCount == 0 {
				return
			}

			if grid[0] != tt.first {
				t.Errorf("expected first slot %s, got %s", tt.first, grid[0])
			}
			if grid[len(grid)-1] != tt.last {
				t.Errorf("expected last slot %s, got %s", tt.last, grid[len(grid)-1])
			}

			for i := 1; i < len(grid); i++ {
				if grid[i] <= grid[i-1] {
					t.Errorf("grid not strictly increasing at %d: %s <= %s", i, grid[i], grid[i-1])
				}
			}
		})
	}
}

func TestGenerateDeterministic(t *testing.T) {
	a := Generate("11:00", "22:00", 30)
	b := Generate("11:00", "22:00", 30)

	if len(a) != len(b) {
		t.Fatalf("lengths differ: %d vs %d", len(a), len(b))
	}
	for i := range a {
		if a[i] != b[i] {
			t.Errorf("slot %d differs: %s vs %s", i, a[i], b[i])
		}
	}
}

func TestGenerateZeroStepFallsBack(t *testing.T) {
	grid := Generate("11:00", "12:00", 0)
	if len(grid) != 3 {
		t.Fatalf("expected default 30-minute step, got %v", grid)
	}
}

func TestContains(t *testing.T) {
	grid := Generate("11:00", "12:00", 30)

	if !Contains(grid, "11:30") {
		t.Error("expected 11:30 on the grid")
	}
	if Contains(grid, "11:45") {
		t.Error("11:45 should not be on the grid")
	}
}
