package scheduling

import (
	"reflect"
	"testing"
)

func TestClockToMinutes(t *testing.T) {
	m, err := ClockToMinutes("09:30")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if m != 570 {
		t.Fatalf("expected 570, got %d", m)
	}

	if _, err := ClockToMinutes("25:99"); err == nil {
		t.Fatal("expected error for invalid clock")
	}
}

func TestMinutesToClock(t *testing.T) {
	if got := MinutesToClock(570); got != "09:30" {
		t.Fatalf("expected 09:30, got %s", got)
	}
	if got := MinutesToClock(0); got != "00:00" {
		t.Fatalf("expected 00:00, got %s", got)
	}
}

func TestMergeFusesOverlappingAndAdjacent(t *testing.T) {
	got := Merge([]Interval{
		{Start: 540, End: 600},
		{Start: 590, End: 660},
		{Start: 660, End: 720},
		{Start: 800, End: 860},
	})

	want := []Interval{
		{Start: 540, End: 720},
		{Start: 800, End: 860},
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
}

func TestMergeDropsEmptyIntervals(t *testing.T) {
	got := Merge([]Interval{
		{Start: 600, End: 600},
		{Start: 700, End: 650},
	})
	if got != nil {
		t.Fatalf("expected nil, got %v", got)
	}
}

func TestSubtractSplitsInterval(t *testing.T) {
	free := []Interval{{Start: 540, End: 1080}}

	got := Subtract(free, Interval{Start: 720, End: 780})

	want := []Interval{
		{Start: 540, End: 720},
		{Start: 780, End: 1080},
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
}

func TestSubtractRemovesFullyCoveredInterval(t *testing.T) {
	free := []Interval{{Start: 600, End: 660}}

	got := Subtract(free, Interval{Start: 540, End: 720})

	if len(got) != 0 {
		t.Fatalf("expected empty, got %v", got)
	}
}

func TestSubtractIgnoresNonOverlapping(t *testing.T) {
	free := []Interval{{Start: 540, End: 600}}

	got := Subtract(free, Interval{Start: 600, End: 660})

	if !reflect.DeepEqual(got, free) {
		t.Fatalf("expected untouched %v, got %v", free, got)
	}
}

func TestSubtractAll(t *testing.T) {
	free := []Interval{{Start: 540, End: 1080}}
	busy := []Interval{
		{Start: 540, End: 600},
		{Start: 720, End: 780},
		{Start: 1020, End: 1080},
	}

	got := SubtractAll(free, busy)

	want := []Interval{
		{Start: 600, End: 720},
		{Start: 780, End: 1020},
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
}
