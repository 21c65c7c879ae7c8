package chart

import "testing"

func TestWeekStarts_SevenDayStride(t *testing.T) {
	start := day(1)
	end := at(25, 15) // 3.5 weeks later

	weeks := WeekStarts(start, end, testLoc)

	if len(weeks) != 4 {
		t.Fatalf("got %d weeks, want 4", len(weeks))
	}
	if !weeks[0].Equal(start) {
		t.Errorf("first week = %v, want %v", weeks[0], start)
	}
	for i := 1; i < len(weeks); i++ {
		if want := weeks[i-1].AddDate(0, 0, 7); !weeks[i].Equal(want) {
			t.Errorf("week %d = %v, want %v", i, weeks[i], want)
		}
	}
}

func TestWeekStarts_StartEqualsEnd(t *testing.T) {
	weeks := WeekStarts(day(1), day(1), testLoc)
	if len(weeks) != 1 {
		t.Fatalf("got %d weeks, want 1", len(weeks))
	}
	if !weeks[0].Equal(day(1)) {
		t.Errorf("week = %v, want %v", weeks[0], day(1))
	}
}

func TestWeekStarts_EndBeforeStart(t *testing.T) {
	weeks := WeekStarts(day(5), day(1), testLoc)
	if len(weeks) != 1 {
		t.Fatalf("got %d weeks, want 1", len(weeks))
	}
}

func TestWeekStarts_TruncatesStartToMidnight(t *testing.T) {
	weeks := WeekStarts(at(1, 17), at(2, 9), testLoc)
	if !weeks[0].Equal(day(1)) {
		t.Errorf("first week = %v, want midnight", weeks[0])
	}
}

func TestWeekStarts_FinalPartialWeekIncluded(t *testing.T) {
	// End falls one day into the second window.
	weeks := WeekStarts(day(1), at(8, 10), testLoc)
	if len(weeks) != 2 {
		t.Fatalf("got %d weeks, want 2", len(weeks))
	}
	if !weeks[1].Equal(day(8)) {
		t.Errorf("second week = %v, want %v", weeks[1], day(8))
	}
}

func TestWeekStarts_Restartable(t *testing.T) {
	a := WeekStarts(day(1), day(20), testLoc)
	b := WeekStarts(day(1), day(20), testLoc)
	if len(a) != len(b) {
		t.Fatalf("lengths differ: %d vs %d", len(a), len(b))
	}
	for i := range a {
		if !a[i].Equal(b[i]) {
			t.Errorf("element %d differs: %v vs %v", i, a[i], b[i])
		}
	}
}
