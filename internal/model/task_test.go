package model

import "testing"

func TestPriorityWeight(t *testing.T) {
	cases := map[Priority]int{
		PriorityLow: 1, PriorityMedium: 2, PriorityHigh: 5, PriorityCritical: 10, Priority("bogus"): 0,
	}
	for p, want := range cases {
		if got := p.Weight(); got != want {
			t.Errorf("Priority(%q).Weight() = %d, want %d", p, got, want)
		}
	}
}

func TestSizeWeight(t *testing.T) {
	cases := map[Size]int{
		SizeSmall: 1, SizeMedium: 3, SizeLarge: 8, Size("bogus"): 0,
	}
	for s, want := range cases {
		if got := s.Weight(); got != want {
			t.Errorf("Size(%q).Weight() = %d, want %d", s, got, want)
		}
	}
}

func TestTaskTypeIsValidAllowsEmptyAsUnspecified(t *testing.T) {
	if !TaskType("").IsValid() {
		t.Error("expected the empty TaskType to be valid (unspecified)")
	}
	if TaskType("bogus").IsValid() {
		t.Error("expected an unknown TaskType to be invalid")
	}
}

func TestSizeIsValidRejectsEmpty(t *testing.T) {
	if Size("").IsValid() {
		t.Error("expected the empty Size to be invalid, unlike TaskType")
	}
}

func TestTaskScoreAppliesActiveBonusAndBlockedPenalty(t *testing.T) {
	base := &Task{Priority: PriorityMedium, Size: SizeMedium, Status: StatusPending}
	active := &Task{Priority: PriorityMedium, Size: SizeMedium, Status: StatusActive}
	blocked := &Task{Priority: PriorityMedium, Size: SizeMedium, Status: StatusBlocked}

	if active.Score() != base.Score()+50 {
		t.Errorf("active score = %d, want base+50 = %d", active.Score(), base.Score()+50)
	}
	if blocked.Score() != base.Score()-20 {
		t.Errorf("blocked score = %d, want base-20 = %d", blocked.Score(), base.Score()-20)
	}
}

func TestTaskScoreHigherPriorityOutranksSmallerSize(t *testing.T) {
	critical := &Task{Priority: PriorityCritical, Size: SizeLarge, Status: StatusPending}
	low := &Task{Priority: PriorityLow, Size: SizeSmall, Status: StatusPending}
	if critical.Score() <= low.Score() {
		t.Errorf("critical/large score %d should exceed low/small score %d", critical.Score(), low.Score())
	}
}

func TestParseNumericIDRoundTripsWithFormatID(t *testing.T) {
	n, ok := ParseNumericID(FormatID(42))
	if !ok || n != 42 {
		t.Errorf("ParseNumericID(FormatID(42)) = (%d, %v), want (42, true)", n, ok)
	}
}

func TestParseNumericIDRejectsMalformed(t *testing.T) {
	for _, id := range []string{"", "T", "42", "Tabc", "T0"} {
		if _, ok := ParseNumericID(id); ok {
			t.Errorf("ParseNumericID(%q) unexpectedly succeeded", id)
		}
	}
}

func TestIsLiveExcludesOnlyCancelled(t *testing.T) {
	for _, s := range []Status{StatusPending, StatusActive, StatusBlocked, StatusDone} {
		if !(&Task{Status: s}).IsLive() {
			t.Errorf("status %q should be live", s)
		}
	}
	if (&Task{Status: StatusCancelled}).IsLive() {
		t.Error("cancelled should not be live")
	}
}
