package concurrency

import (
	"testing"
	"time"
)

func TestClassify(t *testing.T) {
	now := time.Now()
	cases := []struct {
		usage, size int
		want        Level
	}{
		{50, 100, LevelOK},
		{70, 100, LevelWarning},
		{85, 100, LevelCaution},
		{90, 100, LevelCritical},
		{95, 100, LevelEmergency},
	}
	for _, c := range cases {
		r := Reading{ContextWindowSize: c.size, CurrentUsage: c.usage, RecordedAt: now}
		if got := Classify(r, now); got != c.want {
			t.Errorf("Classify(%d/%d) = %s, want %s", c.usage, c.size, got, c.want)
		}
	}
}

func TestClassifyStaleOverridesUsage(t *testing.T) {
	r := Reading{ContextWindowSize: 100, CurrentUsage: 99, RecordedAt: time.Now().Add(-time.Minute)}
	if got := Classify(r, time.Now()); got != LevelStale {
		t.Fatalf("expected stale reading to classify as stale regardless of usage, got %s", got)
	}
}

func TestExitCodeMapping(t *testing.T) {
	cases := map[Level]int{
		LevelOK:        0,
		LevelWarning:   50,
		LevelCaution:   51,
		LevelCritical:  52,
		LevelEmergency: 53,
		LevelStale:     54,
	}
	for level, want := range cases {
		if got := ExitCode(level); got != want {
			t.Errorf("ExitCode(%s) = %d, want %d", level, got, want)
		}
	}
}

func TestMonitorRecordDedupesRepeatAlertsAtSameLevel(t *testing.T) {
	dir := t.TempDir()
	m := &Monitor{Layout: testLayout(dir), SuppressDuration: time.Hour}

	r := Reading{ContextWindowSize: 100, CurrentUsage: 72, RecordedAt: time.Now()}
	_, firstAlert, err := m.Record("s1", r)
	if err != nil {
		t.Fatal(err)
	}
	if !firstAlert {
		t.Fatal("expected first crossing into warning to alert")
	}

	_, secondAlert, err := m.Record("s1", r)
	if err != nil {
		t.Fatal(err)
	}
	if secondAlert {
		t.Fatal("expected repeat at the same level within suppress window to not re-alert")
	}
}

func TestMonitorRecordAlertsOnAdvance(t *testing.T) {
	dir := t.TempDir()
	m := &Monitor{Layout: testLayout(dir), SuppressDuration: time.Hour}

	warn := Reading{ContextWindowSize: 100, CurrentUsage: 72, RecordedAt: time.Now()}
	if _, alert, err := m.Record("s1", warn); err != nil || !alert {
		t.Fatalf("expected initial warning alert, alert=%v err=%v", alert, err)
	}

	critical := Reading{ContextWindowSize: 100, CurrentUsage: 91, RecordedAt: time.Now()}
	_, alert, err := m.Record("s1", critical)
	if err != nil {
		t.Fatal(err)
	}
	if !alert {
		t.Fatal("expected advancing to critical to re-alert despite suppress window")
	}
}
