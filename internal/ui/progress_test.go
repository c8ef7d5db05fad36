package ui

import (
	"errors"
	"strings"
	"testing"

	"syntex/internal/driver"
)

func TestApplyEventTracksStatus(t *testing.T) {
	files := []string{"a.stx", "b.stx", "c.stx"}
	m := newProgressModel("expand", files, nil)

	m.applyEvent(driver.Event{File: "a.stx", Stage: driver.StageExpand, Status: driver.StatusWorking})
	if got := m.items[0].status; got != "expanding" {
		t.Fatalf("a: got %q", got)
	}
	m.applyEvent(driver.Event{File: "a.stx", Stage: driver.StageWrite, Status: driver.StatusDone})
	m.applyEvent(driver.Event{File: "b.stx", Stage: driver.StageWrite, Status: driver.StatusCached})
	m.applyEvent(driver.Event{File: "c.stx", Stage: driver.StageExpand, Status: driver.StatusError, Err: errors.New("expansion failed")})
	m.applyEvent(driver.Event{File: "unknown.stx", Stage: driver.StageLoad, Status: driver.StatusWorking})

	want := []fileState{stateDone, stateCached, stateError}
	for i, w := range want {
		if m.items[i].status != w {
			t.Errorf("%s: got %q, want %q", files[i], m.items[i].status, w)
		}
	}
	if m.items[2].err != "expansion failed" {
		t.Errorf("error text not kept: %q", m.items[2].err)
	}
	if p := m.percent(); p != 1.0 {
		t.Errorf("percent = %v, want 1", p)
	}

	// поздние события не откатывают финальный статус
	m.applyEvent(driver.Event{File: "a.stx", Stage: driver.StageLoad, Status: driver.StatusWorking})
	if m.items[0].status != "done" {
		t.Errorf("final status was overwritten: %q", m.items[0].status)
	}
}

func TestPercentCountsStages(t *testing.T) {
	m := newProgressModel("expand", []string{"a", "b"}, nil)
	m.applyEvent(driver.Event{File: "a", Stage: driver.StageExpand, Status: driver.StatusWorking})
	if p := m.percent(); p != 0.2 {
		t.Errorf("percent = %v, want 0.2", p)
	}
}

func TestViewSummarisesCounts(t *testing.T) {
	m := newProgressModel("expand", []string{"a.stx", "b.stx"}, nil)
	m.applyEvent(driver.Event{File: "a.stx", Stage: driver.StageWrite, Status: driver.StatusCached})
	m.applyEvent(driver.Event{File: "b.stx", Stage: driver.StageExpand, Status: driver.StatusError, Err: errors.New("boom")})
	m.done = true

	view := m.View()
	for _, want := range []string{"done: expand [2/2], 1 failed, 1 cached", "a.stx", "boom"} {
		if !strings.Contains(view, want) {
			t.Errorf("view lacks %q:\n%s", want, view)
		}
	}
	if newProgressModel("empty", nil, nil).View() != "" {
		t.Error("empty model must render nothing")
	}
}

func TestTruncate(t *testing.T) {
	cases := []struct {
		in    string
		width int
		want  string
	}{
		{"short", 10, "short"},
		{"averylongname", 8, "avery..."},
		{"abcdef", 3, "abc"},
		{"日本語ファイル", 7, "日本..."},
		{"x", 0, "x"},
	}
	for _, tc := range cases {
		if got := truncate(tc.in, tc.width); got != tc.want {
			t.Errorf("truncate(%q, %d) = %q, want %q", tc.in, tc.width, got, tc.want)
		}
	}
}
