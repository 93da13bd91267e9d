package client

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func strptr(s string) *string { return &s }

func TestSortTasks_PriorityHighFirstCompletedLast(t *testing.T) {
	tasks := []Task{
		{ID: 1, Text: "a", Priority: "high"},
		{ID: 2, Text: "b", Priority: "low", Completed: true},
		{ID: 3, Text: "c", Priority: "medium"},
	}

	got := SortTasks(tasks, SortPriority)

	require.Equal(t, []int64{1, 3, 2}, ids(got))
}

func TestSortTasks_PriorityTiesKeepIncomingOrder(t *testing.T) {
	tasks := []Task{
		{ID: 10, Priority: "medium"},
		{ID: 11, Priority: "medium"},
		{ID: 12, Priority: "high"},
	}

	got := SortTasks(tasks, SortPriority)

	require.Equal(t, []int64{12, 10, 11}, ids(got))
}

func TestSortTasks_DateAscendingUndatedLast(t *testing.T) {
	tasks := []Task{
		{ID: 1, Priority: "low", DueDate: strptr("2026-05-01")},
		{ID: 2, Priority: "high"},
		{ID: 3, Priority: "low", DueDate: strptr("2026-04-15")},
	}

	got := SortTasks(tasks, SortDate)

	require.Equal(t, []int64{3, 1, 2}, ids(got))
}

func TestSortTasks_CreatedNewestFirstMissingLast(t *testing.T) {
	tasks := []Task{
		{ID: 1, Priority: "low", CreatedAt: strptr("2026-01-01T10:00:00Z")},
		{ID: 2, Priority: "low"},
		{ID: 3, Priority: "low", CreatedAt: strptr("2026-02-01T10:00:00Z")},
	}

	got := SortTasks(tasks, SortCreated)

	require.Equal(t, []int64{3, 1, 2}, ids(got))
}

func TestSortTasks_CompletedSinkUnderEveryKey(t *testing.T) {
	tasks := []Task{
		{ID: 1, Priority: "low", Completed: true, DueDate: strptr("2026-01-01")},
		{ID: 2, Priority: "high", DueDate: strptr("2026-06-01")},
	}

	for _, key := range []SortKey{SortPriority, SortDate, SortCreated} {
		got := SortTasks(tasks, key)
		require.Equal(t, []int64{2, 1}, ids(got), "key %s", key)
	}
}

func TestSortTasks_DoesNotMutateInput(t *testing.T) {
	tasks := []Task{
		{ID: 1, Priority: "low"},
		{ID: 2, Priority: "high"},
	}

	SortTasks(tasks, SortPriority)

	require.Equal(t, []int64{1, 2}, ids(tasks))
}

func TestFilterTasks(t *testing.T) {
	tasks := []Task{
		{ID: 1, Completed: false},
		{ID: 2, Completed: true},
		{ID: 3, Completed: false},
	}

	require.Equal(t, []int64{1, 2, 3}, ids(FilterTasks(tasks, FilterAll)))
	require.Equal(t, []int64{1, 3}, ids(FilterTasks(tasks, FilterActive)))
	require.Equal(t, []int64{2}, ids(FilterTasks(tasks, FilterCompleted)))
}

func TestFormatDueDate(t *testing.T) {
	now := time.Date(2026, 3, 10, 15, 30, 0, 0, time.UTC)

	cases := []struct {
		name    string
		dueDate *string
		want    string
		overdue bool
	}{
		{"nil date", nil, "", false},
		{"empty date", strptr(""), "", false},
		{"yesterday", strptr("2026-03-09"), "Overdue", true},
		{"long overdue", strptr("2025-12-01"), "Overdue", true},
		{"today", strptr("2026-03-10"), "Today", false},
		{"tomorrow", strptr("2026-03-11"), "Tomorrow", false},
		{"in two days", strptr("2026-03-12"), "In 2 days", false},
		{"in seven days", strptr("2026-03-17"), "In 7 days", false},
		{"in eight days", strptr("2026-03-18"), "Mar 18, 2026", false},
		{"far future", strptr("2027-01-05"), "Jan 5, 2027", false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			badge := FormatDueDate(tc.dueDate, now)
			if tc.want == "" {
				require.Nil(t, badge)
				return
			}
			require.NotNil(t, badge)
			require.Equal(t, tc.want, badge.Text)
			require.Equal(t, tc.overdue, badge.Overdue)
		})
	}
}

func TestFormatDueDate_LateEveningStillToday(t *testing.T) {
	// 23:59 local must still classify today's date as Today, not Overdue.
	now := time.Date(2026, 3, 10, 23, 59, 0, 0, time.UTC)

	badge := FormatDueDate(strptr("2026-03-10"), now)
	require.NotNil(t, badge)
	require.Equal(t, "Today", badge.Text)
	require.False(t, badge.Overdue)
}

func TestFormatDueDate_GarbageDateHasNoBadge(t *testing.T) {
	require.Nil(t, FormatDueDate(strptr("03/10/2026"), time.Now()))
}

func ids(tasks []Task) []int64 {
	out := make([]int64, 0, len(tasks))
	for _, task := range tasks {
		out = append(out, task.ID)
	}
	return out
}
