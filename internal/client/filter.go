package client

import "time"

// FilterType selects the filtering mode applied to a bucket before render.
type FilterType string

const (
	FilterNone     FilterType = "none"
	FilterPriority FilterType = "priority"
	FilterDue      FilterType = "due"
	FilterSort     FilterType = "sort"
)

// Filter describes a view projection: which filter and its value.
// Priority values: High/Mid/Low. Due values: today, overdue, week,
// no-date. Sort value: newest.
type Filter struct {
	Type  FilterType
	Value string
}

// FilterTasks returns a filtered/reordered copy of list. Pure: the input
// is never mutated and repeated calls yield identical output. Runs on
// every render.
func FilterTasks(list []Task, f Filter) []Task {
	return FilterTasksAt(list, f, time.Now())
}

// FilterTasksAt is FilterTasks with an explicit clock, for the due-date
// buckets.
func FilterTasksAt(list []Task, f Filter, now time.Time) []Task {
	if f.Type == "" || f.Type == FilterNone {
		return append([]Task(nil), list...)
	}

	switch f.Type {
	case FilterPriority:
		out := make([]Task, 0, len(list))
		for _, t := range list {
			if string(t.Priority) == f.Value {
				out = append(out, t)
			}
		}
		return out

	case FilterDue:
		return filterByDue(list, f.Value, now)

	case FilterSort:
		out := append([]Task(nil), list...)
		// Default order is insertion order; "newest" reverses it.
		if f.Value == "newest" {
			for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
				out[i], out[j] = out[j], out[i]
			}
		}
		return out
	}
	return append([]Task(nil), list...)
}

func filterByDue(list []Task, value string, now time.Time) []Task {
	year, month, day := now.Date()
	startOfDay := time.Date(year, month, day, 0, 0, 0, 0, now.Location())
	// Sun-Sat week containing now.
	startOfWeek := startOfDay.AddDate(0, 0, -int(now.Weekday()))
	endOfWeek := startOfWeek.AddDate(0, 0, 7)

	out := make([]Task, 0, len(list))
	for _, t := range list {
		if value == "no-date" {
			if t.DueAt == nil {
				out = append(out, t)
			}
			continue
		}
		if t.DueAt == nil {
			continue
		}
		due := *t.DueAt
		switch value {
		case "today":
			dy, dm, dd := due.In(now.Location()).Date()
			if dy == year && dm == month && dd == day {
				out = append(out, t)
			}
		case "overdue":
			if due.Before(now) {
				out = append(out, t)
			}
		case "week":
			if !due.Before(startOfWeek) && due.Before(endOfWeek) {
				out = append(out, t)
			}
		}
	}
	return out
}
