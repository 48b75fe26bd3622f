// Package attendance derives the per-day status grid for a month of
// tracked tasks. A day is Success when at least one post for the task
// falls on it, Failure when the day has fully elapsed without one, and
// Pending otherwise (today or future).
//
// Calendar-day truncation always uses the location passed by the caller,
// never UTC; mixing the two shifts posts across midnight for viewers
// away from UTC. Days before a task was created are derived like any
// other day.
//
// The grid is never persisted. It is recomputed from the current
// collections on every request.
package attendance

import (
	"time"

	model "taskforge.app/taskforge/internal/models"
)

type Status string

const (
	Success Status = "success"
	Failure Status = "failure"
	Pending Status = "pending"
)

const dayFormat = "2006-01-02"

// Grid is the derived attendance matrix for one calendar month.
// Rows[i].Statuses is parallel to Days.
type Grid struct {
	Month string    `json:"month"`
	Days  []string  `json:"days"`
	Rows  []TaskRow `json:"rows"`
}

type TaskRow struct {
	TaskID   string   `json:"task_id"`
	TaskName string   `json:"task_name"`
	Statuses []Status `json:"statuses"`
	Subtotal int      `json:"subtotal"`
}

// MonthWindow returns the first and last day of month's calendar month
// in loc, both truncated to midnight.
func MonthWindow(month time.Time, loc *time.Location) (time.Time, time.Time) {
	m := month.In(loc)
	first := time.Date(m.Year(), m.Month(), 1, 0, 0, 0, 0, loc)
	last := first.AddDate(0, 1, -1)
	return first, last
}

// BuildGrid derives the status grid for every task over the calendar
// month containing month. now decides where Failure stops and Pending
// begins. The derivation is pure: the same inputs always produce the
// same grid.
func BuildGrid(tasks []model.Task, posts []model.Post, month, now time.Time, loc *time.Location) Grid {
	first, last := MonthWindow(month, loc)
	today := dayOf(now, loc)

	days := make([]string, 0, 31)
	for d := first; !d.After(last); d = d.AddDate(0, 0, 1) {
		days = append(days, d.Format(dayFormat))
	}

	postDays := indexPostDays(posts, loc)

	rows := make([]TaskRow, 0, len(tasks))
	for _, task := range tasks {
		row := TaskRow{
			TaskID:   task.ID,
			TaskName: task.Name,
			Statuses: make([]Status, 0, len(days)),
		}

		for d := first; !d.After(last); d = d.AddDate(0, 0, 1) {
			status := statusFor(postDays[task.ID], d, today)
			row.Statuses = append(row.Statuses, status)
			if status == Success {
				row.Subtotal++
			}
		}

		rows = append(rows, row)
	}

	return Grid{
		Month: first.Format("2006-01"),
		Days:  days,
		Rows:  rows,
	}
}

// StatusOn derives the status of a single (task, day) pair.
func StatusOn(task model.Task, posts []model.Post, day, now time.Time, loc *time.Location) Status {
	postDays := indexPostDays(posts, loc)
	return statusFor(postDays[task.ID], dayOf(day, loc), dayOf(now, loc))
}

func statusFor(days map[string]struct{}, day, today time.Time) Status {
	if _, ok := days[day.Format(dayFormat)]; ok {
		return Success
	}
	if day.Before(today) {
		return Failure
	}
	return Pending
}

// indexPostDays collapses posts to the set of calendar days each task
// has at least one post on, so several same-day posts count once.
func indexPostDays(posts []model.Post, loc *time.Location) map[string]map[string]struct{} {
	index := make(map[string]map[string]struct{})
	for _, post := range posts {
		days, ok := index[post.TaskID]
		if !ok {
			days = make(map[string]struct{})
			index[post.TaskID] = days
		}
		days[post.CreatedAt.In(loc).Format(dayFormat)] = struct{}{}
	}
	return index
}

func dayOf(t time.Time, loc *time.Location) time.Time {
	local := t.In(loc)
	return time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, loc)
}
