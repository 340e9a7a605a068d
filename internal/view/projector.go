// Package view derives role-scoped projections over the record store.
// Projections are read-only; admin and teacher views are the unfiltered
// collections because those roles are registry-defined and carry no foreign
// key to filter by.
package view

import (
	"srms/internal/records"
	"srms/internal/store"
)

// Projector answers read queries against the store.
type Projector struct {
	store *store.Store
}

// NewProjector creates a projector over the store.
func NewProjector(st *store.Store) *Projector {
	return &Projector{store: st}
}

// MarksFor returns the mark entries whose studentId string-equals
// studentID, in source order. Mixed number/string ids in the document
// compare equal through their string forms.
func (p *Projector) MarksFor(studentID records.ID) []records.MarkEntry {
	var all []records.MarkEntry
	p.store.Load(store.Marks, &all)
	var mine []records.MarkEntry
	for _, m := range all {
		if m.StudentID == studentID {
			mine = append(mine, m)
		}
	}
	return mine
}

// AttendanceFor returns the attendance entries for one student, in source
// order.
func (p *Projector) AttendanceFor(studentID records.ID) []records.AttendanceEntry {
	var all []records.AttendanceEntry
	p.store.Load(store.Attendance, &all)
	var mine []records.AttendanceEntry
	for _, a := range all {
		if a.StudentID == studentID {
			mine = append(mine, a)
		}
	}
	return mine
}

// AttendancePercentage computes floor(100 * present / total) over entries.
// The second return is false when entries is empty; there is no percentage
// to compute and the caller must not invent one.
func AttendancePercentage(entries []records.AttendanceEntry) (int, bool) {
	if len(entries) == 0 {
		return 0, false
	}
	present := 0
	for _, e := range entries {
		if e.Present() {
			present++
		}
	}
	return 100 * present / len(entries), true
}

// TimetableAll returns the master schedule. The data model carries no
// per-role association, so every role sees the same rows.
func (p *Projector) TimetableAll() []records.TimetableEntry {
	var all []records.TimetableEntry
	p.store.Load(store.Timetable, &all)
	return all
}

// AllStudents returns the students collection unfiltered, with the load
// result so callers can tell recovered-empty from truly empty.
func (p *Projector) AllStudents() ([]records.Student, store.Result) {
	var all []records.Student
	res := p.store.Load(store.Students, &all)
	return all, res
}

// AllMarks returns the marks collection unfiltered.
func (p *Projector) AllMarks() []records.MarkEntry {
	var all []records.MarkEntry
	p.store.Load(store.Marks, &all)
	return all
}

// AllAttendance returns the attendance collection unfiltered.
func (p *Projector) AllAttendance() []records.AttendanceEntry {
	var all []records.AttendanceEntry
	p.store.Load(store.Attendance, &all)
	return all
}
