package view

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"srms/internal/records"
	"srms/internal/store"
)

func setup(t *testing.T) (*Projector, *store.Store, string) {
	dir := t.TempDir()
	st := store.New(dir)
	return NewProjector(st), st, dir
}

func TestMarksForFiltersByStringEquality(t *testing.T) {
	p, _, dir := setup(t)

	// Mixed number and string studentId values in the raw document must
	// compare equal through their string forms.
	doc := `[
	  {"id": 1, "studentId": 1700000000001, "subject": "Maths", "exam": "Mid", "marks": 80},
	  {"id": 2, "studentId": "1700000000001", "subject": "Physics", "exam": "Mid", "marks": "72"},
	  {"id": 3, "studentId": "999", "subject": "Maths", "exam": "Mid", "marks": 65}
	]`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "marks.json"), []byte(doc), 0o644))

	mine := p.MarksFor("1700000000001")
	require.Len(t, mine, 2)
	assert.Equal(t, "Maths", mine[0].Subject, "source order preserved")
	assert.Equal(t, "Physics", mine[1].Subject)

	assert.Empty(t, p.MarksFor("1234"))
}

func TestAttendanceForFilters(t *testing.T) {
	p, st, _ := setup(t)
	require.NoError(t, st.Save(store.Attendance, []records.AttendanceEntry{
		{ID: "1", StudentID: "101", Date: "2026-08-01", Status: "P"},
		{ID: "2", StudentID: "102", Date: "2026-08-01", Status: "A"},
		{ID: "3", StudentID: "101", Date: "2026-08-02", Status: "A"},
	}))

	mine := p.AttendanceFor("101")
	require.Len(t, mine, 2)
	assert.Equal(t, "2026-08-01", mine[0].Date)
	assert.Equal(t, "2026-08-02", mine[1].Date)
}

func TestAttendancePercentage(t *testing.T) {
	tests := []struct {
		name     string
		statuses []string
		want     int
		ok       bool
	}{
		{"two thirds present floors to 66", []string{"P", "P", "A"}, 66, true},
		{"single present", []string{"P"}, 100, true},
		{"none present", []string{"A", "A"}, 0, true},
		{"unknown status counts as absent", []string{"P", "L"}, 50, true},
		{"no entries is undefined", nil, 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var entries []records.AttendanceEntry
			for _, s := range tt.statuses {
				entries = append(entries, records.AttendanceEntry{Status: s})
			}
			got, ok := AttendancePercentage(entries)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestTimetableAllIsUnfiltered(t *testing.T) {
	p, st, _ := setup(t)
	require.NoError(t, st.Save(store.Timetable, []records.TimetableEntry{
		{ID: "1", Day: "Mon", Subject: "Maths"},
		{ID: "2", Day: "Tue", Subject: "Physics"},
	}))

	all := p.TimetableAll()
	require.Len(t, all, 2)
	assert.Equal(t, "Mon", all[0].Day)
}

func TestAllStudentsReportsRecovery(t *testing.T) {
	p, _, dir := setup(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "students.json"), []byte("corrupt{"), 0o644))

	students, res := p.AllStudents()
	assert.Empty(t, students)
	assert.True(t, res.Recovered)
}
