package roster

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"srms/internal/records"
	"srms/internal/store"
)

func setup(t *testing.T) (*Service, *store.Store) {
	st := store.New(t.TempDir())
	return NewService(st), st
}

func loadStudents(t *testing.T, st *store.Store) []records.Student {
	var students []records.Student
	res := st.Load(store.Students, &students)
	require.False(t, res.Recovered)
	return students
}

func TestAddStudent(t *testing.T) {
	svc, st := setup(t)

	student, err := svc.AddStudent(StudentInput{RollNo: "101", Name: "Asha", Department: "CSE"})
	require.NoError(t, err)
	assert.Equal(t, "101", student.RollNo)
	assert.NotEmpty(t, student.ID)

	persisted := loadStudents(t, st)
	require.Len(t, persisted, 1)
	assert.Equal(t, student, persisted[0])
}

func TestAddStudentValidation(t *testing.T) {
	svc, st := setup(t)

	_, err := svc.AddStudent(StudentInput{Name: "No Roll"})
	assert.ErrorIs(t, err, ErrValidation)

	_, err = svc.AddStudent(StudentInput{RollNo: "101"})
	assert.ErrorIs(t, err, ErrValidation)

	assert.Empty(t, loadStudents(t, st), "rejected input must not be written")
}

func TestAddStudentDuplicateRollNo(t *testing.T) {
	svc, _ := setup(t)

	_, err := svc.AddStudent(StudentInput{RollNo: "101", Name: "Asha"})
	require.NoError(t, err)

	_, err = svc.AddStudent(StudentInput{RollNo: "101", Name: "Imposter"})
	assert.ErrorIs(t, err, ErrConflict)
}

func TestAddThenDeleteIsNetNoOp(t *testing.T) {
	svc, st := setup(t)
	_, err := svc.AddStudent(StudentInput{RollNo: "100", Name: "Existing"})
	require.NoError(t, err)
	// Distinct ids for the two adds.
	svc.now = func() time.Time { return time.UnixMilli(1700000000999) }

	before := loadStudents(t, st)

	added, err := svc.AddStudent(StudentInput{RollNo: "101", Name: "Transient"})
	require.NoError(t, err)
	require.NoError(t, svc.DeleteStudent(added.ID))

	after := loadStudents(t, st)
	assert.Equal(t, before, after)
}

func TestDeleteStudentNotFound(t *testing.T) {
	svc, _ := setup(t)
	assert.ErrorIs(t, svc.DeleteStudent("404"), ErrNotFound)
}

func TestUpdateStudent(t *testing.T) {
	svc, _ := setup(t)
	asha, err := svc.AddStudent(StudentInput{RollNo: "101", Name: "Asha", Department: "CSE"})
	require.NoError(t, err)
	svc.now = func() time.Time { return time.UnixMilli(1700000000999) }
	_, err = svc.AddStudent(StudentInput{RollNo: "102", Name: "Ravi"})
	require.NoError(t, err)

	t.Run("partial update keeps unset fields", func(t *testing.T) {
		updated, err := svc.UpdateStudent(asha.ID, StudentInput{Phone: "555-0101"})
		require.NoError(t, err)
		assert.Equal(t, "Asha", updated.Name)
		assert.Equal(t, "CSE", updated.Department)
		assert.Equal(t, "555-0101", updated.Phone)
	})

	t.Run("roll number clash rejected", func(t *testing.T) {
		_, err := svc.UpdateStudent(asha.ID, StudentInput{RollNo: "102"})
		assert.ErrorIs(t, err, ErrConflict)
	})

	t.Run("unknown id", func(t *testing.T) {
		_, err := svc.UpdateStudent("404", StudentInput{Name: "Nobody"})
		assert.ErrorIs(t, err, ErrNotFound)
	})
}

func TestSetStudentPhoto(t *testing.T) {
	svc, _ := setup(t)
	asha, err := svc.AddStudent(StudentInput{RollNo: "101", Name: "Asha"})
	require.NoError(t, err)

	updated, err := svc.SetStudentPhoto(asha.ID, "/uploads/abc.jpg")
	require.NoError(t, err)
	assert.Equal(t, "/uploads/abc.jpg", updated.Photo)
}

func TestAddMark(t *testing.T) {
	svc, st := setup(t)

	_, err := svc.AddMark(MarkInput{Subject: "Maths", Exam: "Mid"})
	assert.ErrorIs(t, err, ErrValidation, "studentId required")

	entry, err := svc.AddMark(MarkInput{StudentID: "101", Subject: "Maths", Exam: "Mid", Marks: "80"})
	require.NoError(t, err)
	assert.NotEmpty(t, entry.ID)

	var marks []records.MarkEntry
	st.Load(store.Marks, &marks)
	require.Len(t, marks, 1)
	assert.Equal(t, entry, marks[0])
}

func TestAddAttendance(t *testing.T) {
	svc, _ := setup(t)
	svc.now = func() time.Time { return time.Date(2026, 9, 1, 10, 0, 0, 0, time.UTC) }

	_, err := svc.AddAttendance(AttendanceInput{StudentID: "101"})
	assert.ErrorIs(t, err, ErrValidation, "status required")

	entry, err := svc.AddAttendance(AttendanceInput{StudentID: "101", Status: "P"})
	require.NoError(t, err)
	assert.Equal(t, "2026-09-01", entry.Date, "date defaults to today")

	entry, err = svc.AddAttendance(AttendanceInput{StudentID: "101", Status: "A", Date: "2026-08-30"})
	require.NoError(t, err)
	assert.Equal(t, "2026-08-30", entry.Date)
}

func TestTimetableCRUD(t *testing.T) {
	svc, st := setup(t)

	_, err := svc.AddTimetable(TimetableInput{Day: "Mon", StartTime: "09:00"})
	assert.ErrorIs(t, err, ErrValidation)

	slot, err := svc.AddTimetable(TimetableInput{
		Day: "Mon", StartTime: "09:00", EndTime: "10:00", Subject: "Maths", Room: "A1",
	})
	require.NoError(t, err)

	updated, err := svc.UpdateTimetable(slot.ID, TimetableInput{Room: "B2"})
	require.NoError(t, err)
	assert.Equal(t, "B2", updated.Room)
	assert.Equal(t, "Maths", updated.Subject)

	require.NoError(t, svc.DeleteTimetable(slot.ID))
	assert.ErrorIs(t, svc.DeleteTimetable(slot.ID), ErrNotFound)

	var entries []records.TimetableEntry
	st.Load(store.Timetable, &entries)
	assert.Empty(t, entries)
}
