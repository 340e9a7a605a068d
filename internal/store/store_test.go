package store

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"srms/internal/records"
)

func TestLoadMissingDocument(t *testing.T) {
	st := New(t.TempDir())

	var students []records.Student
	res := st.Load(Students, &students)

	assert.Empty(t, students)
	assert.False(t, res.Recovered)
}

func TestLoadEmptyDocument(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "marks.json"), nil, 0o644))
	st := New(dir)

	var marks []records.MarkEntry
	res := st.Load(Marks, &marks)

	assert.Empty(t, marks)
	assert.False(t, res.Recovered)
}

func TestLoadCorruptDocumentRecovers(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"not json", "{{{ definitely not json"},
		{"truncated array", `[{"id": 1, "rollNo": "101"},`},
		{"wrong shape", `{"students": []}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			require.NoError(t, os.WriteFile(filepath.Join(dir, "students.json"), []byte(tt.content), 0o644))
			st := New(dir)

			var students []records.Student
			res := st.Load(Students, &students)

			assert.Empty(t, students, "corrupt data must degrade to no data")
			assert.True(t, res.Recovered, "recovery must be observable")
		})
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	st := New(t.TempDir())

	in := []records.Student{
		{ID: "1700000000001", RollNo: "101", Name: "Asha", Department: "CSE", Semester: "5"},
		{ID: "1700000000002", RollNo: "102", Name: "Ravi", CGPA: "8.1"},
		{ID: "1700000000003", RollNo: "103", Name: "Meena"},
	}
	require.NoError(t, st.Save(Students, in))

	var out []records.Student
	res := st.Load(Students, &out)

	assert.False(t, res.Recovered)
	assert.Equal(t, in, out, "round trip must preserve records and order")
}

func TestSaveCreatesDataDirLazily(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "backend")
	st := New(dir)

	require.NoError(t, st.Save(Timetable, []records.TimetableEntry{{ID: "1", Day: "Mon"}}))

	_, err := os.Stat(filepath.Join(dir, "timetable.json"))
	assert.NoError(t, err)
}

func TestSaveOverwritesPriorContent(t *testing.T) {
	st := New(t.TempDir())

	require.NoError(t, st.Save(Marks, []records.MarkEntry{{ID: "1"}, {ID: "2"}}))
	require.NoError(t, st.Save(Marks, []records.MarkEntry{{ID: "3"}}))

	var out []records.MarkEntry
	st.Load(Marks, &out)
	require.Len(t, out, 1)
	assert.Equal(t, records.ID("3"), out[0].ID)
}
