// Package roster implements the administrative mutations over the record
// store: student lifecycle plus marks, attendance and timetable entry.
package roster

import (
	"errors"
	"fmt"
	"time"

	"srms/internal/records"
	"srms/internal/store"
)

// Sentinel errors callers map onto user-visible rejections. Validation and
// conflict failures are soft; the user may correct the input and resubmit.
var (
	ErrValidation = errors.New("validation failed")
	ErrConflict   = errors.New("conflict")
	ErrNotFound   = errors.New("not found")
)

// Service performs admin writes. Each write is a synchronous
// load-modify-save cycle against the single-writer store.
type Service struct {
	store *store.Store
	now   func() time.Time
}

// NewService creates the admin service.
func NewService(st *store.Store) *Service {
	return &Service{store: st, now: time.Now}
}

// StudentInput carries the fields an admin can set on a student.
type StudentInput struct {
	RollNo     string         `json:"rollNo"`
	Name       string         `json:"name"`
	Department string         `json:"department"`
	Semester   records.Scalar `json:"semester"`
	CGPA       records.Scalar `json:"cgpa"`
	Phone      string         `json:"phone"`
	FatherName string         `json:"fatherName"`
	MotherName string         `json:"motherName"`
	DOB        string         `json:"dob"`
}

// AddStudent validates the input, generates a millisecond-timestamp id,
// appends and persists. Roll number and name are required; a duplicate
// roll number is rejected before anything is written.
func (s *Service) AddStudent(in StudentInput) (records.Student, error) {
	if in.RollNo == "" || in.Name == "" {
		return records.Student{}, fmt.Errorf("%w: rollNo and name are required", ErrValidation)
	}

	var students []records.Student
	s.store.Load(store.Students, &students)
	for _, st := range students {
		if st.RollNo == in.RollNo {
			return records.Student{}, fmt.Errorf("%w: a student with this roll number already exists", ErrConflict)
		}
	}

	student := records.Student{
		ID:         records.NewID(s.now()),
		RollNo:     in.RollNo,
		Name:       in.Name,
		Department: in.Department,
		Semester:   in.Semester,
		CGPA:       in.CGPA,
		Phone:      in.Phone,
		FatherName: in.FatherName,
		MotherName: in.MotherName,
		DOB:        in.DOB,
	}
	students = append(students, student)
	if err := s.store.Save(store.Students, students); err != nil {
		return records.Student{}, err
	}
	return student, nil
}

// UpdateStudent applies the non-empty fields of in to the student with the
// given id. Moving to a roll number another student already holds is
// rejected.
func (s *Service) UpdateStudent(id records.ID, in StudentInput) (records.Student, error) {
	var students []records.Student
	s.store.Load(store.Students, &students)

	idx := studentIndex(students, id)
	if idx < 0 {
		return records.Student{}, fmt.Errorf("%w: student %s", ErrNotFound, id)
	}
	if in.RollNo != "" && in.RollNo != students[idx].RollNo {
		for _, st := range students {
			if st.RollNo == in.RollNo {
				return records.Student{}, fmt.Errorf("%w: another student already has this roll number", ErrConflict)
			}
		}
		students[idx].RollNo = in.RollNo
	}
	if in.Name != "" {
		students[idx].Name = in.Name
	}
	if in.Department != "" {
		students[idx].Department = in.Department
	}
	if in.Semester != "" {
		students[idx].Semester = in.Semester
	}
	if in.CGPA != "" {
		students[idx].CGPA = in.CGPA
	}
	if in.Phone != "" {
		students[idx].Phone = in.Phone
	}
	if in.FatherName != "" {
		students[idx].FatherName = in.FatherName
	}
	if in.MotherName != "" {
		students[idx].MotherName = in.MotherName
	}
	if in.DOB != "" {
		students[idx].DOB = in.DOB
	}

	if err := s.store.Save(store.Students, students); err != nil {
		return records.Student{}, err
	}
	return students[idx], nil
}

// DeleteStudent removes the first record with the matching id and persists
// the remainder.
func (s *Service) DeleteStudent(id records.ID) error {
	var students []records.Student
	s.store.Load(store.Students, &students)

	idx := studentIndex(students, id)
	if idx < 0 {
		return fmt.Errorf("%w: student %s", ErrNotFound, id)
	}
	students = append(students[:idx], students[idx+1:]...)
	return s.store.Save(store.Students, students)
}

// SetStudentPhoto records an uploaded photo URL on the student.
func (s *Service) SetStudentPhoto(id records.ID, url string) (records.Student, error) {
	var students []records.Student
	s.store.Load(store.Students, &students)

	idx := studentIndex(students, id)
	if idx < 0 {
		return records.Student{}, fmt.Errorf("%w: student %s", ErrNotFound, id)
	}
	students[idx].Photo = url
	if err := s.store.Save(store.Students, students); err != nil {
		return records.Student{}, err
	}
	return students[idx], nil
}

func studentIndex(students []records.Student, id records.ID) int {
	for i := range students {
		if students[i].ID == id {
			return i
		}
	}
	return -1
}

// MarkInput carries a new exam result.
type MarkInput struct {
	StudentID records.ID     `json:"studentId"`
	Subject   string         `json:"subject"`
	Exam      string         `json:"exam"`
	Marks     records.Scalar `json:"marks"`
}

// AddMark appends an exam result. The student id is a loose reference and
// is not checked against the students collection.
func (s *Service) AddMark(in MarkInput) (records.MarkEntry, error) {
	if in.StudentID == "" || in.Subject == "" || in.Exam == "" {
		return records.MarkEntry{}, fmt.Errorf("%w: studentId, subject and exam are required", ErrValidation)
	}
	var marks []records.MarkEntry
	s.store.Load(store.Marks, &marks)
	entry := records.MarkEntry{
		ID:        records.NewID(s.now()),
		StudentID: in.StudentID,
		Subject:   in.Subject,
		Exam:      in.Exam,
		Marks:     in.Marks,
	}
	marks = append(marks, entry)
	if err := s.store.Save(store.Marks, marks); err != nil {
		return records.MarkEntry{}, err
	}
	return entry, nil
}

// AttendanceInput carries one day's attendance for one student.
type AttendanceInput struct {
	StudentID records.ID `json:"studentId"`
	Date      string     `json:"date"`
	Status    string     `json:"status"`
}

// AddAttendance appends an attendance record. Date defaults to today (UTC)
// when omitted.
func (s *Service) AddAttendance(in AttendanceInput) (records.AttendanceEntry, error) {
	if in.StudentID == "" || in.Status == "" {
		return records.AttendanceEntry{}, fmt.Errorf("%w: studentId and status are required", ErrValidation)
	}
	date := in.Date
	if date == "" {
		date = s.now().UTC().Format("2006-01-02")
	}
	var entries []records.AttendanceEntry
	s.store.Load(store.Attendance, &entries)
	entry := records.AttendanceEntry{
		ID:        records.NewID(s.now()),
		StudentID: in.StudentID,
		Date:      date,
		Status:    in.Status,
	}
	entries = append(entries, entry)
	if err := s.store.Save(store.Attendance, entries); err != nil {
		return records.AttendanceEntry{}, err
	}
	return entry, nil
}

// TimetableInput carries one schedule slot.
type TimetableInput struct {
	Day         string `json:"day"`
	StartTime   string `json:"startTime"`
	EndTime     string `json:"endTime"`
	Subject     string `json:"subject"`
	TeacherName string `json:"teacherName"`
	Room        string `json:"room"`
	Section     string `json:"section"`
}

// AddTimetable appends a schedule slot.
func (s *Service) AddTimetable(in TimetableInput) (records.TimetableEntry, error) {
	if in.Day == "" || in.StartTime == "" || in.EndTime == "" || in.Subject == "" {
		return records.TimetableEntry{}, fmt.Errorf("%w: day, startTime, endTime and subject are required", ErrValidation)
	}
	var entries []records.TimetableEntry
	s.store.Load(store.Timetable, &entries)
	entry := records.TimetableEntry{
		ID:          records.NewID(s.now()),
		Day:         in.Day,
		StartTime:   in.StartTime,
		EndTime:     in.EndTime,
		Subject:     in.Subject,
		TeacherName: in.TeacherName,
		Room:        in.Room,
		Section:     in.Section,
	}
	entries = append(entries, entry)
	if err := s.store.Save(store.Timetable, entries); err != nil {
		return records.TimetableEntry{}, err
	}
	return entry, nil
}

// UpdateTimetable applies the non-empty fields of in to the slot with the
// given id.
func (s *Service) UpdateTimetable(id records.ID, in TimetableInput) (records.TimetableEntry, error) {
	var entries []records.TimetableEntry
	s.store.Load(store.Timetable, &entries)

	idx := -1
	for i := range entries {
		if entries[i].ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return records.TimetableEntry{}, fmt.Errorf("%w: timetable entry %s", ErrNotFound, id)
	}
	if in.Day != "" {
		entries[idx].Day = in.Day
	}
	if in.StartTime != "" {
		entries[idx].StartTime = in.StartTime
	}
	if in.EndTime != "" {
		entries[idx].EndTime = in.EndTime
	}
	if in.Subject != "" {
		entries[idx].Subject = in.Subject
	}
	if in.TeacherName != "" {
		entries[idx].TeacherName = in.TeacherName
	}
	if in.Room != "" {
		entries[idx].Room = in.Room
	}
	if in.Section != "" {
		entries[idx].Section = in.Section
	}
	if err := s.store.Save(store.Timetable, entries); err != nil {
		return records.TimetableEntry{}, err
	}
	return entries[idx], nil
}

// DeleteTimetable removes the slot with the matching id.
func (s *Service) DeleteTimetable(id records.ID) error {
	var entries []records.TimetableEntry
	s.store.Load(store.Timetable, &entries)

	for i := range entries {
		if entries[i].ID == id {
			entries = append(entries[:i], entries[i+1:]...)
			return s.store.Save(store.Timetable, entries)
		}
	}
	return fmt.Errorf("%w: timetable entry %s", ErrNotFound, id)
}
