// Package records defines the flat record types persisted in the portal's
// JSON collections. The documents are hand-editable, so scalar fields that
// act as identifiers or grades decode from either a JSON number or a JSON
// string and are always compared as strings.
package records

import (
	"encoding/json"
	"strconv"
	"time"
)

// Scalar is a field stored as either a JSON number or string. It normalizes
// to its string form on decode; digit-only values marshal back out as
// numbers so documents keep their original shape.
type Scalar string

// ID identifies a record. IDs share Scalar's loose wire format.
type ID = Scalar

// NewID returns a millisecond-timestamp identifier. Two calls within the
// same millisecond yield the same value; the store is single-writer and
// low-frequency, so the collision window is accepted.
func NewID(now time.Time) ID {
	return ID(strconv.FormatInt(now.UnixMilli(), 10))
}

func (s Scalar) String() string { return string(s) }

// UnmarshalJSON accepts a number, a string or null. Anything else decodes
// to the empty value rather than failing the whole document.
func (s *Scalar) UnmarshalJSON(data []byte) error {
	if len(data) == 0 || string(data) == "null" {
		*s = ""
		return nil
	}
	if data[0] == '"' {
		var str string
		if err := json.Unmarshal(data, &str); err != nil {
			*s = ""
			return nil
		}
		*s = Scalar(str)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		*s = ""
		return nil
	}
	*s = Scalar(n.String())
	return nil
}

// MarshalJSON writes digit-only values as numbers, everything else as a
// string. The empty value marshals as null, matching absent fields.
func (s Scalar) MarshalJSON() ([]byte, error) {
	if s == "" {
		return []byte("null"), nil
	}
	if isDigits(string(s)) {
		return []byte(s), nil
	}
	return json.Marshal(string(s))
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return s != ""
}

// Student is one row of the students collection. RollNo doubles as the
// student's login identifier.
type Student struct {
	ID         ID     `json:"id"`
	RollNo     string `json:"rollNo"`
	Name       string `json:"name"`
	Department string `json:"department"`
	Semester   Scalar `json:"semester"`
	CGPA       Scalar `json:"cgpa"`
	Phone      string `json:"phone"`
	FatherName string `json:"fatherName"`
	MotherName string `json:"motherName"`
	DOB        string `json:"dob"`
	Photo      string `json:"photo"`
}

// MarkEntry is one exam result. StudentID is a loose foreign key into the
// students collection; it is not enforced at write time.
type MarkEntry struct {
	ID        ID     `json:"id"`
	StudentID ID     `json:"studentId"`
	Subject   string `json:"subject"`
	Exam      string `json:"exam"`
	Marks     Scalar `json:"marks"`
}

// StatusPresent is the only attendance status counted as present; any other
// value means the student was not there.
const StatusPresent = "P"

// AttendanceEntry is one day's attendance for one student.
type AttendanceEntry struct {
	ID        ID     `json:"id"`
	StudentID ID     `json:"studentId"`
	Date      string `json:"date"`
	Status    string `json:"status"`
}

// Present reports whether the entry counts toward attendance.
func (e AttendanceEntry) Present() bool { return e.Status == StatusPresent }

// TimetableEntry is one slot of the master schedule. The schedule has no
// per-student or per-teacher association; every role sees all of it.
type TimetableEntry struct {
	ID          ID     `json:"id"`
	Day         string `json:"day"`
	StartTime   string `json:"startTime"`
	EndTime     string `json:"endTime"`
	Subject     string `json:"subject"`
	TeacherName string `json:"teacherName"`
	Room        string `json:"room"`
	Section     string `json:"section"`
}
