package export

import (
	"strconv"
	"time"
)

// Layouts used when rendering time values into cells.
const (
	DateLayout      = "2006-01-02"
	TimeOfDayLayout = "15:04"
	TimestampLayout = "2006-01-02T15:04:05"
)

// Value is a single cell value. The zero Value is absent and renders as an
// empty string, which the workbook writer leaves as a blank cell.
type Value struct {
	text    string
	present bool
}

// Absent is the value of a field that does not exist or holds no value.
var Absent = Value{}

// Text returns a present value holding s. An empty s is treated as absent.
func Text(s string) Value {
	if s == "" {
		return Absent
	}
	return Value{text: s, present: true}
}

// Int returns a present value holding n.
func Int(n int) Value {
	return Value{text: strconv.Itoa(n), present: true}
}

// OptInt returns n or Absent when n is nil.
func OptInt(n *int) Value {
	if n == nil {
		return Absent
	}
	return Int(*n)
}

// Date renders t as a calendar date, or Absent when t is nil.
func Date(t *time.Time) Value {
	if t == nil || t.IsZero() {
		return Absent
	}
	return Text(t.Format(DateLayout))
}

// TimeOfDay renders t as HH:MM, or Absent when t is nil.
func TimeOfDay(t *time.Time) Value {
	if t == nil || t.IsZero() {
		return Absent
	}
	return Text(t.Format(TimeOfDayLayout))
}

// Timestamp renders t without a zone offset, or Absent for the zero time.
func Timestamp(t time.Time) Value {
	if t.IsZero() {
		return Absent
	}
	return Text(t.Format(TimestampLayout))
}

// IsAbsent reports whether v carries no value.
func (v Value) IsAbsent() bool {
	return !v.present
}

// String returns the cell text, empty for Absent.
func (v Value) String() string {
	return v.text
}

// Get reads a field of rec. A panicking accessor yields Absent for that cell
// only.
func Get[T any](rec T, field func(T) Value) (v Value) {
	defer func() {
		if recover() != nil {
			v = Absent
		}
	}()
	return field(rec)
}

// Nested resolves parent on rec and then reads child from it. A nil parent
// short-circuits to Absent without calling child.
func Nested[T, P any](rec T, parent func(T) *P, child func(*P) Value) (v Value) {
	defer func() {
		if recover() != nil {
			v = Absent
		}
	}()
	p := parent(rec)
	if p == nil {
		return Absent
	}
	return child(p)
}
