package domain

import (
	"errors"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mapFinder[T Entity] struct {
	items map[string]T
	calls int
	err   error
}

func newMapFinder[T Entity](items ...T) *mapFinder[T] {
	f := &mapFinder[T]{items: make(map[string]T)}
	for _, item := range items {
		f.items[item.Key()] = item
	}
	return f
}

func (f *mapFinder[T]) FindOne(id string) (T, bool, error) {
	f.calls++
	if f.err != nil {
		var zero T
		return zero, false, f.err
	}
	item, ok := f.items[id]
	return item, ok, nil
}

func requireViolations(t *testing.T, err error, fields ...string) *ValidationError {
	t.Helper()
	require.Error(t, err)
	assert.True(t, IsValidation(err))

	var ve *ValidationError
	require.True(t, errors.As(err, &ve))
	got := make([]string, 0, len(ve.Violations))
	for _, v := range ve.Violations {
		got = append(got, v.Field)
	}
	assert.ElementsMatch(t, fields, got)
	return ve
}

func TestStudentValidator(t *testing.T) {
	v := NewStudentValidator(DefaultRules())

	assert.NoError(t, v.Validate(NewStudent("S1", "Drg Sab", 934, "x@y.z")))
	assert.NoError(t, v.Validate(NewStudent("S2", "Ana", 111, "a@b.c")))
	assert.NoError(t, v.Validate(NewStudent("S3", "Ion", 938, "i@b.c")))

	requireViolations(t, v.Validate(NewStudent("", "Drg Sab", 934, "x@y.z")), "id")
	requireViolations(t, v.Validate(NewStudent("S1", "Drg Sab", 110, "x@y.z")), "group")
	requireViolations(t, v.Validate(NewStudent("S1", "Drg Sab", 939, "x@y.z")), "group")
}

func TestStudentValidator_CollectsAllViolations(t *testing.T) {
	v := NewStudentValidator(DefaultRules())

	ve := requireViolations(t, v.Validate(Student{}), "id", "name", "group", "email")
	assert.Contains(t, ve.Error(), "student")
	assert.True(t, ve.HasField("email"))
}

func TestAssignmentValidator(t *testing.T) {
	v := NewAssignmentValidator(DefaultRules())

	assert.NoError(t, v.Validate(NewAssignment("T1", "Lab 3", 11, 12)))
	assert.NoError(t, v.Validate(NewAssignment("T1", "Lab 3", 5, 5)))

	requireViolations(t, v.Validate(NewAssignment("T1", "", 3, 4)), "description")
	requireViolations(t, v.Validate(NewAssignment("", "Lab 3", 3, 4)), "id")
	requireViolations(t, v.Validate(NewAssignment("T2", "descr", 3, 25)), "deadline_week")
	requireViolations(t, v.Validate(NewAssignment("T2", "descr", 0, 4)), "start_week")
	requireViolations(t, v.Validate(NewAssignment("T2", "descr", 6, 4)), "deadline_week")
}

func TestAssignmentValidator_CollectsAllViolations(t *testing.T) {
	v := NewAssignmentValidator(DefaultRules())

	requireViolations(t, v.Validate(NewAssignment("", "", 15, 0)),
		"id", "description", "start_week", "deadline_week", "deadline_week")
}

func TestGradeValidator(t *testing.T) {
	rules := testRules()
	students := newMapFinder(NewStudent("S1", "Drg Sab", 934, "x@y.z"))
	assignments := newMapFinder(NewAssignment("T1", "Lab 3", 11, 12))
	v := NewGradeValidator(rules, students, assignments)

	inWindow := rules.WeekStart(11).AddDate(0, 0, 2)

	t.Run("valid", func(t *testing.T) {
		assert.NoError(t, v.Validate(NewGrade("G1", "S1", "T1", 9, inWindow)))
	})

	t.Run("unknown student", func(t *testing.T) {
		requireViolations(t, v.Validate(NewGrade("G1", "S404", "T1", 9, inWindow)), "student_id")
	})

	t.Run("unknown assignment", func(t *testing.T) {
		requireViolations(t, v.Validate(NewGrade("G1", "S1", "T404", 9, inWindow)), "assignment_id")
	})

	t.Run("value out of range", func(t *testing.T) {
		requireViolations(t, v.Validate(NewGrade("G1", "S1", "T1", 10.5, inWindow)), "value")
		requireViolations(t, v.Validate(NewGrade("G1", "S1", "T1", -1, inWindow)), "value")
	})

	t.Run("value bounds", func(t *testing.T) {
		assert.NoError(t, v.Validate(NewGrade("G1", "S1", "T1", 0, inWindow)))
		assert.NoError(t, v.Validate(NewGrade("G1", "S1", "T1", 10, inWindow)))
	})

	t.Run("before window", func(t *testing.T) {
		requireViolations(t, v.Validate(NewGrade("G1", "S1", "T1", 9, rules.WeekEnd(10))), "date")
	})

	t.Run("after window", func(t *testing.T) {
		requireViolations(t, v.Validate(NewGrade("G1", "S1", "T1", 9, rules.WeekStart(13))), "date")
	})

	t.Run("missing date", func(t *testing.T) {
		requireViolations(t, v.Validate(NewGrade("G1", "S1", "T1", 9, time.Time{})), "date")
	})

	t.Run("all at once", func(t *testing.T) {
		requireViolations(t, v.Validate(NewGrade("", "", "", 11, inWindow)),
			"id", "value", "student_id", "assignment_id")
	})

	t.Run("date not checked without references", func(t *testing.T) {
		requireViolations(t, v.Validate(NewGrade("G1", "S404", "T1", 9, rules.WeekStart(1))), "student_id")
	})
}

func TestGradeValidator_LooksUpOnEveryCall(t *testing.T) {
	rules := testRules()
	students := newMapFinder[Student]()
	assignments := newMapFinder(NewAssignment("T1", "Lab 3", 1, 2))
	v := NewGradeValidator(rules, students, assignments)

	grade := NewGrade("G1", "S1", "T1", 7, rules.WeekStart(1))
	requireViolations(t, v.Validate(grade), "student_id")

	students.items["S1"] = NewStudent("S1", "Ana", 221, "a@b.c")
	assert.NoError(t, v.Validate(grade))
	assert.Equal(t, 2, students.calls)
}

func TestGradeValidator_StorageError(t *testing.T) {
	students := newMapFinder[Student]()
	students.err = NewStorageError("load", "students.yaml", errors.New("disk gone"))
	v := NewGradeValidator(testRules(), students, newMapFinder[Assignment]())

	err := v.Validate(NewGrade("G1", "S1", "T1", 7, time.Now()))
	require.Error(t, err)
	assert.True(t, IsStorage(err))
	assert.False(t, IsValidation(err))
}

func TestMustRegister(t *testing.T) {
	assert.NotPanics(t, func() { newTagValidator(DefaultRules()) })
	assert.Panics(t, func() {
		mustRegister(validator.New(), "", func(validator.FieldLevel) bool { return true })
	})
}
