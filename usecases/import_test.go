package usecases

import (
	"errors"
	"testing"

	"github.com/Vaflel/gradebook/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestImportStudents(t *testing.T) {
	f := newFixture()
	f.students.items = []domain.Student{domain.NewStudent("S1", "Drg Sab", 934, "x@y.z")}

	report, err := f.service.ImportStudents([]domain.Student{
		domain.NewStudent("S1", "Drg Sab", 934, "x@y.z"),
		domain.NewStudent("S2", "Ana", 221, "a@b.c"),
		domain.NewStudent("S3", "", 221, "c@b.c"),
		domain.NewStudent("S4", "Ion", 222, "i@b.c"),
	})
	require.NoError(t, err)

	assert.Equal(t, 2, report.Count(Added))
	assert.Equal(t, 1, report.Count(AlreadyExists))
	rejected := report.Rejected()
	require.Len(t, rejected, 1)
	assert.Equal(t, "S3", rejected[0].ID)
	assert.True(t, domain.IsValidation(rejected[0].Err))
	assert.Len(t, f.students.items, 3)
}

func TestImportAssignments_StopsOnStorageError(t *testing.T) {
	f := newFixture()
	f.assignments.saveErr = domain.NewStorageError("save", "assignments.yaml", errors.New("disk full"))

	report, err := f.service.ImportAssignments([]domain.Assignment{
		domain.NewAssignment("T1", "", 1, 2),
		domain.NewAssignment("T2", "Lab 2", 1, 2),
		domain.NewAssignment("T3", "Lab 3", 2, 3),
	})
	require.Error(t, err)
	assert.True(t, domain.IsStorage(err))
	assert.Len(t, report.Outcomes, 1)
	assert.Len(t, report.Rejected(), 1)
}
