package usecases

import (
	"github.com/Vaflel/gradebook/domain"
)

// ImportOutcome содержит результат добавления одной сущности из пакета
type ImportOutcome struct {
	ID     string
	Result AddResult // 0, если сущность отклонена
	Err    error
}

// ImportReport содержит результаты пакетного импорта
type ImportReport struct {
	Outcomes []ImportOutcome
}

// Count возвращает количество сущностей с указанным результатом
func (r ImportReport) Count(result AddResult) int {
	n := 0
	for _, o := range r.Outcomes {
		if o.Err == nil && o.Result == result {
			n++
		}
	}
	return n
}

// Rejected возвращает сущности, не прошедшие валидацию
func (r ImportReport) Rejected() []ImportOutcome {
	var rejected []ImportOutcome
	for _, o := range r.Outcomes {
		if o.Err != nil {
			rejected = append(rejected, o)
		}
	}
	return rejected
}

// ImportStudents добавляет студентов по одному через AddStudent.
// Ошибки валидации попадают в отчет, ошибка хранилища прерывает импорт.
func (s *Service) ImportStudents(students []domain.Student) (ImportReport, error) {
	return importAll(students, s.AddStudent)
}

// ImportAssignments добавляет темы по тем же правилам, что и ImportStudents
func (s *Service) ImportAssignments(assignments []domain.Assignment) (ImportReport, error) {
	return importAll(assignments, s.AddAssignment)
}

func importAll[T domain.Entity](items []T, add func(T) (AddResult, error)) (ImportReport, error) {
	report := ImportReport{Outcomes: make([]ImportOutcome, 0, len(items))}
	for _, item := range items {
		result, err := add(item)
		if err != nil && !domain.IsValidation(err) {
			return report, err
		}
		report.Outcomes = append(report.Outcomes, ImportOutcome{ID: item.Key(), Result: result, Err: err})
	}
	return report, nil
}
