package domain

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Finder дает доступ только на чтение к коллекции сущностей
type Finder[T Entity] interface {
	FindOne(id string) (T, bool, error)
}

// tagValidator проверяет теги validate с учетом диапазонов из Rules
type tagValidator struct {
	validate *validator.Validate
	rules    Rules
}

func newTagValidator(rules Rules) *tagValidator {
	v := validator.New(validator.WithRequiredStructEnabled())

	// В нарушениях используем имена полей из yaml
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("yaml"), ",", 2)[0]
		if name == "" || name == "-" {
			return fld.Name
		}
		return name
	})

	mustRegister(v, "group", func(fl validator.FieldLevel) bool {
		group := int(fl.Field().Int())
		return group >= rules.GroupMin && group <= rules.GroupMax
	})
	mustRegister(v, "week", func(fl validator.FieldLevel) bool {
		week := int(fl.Field().Int())
		return week >= rules.WeekMin && week <= rules.WeekMax
	})
	mustRegister(v, "grade", func(fl validator.FieldLevel) bool {
		value := fl.Field().Float()
		return value >= rules.GradeMin && value <= rules.GradeMax
	})
	v.RegisterStructValidation(validateAssignmentWeeks, Assignment{})

	return &tagValidator{validate: v, rules: rules}
}

// mustRegister паникует, если тег не удалось зарегистрировать
func mustRegister(v *validator.Validate, tag string, fn validator.Func) {
	if err := v.RegisterValidation(tag, fn); err != nil {
		panic(fmt.Sprintf("регистрация правила %q: %v", tag, err))
	}
}

// validateAssignmentWeeks проверяет, что срок сдачи не раньше недели начала
func validateAssignmentWeeks(sl validator.StructLevel) {
	a := sl.Current().Interface().(Assignment)
	if a.StartWeek > a.DeadlineWeek {
		sl.ReportError(a.DeadlineWeek, "deadline_week", "DeadlineWeek", "after_start", "")
	}
}

// collect возвращает все нарушения тегов, а не только первое
func (v *tagValidator) collect(entity any) ([]Violation, error) {
	err := v.validate.Struct(entity)
	if err == nil {
		return nil, nil
	}

	var fieldErrors validator.ValidationErrors
	if !errors.As(err, &fieldErrors) {
		return nil, fmt.Errorf("не удалось проверить %T: %w", entity, err)
	}

	violations := make([]Violation, 0, len(fieldErrors))
	for _, fe := range fieldErrors {
		violations = append(violations, NewViolation(fe.Field(), v.reason(fe)))
	}
	return violations, nil
}

func (v *tagValidator) reason(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "обязательное поле"
	case "group":
		return fmt.Sprintf("номер группы должен быть от %d до %d", v.rules.GroupMin, v.rules.GroupMax)
	case "week":
		return fmt.Sprintf("неделя должна быть от %d до %d", v.rules.WeekMin, v.rules.WeekMax)
	case "grade":
		return fmt.Sprintf("оценка должна быть от %g до %g", v.rules.GradeMin, v.rules.GradeMax)
	case "after_start":
		return "срок сдачи раньше недели начала"
	default:
		return "некорректное значение"
	}
}

// StudentValidator проверяет студента
type StudentValidator struct {
	tags *tagValidator
}

// NewStudentValidator создаёт новый StudentValidator
func NewStudentValidator(rules Rules) *StudentValidator {
	return &StudentValidator{tags: newTagValidator(rules)}
}

// Validate возвращает *ValidationError со всеми нарушениями или nil
func (v *StudentValidator) Validate(s Student) error {
	violations, err := v.tags.collect(s)
	if err != nil {
		return err
	}
	return newValidationError("student", violations)
}

// AssignmentValidator проверяет тему
type AssignmentValidator struct {
	tags *tagValidator
}

// NewAssignmentValidator создаёт новый AssignmentValidator
func NewAssignmentValidator(rules Rules) *AssignmentValidator {
	return &AssignmentValidator{tags: newTagValidator(rules)}
}

func (v *AssignmentValidator) Validate(a Assignment) error {
	violations, err := v.tags.collect(a)
	if err != nil {
		return err
	}
	return newValidationError("assignment", violations)
}

// GradeValidator проверяет оценку. Студент и тема ищутся в хранилищах при каждом вызове:
// коллекции могут измениться между вызовами.
type GradeValidator struct {
	tags        *tagValidator
	rules       Rules
	students    Finder[Student]
	assignments Finder[Assignment]
}

// NewGradeValidator создаёт новый GradeValidator
func NewGradeValidator(rules Rules, students Finder[Student], assignments Finder[Assignment]) *GradeValidator {
	return &GradeValidator{
		tags:        newTagValidator(rules),
		rules:       rules,
		students:    students,
		assignments: assignments,
	}
}

// Validate проверяет поля оценки, ссылки на студента и тему и окно оценивания.
// Ошибки чтения хранилища возвращаются как есть, а не как нарушения.
func (v *GradeValidator) Validate(g Grade) error {
	violations, err := v.tags.collect(g)
	if err != nil {
		return err
	}

	studentFound := false
	if g.StudentID == "" {
		violations = append(violations, NewViolation("student_id", "обязательное поле"))
	} else {
		_, studentFound, err = v.students.FindOne(g.StudentID)
		if err != nil {
			return err
		}
		if !studentFound {
			violations = append(violations, NewViolation("student_id", fmt.Sprintf("студент %s не найден", g.StudentID)))
		}
	}

	var assignment Assignment
	assignmentFound := false
	if g.AssignmentID == "" {
		violations = append(violations, NewViolation("assignment_id", "обязательное поле"))
	} else {
		assignment, assignmentFound, err = v.assignments.FindOne(g.AssignmentID)
		if err != nil {
			return err
		}
		if !assignmentFound {
			violations = append(violations, NewViolation("assignment_id", fmt.Sprintf("тема %s не найдена", g.AssignmentID)))
		}
	}

	if studentFound && assignmentFound {
		switch {
		case g.Date.IsZero():
			violations = append(violations, NewViolation("date", "обязательное поле"))
		case !v.rules.InGradingWindow(assignment, g.Date):
			from, to := v.rules.GradingWindow(assignment)
			violations = append(violations, NewViolation("date", fmt.Sprintf(
				"дата %s вне окна оценивания темы %s (с %s по %s)",
				g.DateString(), assignment.ID, from.Format("2006-01-02"), to.Format("2006-01-02"),
			)))
		}
	}

	return newValidationError("grade", violations)
}

func newValidationError(entity string, violations []Violation) error {
	if len(violations) == 0 {
		return nil
	}
	return &ValidationError{Entity: entity, Violations: violations}
}
