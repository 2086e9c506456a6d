package domain

import "time"

// Entity описывает сущность, которая хранится в репозитории по идентификатору
type Entity interface {
	Key() string
}

// Student содержит информацию о студенте
type Student struct {
	ID    string `yaml:"id" validate:"required"`
	Name  string `yaml:"name" validate:"required"`
	Group int    `yaml:"group" validate:"group"`
	Email string `yaml:"email" validate:"required"`
}

// NewStudent создает нового студента
func NewStudent(id, name string, group int, email string) Student {
	return Student{
		ID:    id,
		Name:  name,
		Group: group,
		Email: email,
	}
}

func (s Student) Key() string { return s.ID }

// Assignment описывает лабораторную работу (тему) с диапазоном учебных недель
type Assignment struct {
	ID           string `yaml:"id" validate:"required"`
	Description  string `yaml:"description" validate:"required"`
	StartWeek    int    `yaml:"start_week" validate:"week"`
	DeadlineWeek int    `yaml:"deadline_week" validate:"week"`
}

// NewAssignment создает новую тему
func NewAssignment(id, description string, startWeek, deadlineWeek int) Assignment {
	return Assignment{
		ID:           id,
		Description:  description,
		StartWeek:    startWeek,
		DeadlineWeek: deadlineWeek,
	}
}

func (a Assignment) Key() string { return a.ID }

// Grade содержит оценку студента за тему
type Grade struct {
	ID           string    `yaml:"id" validate:"required"`
	StudentID    string    `yaml:"student_id"`
	AssignmentID string    `yaml:"assignment_id"`
	Value        float64   `yaml:"value" validate:"grade"`
	Date         time.Time `yaml:"date"`
}

// NewGrade создает новую оценку
func NewGrade(id, studentID, assignmentID string, value float64, date time.Time) Grade {
	return Grade{
		ID:           id,
		StudentID:    studentID,
		AssignmentID: assignmentID,
		Value:        value,
		Date:         date,
	}
}

func (g Grade) Key() string { return g.ID }

// DateString возвращает дату в формате "2006-01-02"
func (g Grade) DateString() string {
	return g.Date.Format("2006-01-02")
}

// Violation описывает нарушенное правило для одного поля
type Violation struct {
	Field  string
	Reason string
}

// NewViolation создает новое нарушение
func NewViolation(field, reason string) Violation {
	return Violation{
		Field:  field,
		Reason: reason,
	}
}

func (v Violation) String() string {
	return v.Field + ": " + v.Reason
}

// FeedbackEntry описывает запись в журнал отзывов при выставлении оценки
type FeedbackEntry struct {
	Student    Student
	Assignment Assignment
	Grade      Grade
	Week       int // неделя сдачи
	Feedback   string
}
