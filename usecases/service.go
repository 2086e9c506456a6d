package usecases

import (
	"fmt"
	"iter"

	"github.com/Vaflel/gradebook/domain"
	"github.com/rs/zerolog"
)

// AddResult описывает итог добавления сущности, прошедшей валидацию
type AddResult int

const (
	Added AddResult = iota + 1
	AlreadyExists
)

func (r AddResult) String() string {
	switch r {
	case Added:
		return "added"
	case AlreadyExists:
		return "already exists"
	default:
		return "unknown"
	}
}

// Service является единственной точкой входа для вызывающего кода: валидирует, отсеивает дубликаты
// по идентификатору и сохраняет. Собственного состояния не хранит.
type Service struct {
	students    StudentRepository
	assignments AssignmentRepository
	grades      GradeRepository

	studentValidator    *domain.StudentValidator
	assignmentValidator *domain.AssignmentValidator
	gradeValidator      *domain.GradeValidator

	rules    domain.Rules
	feedback FeedbackJournal
	logger   zerolog.Logger
}

// Option настраивает Service
type Option func(*Service)

// WithLogger задает логгер сервиса
func WithLogger(logger zerolog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

// WithFeedbackJournal включает запись отзывов к оценкам
func WithFeedbackJournal(journal FeedbackJournal) Option {
	return func(s *Service) {
		s.feedback = journal
	}
}

// NewService создает новый экземпляр сервиса.
// Валидатор оценок получает репозитории студентов и тем только через интерфейс поиска.
func NewService(students StudentRepository, assignments AssignmentRepository, grades GradeRepository, rules domain.Rules, opts ...Option) *Service {
	s := &Service{
		students:            students,
		assignments:         assignments,
		grades:              grades,
		studentValidator:    domain.NewStudentValidator(rules),
		assignmentValidator: domain.NewAssignmentValidator(rules),
		gradeValidator:      domain.NewGradeValidator(rules, domain.Finder[domain.Student](students), domain.Finder[domain.Assignment](assignments)),
		rules:               rules,
		logger:              zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// AddStudent добавляет студента. Студент с уже существующим id не сохраняется: AlreadyExists.
func (s *Service) AddStudent(student domain.Student) (AddResult, error) {
	return admit(s, "student", s.students, s.studentValidator.Validate, student)
}

// AddAssignment добавляет тему по тем же правилам, что и AddStudent
func (s *Service) AddAssignment(assignment domain.Assignment) (AddResult, error) {
	return admit(s, "assignment", s.assignments, s.assignmentValidator.Validate, assignment)
}

// AddGrade добавляет оценку и записывает отзыв в журнал, если он настроен.
// Если оценка сохранена, а отзыв записать не удалось, возвращается (Added, err).
func (s *Service) AddGrade(grade domain.Grade, feedback string) (AddResult, error) {
	result, err := admit(s, "grade", s.grades, s.gradeValidator.Validate, grade)
	if err != nil || result != Added || s.feedback == nil {
		return result, err
	}

	entry, err := s.feedbackEntry(grade, feedback)
	if err != nil {
		return Added, err
	}
	if err := s.feedback.Record(entry); err != nil {
		s.logger.Error().Err(err).Str("grade_id", grade.ID).Msg("не удалось записать отзыв")
		return Added, fmt.Errorf("оценка %s сохранена, отзыв не записан: %w", grade.ID, err)
	}
	return Added, nil
}

func (s *Service) feedbackEntry(grade domain.Grade, feedback string) (domain.FeedbackEntry, error) {
	student, _, err := s.students.FindOne(grade.StudentID)
	if err != nil {
		return domain.FeedbackEntry{}, err
	}
	assignment, _, err := s.assignments.FindOne(grade.AssignmentID)
	if err != nil {
		return domain.FeedbackEntry{}, err
	}
	return domain.FeedbackEntry{
		Student:    student,
		Assignment: assignment,
		Grade:      grade,
		Week:       s.rules.AcademicWeek(grade.Date),
		Feedback:   feedback,
	}, nil
}

// GetAllStudents возвращает всех студентов из репозитория
func (s *Service) GetAllStudents() (iter.Seq[domain.Student], error) {
	return s.students.FindAll()
}

func (s *Service) GetAllAssignments() (iter.Seq[domain.Assignment], error) {
	return s.assignments.FindAll()
}

func (s *Service) GetAllGrades() (iter.Seq[domain.Grade], error) {
	return s.grades.FindAll()
}

// admit: валидация, проверка на дубликат, сохранение
func admit[T domain.Entity](s *Service, kind string, repo Repository[T], validate func(T) error, entity T) (AddResult, error) {
	if err := validate(entity); err != nil {
		s.logger.Debug().Err(err).Str("entity", kind).Str("id", entity.Key()).Msg("отклонено валидацией")
		return 0, err
	}

	if _, found, err := repo.FindOne(entity.Key()); err != nil {
		return 0, err
	} else if found {
		s.logger.Info().Str("entity", kind).Str("id", entity.Key()).Msg("уже существует, пропускаем")
		return AlreadyExists, nil
	}

	if err := repo.Save(entity); err != nil {
		return 0, err
	}

	s.logger.Info().Str("entity", kind).Str("id", entity.Key()).Msg("добавлено")
	return Added, nil
}
