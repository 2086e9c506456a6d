package usecases

import (
	"iter"

	"github.com/Vaflel/gradebook/domain"
)

// Repository определяет интерфейс для работы с хранилищем сущностей одного типа
type Repository[T domain.Entity] interface {
	// FindAll возвращает ленивую конечную последовательность; по ней можно пройти повторно
	FindAll() (iter.Seq[T], error)
	FindOne(id string) (T, bool, error)
	Save(entity T) error
}

type (
	StudentRepository    = Repository[domain.Student]
	AssignmentRepository = Repository[domain.Assignment]
	GradeRepository      = Repository[domain.Grade]
)

// FeedbackJournal сохраняет отзыв преподавателя к выставленной оценке
type FeedbackJournal interface {
	Record(entry domain.FeedbackEntry) error
}
