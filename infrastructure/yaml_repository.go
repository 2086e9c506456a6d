package infrastructure

import (
	"errors"
	"fmt"
	"iter"
	"os"
	"slices"
	"sync"

	"github.com/Vaflel/gradebook/domain"
	"gopkg.in/yaml.v3"
)

// YAMLRepository хранит коллекцию сущностей одного типа в YAML-файле:
//
//	students:
//	  - id: S1
//	    name: ...
//
// Каждый вызов читает файл заново; запись перезаписывает файл целиком.
type YAMLRepository[T domain.Entity] struct {
	filename   string
	collection string
	mutex      sync.RWMutex
}

// NewYAMLRepository создает новый экземпляр репозитория
func NewYAMLRepository[T domain.Entity](filename, collection string) *YAMLRepository[T] {
	return &YAMLRepository[T]{
		filename:   filename,
		collection: collection,
	}
}

func NewYAMLStudentRepository(filename string) *YAMLRepository[domain.Student] {
	return NewYAMLRepository[domain.Student](filename, "students")
}

func NewYAMLAssignmentRepository(filename string) *YAMLRepository[domain.Assignment] {
	return NewYAMLRepository[domain.Assignment](filename, "assignments")
}

func NewYAMLGradeRepository(filename string) *YAMLRepository[domain.Grade] {
	return NewYAMLRepository[domain.Grade](filename, "grades")
}

// FindAll загружает коллекцию и возвращает последовательность по её снимку
func (r *YAMLRepository[T]) FindAll() (iter.Seq[T], error) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	items, err := r.loadUnsafe()
	if err != nil {
		return nil, err
	}
	return slices.Values(items), nil
}

// FindOne возвращает сущность по id; found == false, если её нет
func (r *YAMLRepository[T]) FindOne(id string) (T, bool, error) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	var zero T
	items, err := r.loadUnsafe()
	if err != nil {
		return zero, false, err
	}

	for _, item := range items {
		if item.Key() == id {
			return item, true, nil
		}
	}
	return zero, false, nil
}

// Save добавляет сущность в конец коллекции. Дубликаты проверяет сервис.
func (r *YAMLRepository[T]) Save(entity T) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	items, err := r.loadUnsafe()
	if err != nil {
		return err
	}

	items = append(items, entity)
	return r.saveUnsafe(items)
}

// loadUnsafe читает файл без блокировки; отсутствующий файл считается пустой коллекцией
func (r *YAMLRepository[T]) loadUnsafe() ([]T, error) {
	data, err := os.ReadFile(r.filename)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, domain.NewStorageError("load", r.filename, fmt.Errorf("не удалось прочитать файл: %w", err))
	}

	var document map[string][]T
	if err := yaml.Unmarshal(data, &document); err != nil {
		return nil, domain.NewStorageError("load", r.filename, fmt.Errorf("не удалось распарсить YAML: %w", err))
	}

	return document[r.collection], nil
}

// saveUnsafe сохраняет коллекцию в файл без блокировки
func (r *YAMLRepository[T]) saveUnsafe(items []T) error {
	data, err := yaml.Marshal(map[string][]T{r.collection: items})
	if err != nil {
		return domain.NewStorageError("save", r.filename, fmt.Errorf("не удалось сериализовать YAML: %w", err))
	}

	if err := os.WriteFile(r.filename, data, 0644); err != nil {
		return domain.NewStorageError("save", r.filename, fmt.Errorf("не удалось записать файл: %w", err))
	}

	return nil
}
