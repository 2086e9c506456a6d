package infrastructure

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/Vaflel/gradebook/domain"
)

// FileFeedbackJournal дописывает отзывы в текстовый файл студента: <dir>/<id студента>.txt
type FileFeedbackJournal struct {
	dir   string
	mutex sync.Mutex
}

// NewFileFeedbackJournal создает журнал в указанной директории
func NewFileFeedbackJournal(dir string) *FileFeedbackJournal {
	return &FileFeedbackJournal{dir: dir}
}

// Record добавляет запись об оценке в конец файла студента
func (j *FileFeedbackJournal) Record(entry domain.FeedbackEntry) error {
	j.mutex.Lock()
	defer j.mutex.Unlock()

	path := j.Path(entry.Student.ID)
	if err := os.MkdirAll(j.dir, 0755); err != nil {
		return domain.NewStorageError("save", j.dir, fmt.Errorf("не удалось создать директорию: %w", err))
	}

	file, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return domain.NewStorageError("save", path, fmt.Errorf("не удалось открыть файл: %w", err))
	}
	defer file.Close()

	if _, err := file.WriteString(formatFeedback(entry)); err != nil {
		return domain.NewStorageError("save", path, fmt.Errorf("не удалось записать отзыв: %w", err))
	}
	return nil
}

// Path возвращает путь к файлу отзывов студента
func (j *FileFeedbackJournal) Path(studentID string) string {
	return filepath.Join(j.dir, sanitizeFileName(studentID)+".txt")
}

func formatFeedback(entry domain.FeedbackEntry) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Tema: %s (%s)\n", entry.Assignment.ID, entry.Assignment.Description)
	fmt.Fprintf(&b, "Nota: %g\n", entry.Grade.Value)
	fmt.Fprintf(&b, "Data: %s\n", entry.Grade.DateString())
	fmt.Fprintf(&b, "Predata in saptamana: %d\n", entry.Week)
	fmt.Fprintf(&b, "Deadline: %d\n", entry.Assignment.DeadlineWeek)
	fmt.Fprintf(&b, "Feedback: %s\n\n", entry.Feedback)
	return b.String()
}

// sanitizeFileName заменяет символы, недопустимые в имени файла
func sanitizeFileName(name string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', ':', '*', '?', '"', '<', '>', '|':
			return '_'
		}
		return r
	}, name)
}
