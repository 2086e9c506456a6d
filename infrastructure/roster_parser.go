package infrastructure

// Парсер списков студентов в формате XLS. Первая строка листа содержит заголовок,
// далее по одной строке на студента: id, имя, группа, email.
// Пустой id заменяется сгенерированным UUID; строки без данных пропускаются.
// Некорректный номер группы превращается в 0 и отклоняется валидацией при импорте.

import (
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/Vaflel/gradebook/domain"
	"github.com/extrame/xls"
	"github.com/google/uuid"
)

const (
	rosterColID = iota
	rosterColName
	rosterColGroup
	rosterColEmail
	rosterColumns
)

// StudentRosterParser читает студентов из XLS-файла
type StudentRosterParser struct {
	filePath string
	charset  string
	newID    func() string
}

// NewStudentRosterParser создаёт новый экземпляр парсера
func NewStudentRosterParser(filePath string) *StudentRosterParser {
	return &StudentRosterParser{
		filePath: filePath,
		charset:  "utf-8",
		newID:    uuid.NewString,
	}
}

// Parse возвращает студентов с первого листа файла
func (p *StudentRosterParser) Parse() ([]domain.Student, error) {
	f, err := os.Open(p.filePath)
	if err != nil {
		return nil, fmt.Errorf("не удалось открыть %s: %w", p.filePath, err)
	}
	defer f.Close()

	file, err := xls.OpenReader(f, p.charset)
	if err != nil {
		return nil, fmt.Errorf("не удалось прочитать %s: %w", p.filePath, err)
	}

	sheet := file.GetSheet(0)
	if sheet == nil {
		return nil, fmt.Errorf("в файле %s нет листов", p.filePath)
	}

	var students []domain.Student
	for rowIndex := 1; rowIndex <= int(sheet.MaxRow); rowIndex++ {
		row := sheet.Row(rowIndex)
		if row == nil {
			continue
		}

		cells := make([]string, rosterColumns)
		for col := range cells {
			cells[col] = row.Col(col)
		}

		if student, ok := p.studentFromRow(cells); ok {
			students = append(students, student)
		}
	}

	return students, nil
}

// studentFromRow собирает студента из ячеек строки; ok == false для пустой строки
func (p *StudentRosterParser) studentFromRow(cells []string) (domain.Student, bool) {
	for len(cells) < rosterColumns {
		cells = append(cells, "")
	}
	for i := range cells {
		cells[i] = strings.TrimSpace(cells[i])
	}

	if strings.Join(cells[:rosterColumns], "") == "" {
		return domain.Student{}, false
	}

	id := cells[rosterColID]
	if id == "" {
		id = p.newID()
	}

	return domain.NewStudent(id, cells[rosterColName], parseGroup(cells[rosterColGroup]), cells[rosterColEmail]), true
}

// parseGroup понимает "934" и "934.0" (числовые ячейки XLS)
func parseGroup(cell string) int {
	value, err := strconv.ParseFloat(strings.ReplaceAll(cell, ",", "."), 64)
	if err != nil || value != math.Trunc(value) {
		return 0
	}
	return int(value)
}
