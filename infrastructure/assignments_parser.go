package infrastructure

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/Vaflel/gradebook/domain"
)

// AssignmentPageParser читает темы из HTML-таблицы (например, сохраненной страницы курса).
// Берутся строки с ячейками td: id | описание | неделя начала | срок сдачи.
type AssignmentPageParser struct {
	selector string
}

// NewAssignmentPageParser создаёт парсер; по умолчанию читается таблица с классом "assignments",
// а если её нет, то первая таблица страницы
func NewAssignmentPageParser() *AssignmentPageParser {
	return &AssignmentPageParser{selector: "table.assignments"}
}

// ParseFile разбирает HTML-файл
func (p *AssignmentPageParser) ParseFile(path string) ([]domain.Assignment, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("не удалось открыть %s: %w", path, err)
	}
	defer file.Close()

	return p.Parse(file)
}

// Parse разбирает HTML из r
func (p *AssignmentPageParser) Parse(r io.Reader) ([]domain.Assignment, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("не удалось разобрать HTML: %w", err)
	}

	table := doc.Find(p.selector).First()
	if table.Length() == 0 {
		table = doc.Find("table").First()
	}
	if table.Length() == 0 {
		return nil, fmt.Errorf("таблица с темами не найдена")
	}

	var assignments []domain.Assignment
	table.Find("tr").Each(func(i int, row *goquery.Selection) {
		cells := row.Find("td").Map(func(j int, cell *goquery.Selection) string {
			return strings.TrimSpace(cell.Text())
		})
		// строки заголовка (th) и неполные строки пропускаем
		if len(cells) < 4 {
			return
		}

		assignments = append(assignments, domain.NewAssignment(
			cells[0],
			cells[1],
			parseWeek(cells[2]),
			parseWeek(cells[3]),
		))
	})

	return assignments, nil
}

// parseWeek понимает "3" и "week 3"/"неделя 3", иначе возвращает 0
func parseWeek(cell string) int {
	fields := strings.Fields(cell)
	if len(fields) == 0 {
		return 0
	}
	week, err := strconv.Atoi(fields[len(fields)-1])
	if err != nil {
		return 0
	}
	return week
}
