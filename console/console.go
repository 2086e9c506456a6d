// Package console реализует интерфейс командной строки поверх usecases.Service
package console

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"slices"
	"strings"
	"time"

	"github.com/Vaflel/gradebook/domain"
	"github.com/Vaflel/gradebook/infrastructure"
	"github.com/Vaflel/gradebook/usecases"
	"github.com/Vaflel/gradebook/web"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// ErrUsage возвращается при неверных аргументах команды
var ErrUsage = errors.New("неверные аргументы")

const usage = `Использование:
  add-student -name N -group G -email E [-id ID]
  add-assignment -description D -start S -deadline D [-id ID]
  add-grade -student ID -assignment ID -value V [-date 2006-01-02] [-feedback F] [-id ID]
  list students|assignments|grades
  import-students FILE.xls
  import-assignments FILE.html
  report [-out FILE.html]
`

// Console разбирает команды и вызывает сервис
type Console struct {
	service *usecases.Service
	out     io.Writer
	logger  zerolog.Logger
	now     func() time.Time
}

// New создает консоль, печатающую результаты в out
func New(service *usecases.Service, out io.Writer, logger zerolog.Logger) *Console {
	return &Console{
		service: service,
		out:     out,
		logger:  logger,
		now:     time.Now,
	}
}

// Run выполняет одну команду
func (c *Console) Run(args []string) error {
	if len(args) == 0 {
		fmt.Fprint(c.out, usage)
		return ErrUsage
	}

	command, rest := args[0], args[1:]
	c.logger.Debug().Str("command", command).Strs("args", rest).Msg("выполнение команды")

	var err error
	switch command {
	case "add-student":
		err = c.addStudent(rest)
	case "add-assignment":
		err = c.addAssignment(rest)
	case "add-grade":
		err = c.addGrade(rest)
	case "list":
		err = c.list(rest)
	case "import-students":
		err = c.importStudents(rest)
	case "import-assignments":
		err = c.importAssignments(rest)
	case "report":
		err = c.report(rest)
	case "help", "-h", "--help":
		fmt.Fprint(c.out, usage)
		return nil
	default:
		fmt.Fprint(c.out, usage)
		return fmt.Errorf("%w: неизвестная команда %q", ErrUsage, command)
	}

	c.printViolations(err)
	return err
}

func (c *Console) newFlagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(c.out)
	return fs
}

func (c *Console) parse(fs *flag.FlagSet, args []string) error {
	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("%w: %v", ErrUsage, err)
	}
	return nil
}

func (c *Console) addStudent(args []string) error {
	fs := c.newFlagSet("add-student")
	id := fs.String("id", "", "идентификатор (по умолчанию UUID)")
	name := fs.String("name", "", "имя")
	group := fs.Int("group", 0, "номер группы")
	email := fs.String("email", "", "email")
	if err := c.parse(fs, args); err != nil {
		return err
	}

	student := domain.NewStudent(orNewID(*id), *name, *group, *email)
	result, err := c.service.AddStudent(student)
	if err != nil {
		return err
	}
	c.printResult(result, student.ID)
	return nil
}

func (c *Console) addAssignment(args []string) error {
	fs := c.newFlagSet("add-assignment")
	id := fs.String("id", "", "идентификатор (по умолчанию UUID)")
	description := fs.String("description", "", "описание")
	start := fs.Int("start", 0, "неделя начала")
	deadline := fs.Int("deadline", 0, "неделя сдачи")
	if err := c.parse(fs, args); err != nil {
		return err
	}

	assignment := domain.NewAssignment(orNewID(*id), *description, *start, *deadline)
	result, err := c.service.AddAssignment(assignment)
	if err != nil {
		return err
	}
	c.printResult(result, assignment.ID)
	return nil
}

func (c *Console) addGrade(args []string) error {
	fs := c.newFlagSet("add-grade")
	id := fs.String("id", "", "идентификатор (по умолчанию UUID)")
	student := fs.String("student", "", "id студента")
	assignment := fs.String("assignment", "", "id темы")
	value := fs.Float64("value", 0, "оценка")
	date := fs.String("date", "", "дата в формате 2006-01-02 (по умолчанию сегодня)")
	feedback := fs.String("feedback", "", "отзыв")
	if err := c.parse(fs, args); err != nil {
		return err
	}
	// 0 тоже допустимая оценка, поэтому флаг обязателен
	if !isSet(fs, "value") {
		return fmt.Errorf("%w: укажите -value", ErrUsage)
	}

	gradeDate := c.now()
	if *date != "" {
		parsed, err := time.ParseInLocation("2006-01-02", *date, time.Local)
		if err != nil {
			return fmt.Errorf("%w: дата %q: %v", ErrUsage, *date, err)
		}
		gradeDate = parsed
	}

	grade := domain.NewGrade(orNewID(*id), *student, *assignment, *value, gradeDate)
	result, err := c.service.AddGrade(grade, *feedback)
	if result != 0 {
		c.printResult(result, grade.ID)
	}
	return err
}

func (c *Console) list(args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("%w: укажите students, assignments или grades", ErrUsage)
	}

	switch args[0] {
	case "students":
		students, err := c.service.GetAllStudents()
		if err != nil {
			return err
		}
		for s := range students {
			fmt.Fprintf(c.out, "%s\t%s\t%d\t%s\n", s.ID, s.Name, s.Group, s.Email)
		}
	case "assignments":
		assignments, err := c.service.GetAllAssignments()
		if err != nil {
			return err
		}
		for a := range assignments {
			fmt.Fprintf(c.out, "%s\t%s\t%d\t%d\n", a.ID, a.Description, a.StartWeek, a.DeadlineWeek)
		}
	case "grades":
		grades, err := c.service.GetAllGrades()
		if err != nil {
			return err
		}
		for g := range grades {
			fmt.Fprintf(c.out, "%s\t%s\t%s\t%g\t%s\n", g.ID, g.StudentID, g.AssignmentID, g.Value, g.DateString())
		}
	default:
		return fmt.Errorf("%w: неизвестная коллекция %q", ErrUsage, args[0])
	}
	return nil
}

func (c *Console) importStudents(args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("%w: укажите XLS-файл", ErrUsage)
	}

	students, err := infrastructure.NewStudentRosterParser(args[0]).Parse()
	if err != nil {
		return err
	}
	report, err := c.service.ImportStudents(students)
	c.printImport(report)
	return err
}

func (c *Console) importAssignments(args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("%w: укажите HTML-файл", ErrUsage)
	}

	assignments, err := infrastructure.NewAssignmentPageParser().ParseFile(args[0])
	if err != nil {
		return err
	}
	report, err := c.service.ImportAssignments(assignments)
	c.printImport(report)
	return err
}

func (c *Console) report(args []string) error {
	fs := c.newFlagSet("report")
	out := fs.String("out", "gradebook.html", "файл отчета")
	if err := c.parse(fs, args); err != nil {
		return err
	}

	students, err := c.service.GetAllStudents()
	if err != nil {
		return err
	}
	assignments, err := c.service.GetAllAssignments()
	if err != nil {
		return err
	}
	grades, err := c.service.GetAllGrades()
	if err != nil {
		return err
	}

	html, err := web.RenderGradebook(slices.Collect(students), slices.Collect(assignments), slices.Collect(grades))
	if err != nil {
		return fmt.Errorf("не удалось сформировать отчет: %w", err)
	}
	if err := os.WriteFile(*out, []byte(html), 0644); err != nil {
		return fmt.Errorf("не удалось записать отчет: %w", err)
	}

	fmt.Fprintf(c.out, "отчет сохранен в %s\n", *out)
	return nil
}

func (c *Console) printResult(result usecases.AddResult, id string) {
	fmt.Fprintf(c.out, "%s: %s\n", id, result)
}

func (c *Console) printImport(report usecases.ImportReport) {
	for _, o := range report.Outcomes {
		if o.Err != nil {
			fmt.Fprintf(c.out, "%s: отклонено\n", o.ID)
			c.printViolations(o.Err)
			continue
		}
		c.printResult(o.Result, o.ID)
	}
	fmt.Fprintf(c.out, "добавлено: %d, уже есть: %d, отклонено: %d\n",
		report.Count(usecases.Added), report.Count(usecases.AlreadyExists), len(report.Rejected()))
}

func (c *Console) printViolations(err error) {
	var ve *domain.ValidationError
	if !errors.As(err, &ve) {
		return
	}
	for _, v := range ve.Violations {
		fmt.Fprintf(c.out, "  %s\n", v)
	}
}

func isSet(fs *flag.FlagSet, name string) bool {
	set := false
	fs.Visit(func(f *flag.Flag) {
		if f.Name == name {
			set = true
		}
	})
	return set
}

func orNewID(id string) string {
	if strings.TrimSpace(id) == "" {
		return uuid.NewString()
	}
	return id
}
