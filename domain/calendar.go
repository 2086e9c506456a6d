package domain

import "time"

// Rules задает допустимые диапазоны значений и начало семестра
type Rules struct {
	SemesterStart time.Time
	GroupMin      int
	GroupMax      int
	GradeMin      float64
	GradeMax      float64
	WeekMin       int
	WeekMax       int
}

// DefaultRules возвращает правила по умолчанию: группы 111-938, оценки 0-10, недели 1-14
func DefaultRules() Rules {
	return Rules{
		SemesterStart: time.Date(2018, time.October, 1, 0, 0, 0, 0, time.UTC),
		GroupMin:      111,
		GroupMax:      938,
		GradeMin:      0,
		GradeMax:      10,
		WeekMin:       1,
		WeekMax:       14,
	}
}

// AcademicWeek возвращает номер учебной недели для даты.
// Первая неделя включает семь дней начиная с SemesterStart; даты до начала семестра дают неделю <= 0.
// Учитывается календарный день даты в ее собственной зоне, а не момент времени.
func (r Rules) AcademicWeek(date time.Time) int {
	days := daysBetween(r.SemesterStart, date)
	if days < 0 {
		// -1..-7 -> 0, -8..-14 -> -1
		return (days + 1) / 7
	}
	return days/7 + 1
}

// WeekStart возвращает первый день учебной недели
func (r Rules) WeekStart(week int) time.Time {
	return r.semesterDay().AddDate(0, 0, (week-1)*7)
}

// WeekEnd возвращает последний день учебной недели (включительно)
func (r Rules) WeekEnd(week int) time.Time {
	return r.WeekStart(week).AddDate(0, 0, 6)
}

// GradingWindow возвращает первый и последний (включительно) день, в которые можно оценить тему
func (r Rules) GradingWindow(a Assignment) (time.Time, time.Time) {
	return r.WeekStart(a.StartWeek), r.WeekEnd(a.DeadlineWeek)
}

// InGradingWindow проверяет, попадает ли дата в окно оценивания темы
func (r Rules) InGradingWindow(a Assignment, date time.Time) bool {
	week := r.AcademicWeek(date)
	return week >= a.StartWeek && week <= a.DeadlineWeek
}

func (r Rules) semesterDay() time.Time {
	s := r.SemesterStart
	return time.Date(s.Year(), s.Month(), s.Day(), 0, 0, 0, 0, s.Location())
}

// daysBetween считает календарные дни; через UTC, чтобы переход на летнее время не сдвигал счет
func daysBetween(from, to time.Time) int {
	f := time.Date(from.Year(), from.Month(), from.Day(), 0, 0, 0, 0, time.UTC)
	t := time.Date(to.Year(), to.Month(), to.Day(), 0, 0, 0, 0, time.UTC)
	return int(t.Sub(f).Hours() / 24)
}
