// Package config загружает настройки приложения из YAML-файла
package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/Vaflel/gradebook/domain"
	"gopkg.in/yaml.v3"
)

const dateLayout = "2006-01-02"

// Config основная структура конфигурации приложения
type Config struct {
	Storage StorageConfig `yaml:"storage"`
	Rules   RulesConfig   `yaml:"rules"`
	Log     LogConfig     `yaml:"log"`
}

// StorageConfig пути к файлам хранилища
type StorageConfig struct {
	StudentsFile    string `yaml:"students_file"`
	AssignmentsFile string `yaml:"assignments_file"`
	GradesFile      string `yaml:"grades_file"`
	FeedbackDir     string `yaml:"feedback_dir"` // если пусто, отзывы не сохраняются
}

// RulesConfig диапазоны для валидации
type RulesConfig struct {
	SemesterStart string   `yaml:"semester_start"` // "2006-01-02"
	GroupMin      *int     `yaml:"group_min"`
	GroupMax      *int     `yaml:"group_max"`
	GradeMin      *float64 `yaml:"grade_min"`
	GradeMax      *float64 `yaml:"grade_max"`
	WeekMin       *int     `yaml:"week_min"`
	WeekMax       *int     `yaml:"week_max"`
}

// LogConfig настройки логирования
type LogConfig struct {
	Level   string `yaml:"level"`
	Console bool   `yaml:"console"`
}

// Default возвращает конфигурацию по умолчанию
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

// LoadConfig загружает конфигурацию из YAML файла
func LoadConfig(filename string) (*Config, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("не удалось открыть файл конфигурации %s: %w", filename, err)
	}
	defer file.Close()

	cfg := &Config{}
	decoder := yaml.NewDecoder(file)
	decoder.KnownFields(true)
	// для пустого файла остаются значения по умолчанию
	if err := decoder.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("не удалось разобрать файл конфигурации %s: %w", filename, err)
	}

	cfg.applyDefaults()
	if _, err := cfg.DomainRules(); err != nil {
		return nil, fmt.Errorf("некорректный файл конфигурации %s: %w", filename, err)
	}

	return cfg, nil
}

// applyDefaults устанавливает значения по умолчанию, если они не заданы
func (c *Config) applyDefaults() {
	if c.Storage.StudentsFile == "" {
		c.Storage.StudentsFile = "data/students.yaml"
	}
	if c.Storage.AssignmentsFile == "" {
		c.Storage.AssignmentsFile = "data/assignments.yaml"
	}
	if c.Storage.GradesFile == "" {
		c.Storage.GradesFile = "data/grades.yaml"
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
}

// DomainRules переводит настройки в domain.Rules; незаданные поля берутся из domain.DefaultRules
func (c *Config) DomainRules() (domain.Rules, error) {
	rules := domain.DefaultRules()

	if c.Rules.SemesterStart != "" {
		start, err := time.ParseInLocation(dateLayout, c.Rules.SemesterStart, time.Local)
		if err != nil {
			return domain.Rules{}, fmt.Errorf("некорректная дата semester_start: %w", err)
		}
		rules.SemesterStart = start
	}

	setInt(&rules.GroupMin, c.Rules.GroupMin)
	setInt(&rules.GroupMax, c.Rules.GroupMax)
	setInt(&rules.WeekMin, c.Rules.WeekMin)
	setInt(&rules.WeekMax, c.Rules.WeekMax)
	if c.Rules.GradeMin != nil {
		rules.GradeMin = *c.Rules.GradeMin
	}
	if c.Rules.GradeMax != nil {
		rules.GradeMax = *c.Rules.GradeMax
	}

	switch {
	case rules.GroupMin > rules.GroupMax:
		return domain.Rules{}, fmt.Errorf("group_min %d больше group_max %d", rules.GroupMin, rules.GroupMax)
	case rules.GradeMin > rules.GradeMax:
		return domain.Rules{}, fmt.Errorf("grade_min %g больше grade_max %g", rules.GradeMin, rules.GradeMax)
	case rules.WeekMin > rules.WeekMax:
		return domain.Rules{}, fmt.Errorf("week_min %d больше week_max %d", rules.WeekMin, rules.WeekMax)
	}

	return rules, nil
}

func setInt(dst *int, src *int) {
	if src != nil {
		*dst = *src
	}
}
