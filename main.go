package main

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/Vaflel/gradebook/config"
	"github.com/Vaflel/gradebook/console"
	"github.com/Vaflel/gradebook/infrastructure"
	"github.com/Vaflel/gradebook/usecases"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
)

// loadConfig читает путь к конфигурации из GRADEBOOK_CONFIG (можно задать в .env);
// без него используются значения по умолчанию
func loadConfig() (*config.Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, err
	}

	path := os.Getenv("GRADEBOOK_CONFIG")
	if path == "" {
		return config.Default(), nil
	}
	return config.LoadConfig(path)
}

func newLogger(cfg config.LogConfig) zerolog.Logger {
	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil {
		level = zerolog.InfoLevel
	}

	logger := zerolog.New(os.Stderr)
	if cfg.Console {
		logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.TimeOnly})
	}
	return logger.Level(level).With().Timestamp().Logger()
}

// ensureDir создает директорию для файла хранилища
func ensureDir(path string) error {
	return os.MkdirAll(filepath.Dir(path), 0755)
}

func main() {
	cfg, err := loadConfig()
	if err != nil {
		bootLogger := zerolog.New(os.Stderr)
		bootLogger.Fatal().Err(err).Msg("не удалось загрузить конфигурацию")
	}

	logger := newLogger(cfg.Log)

	rules, err := cfg.DomainRules()
	if err != nil {
		logger.Fatal().Err(err).Msg("некорректные правила")
	}

	for _, path := range []string{cfg.Storage.StudentsFile, cfg.Storage.AssignmentsFile, cfg.Storage.GradesFile} {
		if err := ensureDir(path); err != nil {
			logger.Fatal().Err(err).Str("path", path).Msg("не удалось подготовить хранилище")
		}
	}

	opts := []usecases.Option{usecases.WithLogger(logger)}
	if cfg.Storage.FeedbackDir != "" {
		opts = append(opts, usecases.WithFeedbackJournal(infrastructure.NewFileFeedbackJournal(cfg.Storage.FeedbackDir)))
	}

	service := usecases.NewService(
		infrastructure.NewYAMLStudentRepository(cfg.Storage.StudentsFile),
		infrastructure.NewYAMLAssignmentRepository(cfg.Storage.AssignmentsFile),
		infrastructure.NewYAMLGradeRepository(cfg.Storage.GradesFile),
		rules,
		opts...,
	)

	if err := console.New(service, os.Stdout, logger).Run(os.Args[1:]); err != nil {
		logger.Error().Err(err).Msg("команда завершилась с ошибкой")
		os.Exit(1)
	}
}
