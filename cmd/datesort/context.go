// context.go — общее состояние команд: настройки и логгер
package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/lavelinevgeny/datesort/internal/config"
	"github.com/lavelinevgeny/datesort/internal/logging"
	"github.com/lavelinevgeny/datesort/internal/prefs"
)

const logFileName = "datesort.log"

type commandContext struct {
	configPath string
	logToFile  bool
	logLevel   string

	cfg      *config.Config
	logger   *slog.Logger
	closeLog func() error
}

func newCommandContext() *commandContext {
	return &commandContext{}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	if c.cfg != nil {
		return c.cfg, nil
	}
	cfg, _, _, err := config.Load(c.configPath)
	if err != nil {
		return nil, err
	}
	c.cfg = cfg
	return cfg, nil
}

// ensureLogger строит логгер один раз на запуск и помечает его run_id.
func (c *commandContext) ensureLogger(stderr io.Writer) (*slog.Logger, error) {
	if c.logger != nil {
		return c.logger, nil
	}
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}

	level := cfg.Logging.Level
	if c.logLevel != "" {
		level = c.logLevel
	}
	file := cfg.Logging.File
	if c.logToFile && file == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get current working directory: %w", err)
		}
		file = filepath.Join(cwd, logFileName)
	}

	logger, closeFn, err := logging.New(logging.Options{Level: level, File: file, Console: stderr})
	if err != nil {
		return nil, err
	}
	c.logger = logger.With("run_id", uuid.NewString())
	c.closeLog = closeFn
	return c.logger, nil
}

func (c *commandContext) prefsPath() (string, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return "", err
	}
	return prefs.DefaultPath(cfg.App.Identifier)
}

// savedPrefs возвращает сохранённые настройки; отсутствие файла не ошибка.
func (c *commandContext) savedPrefs() (prefs.Prefs, error) {
	path, err := c.prefsPath()
	if err != nil {
		return prefs.Prefs{}, err
	}
	p, err := prefs.Load(path)
	if err != nil {
		if os.IsNotExist(err) {
			return prefs.Prefs{}, nil
		}
		return prefs.Prefs{}, fmt.Errorf("read preferences: %w", err)
	}
	return p, nil
}

func (c *commandContext) close() error {
	if c.closeLog == nil {
		return nil
	}
	err := c.closeLog()
	c.closeLog = nil
	return err
}
