// config.go — настройки приложения
package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"

	"github.com/lavelinevgeny/datesort/internal/logging"
	"github.com/lavelinevgeny/datesort/internal/media"
	"github.com/lavelinevgeny/datesort/internal/pattern"
)

//go:embed sample_config.toml
var sampleConfig string

// App — идентификатор приложения.
type App struct {
	Identifier string `toml:"identifier"`
}

// Logging — уровень и файл лога.
type Logging struct {
	Level string `toml:"level"`
	File  string `toml:"file"`
}

// Defaults — значения по умолчанию для команд.
type Defaults struct {
	Pattern string `toml:"pattern"`
}

// Extensions — дополнительные расширения для извлекателей даты.
type Extensions struct {
	Exif []string `toml:"exif"`
	Atom []string `toml:"atom"`
}

// Config хранит все настройки.
type Config struct {
	App        App        `toml:"app"`
	Logging    Logging    `toml:"logging"`
	Defaults   Defaults   `toml:"defaults"`
	Extensions Extensions `toml:"extensions"`
}

// Default возвращает настройки по умолчанию.
func Default() Config {
	return Config{
		App:      App{Identifier: "com.lavelinevgeny.datesort"},
		Logging:  Logging{Level: "info"},
		Defaults: Defaults{Pattern: pattern.Default},
	}
}

// DefaultConfigPath возвращает путь к settings.toml в каталоге настроек пользователя.
func DefaultConfigPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("resolve config directory: %w", err)
	}
	return filepath.Join(dir, "datesort", "settings.toml"), nil
}

// Load читает настройки из path (или из пути по умолчанию, если path пуст).
// Возвращает итоговый путь и признак существования файла.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolved, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolved)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		decoder.DisallowUnknownFields()
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}
	return &cfg, resolved, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path == "" {
		var err error
		path, err = DefaultConfigPath()
		if err != nil {
			return "", false, err
		}
	}
	expanded, err := ExpandPath(path)
	if err != nil {
		return "", false, err
	}
	info, err := os.Stat(expanded)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return expanded, false, nil
		}
		return "", false, fmt.Errorf("stat config: %w", err)
	}
	if info.IsDir() {
		return "", false, fmt.Errorf("config path %q is a directory", expanded)
	}
	return expanded, true, nil
}

func (c *Config) normalize() error {
	c.App.Identifier = strings.TrimSpace(c.App.Identifier)
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.File != "" {
		file, err := ExpandPath(c.Logging.File)
		if err != nil {
			return fmt.Errorf("logging.file: %w", err)
		}
		c.Logging.File = file
	}
	if strings.TrimSpace(c.Defaults.Pattern) == "" {
		c.Defaults.Pattern = pattern.Default
	}
	c.Extensions.Exif = normalizeExts(c.Extensions.Exif)
	c.Extensions.Atom = normalizeExts(c.Extensions.Atom)
	return nil
}

func normalizeExts(exts []string) []string {
	out := exts[:0]
	for _, ext := range exts {
		if ext = media.Normalize(ext); ext != "" {
			out = append(out, ext)
		}
	}
	return out
}

// Validate проверяет согласованность настроек.
func (c *Config) Validate() error {
	var errs []error
	if c.App.Identifier == "" {
		errs = append(errs, errors.New("app.identifier must not be empty"))
	} else if strings.ContainsAny(c.App.Identifier, `/\`) {
		errs = append(errs, fmt.Errorf("app.identifier %q must not contain path separators", c.App.Identifier))
	}
	if _, err := logging.ParseLevel(c.Logging.Level); err != nil {
		errs = append(errs, fmt.Errorf("logging.level: %w", err))
	}
	seen := make(map[string]string)
	for _, ext := range c.Extensions.Exif {
		seen[ext] = "exif"
	}
	for _, ext := range c.Extensions.Atom {
		if seen[ext] == "exif" {
			errs = append(errs, fmt.Errorf("extensions: %q listed as both exif and atom", ext))
		}
	}
	return errors.Join(errs...)
}

// MediaTable возвращает таблицу расширений с учётом настроек.
func (c *Config) MediaTable() media.Table {
	return media.DefaultTable().
		With(media.KindExif, c.Extensions.Exif...).
		With(media.KindAtom, c.Extensions.Atom...)
}

// ExpandPath раскрывает "~" и делает путь абсолютным.
func ExpandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	absolute, err := filepath.Abs(filepath.Clean(pathValue))
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", pathValue, err)
	}
	return absolute, nil
}

// CreateSample записывает пример настроек в path.
func CreateSample(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}
	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
