// prefs.go — последние использованные source, target и pattern
//
// Файл — JSON с полем "version". "V0" — старая схема, где любое поле может
// отсутствовать; в "V1" всегда есть все три строки. Load читает обе,
// Save всегда пишет V1.
package prefs

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"
)

// FileName — имя файла настроек в каталоге приложения.
const FileName = "config.json"

const (
	VersionV0 = "V0"
	VersionV1 = "V1"
)

// Prefs — значения, которые запоминаются между запусками.
type Prefs struct {
	Source  string `json:"source"`
	Target  string `json:"target"`
	Pattern string `json:"pattern"`
}

type document struct {
	Version string  `json:"version"`
	Source  *string `json:"source,omitempty"`
	Target  *string `json:"target,omitempty"`
	Pattern *string `json:"pattern,omitempty"`
}

// DefaultPath возвращает <каталог настроек>/<appID>/config.json.
func DefaultPath(appID string) (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("not found config directory: %w", err)
	}
	return filepath.Join(dir, appID, FileName), nil
}

// Load читает настройки из path. Если файла нет, возвращает ошибку
// fs.ErrNotExist и ничего не создаёт.
func Load(path string) (Prefs, error) {
	if _, err := os.Stat(path); err != nil {
		return Prefs{}, err
	}
	lock := flock.New(path + ".lock")
	if err := lock.RLock(); err != nil {
		return Prefs{}, fmt.Errorf("lock preferences: %w", err)
	}
	defer lock.Unlock()

	data, err := os.ReadFile(path)
	if err != nil {
		return Prefs{}, err
	}
	return Decode(data)
}

// Decode разбирает документ любой известной версии.
func Decode(data []byte) (Prefs, error) {
	var doc document
	if err := json.Unmarshal(data, &doc); err != nil {
		return Prefs{}, fmt.Errorf("decode preferences: %w", err)
	}

	switch doc.Version {
	case VersionV0:
		return Prefs{
			Source:  deref(doc.Source),
			Target:  deref(doc.Target),
			Pattern: deref(doc.Pattern),
		}, nil
	case VersionV1:
		if doc.Source == nil || doc.Target == nil || doc.Pattern == nil {
			return Prefs{}, errors.New("decode preferences: V1 requires source, target and pattern")
		}
		return Prefs{Source: *doc.Source, Target: *doc.Target, Pattern: *doc.Pattern}, nil
	default:
		return Prefs{}, fmt.Errorf("decode preferences: unknown version %q", doc.Version)
	}
}

// Encode сериализует p в текущей схеме.
func Encode(p Prefs) ([]byte, error) {
	return json.Marshal(document{
		Version: VersionV1,
		Source:  &p.Source,
		Target:  &p.Target,
		Pattern: &p.Pattern,
	})
}

// Save записывает p в path, при необходимости создавая каталог.
func Save(path string, p Prefs) error {
	data, err := Encode(p)
	if err != nil {
		return fmt.Errorf("encode preferences: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}

	lock := flock.New(path + ".lock")
	if err := lock.Lock(); err != nil {
		return fmt.Errorf("lock preferences: %w", err)
	}
	defer lock.Unlock()

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
