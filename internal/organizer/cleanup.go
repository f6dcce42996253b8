// cleanup.go — удаление опустевших каталогов
package organizer

import (
	"log/slog"
	"os"
	"path/filepath"
)

// ignoredNames не мешают считать каталог пустым.
var ignoredNames = map[string]bool{
	".DS_Store": true,
}

// removeEmptyDirs снизу вверх удаляет каталоги внутри root, в которых нет
// ничего, кроме ignoredNames. Сам root остаётся. Ошибки только логируются.
func removeEmptyDirs(root string, logger *slog.Logger) {
	entries, err := os.ReadDir(root)
	if err != nil {
		logger.Debug("cleanup: read dir failed", "dir", root, "error", err)
		return
	}
	for _, e := range entries {
		if e.IsDir() {
			pruneDir(filepath.Join(root, e.Name()), logger)
		}
	}
}

// pruneDir сообщает, удалён ли dir.
func pruneDir(dir string, logger *slog.Logger) bool {
	entries, err := os.ReadDir(dir)
	if err != nil {
		logger.Debug("cleanup: read dir failed", "dir", dir, "error", err)
		return false
	}

	blank := true
	var ignored []string
	for _, e := range entries {
		path := filepath.Join(dir, e.Name())
		switch {
		case e.IsDir():
			if !pruneDir(path, logger) {
				blank = false
			}
		case ignoredNames[e.Name()]:
			ignored = append(ignored, path)
		default:
			blank = false
		}
	}
	if !blank {
		return false
	}

	for _, path := range ignored {
		if err := os.Remove(path); err != nil {
			logger.Debug("cleanup: remove failed", "path", path, "error", err)
			return false
		}
	}
	if err := os.Remove(dir); err != nil {
		logger.Debug("cleanup: remove failed", "dir", dir, "error", err)
		return false
	}
	logger.Debug("removed empty directory", "dir", dir)
	return true
}
