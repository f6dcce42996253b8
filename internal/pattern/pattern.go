// pattern.go — подстановка даты съёмки в шаблон пути назначения
package pattern

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"
)

const (
	Year     = "{CREATED_YYYY}"
	Month    = "{CREATED_MM}"
	Day      = "{CREATED_DD}"
	FileName = "{FILE_NAME}"
)

// Default — шаблон, если его нет ни в аргументах, ни в сохранённых настройках.
const Default = Year + "/" + Month + "/" + FileName

// Placeholders возвращает все поддерживаемые метки.
func Placeholders() []string {
	return []string{Year, Month, Day, FileName}
}

// Resolve подставляет метки за один проход слева направо.
// Неизвестные метки остаются как есть.
func Resolve(template string, t time.Time, fileName string) string {
	r := strings.NewReplacer(
		Year, fmt.Sprintf("%04d", t.Year()),
		Month, fmt.Sprintf("%02d", int(t.Month())),
		Day, fmt.Sprintf("%02d", t.Day()),
		FileName, fileName,
	)
	return r.Replace(template)
}

// Join подставляет метки и добавляет результат к root.
func Join(root, template string, t time.Time, fileName string) string {
	return filepath.Join(root, filepath.FromSlash(Resolve(template, t, fileName)))
}

// HasFileName сообщает, сохраняет ли шаблон имя файла. Без него все файлы
// одного дня попадают в один путь.
func HasFileName(template string) bool {
	return strings.Contains(template, FileName)
}
