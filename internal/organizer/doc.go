// Package organizer планирует и выполняет перенос медиафайлов по дате съёмки.
//
// Запуск проверяет корни source и target, обходит все обычные файлы в source,
// определяет дату каждого (EXIF или заголовок ролика, затем время создания
// файла, затем текущее время) и строит путь назначения по шаблону. Preview на
// этом останавливается. Commit переносит записи в порядке обхода и пропускает
// уже существующие пути, поэтому прерванный запуск можно просто повторить.
//
// Два файла с одинаковым путём назначения не различаются: первый переносится,
// второй пропускается как существующий.
package organizer
