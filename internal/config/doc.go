// Package config читает и проверяет настройки datesort из файла TOML.
//
// Настройки: логирование, дополнительные расширения для чтения даты, шаблон
// пути по умолчанию и идентификатор приложения для поиска файла prefs.
// Если файла нет, действуют значения по умолчанию.
package config
