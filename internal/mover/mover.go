// mover.go — перемещение файла с созданием каталогов
package mover

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
)

// Op — шаг, на котором произошла ошибка.
type Op string

const (
	OpCreateDir Op = "create missing directory"
	OpRename    Op = "move file"
	OpCopy      Op = "copy file"
	OpRemove    Op = "remove file"
)

// Error описывает неудачное перемещение.
type Error struct {
	Op     Op
	Source string
	Target string
	Err    error
}

func (e *Error) Error() string {
	return fmt.Sprintf("failed to %s %s -> %s: %v", e.Op, e.Source, e.Target, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// VolumeFunc сообщает, лежат ли src и dst на одном томе.
type VolumeFunc func(src, dst string) bool

// AlwaysSame считает любые пути одним томом.
func AlwaysSame(string, string) bool { return true }

// DrivePrefix сравнивает первые три символа ("C:\").
func DrivePrefix(src, dst string) bool {
	return prefix(src, 3) == prefix(dst, 3)
}

// HostVolume выбирает стратегию для текущей ОС.
func HostVolume() VolumeFunc {
	if runtime.GOOS == "windows" {
		return DrivePrefix
	}
	return AlwaysSame
}

func prefix(s string, n int) string {
	r := []rune(s)
	if len(r) > n {
		r = r[:n]
	}
	return string(r)
}

// Mover перемещает файлы. Нулевое значение использует AlwaysSame.
type Mover struct {
	SameVolume VolumeFunc
	Logger     *slog.Logger
}

// New возвращает Mover со стратегией текущей ОС.
func New(logger *slog.Logger) *Mover {
	return &Mover{SameVolume: HostVolume(), Logger: logger}
}

// Move создаёт каталоги назначения и переносит src в dst: rename на одном
// томе, иначе копирование и удаление исходника. Между копированием и
// удалением операция не атомарна.
func (m *Mover) Move(src, dst string) error {
	dir := filepath.Dir(dst)
	m.debug("creating directory", "dir", dir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return &Error{Op: OpCreateDir, Source: src, Target: dst, Err: err}
	}

	same := m.SameVolume
	if same == nil {
		same = AlwaysSame
	}
	if same(src, dst) {
		m.debug("renaming", "source", src, "target", dst)
		if err := os.Rename(src, dst); err != nil {
			return &Error{Op: OpRename, Source: src, Target: dst, Err: err}
		}
		return nil
	}

	m.debug("copying across volumes", "source", src, "target", dst)
	if err := copyFile(src, dst); err != nil {
		return &Error{Op: OpCopy, Source: src, Target: dst, Err: err}
	}
	if err := os.Remove(src); err != nil {
		return &Error{Op: OpRemove, Source: src, Target: dst, Err: err}
	}
	return nil
}

func (m *Mover) debug(msg string, args ...any) {
	if m.Logger != nil {
		m.Logger.Debug(msg, args...)
	}
}

// copyFile копирует содержимое src в новый файл dst с теми же правами.
// Существующий dst не перезаписывается; недописанный dst удаляется.
func copyFile(src, dst string) (err error) {
	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("failed to open source file: %w", err)
	}
	defer in.Close()

	info, err := in.Stat()
	if err != nil {
		return fmt.Errorf("failed to stat source file: %w", err)
	}

	out, err := os.OpenFile(dst, os.O_CREATE|os.O_EXCL|os.O_WRONLY, info.Mode().Perm())
	if err != nil {
		return fmt.Errorf("failed to create destination file: %w", err)
	}
	defer func() {
		if err != nil {
			_ = os.Remove(dst)
		}
	}()

	if _, err = io.Copy(out, in); err != nil {
		_ = out.Close()
		return fmt.Errorf("copy failed: %w", err)
	}
	if err = out.Close(); err != nil {
		return fmt.Errorf("failed to close destination file: %w", err)
	}
	if err = os.Chtimes(dst, info.ModTime(), info.ModTime()); err != nil {
		return fmt.Errorf("failed to keep modification time: %w", err)
	}
	return nil
}

// IsStep сообщает, упала ли операция на шаге op.
func IsStep(err error, op Op) bool {
	var merr *Error
	return errors.As(err, &merr) && merr.Op == op
}
