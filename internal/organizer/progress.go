// progress.go — уведомления о ходе переноса
package organizer

// Progress — сколько записей плана обработано.
type Progress struct {
	Complete int `json:"complete"`
	Total    int `json:"total"`
}

// ProgressSink получает одно уведомление на запись. Реализация не должна
// блокировать вызов.
type ProgressSink interface {
	Progress(Progress)
}

// SinkFunc позволяет использовать функцию как ProgressSink.
type SinkFunc func(Progress)

func (f SinkFunc) Progress(p Progress) { f(p) }

func emit(sink ProgressSink, p Progress) {
	if sink == nil {
		return
	}
	sink.Progress(p)
}
