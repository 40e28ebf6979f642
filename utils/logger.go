package utils

import (
	"fmt"
	"io"
	"os"
	"time"

	log "github.com/sirupsen/logrus"
)

// Logger представляет логгер сервиса дашборда
type Logger struct {
	entry     *log.Entry
	isVerbose bool
}

// NewLogger создает новый экземпляр логгера.
// Если указан logDir, сообщения дополнительно пишутся в файл pulse_log_<дата>.log
func NewLogger(verbose bool, logDir string) (*Logger, error) {
	base := log.New()
	base.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	base.SetOutput(os.Stdout)

	if logDir != "" {
		currentTime := time.Now().Format("2006-01-02")
		logFileName := fmt.Sprintf("%s/pulse_log_%s.log", logDir, currentTime)

		file, err := os.OpenFile(logFileName, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0666)
		if err != nil {
			return nil, fmt.Errorf("не удалось открыть или создать файл лога: %w", err)
		}
		base.SetOutput(io.MultiWriter(os.Stdout, file))
	}

	if verbose {
		base.SetLevel(log.DebugLevel)
	} else {
		base.SetLevel(log.InfoLevel)
	}

	return &Logger{
		entry:     log.NewEntry(base),
		isVerbose: verbose,
	}, nil
}

// NewDiscardLogger возвращает логгер, который ничего не пишет (для тестов)
func NewDiscardLogger() *Logger {
	return NewWriterLogger(io.Discard, false)
}

// NewWriterLogger создает логгер, который пишет только в w
func NewWriterLogger(w io.Writer, verbose bool) *Logger {
	base := log.New()
	base.SetFormatter(&log.TextFormatter{DisableTimestamp: true, DisableColors: true})
	base.SetOutput(w)
	if verbose {
		base.SetLevel(log.DebugLevel)
	}
	return &Logger{entry: log.NewEntry(base), isVerbose: verbose}
}

// WithField возвращает логгер с дополнительным полем
func (l *Logger) WithField(key string, value interface{}) *Logger {
	return &Logger{
		entry:     l.entry.WithField(key, value),
		isVerbose: l.isVerbose,
	}
}

// Info логирует информационное сообщение
func (l *Logger) Info(format string, v ...interface{}) {
	l.entry.Infof(format, v...)
}

// Warn логирует предупреждение
func (l *Logger) Warn(format string, v ...interface{}) {
	l.entry.Warnf(format, v...)
}

// Error логирует сообщение об ошибке
func (l *Logger) Error(format string, v ...interface{}) {
	l.entry.Errorf(format, v...)
}

// Debug логирует отладочное сообщение (только если включен verbose режим)
func (l *Logger) Debug(format string, v ...interface{}) {
	if !l.isVerbose {
		return
	}
	l.entry.Debugf(format, v...)
}

// LogSnapshotStart логирует начало сохранения снимка данных
func (l *Logger) LogSnapshotStart(months int) {
	l.Info("Начало сохранения снимка данных (месяцев: %d)", months)
}

// LogSnapshotComplete логирует завершение сохранения снимка данных
func (l *Logger) LogSnapshotComplete(startTime time.Time, id string, rows int) {
	l.Info("Снимок %s сохранен. Строк: %d, длительность: %v", id, rows, time.Since(startTime))
}
