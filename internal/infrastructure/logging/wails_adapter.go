package logging

// WailsLoggerAdapter routes Wails runtime output into a Logger. It satisfies
// github.com/wailsapp/wails/v2/pkg/logger.Logger.
type WailsLoggerAdapter struct {
	logger Logger
}

// NewWailsLoggerAdapter wraps logger; nil falls back to NewDefaultLogger
func NewWailsLoggerAdapter(logger Logger) *WailsLoggerAdapter {
	if logger == nil {
		logger = NewDefaultLogger()
	}
	return &WailsLoggerAdapter{logger: logger}
}

// emit tags every record with source=wails; wailsLevel is added only when
// the Wails level has no direct counterpart
func (w *WailsLoggerAdapter) emit(log func(string, ...interface{}), message, wailsLevel string) {
	if wailsLevel == "" {
		log(message, "source", "wails")
		return
	}
	log(message, "source", "wails", "wails_level", wailsLevel)
}

func (w *WailsLoggerAdapter) Print(message string)   { w.emit(w.logger.Info, message, "") }
func (w *WailsLoggerAdapter) Trace(message string)   { w.emit(w.logger.Debug, message, "trace") }
func (w *WailsLoggerAdapter) Debug(message string)   { w.emit(w.logger.Debug, message, "") }
func (w *WailsLoggerAdapter) Info(message string)    { w.emit(w.logger.Info, message, "") }
func (w *WailsLoggerAdapter) Warning(message string) { w.emit(w.logger.Warn, message, "") }
func (w *WailsLoggerAdapter) Error(message string)   { w.emit(w.logger.Error, message, "") }

// Fatal is logged at ERROR; the launcher keeps running so the window can
// still be closed normally
func (w *WailsLoggerAdapter) Fatal(message string) { w.emit(w.logger.Error, message, "fatal") }
