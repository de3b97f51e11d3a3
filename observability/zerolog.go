package observability

import "github.com/rs/zerolog"

// Zerolog adapts a zerolog.Logger to the Logger interface.
//
//	logger := zerolog.New(os.Stderr).With().Timestamp().Logger()
//	client := pluralkit.NewWithConfig(pluralkit.ClientConfig{
//		Token:  token,
//		Logger: observability.Zerolog(logger),
//	})
//
//nolint:ireturn // Factory returns the interface by design
func Zerolog(logger zerolog.Logger) Logger {
	return zerologLogger{logger: logger}
}

type zerologLogger struct {
	logger zerolog.Logger
}

func (l zerologLogger) Debug(msg string, fields ...Field) {
	l.emit(l.logger.Debug(), msg, fields)
}

func (l zerologLogger) Warn(msg string, fields ...Field) {
	l.emit(l.logger.Warn(), msg, fields)
}

func (l zerologLogger) Error(msg string, fields ...Field) {
	l.emit(l.logger.Error(), msg, fields)
}

//nolint:ireturn // Satisfies Logger
func (l zerologLogger) With(fields ...Field) Logger {
	ctx := l.logger.With()
	for _, f := range fields {
		ctx = ctx.Interface(f.Key, f.Value)
	}
	return zerologLogger{logger: ctx.Logger()}
}

func (l zerologLogger) emit(ev *zerolog.Event, msg string, fields []Field) {
	for _, f := range fields {
		ev = ev.Interface(f.Key, f.Value)
	}
	ev.Msg(msg)
}
