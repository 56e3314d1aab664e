package app

import (
	"github.com/rs/zerolog"
)

// Logger is the component-tagged logger handed to every subsystem.
type Logger interface {
	Debugf(component string, format string, args ...interface{})
	Infof(component string, format string, args ...interface{})
	Errorf(component string, format string, args ...interface{})
}

type NoopLogger struct{}

func (NoopLogger) Debugf(component, format string, args ...interface{}) {}
func (NoopLogger) Infof(component, format string, args ...interface{})  {}
func (NoopLogger) Errorf(component, format string, args ...interface{}) {}

// ZeroLogger adapts a zerolog.Logger; the component becomes a field.
type ZeroLogger struct{ log zerolog.Logger }

func NewZeroLogger(log zerolog.Logger) ZeroLogger { return ZeroLogger{log: log} }

func (l ZeroLogger) Debugf(component string, format string, args ...interface{}) {
	l.log.Debug().Str("component", component).Msgf(format, args...)
}

func (l ZeroLogger) Infof(component string, format string, args ...interface{}) {
	l.log.Info().Str("component", component).Msgf(format, args...)
}

func (l ZeroLogger) Errorf(component string, format string, args ...interface{}) {
	l.log.Error().Str("component", component).Msgf(format, args...)
}
