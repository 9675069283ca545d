package port

// Fields carries structured data into the log.
type Fields map[string]interface{}

// LoggerPort is the logging contract for the whole service.
type LoggerPort interface {
	Debug(msg string, fields Fields)
	Info(msg string, fields Fields)
	Warn(msg string, fields Fields)
	Error(msg string, err error, fields Fields)

	// WithFields returns a logger with the fields already attached.
	WithFields(fields Fields) LoggerPort
}
