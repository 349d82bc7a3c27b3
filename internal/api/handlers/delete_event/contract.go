package delete_event

import "context"

type EventsService interface {
	Delete(ctx context.Context, externalID string) error
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
