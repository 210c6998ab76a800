package logger

import (
	"log/slog"
	"time"

	"github.com/google/uuid"
)

// Error logs err under "error". A nil err yields an empty attr, which slog drops.
func Error(err error) slog.Attr {
	if err == nil {
		return slog.Attr{}
	}
	return slog.Any("error", err)
}

func TaskID(id uuid.UUID) slog.Attr {
	return slog.String("task_id", id.String())
}

func Queue(name string) slog.Attr {
	return slog.String("queue", name)
}

func Component(name string) slog.Attr {
	return slog.String("component", name)
}

func Duration(d time.Duration) slog.Attr {
	return slog.Duration("duration", d)
}
