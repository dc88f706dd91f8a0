package log

import "log/slog"

func Workflow(name string) slog.Attr {
	return slog.String("workflow", name)
}

func Key(key string) slog.Attr {
	return slog.String("key", key)
}

func RequestID(id string) slog.Attr {
	return slog.String("request_id", id)
}

func Error(err error) slog.Attr {
	msg := ""
	if err != nil {
		msg = err.Error()
	}
	return slog.String("error", msg)
}

func ErrorString(msg string) slog.Attr {
	return slog.String("error", msg)
}
