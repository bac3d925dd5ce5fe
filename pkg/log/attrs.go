package log

import "log/slog"

func WorkflowID[T ~string](id T) slog.Attr {
	return slog.String("workflow_id", string(id))
}

func ExecutionID[T ~string](id T) slog.Attr {
	return slog.String("execution_id", string(id))
}

func NodeID[T ~string](id T) slog.Attr {
	return slog.String("node_id", string(id))
}

func Status[T ~string](status T) slog.Attr {
	return slog.String("status", string(status))
}

func Trigger[T ~string](trigger T) slog.Attr {
	return slog.String("trigger", string(trigger))
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
