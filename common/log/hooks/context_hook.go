package hooks

import (
	"runtime/debug"
	"strings"

	log "github.com/sirupsen/logrus"
)

// contextHook tags every entry with the file:line of the caller that logged it.
type contextHook struct {
	// path element after which source paths are trimmed, e.g. "simsweep/"
	trimAfter string
}

func NewContextHook() contextHook {
	return contextHook{trimAfter: "simsweep/"}
}

func (hook contextHook) Levels() []log.Level {
	return log.AllLevels
}

func (hook contextHook) Fire(entry *log.Entry) error {
	if loc := hook.callerLocation(string(debug.Stack())); loc != "" {
		entry.Data["file:line"] = loc
	}
	return nil
}

// callerLocation walks a debug.Stack() dump and returns the first source
// location outside of logrus and this hook.
func (hook contextHook) callerLocation(stack string) string {
	lines := strings.Split(stack, "\n")
	// frames come in pairs: function name, then "\tfile:line +0x.."
	for i := 2; i < len(lines); i += 2 {
		file := strings.TrimSpace(lines[i])
		if file == "" ||
			strings.Contains(file, "sirupsen/logrus") ||
			strings.Contains(file, "context_hook.go:") ||
			strings.Contains(file, "runtime/debug") {
			continue
		}
		if idx := strings.LastIndex(file, " +0x"); idx >= 0 {
			file = file[:idx]
		}
		ctx := strings.Split(file, hook.trimAfter)
		return ctx[len(ctx)-1]
	}
	return ""
}
