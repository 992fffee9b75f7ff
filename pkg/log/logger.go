// Package log wraps go-logging with module-scoped levels. Every package
// that logs creates one named logger; verbosity can be raised globally or
// for a single module such as "loaders" or "renderer".
package log

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/op/go-logging"
)

// Level is a logging verbosity, from most to least verbose.
type Level int

const (
	Debug Level = iota
	Info
	Notice
	Warning
	Error
)

var levelNames = map[Level]string{
	Debug:   "debug",
	Info:    "info",
	Notice:  "notice",
	Warning: "warning",
	Error:   "error",
}

func (l Level) String() string {
	if name, ok := levelNames[l]; ok {
		return name
	}
	return fmt.Sprintf("level(%d)", int(l))
}

// ParseLevel accepts a level name in any case
func ParseLevel(name string) (Level, error) {
	lower := strings.ToLower(strings.TrimSpace(name))
	for level, levelName := range levelNames {
		if levelName == lower {
			return level, nil
		}
	}
	return Notice, fmt.Errorf("unknown log level %q", name)
}

var format = logging.MustStringFormatter(
	`%{color}[%{time:15:04:05.000}] [%{module}] [%{level}]%{color:reset} %{message}`,
)

// Logger is the subset of *logging.Logger the packages use
type Logger interface {
	Debug(v ...interface{})
	Debugf(format string, v ...interface{})

	Info(v ...interface{})
	Infof(format string, v ...interface{})

	Notice(v ...interface{})
	Noticef(format string, v ...interface{})

	Warning(v ...interface{})
	Warningf(format string, v ...interface{})

	Error(v ...interface{})
	Errorf(format string, v ...interface{})
}

// state survives sink changes so tests can redirect output without
// losing the configured levels
var state = struct {
	sync.Mutex
	backend      logging.LeveledBackend
	defaultLevel Level
	moduleLevels map[string]Level
}{
	defaultLevel: Notice,
	moduleLevels: make(map[string]Level),
}

// New returns the logger for a module
func New(module string) Logger {
	return logging.MustGetLogger(module)
}

// SetSink sends all output to sink, keeping the current levels
func SetSink(sink io.Writer) {
	state.Lock()
	defer state.Unlock()

	backend := logging.NewBackendFormatter(logging.NewLogBackend(sink, "", 0), format)
	state.backend = logging.AddModuleLevel(backend)
	applyLevels()
	logging.SetBackend(state.backend)
}

// SetLevel sets the level of every module without its own override
func SetLevel(level Level) {
	state.Lock()
	defer state.Unlock()

	state.defaultLevel = level
	applyLevels()
}

// SetModuleLevel overrides the level of one module
func SetModuleLevel(module string, level Level) {
	state.Lock()
	defer state.Unlock()

	state.moduleLevels[module] = level
	applyLevels()
}

// ResetModuleLevels drops every per-module override
func ResetModuleLevels() {
	state.Lock()
	defer state.Unlock()

	state.moduleLevels = make(map[string]Level)
	applyLevels()
}

// Configure applies a comma separated list of module=level pairs, e.g.
// "loaders=debug,renderer=warning". A bare level sets the default.
func Configure(spec string) error {
	for _, entry := range strings.Split(spec, ",") {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}

		module, levelName, found := strings.Cut(entry, "=")
		if !found {
			level, err := ParseLevel(entry)
			if err != nil {
				return err
			}
			SetLevel(level)
			continue
		}

		module = strings.TrimSpace(module)
		if module == "" {
			return fmt.Errorf("missing module name in %q", entry)
		}
		level, err := ParseLevel(levelName)
		if err != nil {
			return err
		}
		SetModuleLevel(module, level)
	}
	return nil
}

// Enabled reports whether module emits messages at level
func Enabled(module string, level Level) bool {
	state.Lock()
	defer state.Unlock()

	return state.backend.IsEnabledFor(toLoggingLevel(level), module)
}

// applyLevels pushes the default and module levels into the backend.
// Callers hold the lock.
func applyLevels() {
	if state.backend == nil {
		return
	}
	state.backend.SetLevel(toLoggingLevel(state.defaultLevel), "")
	for _, module := range knownModules() {
		level, ok := state.moduleLevels[module]
		if !ok {
			level = state.defaultLevel
		}
		state.backend.SetLevel(toLoggingLevel(level), module)
	}
}

// seenModules remembers every module that ever had an override, so a
// dropped override can be reset to the default
var seenModules = make(map[string]bool)

func knownModules() []string {
	for module := range state.moduleLevels {
		seenModules[module] = true
	}
	modules := make([]string, 0, len(seenModules))
	for module := range seenModules {
		modules = append(modules, module)
	}
	return modules
}

func toLoggingLevel(level Level) logging.Level {
	switch level {
	case Debug:
		return logging.DEBUG
	case Info:
		return logging.INFO
	case Warning:
		return logging.WARNING
	case Error:
		return logging.ERROR
	default:
		return logging.NOTICE
	}
}

func init() {
	SetSink(os.Stderr)
}
