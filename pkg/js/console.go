package js

import (
	"strings"

	"github.com/dop251/goja"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var consoleLevels = map[string]zapcore.Level{
	"log":   zapcore.InfoLevel,
	"info":  zapcore.InfoLevel,
	"debug": zapcore.DebugLevel,
	"warn":  zapcore.WarnLevel,
	"error": zapcore.ErrorLevel,
}

// registerConsole routes console methods to log. Arguments are joined
// with spaces into the message, and only when the level is enabled.
func registerConsole(vm *goja.Runtime, log *zap.Logger) {
	console := vm.NewObject()
	for name, level := range consoleLevels {
		_ = console.Set(name, func(call goja.FunctionCall) goja.Value {
			if log.Core().Enabled(level) {
				parts := make([]string, len(call.Arguments))
				for i, arg := range call.Arguments {
					parts[i] = arg.String()
				}
				log.Log(level, strings.Join(parts, " "))
			}
			return goja.Undefined()
		})
	}
	_ = vm.Set("console", console)
}
