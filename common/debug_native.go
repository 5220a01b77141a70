//go:build !js
// +build !js

package common

import (
	"fmt"
	"io"
	"log"
	"os"
)

var logger = log.New(os.Stderr, "", log.Ldate|log.Ltime)

// SetLogOutput redirects native debug output.
func SetLogOutput(w io.Writer) {
	logger.SetOutput(w)
}

// Debug logs a message to stderr if debug mode is enabled.
func Debug(args ...interface{}) {
	if EnableDebug {
		logger.Println(args...)
	}
}

// Debugf logs a formatted message to stderr if debug mode is enabled.
func Debugf(format string, args ...interface{}) {
	if EnableDebug {
		logger.Printf(format, args...)
	}
}

// DebugWarn logs a warning to stderr if debug mode is enabled.
func DebugWarn(args ...interface{}) {
	if EnableDebug {
		logger.Println(append([]interface{}{"WARN"}, args...)...)
	}
}

// DebugError logs an error to stderr. Errors are always shown.
func DebugError(args ...interface{}) {
	logger.Println(append([]interface{}{"ERROR"}, fmt.Sprint(args...))...)
}
