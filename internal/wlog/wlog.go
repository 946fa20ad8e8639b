// Package wlog wraps logrus with the structured fields decode, validate and
// instantiate diagnostics and engine trap events carry throughout this
// module (module, func_index, opcode), instead of every call site
// formatting its own ad hoc string.
//
// Grounded on open-policy-agent-opa's log.Logger wrapper: a package-level
// *logrus.Logger plus thin helpers that return a pre-populated *logrus.Entry.
package wlog

import (
	"io"

	"github.com/sirupsen/logrus"
)

// Fields aliases logrus.Fields so callers never import logrus directly.
type Fields = logrus.Fields

var std = logrus.New()

func init() {
	std.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
}

// SetLevel parses and installs level ("debug", "info", "warn", ...) on the
// package-level logger. Invalid levels are ignored.
func SetLevel(level string) {
	if lvl, err := logrus.ParseLevel(level); err == nil {
		std.SetLevel(lvl)
	}
}

// SetOutput redirects the package-level logger's output.
func SetOutput(w io.Writer) { std.SetOutput(w) }

// Module returns an entry scoped to a single module's diagnostics.
func Module(name string) *logrus.Entry {
	return std.WithField("module", name)
}

// Func returns an entry scoped to one function within a module.
func Func(module string, funcIndex uint32) *logrus.Entry {
	return std.WithFields(Fields{"module": module, "func_index": funcIndex})
}

// Opcode returns an entry additionally scoped to the opcode under
// execution, for engine trap and trace diagnostics.
func Opcode(module string, funcIndex uint32, opcode byte) *logrus.Entry {
	return std.WithFields(Fields{"module": module, "func_index": funcIndex, "opcode": opcode})
}
