package h5

import "github.com/sirupsen/logrus"

// logger reports non-fatal conditions, currently only the same-class type
// mismatch on dataset read, which proceeds with conversion instead of
// failing.
var logger logrus.FieldLogger = logrus.StandardLogger()

// SetLogger replaces the package logger.
func SetLogger(l logrus.FieldLogger) {
	if l != nil {
		logger = l
	}
}
