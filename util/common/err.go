package common

import (
	"errors"
	"fmt"

	"user-panel/logger"
)

func NewErrorf(format string, a ...any) error {
	msg := fmt.Sprintf(format, a...)
	return errors.New(msg)
}

func NewError(a ...any) error {
	msg := fmt.Sprintln(a...)
	return errors.New(msg)
}

// Combine merges non-nil errors into one.
func Combine(errs ...error) error {
	var combined error
	for _, err := range errs {
		if err == nil {
			continue
		}
		if combined == nil {
			combined = err
		} else {
			combined = fmt.Errorf("%v; %v", combined, err)
		}
	}
	return combined
}

func Recover(msg string) any {
	panicErr := recover()
	if panicErr != nil {
		if msg != "" {
			logger.Error(msg, "panic:", panicErr)
		}
	}
	return panicErr
}
