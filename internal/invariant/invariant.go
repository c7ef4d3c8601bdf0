// Package invariant provides contract assertions for ncsh.
//
// Assertions are a force multiplier for discovering bugs: use
// Precondition/Postcondition to express function contracts, and Invariant
// for internal consistency checks. All functions panic on violation —
// these are programming errors, never user input errors.
package invariant

import (
	"fmt"
	"reflect"
)

// Precondition checks an input contract at function entry.
func Precondition(condition bool, format string, args ...interface{}) {
	if !condition {
		fail("PRECONDITION", format, args...)
	}
}

// Postcondition checks an output contract before function return.
func Postcondition(condition bool, format string, args ...interface{}) {
	if !condition {
		fail("POSTCONDITION", format, args...)
	}
}

// Invariant checks an internal invariant during function execution.
func Invariant(condition bool, format string, args ...interface{}) {
	if !condition {
		fail("INVARIANT", format, args...)
	}
}

// NotNil panics if value is nil, including typed nils (e.g. (*T)(nil)).
func NotNil(value interface{}, name string) {
	if value == nil || isNilValue(value) {
		fail("PRECONDITION", "%s must not be nil", name)
	}
}

func isNilValue(value interface{}) bool {
	v := reflect.ValueOf(value)
	switch v.Kind() {
	case reflect.Ptr, reflect.Interface, reflect.Slice, reflect.Map, reflect.Chan, reflect.Func:
		return v.IsNil()
	default:
		return false
	}
}

// InRange panics if value is outside [min, max].
func InRange(value, minVal, maxVal int, name string) {
	if value < minVal || value > maxVal {
		fail("PRECONDITION", "%s must be in range [%d, %d], got %d", name, minVal, maxVal, value)
	}
}

// ExpectNoError panics if err is not nil. Use for operations that must
// never fail given the invariants already established by the caller.
func ExpectNoError(err error, msg string) {
	if err != nil {
		fail("POSTCONDITION", "%s: %v", msg, err)
	}
}

func fail(kind, format string, args ...interface{}) {
	panic(fmt.Sprintf("%s VIOLATION: %s", kind, fmt.Sprintf(format, args...)))
}
