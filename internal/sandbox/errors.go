package sandbox

import (
	"errors"
	"fmt"

	"github.com/dop251/goja"
)

// normalizeError converts whatever shape the engine reports into one
// human-readable message. Priority order: interrupt/stack sentinel, thrown
// string, Error-like message, object message, object stack, stringified
// fallback. All error-shape handling lives here; nothing else in the
// package inspects engine errors.
func normalizeError(err error, timeout string) string {
	var interrupted *goja.InterruptedError
	if errors.As(err, &interrupted) {
		if reason, ok := interrupted.Value().(string); ok && reason == "context cancelled" {
			return "execution cancelled by the caller"
		}
		return fmt.Sprintf("execution timed out after %s", timeout)
	}

	var overflow *goja.StackOverflowError
	if errors.As(err, &overflow) {
		return "execution exceeded the sandbox resource ceiling (call stack overflow)"
	}

	var exception *goja.Exception
	if errors.As(err, &exception) {
		return describeThrown(exception.Value())
	}

	return err.Error()
}

// isTimeout reports whether the engine error is a timeout interrupt, as
// opposed to a caller cancellation or a guest fault.
func isTimeout(err error) bool {
	var interrupted *goja.InterruptedError
	if !errors.As(err, &interrupted) {
		return false
	}
	reason, ok := interrupted.Value().(string)
	return !ok || reason != "context cancelled"
}

// describeThrown extracts a message from a guest-thrown value.
func describeThrown(v goja.Value) string {
	if v == nil || goja.IsUndefined(v) || goja.IsNull(v) {
		return "script threw an empty error"
	}

	// Plain thrown string.
	if s, ok := v.Export().(string); ok {
		return s
	}

	// Error-like object: prefer message, fall back to stack.
	if obj, ok := v.(*goja.Object); ok {
		if msg := obj.Get("message"); msg != nil && !goja.IsUndefined(msg) && !goja.IsNull(msg) {
			return msg.String()
		}
		if stack := obj.Get("stack"); stack != nil && !goja.IsUndefined(stack) && !goja.IsNull(stack) {
			return stack.String()
		}
	}

	return v.String()
}
