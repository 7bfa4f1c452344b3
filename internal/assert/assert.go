// Package assert panics on programmer errors in constructors.
package assert

import "fmt"

// NotNil panics if value is nil, name identifies the argument.
func NotNil(name string, value any) {
	if value == nil {
		panic(fmt.Sprintf("%s must not be nil", name))
	}
}

func NotEmpty(name, value string) {
	if value == "" {
		panic(fmt.Sprintf("%s must not be empty", name))
	}
}
