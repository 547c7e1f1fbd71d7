package ryfi

import (
	"fmt"
	"runtime"
)

// Assert panics with the caller's file:line when cond is false. Kept from
// the teacher's own minimal runtime assertion helper, without the geo/unit
// conversion helpers that had no place in this protocol.
func Assert(cond bool) {
	if !cond {
		_, file, line, _ := runtime.Caller(1)
		panic(fmt.Sprintf("assertion failed at %s:%d", file, line))
	}
}
