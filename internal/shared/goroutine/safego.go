// Package goroutine launches goroutines with panic recovery.
package goroutine

import (
	"fmt"
	"runtime/debug"

	"github.com/orris-inc/licenser/internal/shared/logger"
)

// SafeGo runs fn in its own goroutine. A panic is logged with its stack and
// handed to onPanic, when given, so the caller can shut down cleanly.
func SafeGo(log logger.Interface, name string, fn func(), onPanic ...func(recovered any)) {
	go func() {
		defer func() {
			r := recover()
			if r == nil {
				return
			}
			log.Errorw("goroutine panicked",
				"goroutine", name,
				"panic", fmt.Sprintf("%v", r),
				"stack", string(debug.Stack()),
			)
			for _, handle := range onPanic {
				handle(r)
			}
		}()
		fn()
	}()
}
