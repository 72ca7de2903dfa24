package terminal

import "sync"

// Capabilities is the detection result handed to the art renderer.
type Capabilities struct {
	Term     Terminal
	Protocol GraphicsProtocol
}

var (
	capsOnce sync.Once
	caps     *Capabilities
)

// DetectCapabilities runs detection once per process and returns the
// cached result on every later call. Safe for concurrent use.
func DetectCapabilities() *Capabilities {
	capsOnce.Do(func() {
		term := Detect()
		caps = &Capabilities{
			Term:     term,
			Protocol: SelectProtocol(term),
		}
	})
	return caps
}
