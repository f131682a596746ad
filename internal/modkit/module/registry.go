package module

import "sync"

// process wide port registry filled while the API boots
var (
	mu  sync.RWMutex
	reg = map[string]any{}
)

// Register stores the port set of a module under its name
func Register(name string, ports any) {
	mu.Lock()
	reg[name] = ports
	mu.Unlock()
}

// PortsAs fetches the port set registered under name as T
func PortsAs[T any](name string) (T, bool) {
	mu.RLock()
	v, ok := reg[name]
	mu.RUnlock()
	out, ok2 := v.(T)
	return out, ok && ok2
}

// Reset clears the registry
func Reset() {
	mu.Lock()
	reg = map[string]any{}
	mu.Unlock()
}
