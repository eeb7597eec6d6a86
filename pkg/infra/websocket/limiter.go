package websocket

// ConnectionLimiter caps the number of concurrently open websocket
// conversations. A limit of zero or less disables the cap.
type ConnectionLimiter struct {
	slots chan struct{}
}

func NewConnectionLimiter(limit int) *ConnectionLimiter {
	if limit <= 0 {
		return &ConnectionLimiter{}
	}
	return &ConnectionLimiter{slots: make(chan struct{}, limit)}
}

// TryAcquire never blocks.
func (l *ConnectionLimiter) TryAcquire() bool {
	if l.slots == nil {
		return true
	}
	select {
	case l.slots <- struct{}{}:
		return true
	default:
		return false
	}
}

func (l *ConnectionLimiter) Release() {
	if l.slots == nil {
		return
	}
	select {
	case <-l.slots:
	default:
	}
}

func (l *ConnectionLimiter) InUse() int {
	return len(l.slots)
}
