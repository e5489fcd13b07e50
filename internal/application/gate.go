package application

import "sync"

// Gate admits at most one automation run at a time. A holder keeps a Lease;
// Stop revokes the current lease without waiting for its holder.
type Gate struct {
	mu     sync.Mutex
	holder *Lease
}

type Lease struct {
	gate *Gate
	done chan struct{}
	once sync.Once
}

func NewGate() *Gate {
	return &Gate{}
}

// TryAcquire never blocks. ok is false when another run holds the gate.
func (g *Gate) TryAcquire() (*Lease, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.holder != nil {
		return nil, false
	}

	lease := &Lease{gate: g, done: make(chan struct{})}
	g.holder = lease

	return lease, true
}

func (g *Gate) Held() bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	return g.holder != nil
}

// Stop frees the gate and reports whether a run was holding it. The revoked
// holder observes it through Active and Done.
func (g *Gate) Stop() bool {
	g.mu.Lock()
	lease := g.holder
	g.holder = nil
	g.mu.Unlock()

	if lease == nil {
		return false
	}
	lease.closeDone()

	return true
}

// Release frees the gate if l still holds it. Releasing a revoked lease
// leaves a newer holder untouched.
func (l *Lease) Release() {
	l.gate.mu.Lock()
	if l.gate.holder == l {
		l.gate.holder = nil
	}
	l.gate.mu.Unlock()

	l.closeDone()
}

func (l *Lease) Active() bool {
	l.gate.mu.Lock()
	defer l.gate.mu.Unlock()

	return l.gate.holder == l
}

// Done is closed once the lease is released or revoked.
func (l *Lease) Done() <-chan struct{} {
	return l.done
}

func (l *Lease) closeDone() {
	l.once.Do(func() { close(l.done) })
}
