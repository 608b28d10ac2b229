package pricing

import "sync"

// productLocks serializes pricing decisions per product so concurrent
// triggers (REST, correlator, supervisor) cannot interleave the
// read-decide-write sequence for the same product. Different products
// proceed in parallel.
type productLocks struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func newProductLocks() *productLocks {
	return &productLocks{locks: make(map[string]*sync.Mutex)}
}

func (p *productLocks) forProduct(productID string) *sync.Mutex {
	p.mu.Lock()
	defer p.mu.Unlock()
	lock, ok := p.locks[productID]
	if !ok {
		lock = &sync.Mutex{}
		p.locks[productID] = lock
	}
	return lock
}
