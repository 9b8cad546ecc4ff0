package textbook

import (
	"errors"
	"runtime"
	"sync"
)

// Pool sizing constants.
const (
	// MinPoolSize ensures at least one worker is available.
	MinPoolSize = 1

	// MaxPoolSize caps browser instances to limit memory (~200MB each).
	MaxPoolSize = 8

	// cpuDivisor leaves headroom for Chrome child processes.
	cpuDivisor = 2
)

// printerPool manages headless browser renderers for parallel PDF export.
// Each renderer owns its browser, so pages print truly in parallel.
// Renderers are created lazily on first acquire to avoid startup delay.
type printerPool struct {
	size      int
	newRender func() pdfRenderer
	renderers []pdfRenderer
	sem       chan pdfRenderer
	mu        sync.Mutex
	created   int
	closed    bool
}

// newPrinterPool creates a pool with capacity for n renderers built by factory.
func newPrinterPool(n int, factory func() pdfRenderer) *printerPool {
	if n < 1 {
		n = 1
	}
	return &printerPool{
		size:      n,
		newRender: factory,
		renderers: make([]pdfRenderer, 0, n),
		sem:       make(chan pdfRenderer, n),
	}
}

// acquire gets a renderer from the pool, creating one if needed.
// Blocks if all renderers are in use.
func (p *printerPool) acquire() pdfRenderer {
	select {
	case r := <-p.sem:
		return r
	default:
	}

	p.mu.Lock()
	if p.created < p.size {
		p.created++
		p.mu.Unlock()

		r := p.newRender()

		p.mu.Lock()
		p.renderers = append(p.renderers, r)
		p.mu.Unlock()
		return r
	}
	p.mu.Unlock()

	return <-p.sem
}

// release returns a renderer to the pool.
// The lock is released before sending to avoid deadlock when the channel is full.
func (p *printerPool) release(r pdfRenderer) {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return
	}
	p.mu.Unlock()

	p.sem <- r
}

// close shuts every browser down.
// Returns an aggregated error if multiple renderers fail to close.
func (p *printerPool) close() error {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return nil
	}
	p.closed = true
	close(p.sem)
	renderers := p.renderers
	p.mu.Unlock()

	var errs []error
	for _, r := range renderers {
		if err := r.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// ResolvePoolSize determines the worker count for rendering and printing.
// Priority: explicit workers > GOMAXPROCS-based calculation.
func ResolvePoolSize(workers int) int {
	if workers > 0 {
		return workers
	}

	// GOMAXPROCS is adjusted by automaxprocs for containers
	n := runtime.GOMAXPROCS(0) / cpuDivisor

	if n < MinPoolSize {
		return MinPoolSize
	}
	if n > MaxPoolSize {
		return MaxPoolSize
	}
	return n
}
