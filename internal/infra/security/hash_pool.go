package security

import (
	"context"
	"errors"
	"runtime"

	"go.uber.org/zap"

	"github.com/codeclannigeria/codeclannigeria.dev/internal/core/port"
)

// ErrHashingBusy signals that the hashing queue is full and the caller
// should retry later.
var ErrHashingBusy = errors.New("hashing capacity exhausted")

// HashPool runs all bcrypt work on a fixed set of workers so a burst of
// authentication traffic cannot saturate every CPU. Submissions beyond the
// queue capacity are rejected immediately with ErrHashingBusy rather than
// queued without bound.
type HashPool struct {
	hasher port.PasswordHasher
	jobs   chan func()
	done   chan struct{}
	logger *zap.Logger
	onBusy func()
}

// NewHashPool starts the workers. Zero workers defaults to NumCPU, zero
// queueSize to twice the worker count.
func NewHashPool(hasher port.PasswordHasher, workers, queueSize int, logger *zap.Logger) *HashPool {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if queueSize <= 0 {
		queueSize = workers * 2
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	p := &HashPool{
		hasher: hasher,
		jobs:   make(chan func(), queueSize),
		done:   make(chan struct{}),
		logger: logger,
	}
	for i := 0; i < workers; i++ {
		go p.worker()
	}
	return p
}

// WithBusyHook registers a callback invoked every time a submission is
// rejected with ErrHashingBusy.
func (p *HashPool) WithBusyHook(fn func()) *HashPool {
	p.onBusy = fn
	return p
}

func (p *HashPool) worker() {
	for {
		select {
		case job := <-p.jobs:
			job()
		case <-p.done:
			return
		}
	}
}

type hashOutcome struct {
	digest string
	match  bool
	err    error
}

func (p *HashPool) submit(job func() hashOutcome) (<-chan hashOutcome, error) {
	// Buffered so a worker never blocks delivering a result the caller
	// abandoned on cancellation.
	out := make(chan hashOutcome, 1)
	select {
	case p.jobs <- func() { out <- job() }:
		return out, nil
	default:
		if p.onBusy != nil {
			p.onBusy()
		}
		return nil, ErrHashingBusy
	}
}

// Hash runs the hasher on the pool. When ctx is cancelled while the job is
// queued or running, the job still completes and its result is discarded.
func (p *HashPool) Hash(ctx context.Context, plaintext string) (string, error) {
	out, err := p.submit(func() hashOutcome {
		digest, err := p.hasher.Hash(plaintext)
		return hashOutcome{digest: digest, err: err}
	})
	if err != nil {
		return "", err
	}

	select {
	case res := <-out:
		return res.digest, res.err
	case <-ctx.Done():
		return "", ctx.Err()
	}
}

// Verify runs the comparison on the pool with the same queue discipline as Hash.
func (p *HashPool) Verify(ctx context.Context, plaintext, encoded string) (bool, error) {
	out, err := p.submit(func() hashOutcome {
		match, err := p.hasher.Verify(plaintext, encoded)
		return hashOutcome{match: match, err: err}
	})
	if err != nil {
		return false, err
	}

	select {
	case res := <-out:
		return res.match, res.err
	case <-ctx.Done():
		return false, ctx.Err()
	}
}

// Close stops the workers. Jobs still queued are dropped.
func (p *HashPool) Close() {
	close(p.done)
}
