package dashboard

import (
	"context"
	"hash/fnv"
	"sync"

	"github.com/rs/zerolog"
)

const (
	defaultWorkers = 4
	channelBuffer  = 64
)

// Op is one mutation against a single entity.
type Op struct {
	ID  string
	Run func(ctx context.Context) error
}

// Outcome records how an Op ended.
type Outcome struct {
	ID  string
	Err error
}

// Dispatcher runs batch mutations on a fixed set of workers. Ops are sharded
// by entity id, so ops on the same id run in submission order.
type Dispatcher struct {
	workers []chan Op
	log     zerolog.Logger

	wg       sync.WaitGroup
	mu       sync.Mutex
	outcomes []Outcome
}

// NewDispatcher creates a Dispatcher with numWorkers sharded workers.
// If numWorkers <= 0, defaultWorkers is used.
func NewDispatcher(numWorkers int, log zerolog.Logger) *Dispatcher {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	d := &Dispatcher{
		workers: make([]chan Op, numWorkers),
		log:     log,
	}
	for i := range d.workers {
		d.workers[i] = make(chan Op, channelBuffer)
	}
	return d
}

// Start launches all worker goroutines. Workers drain their queue until Wait
// closes it; ops dequeued after ctx is cancelled fail with ctx.Err().
func (d *Dispatcher) Start(ctx context.Context) {
	for i, ch := range d.workers {
		d.wg.Add(1)
		go d.runWorker(ctx, i, ch)
	}
}

// Enqueue sends op to the worker responsible for its id. It blocks once that
// worker's buffer is full.
func (d *Dispatcher) Enqueue(op Op) {
	d.workers[d.shardIndex(op.ID)] <- op
}

// Wait stops accepting ops, waits for the queued ones and returns every
// outcome. Enqueue must not be called afterwards.
func (d *Dispatcher) Wait() []Outcome {
	for _, ch := range d.workers {
		close(ch)
	}
	d.wg.Wait()

	d.mu.Lock()
	defer d.mu.Unlock()
	return d.outcomes
}

// shardIndex maps an id deterministically to a worker index.
func (d *Dispatcher) shardIndex(id string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(id))
	return int(h.Sum32() % uint32(len(d.workers)))
}

func (d *Dispatcher) runWorker(ctx context.Context, id int, ch <-chan Op) {
	defer d.wg.Done()
	for op := range ch {
		err := ctx.Err()
		if err == nil {
			err = op.Run(ctx)
		}
		if err != nil {
			d.log.Error().Err(err).
				Str("entity_id", op.ID).
				Int("worker_id", id).
				Msg("batch operation failed")
		}
		d.mu.Lock()
		d.outcomes = append(d.outcomes, Outcome{ID: op.ID, Err: err})
		d.mu.Unlock()
	}
}
