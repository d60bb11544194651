package queue

import (
	"context"
	"hash/fnv"
	"strconv"
	"sync"

	"github.com/rs/zerolog"

	"github.com/safeegypt/incident-reporting/internal/core/ports"
	"github.com/safeegypt/incident-reporting/internal/pkg/metrics"
)

const (
	defaultWorkers = 4
	channelBuffer  = 256
)

// Dispatcher runs incident enrichment on a fixed set of sharded workers.
// An incident id always lands on the same worker, so repeated submissions
// for one incident never run concurrently.
type Dispatcher struct {
	workers []chan string
	service ports.EnrichmentService
	log     zerolog.Logger
	wg      sync.WaitGroup
}

var _ ports.EnrichmentQueue = (*Dispatcher)(nil)

// NewDispatcher creates a Dispatcher with numWorkers workers.
// If numWorkers <= 0, defaultWorkers is used.
func NewDispatcher(numWorkers int, service ports.EnrichmentService, log zerolog.Logger) *Dispatcher {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	d := &Dispatcher{
		workers: make([]chan string, numWorkers),
		service: service,
		log:     log,
	}
	for i := range d.workers {
		d.workers[i] = make(chan string, channelBuffer)
	}
	return d
}

// Start launches the workers. They stop when ctx is cancelled; Wait blocks
// until all of them returned.
func (d *Dispatcher) Start(ctx context.Context) {
	for i, ch := range d.workers {
		d.wg.Add(1)
		go d.runWorker(ctx, i, ch)
	}
}

func (d *Dispatcher) Wait() {
	d.wg.Wait()
}

// Submit queues incidentID without blocking. It reports false when the
// worker's buffer is full.
func (d *Dispatcher) Submit(incidentID string) bool {
	idx := d.shardIndex(incidentID)
	select {
	case d.workers[idx] <- incidentID:
		metrics.EnrichmentQueueDepth.WithLabelValues(strconv.Itoa(idx)).Set(float64(len(d.workers[idx])))
		return true
	default:
		return false
	}
}

func (d *Dispatcher) shardIndex(incidentID string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(incidentID))
	return int(h.Sum32() % uint32(len(d.workers)))
}

func (d *Dispatcher) runWorker(ctx context.Context, id int, ch <-chan string) {
	defer d.wg.Done()
	depth := metrics.EnrichmentQueueDepth.WithLabelValues(strconv.Itoa(id))
	for {
		select {
		case <-ctx.Done():
			return
		case incidentID := <-ch:
			depth.Set(float64(len(ch)))
			if err := d.service.Enrich(ctx, incidentID); err != nil {
				d.log.Error().Err(err).
					Str("incident_id", incidentID).
					Int("worker_id", id).
					Msg("incident enrichment failed")
			}
		}
	}
}
