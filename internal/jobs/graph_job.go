// Package jobs schedules Pregel computations as background work on a
// semaphore-bounded worker pool (spec.md §6 runs as a schedulable unit of
// work rather than only a synchronous call).
package jobs

import (
	"context"
	"sync"

	"github.com/csrgraph/graphctl/pkg/graphstore"
	"github.com/csrgraph/graphctl/pkg/idmap"
	"github.com/csrgraph/graphctl/pkg/pregel"
	"github.com/csrgraph/graphctl/pkg/utils"
)

// GraphJob describes one scheduled Pregel run: which view of a
// GraphStore to compute over and which computation to run on it.
type GraphJob struct {
	ID                int64
	Store             *graphstore.GraphStore
	Labels            []idmap.NodeLabel
	RelationshipTypes []string
	BoundProperty     string
	Computation       pregel.Computation
	MasterCompute     pregel.MasterCompute
	Config            pregel.Config
}

// GraphJobResult is what RunAll reports for one submitted job.
type GraphJobResult struct {
	JobID  int64
	Result *pregel.PregelResult
	Err    error
}

// Processor dispatches GraphJobs across a fixed worker pool, using a
// semaphore channel to bound concurrent job processing.
type Processor struct {
	workerPool chan struct{}
	logger     utils.Logger
}

// NewProcessor builds a processor with workerCount concurrent slots.
func NewProcessor(workerCount int, logger utils.Logger) *Processor {
	if workerCount <= 0 {
		workerCount = 4
	}
	if logger == nil {
		logger = &utils.NullLogger{}
	}
	pool := make(chan struct{}, workerCount)
	for i := 0; i < workerCount; i++ {
		pool <- struct{}{}
	}
	return &Processor{workerPool: pool, logger: logger}
}

// Run executes a single job synchronously, building the requested graph
// view and driving it through pregel.Pregel.Run.
func (p *Processor) Run(ctx context.Context, job *GraphJob) *GraphJobResult {
	g, err := job.Store.GetGraph(job.Labels, job.RelationshipTypes, job.BoundProperty)
	if err != nil {
		return &GraphJobResult{JobID: job.ID, Err: err}
	}

	engine := pregel.New(g, job.Computation, job.MasterCompute, job.Config)
	result, err := engine.Run(ctx)
	if err != nil {
		p.logger.Error("graph job failed", "job_id", job.ID, "error", err.Error())
	}
	return &GraphJobResult{JobID: job.ID, Result: result, Err: err}
}

// RunAll submits every job, blocking until each has acquired a worker
// slot and completed; results are returned in submission order.
func (p *Processor) RunAll(ctx context.Context, jobs []*GraphJob) []*GraphJobResult {
	results := make([]*GraphJobResult, len(jobs))
	var wg sync.WaitGroup
	for i, job := range jobs {
		i, job := i, job
		select {
		case <-p.workerPool:
		case <-ctx.Done():
			results[i] = &GraphJobResult{JobID: job.ID, Err: ctx.Err()}
			continue
		}
		wg.Add(1)
		go func() {
			defer wg.Done()
			defer func() { p.workerPool <- struct{}{} }()
			results[i] = p.Run(ctx, job)
		}()
	}
	wg.Wait()
	return results
}
