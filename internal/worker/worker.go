// Package worker is a bounded pool for pushing report submissions through
// concurrently, used by the batch importer.
package worker

import (
	"context"
	"sync"

	"github.com/waterwatch/go-water-watch/internal/models"
)

type SubmitFunc func(ctx context.Context, report *models.Report) error

type Pool struct {
	numWorkers int
	jobs       chan *models.Report
	submit     SubmitFunc
	wg         sync.WaitGroup
}

func NewPool(numWorkers int, bufferSize int, submit SubmitFunc) *Pool {
	return &Pool{
		numWorkers: numWorkers,
		jobs:       make(chan *models.Report, bufferSize),
		submit:     submit,
	}
}

func (p *Pool) Start(ctx context.Context) {
	for i := 1; i <= p.numWorkers; i++ {
		p.wg.Add(1)
		go p.worker(ctx, i)
	}
}

func (p *Pool) worker(ctx context.Context, id int) {
	defer p.wg.Done()

	for {
		select {
		case <-ctx.Done():
			return
		case report, ok := <-p.jobs:
			if !ok {
				return
			}
			p.submit(ctx, report)
		}
	}
}

func (p *Pool) Submit(report *models.Report) {
	p.jobs <- report
}

func (p *Pool) Stop() {
	close(p.jobs)
	p.wg.Wait()
}
