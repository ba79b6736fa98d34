// Package worker backfills missing audio features at ingest time.
package worker

import (
	"context"
	"log"
	"math"
	"sync"

	"github.com/soundfield/trackboard/internal/core/domain"
	"github.com/soundfield/trackboard/internal/core/ports"
)

// Job identifies one track whose audio features need backfilling.
type Job struct {
	TrackID string
}

// Pool fans enrichment jobs out to a fixed set of workers. The pool runs
// before the analytical session starts; the record store never mutates once
// the engine holds it.
type Pool struct {
	source ports.FeatureSource
	repo   ports.TrackRepository
	jobs   chan Job
	wg     sync.WaitGroup
}

// NewPool creates an enrichment pool with the given queue size.
func NewPool(source ports.FeatureSource, repo ports.TrackRepository, queueSize int) *Pool {
	if queueSize < 1 {
		queueSize = 1
	}
	return &Pool{source: source, repo: repo, jobs: make(chan Job, queueSize)}
}

// Start launches the worker goroutines.
func (p *Pool) Start(workers int) {
	if workers < 1 {
		workers = 1
	}
	for i := 0; i < workers; i++ {
		p.wg.Add(1)
		go func() {
			defer p.wg.Done()
			for job := range p.jobs {
				p.processJob(job)
			}
		}()
	}
}

// Stop closes the queue and waits for in-flight jobs to finish.
func (p *Pool) Stop() {
	close(p.jobs)
	p.wg.Wait()
}

// Submit queues a job, blocking when the queue is full. Enrichment is a
// batch step, so backpressure beats dropping work here.
func (p *Pool) Submit(job Job) {
	p.jobs <- job
}

func (p *Pool) processJob(job Job) {
	ctx := context.Background()

	features, err := p.source.GetAudioFeatures(ctx, job.TrackID)
	if err != nil {
		features, err = p.featuresFromPreview(ctx, job.TrackID, err)
		if err != nil {
			log.Printf("WARN worker: no features for track %s: %v", job.TrackID, err)
			return
		}
	}

	if err := p.repo.UpdateTrackFeatures(ctx, job.TrackID, features); err != nil {
		log.Printf("WARN worker: failed to update track %s: %v", job.TrackID, err)
		return
	}
	log.Printf("worker: enriched track %s", job.TrackID)
}

// featuresFromPreview derives an energy estimate from the mp3 preview when
// the features endpoint cannot serve the track. Everything else stays
// missing (NaN) so downstream pairwise deletion handles it.
func (p *Pool) featuresFromPreview(ctx context.Context, trackID string, cause error) (domain.AudioFeatures, error) {
	url, err := p.source.GetPreviewURL(ctx, trackID)
	if err != nil {
		return domain.AudioFeatures{}, err
	}
	if url == "" {
		return domain.AudioFeatures{}, cause
	}

	energy, err := AnalyzePreviewFunc(url)
	if err != nil {
		return domain.AudioFeatures{}, err
	}

	nan := math.NaN()
	return domain.AudioFeatures{
		Danceability:     nan,
		Energy:           energy,
		Loudness:         nan,
		Speechiness:      nan,
		Acousticness:     nan,
		Instrumentalness: nan,
		Liveness:         nan,
		Valence:          nan,
		Tempo:            nan,
		DurationMs:       nan,
	}, nil
}
