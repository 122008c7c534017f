package ownmaprenderer

import (
	"image"

	"github.com/jamesrr39/goutil/errorsx"
)

// ParallelJob is a render that is running in the background. The image is available once Finished() is closed.
type ParallelJob struct {
	finished chan struct{}
	img      image.Image
	err      errorsx.Error
}

func newParallelJob() *ParallelJob {
	return &ParallelJob{
		finished: make(chan struct{}),
	}
}

// NewFinishedJob creates a job that has already finished, with the given result
func NewFinishedJob(img image.Image, err errorsx.Error) *ParallelJob {
	job := newParallelJob()
	job.img = img
	job.err = err
	close(job.finished)
	return job
}

func (j *ParallelJob) Finished() <-chan struct{} {
	return j.finished
}

// WaitForFinished blocks until the job has finished
func (j *ParallelJob) WaitForFinished() {
	<-j.finished
}

// RenderedImage is nil until the job has finished, or if the render failed
func (j *ParallelJob) RenderedImage() image.Image {
	select {
	case <-j.finished:
		return j.img
	default:
		return nil
	}
}

func (j *ParallelJob) Err() errorsx.Error {
	select {
	case <-j.finished:
		return j.err
	default:
		return nil
	}
}
