package systems

import (
	"fmt"
	"sync"

	"github.com/spaghettifunk/aurora/engine/core"
)

/**
 * @brief A unit of background work. OnStart runs on a worker
 * goroutine; the result it produces is handed to OnComplete or, on
 * error, to OnFailure.
 */
type JobTask struct {
	/** @brief Identifier used in log output. */
	ID          string
	InputParams interface{}
	OnStart     func(params interface{}, results chan<- interface{}) error
	OnComplete  func(results <-chan interface{})
	OnFailure   func(err error)
	/** @brief Invoked after the job finished, regardless of outcome. */
	OnCompletionCallback func()
}

type JobSystem struct {
	numWorkers int
	jobQueue   chan JobTask
	wg         sync.WaitGroup
}

var ErrNoWorkers = fmt.Errorf("attempting to create worker pool with less than 1 worker")
var ErrNegativeChannelSize = fmt.Errorf("attempting to create worker pool with a negative channel size")

func NewJobSystem(numWorkers int, channelSize int) (*JobSystem, error) {
	if numWorkers <= 0 {
		return nil, ErrNoWorkers
	}
	if channelSize < 0 {
		return nil, ErrNegativeChannelSize
	}

	jq := make(chan JobTask, channelSize)
	js := &JobSystem{
		numWorkers: numWorkers,
		jobQueue:   jq,
	}

	js.start()

	return js, nil
}

func (js *JobSystem) start() {
	for i := 0; i < js.numWorkers; i++ {
		js.wg.Add(1)
		go func() {
			defer js.wg.Done()
			for job := range js.jobQueue {
				results := make(chan interface{}, 1)
				err := job.OnStart(job.InputParams, results)
				if err != nil {
					core.LogError("job %s failed: %v", job.ID, err)
					if job.OnFailure != nil {
						job.OnFailure(err)
					}
				} else {
					if job.OnComplete != nil {
						job.OnComplete(results)
					}
				}

				if job.OnCompletionCallback != nil {
					job.OnCompletionCallback()
				}
			}
		}()
	}
}

/**
 * @brief Shuts the job system down after draining queued jobs.
 */
func (js *JobSystem) Shutdown() error {
	close(js.jobQueue)
	js.wg.Wait()
	return nil
}

// AddWorkNonBlocking adds work and returns immediately even when the
// queue is full.
func (js *JobSystem) AddWorkNonBlocking(jt JobTask) {
	go js.Submit(jt)
}

/**
 * @brief Submits the provided job to be queued for execution.
 * @param jt The description of the job to be executed.
 */
func (js *JobSystem) Submit(jt JobTask) {
	js.jobQueue <- jt
}
