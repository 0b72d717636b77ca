package experiment

import (
	"context"
	"time"

	"github.com/pbanos/grove/queue"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// DefaultEmptyQueueSleep is how long workers wait for tasks on an empty queue
const DefaultEmptyQueueSleep = 100 * time.Millisecond

// Work takes a context, a runner, a queue, a logger and
// an emptyQueueSleep duration and enters a loop in which
// it:
//   * pulls a task from the queue,
//   * runs its trial with the runner
//   * marks the task as completed on the queue with its scores
//
// If at some point no task can be pulled from the queue and
// the sum of tasks running and pending on the queue is 0, the
// worker ends returning nil. If no task can be pulled but the
// sum is not 0, then the worker will sleep for the given
// emptyQueueSleep duration and then retry.
//
// Work will return a non-nil error if the given context
// times out or is cancelled, if a trial fails or if an
// operation with the given queue returns a non-nil error.
func Work(ctx context.Context, r *Runner, q queue.Queue, logger logrus.FieldLogger, emptyQueueSleep time.Duration) error {
	for {
		task, tctx, tcf, err := q.Pull(ctx)
		if err != nil {
			return err
		}
		if task == nil {
			p, running, err := q.Count(ctx)
			if err != nil {
				return err
			}
			if p+running == 0 {
				break
			}
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(emptyQueueSleep):
			}
			continue
		}
		mctx, cancel := mergeCtxCancel(tctx, ctx)
		err = workTask(mctx, task, r, q)
		cancel()
		tcf()
		if err != nil {
			logger.WithField("task", task.ID).WithError(err).Error("trial failed")
			return err
		}
		err = ctx.Err()
		if err != nil {
			return err
		}
	}
	return nil
}

func workTask(ctx context.Context, task *queue.Task, r *Runner, q queue.Queue) error {
	defer func() {
		q.Drop(context.Background(), task.ID)
	}()
	err := r.RunTask(ctx, task)
	if err != nil {
		return err
	}
	return q.Complete(ctx, task)
}

func mergeCtxCancel(ctx1, ctx2 context.Context) (context.Context, context.CancelFunc) {
	mctx, cancel := context.WithCancel(ctx1)
	go func() {
		select {
		case <-mctx.Done():
		case <-ctx2.Done():
			cancel()
		}
	}()
	return mctx, cancel
}

/*
Run takes a context, a runner, a queue, the tasks of an experiment and
a number of workers. It pushes the tasks to the queue, works them with
the given number of workers until the queue is empty and returns the
completed tasks held by the queue.
*/
func Run(ctx context.Context, r *Runner, q queue.Queue, tasks []*queue.Task, workers int, logger logrus.FieldLogger) ([]*queue.Task, error) {
	for _, t := range tasks {
		err := q.Push(ctx, t)
		if err != nil {
			return nil, err
		}
	}
	if workers < 1 {
		workers = 1
	}
	logger.WithFields(logrus.Fields{
		"tasks":   len(tasks),
		"workers": workers,
	}).Info("running experiment")
	eg, ectx := errgroup.WithContext(ctx)
	for i := 0; i < workers; i++ {
		wlog := logger.WithField("worker", i)
		eg.Go(func() error {
			return Work(ectx, r, q, wlog, DefaultEmptyQueueSleep)
		})
	}
	err := eg.Wait()
	if err != nil {
		return nil, err
	}
	return q.Results(ctx)
}
