/*
Package actor offers the sequential inbox each identity of the cloud agent runs
on. An Inbox has one worker goroutine which executes the queued jobs one at a
time: a job runs to completion, including all of its wallet, codec and router
calls, before the next one starts. Different inboxes run in parallel.
*/
package actor

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/findy-network/findy-cloud-agent/agent/e2"
	"github.com/golang/glog"
)

var (
	ErrStopped   = errors.New("actor stopped")
	ErrReentrant = errors.New("actor cannot wait for itself")
)

// Job is the unit of work of the inbox. The context given to the job carries
// the inbox identity, see Do.
type Job func(ctx context.Context) ([]byte, error)

type result struct {
	data []byte
	err  error
}

type job struct {
	ctx context.Context
	fn  Job
	res chan result
}

type inboxKey struct {
	in *Inbox
}

// Inbox is the one worker job queue of an actor.
type Inbox struct {
	name string
	jobs chan job
	quit chan struct{}
	done chan struct{}
	once sync.Once
}

// Start creates a new inbox and starts its worker. The name is for logging.
func Start(name string) *Inbox {
	in := &Inbox{
		name: name,
		jobs: make(chan job),
		quit: make(chan struct{}),
		done: make(chan struct{}),
	}
	go in.run()
	return in
}

func (in *Inbox) run() {
	defer close(in.done)
	glog.V(1).Infoln("actor started:", in.name)

	for {
		select {
		case <-in.quit:
			glog.V(1).Infoln("actor stopped:", in.name)
			return
		case j := <-in.jobs:
			data, err := in.exec(j)
			j.res <- result{data: data, err: err}
		}
	}
}

func (in *Inbox) exec(j job) (data []byte, err error) {
	defer func() {
		if r := recover(); r != nil {
			glog.Errorf("actor %s job panic: %v", in.name, r)
			err = fmt.Errorf("actor %s: %v", in.name, r)
		}
	}()
	return j.fn(context.WithValue(j.ctx, inboxKey{in}, struct{}{}))
}

// Do queues the job and waits for its result. A job which calls Do of the
// inbox it's running on, directly or through other inboxes, gets a Protocol
// error ErrReentrant instead of a deadlock. A stopped inbox returns a NotFound
// error ErrStopped. A canceled or expired context gives a Timeout error which
// wraps the context's error. The job itself still runs to completion.
func (in *Inbox) Do(ctx context.Context, fn Job) ([]byte, error) {
	if ctx.Value(inboxKey{in}) != nil {
		return nil, e2.Wrap(e2.Protocol, ErrReentrant, in.name)
	}

	res := make(chan result, 1)
	select {
	case <-in.quit:
		return nil, e2.Wrap(e2.NotFound, ErrStopped, in.name)
	case <-ctx.Done():
		return nil, e2.Wrap(e2.Timeout, ctx.Err(), in.name+" queue")
	case in.jobs <- job{ctx: ctx, fn: fn, res: res}:
	}

	select {
	case r := <-res:
		return r.data, r.err
	case <-ctx.Done():
		return nil, e2.Wrap(e2.Timeout, ctx.Err(), in.name+" wait")
	}
}

// Stop stops the worker after the current job and waits until it's done. Jobs
// not yet taken fail with ErrStopped. It must not be called by a job of the
// same inbox.
func (in *Inbox) Stop() {
	in.once.Do(func() { close(in.quit) })
	<-in.done
}

func (in *Inbox) Name() string {
	return in.name
}
