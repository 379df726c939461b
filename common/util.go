package common

import (
	"os"
	"os/signal"
	"reflect"
	"sync"
	"syscall"
)

// HasNil checks whether there is a nil value in vals
func HasNil(vals ...interface{}) bool {
	for _, val := range vals {
		if val == nil {
			return true
		}
		v := reflect.ValueOf(val)
		switch v.Kind() {
		case reflect.Ptr, reflect.Interface, reflect.Func, reflect.Map, reflect.Slice, reflect.Chan:
			if v.IsNil() {
				return true
			}
		}
	}
	return false
}

// IsEmpty checks whether there is an empty string in vals
func IsEmpty(vals ...string) bool {
	for _, val := range vals {
		if val == "" {
			return true
		}
	}
	return false
}

// Shutdownhook runs the registered hooks on process exit signals
type Shutdownhook struct {
	ch    chan os.Signal
	hooks []func()
	sync.Mutex
}

// NewShutdownhook creates a Shutdownhook listening on sig,defaults to
// syscall.SIGINT and syscall.SIGTERM
func NewShutdownhook(sig ...os.Signal) *Shutdownhook {
	if len(sig) == 0 {
		sig = []os.Signal{syscall.SIGINT, syscall.SIGTERM}
	}
	ch := make(chan os.Signal, len(sig))
	signal.Notify(ch, sig...)
	return &Shutdownhook{ch: ch}
}

// AddHook adds a hook function
func (p *Shutdownhook) AddHook(hookFunc func()) {
	p.Lock()
	defer p.Unlock()
	p.hooks = append(p.hooks, hookFunc)
}

// WaitShutdown waits for the exit signal,then runs the hooks in order
func (p *Shutdownhook) WaitShutdown() {
	p.Lock()
	defer p.Unlock()

	if p.ch == nil {
		panic("signal channel is nil")
	}

	if s, ok := <-p.ch; ok {
		signal.Stop(p.ch)
		close(p.ch)
		p.ch = nil

		Infof("Receive signal:%v,Run hooks", s)
		for _, f := range p.hooks {
			f()
		}
		Infof("Finished run hooks")
	} else {
		Warnf("Receive signal error,%v", ok)
	}
}
