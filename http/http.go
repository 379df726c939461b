package http

import (
	"fmt"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	c "github.com/d0ngw/visitcounter/common"
	"golang.org/x/net/netutil"
)

type tcpKeepAliveListener struct {
	*net.TCPListener
}

// Accept accepts a conn with tcp keepalive enabled
func (ln tcpKeepAliveListener) Accept() (conn net.Conn, err error) {
	tc, err := ln.AcceptTCP()
	if err != nil {
		return nil, err
	}
	if err = tc.SetKeepAlive(true); err != nil {
		return
	}
	if err = tc.SetKeepAlivePeriod(3 * time.Minute); err != nil {
		return
	}
	return tc, nil
}

// GraceableHandler tracks the in-flight requests for graceful shutdown
type GraceableHandler struct {
	handler   http.Handler
	waitGroup *sync.WaitGroup
}

func (p *GraceableHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	p.waitGroup.Add(1)
	defer p.waitGroup.Done()

	p.handler.ServeHTTP(w, r)
}

// Service is the http service
type Service struct {
	c.BaseService
	Conf         *Config
	listener     net.Listener
	serveMux     *http.ServeMux
	graceHandler *GraceableHandler
	server       *http.Server
	lock         sync.Mutex
}

// Init implements Initable.Init
func (p *Service) Init() error {
	p.lock.Lock()
	defer p.lock.Unlock()

	serveMux := http.NewServeMux()

	for pattern, handler := range p.Conf.handles {
		if handler == nil {
			return fmt.Errorf("Can't bind nil handlerFunc to path %s", pattern)
		}
		serveMux.Handle(pattern, p.handleWithMiddleware(handler))
	}

	graceHandler := &GraceableHandler{
		handler:   serveMux,
		waitGroup: &sync.WaitGroup{}}

	if p.Conf.Addr == "" {
		p.Conf.Addr = ":http"
	}

	server := &http.Server{
		Addr:         p.Conf.Addr,
		ReadTimeout:  p.Conf.ReadTimeout * time.Second,
		WriteTimeout: p.Conf.WriteTimeout * time.Second,
		Handler:      graceHandler}

	p.graceHandler = graceHandler
	p.server = server
	p.serveMux = serveMux
	return nil
}

// handleWithMiddleware chains the registered middlewares around handler
func (p *Service) handleWithMiddleware(handler http.HandlerFunc) http.HandlerFunc {
	h := MiddlewareFunc(handler)
	for i := len(p.Conf.middlewares) - 1; i >= 0; i-- {
		h = p.Conf.middlewares[i].Handle(h)
	}
	return http.HandlerFunc(h)
}

// Start implements Service.Start,begins listening and serving
func (p *Service) Start() bool {
	p.lock.Lock()
	defer p.lock.Unlock()

	c.Infof("Listen at %s", p.Conf.Addr)
	ln, err := net.Listen("tcp", p.Conf.Addr)
	if err != nil {
		c.Errorf("Listen at %s fail,error:%v", p.Conf.Addr, err)
		return false
	}

	tcpListener := tcpKeepAliveListener{ln.(*net.TCPListener)}
	if p.Conf.MaxConns > 0 {
		p.listener = netutil.LimitListener(tcpListener, p.Conf.MaxConns)
	} else {
		p.listener = tcpListener
	}

	p.graceHandler.waitGroup.Add(1)

	go func() {
		defer p.graceHandler.waitGroup.Done()
		err := p.server.Serve(p.listener)
		if err != nil {
			if strings.Contains(err.Error(), "use of closed network connection") {
				c.Warnf("server.Serve return with %v", err)
			} else {
				c.Errorf("server.Serve return with %v", err)
			}
		}
	}()
	return true
}

// Stop implements Service.Stop,closes the listener and waits for the
// in-flight requests
func (p *Service) Stop() bool {
	p.lock.Lock()
	defer p.lock.Unlock()

	if p.listener != nil {
		if err := p.listener.Close(); err != nil {
			c.Errorf("Close listener error:%v", err)
		}
	}

	c.Infof("Waiting shutdown")
	p.graceHandler.waitGroup.Wait()
	c.Infof("Finish shutdown")

	p.listener = nil
	p.graceHandler = nil
	p.server = nil
	p.serveMux = nil
	return true
}
