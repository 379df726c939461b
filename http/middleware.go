package http

import (
	"net/http"
	"time"

	c "github.com/d0ngw/visitcounter/common"
)

// MiddlewareFunc is the handler form chained by middlewares
type MiddlewareFunc func(http.ResponseWriter, *http.Request)

// Middleware wraps a handler
type Middleware interface {
	// Handle wraps next
	Handle(next MiddlewareFunc) MiddlewareFunc
}

// AccessLogMiddleware logs every request with its cost
type AccessLogMiddleware struct {
}

// Handle implements Middleware.Handle
func (p *AccessLogMiddleware) Handle(next MiddlewareFunc) MiddlewareFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		st := time.Now()
		next(w, r)
		c.Infof("%s %s cost %dms", r.Method, r.RequestURI, c.UnixMills(time.Now())-c.UnixMills(st))
	}
}
