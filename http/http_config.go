package http

import (
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	c "github.com/d0ngw/visitcounter/common"
)

// Config is the http service config,timeouts in seconds
type Config struct {
	Addr          string        `yaml:"addr"`
	ReadTimeout   time.Duration `yaml:"read_timeout"`
	WriteTimeout  time.Duration `yaml:"write_timeout"`
	MaxConns      int           `yaml:"max_conns"`
	middlewares   []Middleware
	handles       map[string]http.HandlerFunc
	controllerMux sync.Mutex
}

// Parse implements Configurer.Parse
func (p *Config) Parse() error {
	if p.Addr == "" {
		return fmt.Errorf("http addr must not be empty")
	}
	return nil
}

// RegController registers all the handlers of controller under its path
func (p *Config) RegController(controller Controller) error {
	if controller == nil {
		return fmt.Errorf("Can't reg nil controller")
	}

	var path = controller.GetPath()
	if !strings.HasSuffix(path, "/") {
		path += "/"
	}

	handlers, err := controller.GetHandlers()
	if err != nil {
		return err
	}
	if len(handlers) == 0 {
		c.Warnf("Can't find handler in %#v", controller)
		return nil
	}

	for handlerPath, h := range handlers {
		handlerPath = strings.TrimPrefix(handlerPath, "/")
		patternPath := path + handlerPath
		if err := p.RegHandleFunc(patternPath, h); err != nil {
			return err
		}
		c.Infof("Register controller %T#%s,path:%s", controller, controller.GetName(), patternPath)
	}
	return nil
}

// RegHandleFunc registers the handler of patternPath
func (p *Config) RegHandleFunc(patternPath string, handlerFunc http.HandlerFunc) error {
	p.controllerMux.Lock()
	defer p.controllerMux.Unlock()
	if p.handles == nil {
		p.handles = map[string]http.HandlerFunc{}
	}
	if _, ok := p.handles[patternPath]; ok {
		return fmt.Errorf("Duplicate ,path:%s", patternPath)
	}
	p.handles[patternPath] = handlerFunc
	return nil
}

// RegMiddleware registers middleware,must be called before Service.Init
func (p *Config) RegMiddleware(middleware Middleware) error {
	if middleware == nil {
		return fmt.Errorf("invalid middleware")
	}
	p.middlewares = append(p.middlewares, middleware)
	return nil
}
