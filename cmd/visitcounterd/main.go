// Command visitcounterd runs the visit counter http service.
package main

import (
	"flag"
	"os"
	"time"

	"github.com/d0ngw/visitcounter/cache"
	c "github.com/d0ngw/visitcounter/common"
	"github.com/d0ngw/visitcounter/counter"
	h "github.com/d0ngw/visitcounter/http"
)

// config is the full service config
type config struct {
	c.AppConfig `yaml:",inline"`
	Redis       *cache.RedisConf `yaml:"redis"`
	Counter     *counter.Conf    `yaml:"counter"`
	HTTP        *h.Config        `yaml:"http"`
}

// Parse implements Configurer.Parse
func (p *config) Parse() error {
	return c.Parse(p)
}

// flushScanInterval is how often the background schedule checks whether
// a flush is due;the due condition itself is counter.Conf.FlushInterval
const flushScanInterval = time.Second

func main() {
	configPath := flag.String("config", "config.yaml", "config file path")
	flag.Parse()

	conf := &config{}
	if err := c.LoadConfig(conf, "", *configPath); err != nil {
		c.Errorf("load config %s fail,err:%v", *configPath, err)
		os.Exit(1)
	}
	if c.HasNil(conf.Redis, conf.Counter, conf.HTTP) {
		c.Errorf("redis,counter and http config sections must be present")
		os.Exit(1)
	}

	redisClient := cache.NewRedisClientWithConf(conf.Redis)
	store, err := counter.NewRedisStore(redisClient, cache.NewParamConf("page:", 0))
	if err != nil {
		c.Errorf("create store fail,err:%v", err)
		os.Exit(1)
	}

	visitCounter, err := counter.NewVisitCounter(store, conf.Counter)
	if err != nil {
		c.Errorf("create visit counter fail,err:%v", err)
		os.Exit(1)
	}
	if err := visitCounter.Init(); err != nil {
		c.Errorf("init visit counter fail,err:%v", err)
		os.Exit(1)
	}

	flushSchedule, err := counter.NewFlushSchedule("visit-flush", visitCounter.Flusher(), flushScanInterval)
	if err != nil {
		c.Errorf("create flush schedule fail,err:%v", err)
		os.Exit(1)
	}
	flushSchedule.Order = 1

	if err := conf.HTTP.RegMiddleware(&h.AccessLogMiddleware{}); err != nil {
		c.Errorf("reg middleware fail,err:%v", err)
		os.Exit(1)
	}
	if err := conf.HTTP.RegController(h.NewVisitController("visit", "/counter/", visitCounter)); err != nil {
		c.Errorf("reg controller fail,err:%v", err)
		os.Exit(1)
	}
	httpService := &h.Service{
		BaseService: c.BaseService{SName: "http", Order: 10},
		Conf:        conf.HTTP,
	}

	services := c.NewServices([]c.Service{flushSchedule, httpService})
	if !services.Init() || !services.Start() {
		c.Errorf("start services fail")
		os.Exit(1)
	}

	hook := c.NewShutdownhook()
	hook.AddHook(func() {
		services.Stop()
		c.SyncLogger()
	})
	hook.WaitShutdown()
}
