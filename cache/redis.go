package cache

import (
	"errors"
	"fmt"

	c "github.com/d0ngw/visitcounter/common"
	"github.com/gomodule/redigo/redis"
)

// RedisClient is the client over the configured redis servers.
// The visit counter uses a single instance;the first configured
// server is the default one.
type RedisClient struct {
	conf *RedisConf
}

// NewRedisClientWithConf create RedisClient with conf,conf must be parsed
func NewRedisClientWithConf(conf *RedisConf) *RedisClient {
	return &RedisClient{conf: conf}
}

// GetServer finds the server with id,empty id means the default server
func (p *RedisClient) GetServer(id string) (*RedisServer, error) {
	if p.conf == nil || len(p.conf.Servers) == 0 {
		return nil, errors.New("no redis servers")
	}
	if id == "" {
		return p.conf.Servers[0], nil
	}
	for _, server := range p.conf.Servers {
		if server.ID == id {
			return server, nil
		}
	}
	return nil, fmt.Errorf("can't find server id %s", id)
}

// GetConn acquire a conn from the default server pool
func (p *RedisClient) GetConn() (redis.Conn, error) {
	server, err := p.GetServer("")
	if err != nil {
		return nil, err
	}
	return server.GetConn()
}

// Do acquires a conn,runs f with it and releases the conn
func (p *RedisClient) Do(f func(conn redis.Conn) (interface{}, error)) (interface{}, error) {
	conn, err := p.GetConn()
	if err != nil {
		return nil, err
	}
	defer func() {
		if err := conn.Close(); err != nil {
			c.Errorf("close conn err:%v", err)
		}
	}()
	return f(conn)
}
