package counter

import (
	"fmt"

	"github.com/d0ngw/visitcounter/cache"
	c "github.com/d0ngw/visitcounter/common"
	"github.com/gomodule/redigo/redis"
)

// RedisStore implements Store over a redis instance.INCRBY serializes
// concurrent increments at the server,GET of a missing key reads as 0.
type RedisStore struct {
	redisClient *cache.RedisClient
	cacheParam  *cache.ParamConf
}

// NewRedisStore create RedisStore,cacheParam supplies the key prefix
// and the optional expire of the counter keys
func NewRedisStore(redisClient *cache.RedisClient, cacheParam *cache.ParamConf) (*RedisStore, error) {
	if c.HasNil(redisClient, cacheParam) {
		return nil, fmt.Errorf("redisClient and cacheParam must not be nil")
	}
	return &RedisStore{
		redisClient: redisClient,
		cacheParam:  cacheParam,
	}, nil
}

// Init implements Initable.Init
func (p *RedisStore) Init() error {
	if c.HasNil(p.redisClient, p.cacheParam) {
		return fmt.Errorf("redisClient and cacheParam must not be nil")
	}
	return nil
}

// Incr implements Store.Incr
func (p *RedisStore) Incr(key string, delta int64) (int64, error) {
	param := p.cacheParam.NewParamKey(key)
	reply, err := p.redisClient.Do(func(conn redis.Conn) (interface{}, error) {
		total, err := conn.Do("INCRBY", param.Key(), delta)
		if err != nil {
			return nil, err
		}
		if param.Expire() > 0 {
			if _, err := conn.Do("EXPIRE", param.Key(), param.Expire()); err != nil {
				return nil, err
			}
		}
		return total, nil
	})
	total, err := redis.Int64(reply, err)
	if err != nil {
		return 0, unavailable(err)
	}
	return total, nil
}

// GetValue implements Store.GetValue
func (p *RedisStore) GetValue(key string) (int64, error) {
	param := p.cacheParam.NewParamKey(key)
	total, err := redis.Int64(p.redisClient.Do(func(conn redis.Conn) (interface{}, error) {
		return conn.Do("GET", param.Key())
	}))
	if err == redis.ErrNil {
		return 0, nil
	}
	if err != nil {
		return 0, unavailable(err)
	}
	return total, nil
}

// IncrMany implements Store.IncrMany with a pipelined INCRBY batch
func (p *RedisStore) IncrMany(deltas map[string]int64) error {
	if len(deltas) == 0 {
		return nil
	}
	_, err := p.redisClient.Do(func(conn redis.Conn) (interface{}, error) {
		for key, delta := range deltas {
			if err := conn.Send("INCRBY", p.cacheParam.NewParamKey(key).Key(), delta); err != nil {
				return nil, err
			}
		}
		if err := conn.Flush(); err != nil {
			return nil, err
		}
		for range deltas {
			if _, err := conn.Receive(); err != nil {
				return nil, err
			}
		}
		return nil, nil
	})
	if err != nil {
		return unavailable(err)
	}
	return nil
}

// unavailable wraps err so that errors.Is(err,ErrStoreUnavailable) holds
func unavailable(err error) error {
	return fmt.Errorf("%w,cause:%v", ErrStoreUnavailable, err)
}
