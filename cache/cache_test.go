package cache

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParamConf(t *testing.T) {
	conf := NewParamConf("page:", 0)
	assert.Equal(t, "page:", conf.KeyPrefix())
	assert.Equal(t, 0, conf.Expire())

	key := conf.NewParamKey("home")
	assert.Equal(t, "page:home", key.Key())
	assert.Equal(t, 0, key.Expire())

	withExpire := conf.NewWithExpire(30)
	assert.Equal(t, 30, withExpire.Expire())
	// the origin conf is untouched
	assert.Equal(t, 0, conf.Expire())
}

func TestRedisConfParse(t *testing.T) {
	conf := &RedisConf{}
	assert.NotNil(t, conf.Parse())

	conf = &RedisConf{
		Servers: []*RedisServer{{ID: "main", Host: ""}},
	}
	assert.NotNil(t, conf.Parse())

	conf = &RedisConf{
		Servers: []*RedisServer{{ID: "main", Host: "127.0.0.1", Port: 0}},
	}
	assert.NotNil(t, conf.Parse())

	conf = &RedisConf{
		Servers: []*RedisServer{
			{ID: "main", Host: "127.0.0.1", Port: 6379},
			{ID: "main", Host: "127.0.0.2", Port: 6379},
		},
	}
	assert.NotNil(t, conf.Parse())

	conf = &RedisConf{
		Servers: []*RedisServer{{ID: "main", Host: "127.0.0.1", Port: 6379}},
	}
	assert.Nil(t, conf.Parse())

	client := NewRedisClientWithConf(conf)
	server, err := client.GetServer("")
	assert.Nil(t, err)
	assert.Equal(t, "main", server.ID)

	server, err = client.GetServer("main")
	assert.Nil(t, err)
	assert.Equal(t, "main", server.ID)

	_, err = client.GetServer("missing")
	assert.NotNil(t, err)
}
