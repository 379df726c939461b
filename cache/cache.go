// Package cache supplies the redis client and the cache key conf.
package cache

// Param is the cache param
type Param interface {
	// Key cache key
	Key() string
	// Expire second time
	Expire() int
}

// ParamConf is the cache param conf with key prefix and expire
type ParamConf struct {
	keyPrefix string
	expire    int
}

// NewParamConf create ParamConf
func NewParamConf(keyPrefix string, expire int) *ParamConf {
	return &ParamConf{
		keyPrefix: keyPrefix,
		expire:    expire,
	}
}

// Expire return expire second
func (p *ParamConf) Expire() int {
	return p.expire
}

// KeyPrefix return key prefix
func (p *ParamConf) KeyPrefix() string {
	return p.keyPrefix
}

// NewWithExpire create new ParamConf with new expire parameter
func (p *ParamConf) NewWithExpire(expire int) *ParamConf {
	var param = *p
	param.expire = expire
	return &param
}

// NewParamKey create new ParamKey with key
func (p *ParamConf) NewParamKey(key string) *ParamKey {
	return &ParamKey{
		ParamConf: p,
		key:       p.keyPrefix + key,
	}
}

// ParamKey is the cache param with key
type ParamKey struct {
	*ParamConf
	key string
}

// Key implements Param.Key()
func (p *ParamKey) Key() string {
	return p.key
}
