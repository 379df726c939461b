package common

import (
	"errors"
	"io/ioutil"
	"os"
	"reflect"
	"runtime"
)

// Env names
const (
	EnvProduction = "prod"
	EnvDev        = "dev"
)

var (
	errInvalidConf = errors.New("invalid conf")
)

// ConfigLoader loads the raw config content
type ConfigLoader interface {
	Load(configPath string) (content []byte, err error)

	Exist(configPath string) (exist bool, err error)
}

// ConfigFileLoader loads config content from local files
type ConfigFileLoader struct {
}

// Load impls ConfigLoader.Load
func (p *ConfigFileLoader) Load(configPath string) (content []byte, err error) {
	content, err = ioutil.ReadFile(configPath)
	return
}

// Exist impls ConfigLoader.Exist
func (p *ConfigFileLoader) Exist(configPath string) (exist bool, err error) {
	info, err := os.Stat(configPath)
	if os.IsNotExist(err) {
		err = nil
		return
	}
	if info != nil {
		exist = !info.IsDir()
	}
	return
}

var (
	// FileLoader is the default loader
	FileLoader ConfigLoader = &ConfigFileLoader{}
)

// Configurer parses its own config section
type Configurer interface {
	Parse() error
}

// LogConfig is the log config section
type LogConfig struct {
	Env        string `yaml:"env"`
	FileName   string `yaml:"file_name"`
	MaxSize    int    `yaml:"max_size"`
	MaxBackups int    `yaml:"max_backups"`
	MaxAge     int    `yaml:"max_age"`
	NoCaller   bool   `yaml:"no_caller"`
	Level      string `yaml:"level"`
}

// Parse impls Configurer.Parse
func (p *LogConfig) Parse() error {
	return initLogger(p)
}

// RuntimeConfig is the runtime config section
type RuntimeConfig struct {
	Maxprocs int `yaml:"maxprocs"`
}

// Parse impls Configurer.Parse
func (p *RuntimeConfig) Parse() error {
	if p.Maxprocs > 0 {
		preProcs := runtime.GOMAXPROCS(p.Maxprocs)
		Infof("Set runtime.MAXPROCS to %v,old is %v", p.Maxprocs, preProcs)
	}
	return nil
}

// AppConfig is the base application config
type AppConfig struct {
	*LogConfig     `yaml:"log"`
	*RuntimeConfig `yaml:"runtime"`
}

// Parse impls Configurer.Parse
func (p *AppConfig) Parse() error {
	return Parse(p)
}

// Parse walks the fields of conf and invokes every Configurer found
func Parse(conf interface{}) error {
	config := reflect.Indirect(reflect.ValueOf(conf))
	fieldCount := config.NumField()

	for i := 0; i < fieldCount; i++ {
		val := reflect.Indirect(config.Field(i))
		if !val.IsValid() {
			continue
		}

		if configFieldValue, ok := val.Addr().Interface().(Configurer); ok {
			if err := configFieldValue.Parse(); err != nil {
				return err
			}
		}
	}
	return nil
}
