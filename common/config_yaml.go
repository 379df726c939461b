package common

import (
	"errors"
	"fmt"
	"path"

	yaml "gopkg.in/yaml.v3"
)

// LoadYAMLFromPath loads the yaml config in filename into target
func LoadYAMLFromPath(filename string, target interface{}) error {
	data, err := FileLoader.Load(filename)
	if err != nil {
		return err
	}
	return LoadYAML(data, target)
}

// LoadYAML loads the yaml config in data into target
func LoadYAML(data []byte, target interface{}) error {
	if len(data) == 0 {
		return fmt.Errorf("Can't load yaml config from empty data")
	}
	return yaml.Unmarshal(data, target)
}

// LoadConfig loads config from the yaml files under configDir
func LoadConfig(config Configurer, configDir string, pathes ...string) (err error) {
	return LoadConfigWithLoader(FileLoader, config, configDir, pathes...)
}

// LoadConfigWithLoader loads config with the specified loader,then parses it
func LoadConfigWithLoader(loader ConfigLoader, config Configurer, configDir string, pathes ...string) (err error) {
	if loader == nil {
		err = errors.New("no loader")
		return
	}
	if len(pathes) == 0 {
		return errInvalidConf
	}

	var content []byte
	for _, p := range pathes {
		p = path.Join(configDir, p)
		Infof("load conf from:%s", p)
		cnt, err := loader.Load(p)
		if err != nil {
			return err
		}
		if len(cnt) == 0 {
			Warnf("empty content in %s", p)
			continue
		}
		content = append(content, cnt...)
		content = append(content, []byte("\n")...)
	}
	err = LoadYAML(content, config)
	if err != nil {
		return err
	}
	return config.Parse()
}
