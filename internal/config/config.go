package config

import (
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env/v2"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
	log "github.com/sirupsen/logrus"
)

const envPrefix = "CALGAPT_"

type Application struct {
	Host    string  `koanf:"host"`
	Listen  string  `koanf:"listen"`
	CalDav  CalDav  `koanf:"caldav"`
	OpenAi  OpenAi  `koanf:"openai"`
	Metrics Metrics `koanf:"metrics"`
}

// CalDav seeds the settings store at startup.
type CalDav struct {
	URL      string        `koanf:"url"`
	Username string        `koanf:"username"`
	Password string        `koanf:"password"`
	Timeout  time.Duration `koanf:"timeout"`
}

type OpenAi struct {
	ApiKey string `koanf:"apikey"`
}

type Metrics struct {
	Enabled bool `koanf:"enabled"`
}

func Defaults() Application {
	return Application{
		Host:   "http://localhost:8181",
		Listen: ":8181",
		CalDav: CalDav{
			Timeout: 30 * time.Second,
		},
		Metrics: Metrics{
			Enabled: true,
		},
	}
}

func Load(path string) (Application, error) {
	var k = koanf.New(".")

	err := k.Load(structs.Provider(Defaults(), "koanf"), nil)
	if err != nil {
		log.Errorf("error loading config from structs: %v", err)
		return Application{}, err
	}

	if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
		if os.IsNotExist(err) {
			log.Infof("Config file not found at %s, using defaults and environment variables", path)
		} else {
			log.Errorf("error loading config from YAML: %v", err)
			return Application{}, err
		}
	} else {
		log.Infof("Loaded configuration from file: %s", path)
	}

	err = k.Load(env.Provider(".", env.Opt{
		Prefix: envPrefix,
		TransformFunc: func(k, v string) (string, any) {
			k = strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(k, envPrefix)), "_", ".")
			return k, v
		},
	}), nil)
	if err != nil {
		log.Errorf("error loading config from envs: %v", err)
		return Application{}, err
	}

	var app Application
	if err := k.Unmarshal("", &app); err != nil {
		return Application{}, err
	}
	if app.CalDav.Timeout <= 0 {
		app.CalDav.Timeout = Defaults().CalDav.Timeout
	}

	return app, nil
}
