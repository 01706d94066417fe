package monitor

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

const defaultBaudRate = "115200"

// Config is everything the monitor needs to attach to a receiver and forward what it hears
type Config struct {
	SerialPort    string `yaml:"serial_port"`
	BaudRate      string `yaml:"baud_rate"`
	MQTTURL       string `yaml:"mqtt_url"`
	DashboardAddr string `yaml:"dashboard_addr"`
	Classroom     string `yaml:"classroom"`
}

var envVars = map[string]func(*Config, string){
	"CODEBOT_SERIAL_PORT":    func(c *Config, v string) { c.SerialPort = v },
	"CODEBOT_BAUD_RATE":      func(c *Config, v string) { c.BaudRate = v },
	"CODEBOT_MQTT_URL":       func(c *Config, v string) { c.MQTTURL = v },
	"CODEBOT_DASHBOARD_ADDR": func(c *Config, v string) { c.DashboardAddr = v },
	"CODEBOT_CLASSROOM":      func(c *Config, v string) { c.Classroom = v },
}

// ConfigFromEnv reads the file named by CODEBOT_CONFIG, if any, then lets the other CODEBOT_
// variables override it
func ConfigFromEnv() (Config, error) {
	cfg := Config{}

	if path := os.Getenv("CODEBOT_CONFIG"); path != "" {
		var err error
		cfg, err = LoadConfig(path)
		if err != nil {
			return Config{}, err
		}
	}

	for name, set := range envVars {
		if v, ok := os.LookupEnv(name); ok {
			set(&cfg, v)
		}
	}

	if cfg.BaudRate == "" {
		cfg.BaudRate = defaultBaudRate
	}

	return cfg, nil
}

// LoadConfig reads a YAML config file
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("error reading config: %w", err)
	}

	var cfg Config
	err = yaml.Unmarshal(data, &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("error parsing config %q: %w", path, err)
	}

	return cfg, nil
}

// Validate checks the config without changing it
func (c Config) Validate() error {
	if c.SerialPort == "" {
		return errors.New("missing serial port")
	}

	baud, err := strconv.Atoi(c.BaudRate)
	if err != nil || baud <= 0 {
		return fmt.Errorf("invalid baud rate %q", c.BaudRate)
	}

	if c.MQTTURL != "" {
		if _, err := url.Parse(c.MQTTURL); err != nil {
			return fmt.Errorf("invalid MQTT URL: %w", err)
		}
	}

	if c.DashboardAddr != "" {
		u, err := url.Parse(c.DashboardAddr)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return fmt.Errorf("invalid dashboard address %q", c.DashboardAddr)
		}
		if c.Classroom == "" {
			return errors.New("classroom is required when the dashboard is enabled")
		}
	}

	return nil
}

// Baud is the parsed baud rate. It assumes Validate passed
func (c Config) Baud() int {
	baud, _ := strconv.Atoi(c.BaudRate)
	return baud
}
