package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"potbuzz/core"
)

// Config represents the host tools configuration.
type Config struct {
	Serial   SerialConfig   `yaml:"serial"`
	MQTT     MQTTConfig     `yaml:"mqtt"`
	Sim      SimConfig      `yaml:"sim"`
	Schedule ScheduleConfig `yaml:"schedule"`
}

// SerialConfig contains serial port configuration.
type SerialConfig struct {
	Port        string        `yaml:"port"`
	Baud        int           `yaml:"baud"`
	ReadTimeout time.Duration `yaml:"read_timeout"`
}

// MQTTConfig contains the monitor publisher settings. An empty broker
// disables publishing.
type MQTTConfig struct {
	Broker   string `yaml:"broker"`
	Topic    string `yaml:"topic"`
	ClientID string `yaml:"client_id"` // machine id when empty
	QoS      byte   `yaml:"qos"`
	Retain   bool   `yaml:"retain"`
}

// SimConfig contains simulator timing.
type SimConfig struct {
	Speed          float64       `yaml:"speed"`
	OverflowPeriod time.Duration `yaml:"overflow_period"`
	ADCLatency     time.Duration `yaml:"adc_latency"`
	Pot            uint16        `yaml:"pot"` // initial raw potentiometer value
	Echo           bool          `yaml:"echo"`
}

// ScheduleConfig mirrors the firmware build configuration.
type ScheduleConfig struct {
	OverflowsPerTick uint16 `yaml:"overflows_per_tick"`
	ADCDelay         int16  `yaml:"adc_delay"`
	ADCInterval      uint16 `yaml:"adc_interval"`
	ReportDelay      int16  `yaml:"report_delay"`
	ReportInterval   uint16 `yaml:"report_interval"`
	Report           string `yaml:"report"` // compare or reading
	InitialCompare   uint16 `yaml:"initial_compare"`
	UseLED           bool   `yaml:"use_led"`
}

// Default returns a default configuration matching the reference board.
func Default() *Config {
	fw := core.DefaultConfig()
	return &Config{
		Serial: SerialConfig{
			Port:        "/dev/ttyUSB0",
			Baud:        int(fw.Baud),
			ReadTimeout: 100 * time.Millisecond,
		},
		MQTT: MQTTConfig{
			Topic: "potbuzz/frequency",
		},
		Sim: SimConfig{
			Speed:          1,
			OverflowPeriod: time.Duration(core.OverflowPeriodNano),
			ADCLatency:     104 * time.Microsecond,
			Pot:            512,
			Echo:           true,
		},
		Schedule: ScheduleConfig{
			OverflowsPerTick: fw.OverflowsPerTick,
			ADCDelay:         fw.ADCDelay,
			ADCInterval:      fw.ADCInterval,
			ReportDelay:      fw.ReportDelay,
			ReportInterval:   fw.ReportInterval,
			Report:           fw.Report.String(),
			InitialCompare:   fw.InitialCompare,
		},
	}
}

// Load loads configuration from a YAML file. If the file doesn't exist or
// fields are missing, it uses default values.
func Load(filename string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(filename)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	cfg.ensureDefaults()

	if _, err := cfg.Schedule.ReportSource(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save saves the configuration to a YAML file.
func (c *Config) Save(filename string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(filename, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// ensureDefaults ensures that all required fields have default values if missing.
// Delays may legitimately be zero and are left alone.
func (c *Config) ensureDefaults() {
	def := Default()

	if c.Serial.Port == "" {
		c.Serial.Port = def.Serial.Port
	}
	if c.Serial.Baud == 0 {
		c.Serial.Baud = def.Serial.Baud
	}
	if c.Serial.ReadTimeout == 0 {
		c.Serial.ReadTimeout = def.Serial.ReadTimeout
	}

	if c.MQTT.Topic == "" {
		c.MQTT.Topic = def.MQTT.Topic
	}

	if c.Sim.OverflowPeriod == 0 {
		c.Sim.OverflowPeriod = def.Sim.OverflowPeriod
	}
	if c.Sim.ADCLatency == 0 {
		c.Sim.ADCLatency = def.Sim.ADCLatency
	}

	if c.Schedule.OverflowsPerTick == 0 {
		c.Schedule.OverflowsPerTick = def.Schedule.OverflowsPerTick
	}
	if c.Schedule.Report == "" {
		c.Schedule.Report = def.Schedule.Report
	}
	if c.Schedule.InitialCompare == 0 {
		c.Schedule.InitialCompare = def.Schedule.InitialCompare
	}
}

// ReportSource parses the report field.
func (s ScheduleConfig) ReportSource() (core.ReportSource, error) {
	switch s.Report {
	case "", core.ReportCompare.String():
		return core.ReportCompare, nil
	case core.ReportReading.String():
		return core.ReportReading, nil
	}
	return 0, fmt.Errorf("unknown report source %q", s.Report)
}

// Firmware builds the firmware configuration from the schedule section.
func (c *Config) Firmware() core.Config {
	fw := core.DefaultConfig()
	fw.OverflowsPerTick = c.Schedule.OverflowsPerTick
	fw.ADCDelay = c.Schedule.ADCDelay
	fw.ADCInterval = c.Schedule.ADCInterval
	fw.ReportDelay = c.Schedule.ReportDelay
	fw.ReportInterval = c.Schedule.ReportInterval
	fw.InitialCompare = c.Schedule.InitialCompare
	fw.UseLED = c.Schedule.UseLED
	fw.Baud = uint32(c.Serial.Baud)
	if src, err := c.Schedule.ReportSource(); err == nil {
		fw.Report = src
	}
	return fw
}
