package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// envPrefix namespaces environment overrides, e.g. FEEDER_DB_PATH.
const envPrefix = "FEEDER"

// Transports for the device channel.
const (
	TransportMQTT = "mqtt"
	TransportSim  = "sim"
)

// Config is the typed view of configs/config.yml.
type Config struct {
	Port      string          `mapstructure:"port"`
	Log       LogConfig       `mapstructure:"log"`
	DB        DBConfig        `mapstructure:"db"`
	Device    DeviceConfig    `mapstructure:"device"`
	MQTT      MQTTConfig      `mapstructure:"mqtt"`
	InfluxDB  InfluxDBConfig  `mapstructure:"influxdb"`
	Feeder    FeederConfig    `mapstructure:"feeder"`
	Simulator SimulatorConfig `mapstructure:"simulator"`
}

type LogConfig struct {
	Level    string `mapstructure:"level"`
	Encoding string `mapstructure:"encoding"` // console | json
}

type DBConfig struct {
	Path string `mapstructure:"path"`
}

type DeviceConfig struct {
	ID        string `mapstructure:"id"`
	Transport string `mapstructure:"transport"` // mqtt | sim
}

// MQTTConfig contains MQTT broker connection settings.
type MQTTConfig struct {
	Broker    MQTTBrokerConfig    `mapstructure:"broker"`
	Auth      MQTTAuthConfig      `mapstructure:"auth"`
	QoS       int                 `mapstructure:"qos"`
	Reconnect MQTTReconnectConfig `mapstructure:"reconnect"`
}

type MQTTBrokerConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	TLS      bool   `mapstructure:"tls"`
	ClientID string `mapstructure:"client_id"`
}

type MQTTAuthConfig struct {
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
}

// MQTTReconnectConfig delays are in seconds.
type MQTTReconnectConfig struct {
	InitialDelay int `mapstructure:"initial_delay"`
	MaxDelay     int `mapstructure:"max_delay"`
}

// InfluxDBConfig contains InfluxDB connection settings.
type InfluxDBConfig struct {
	Enabled       bool   `mapstructure:"enabled"`
	URL           string `mapstructure:"url"`
	Token         string `mapstructure:"token"`
	Org           string `mapstructure:"org"`
	Bucket        string `mapstructure:"bucket"`
	BatchSize     int    `mapstructure:"batch_size"`
	FlushInterval int    `mapstructure:"flush_interval"` // seconds
}

// FeederConfig holds the coordination constants.
type FeederConfig struct {
	OfflineThresholdSeconds int     `mapstructure:"offline_threshold_seconds"`
	DispenseDwellMS         int     `mapstructure:"dispense_dwell_ms"`
	SchedulePollIntervalMS  int     `mapstructure:"schedule_poll_interval_ms"`
	StatusPollIntervalMS    int     `mapstructure:"status_poll_interval_ms"`
	IdleWaitTimeoutMS       int     `mapstructure:"idle_wait_timeout_ms"`
	WaitForIdle             bool    `mapstructure:"wait_for_idle"`
	ManualRequiresSchedule  bool    `mapstructure:"manual_requires_schedule"` // dispense by hand only in a schedule minute
	MaxBowlWeight           float64 `mapstructure:"max_bowl_weight"`
	DefaultDispenseAngle    float64 `mapstructure:"default_dispense_angle"`
	Timezone                string  `mapstructure:"timezone"`
}

func (f FeederConfig) OfflineThreshold() time.Duration {
	return time.Duration(f.OfflineThresholdSeconds) * time.Second
}

func (f FeederConfig) DispenseDwell() time.Duration {
	return time.Duration(f.DispenseDwellMS) * time.Millisecond
}

func (f FeederConfig) SchedulePollInterval() time.Duration {
	return time.Duration(f.SchedulePollIntervalMS) * time.Millisecond
}

func (f FeederConfig) StatusPollInterval() time.Duration {
	return time.Duration(f.StatusPollIntervalMS) * time.Millisecond
}

func (f FeederConfig) IdleWaitTimeout() time.Duration {
	return time.Duration(f.IdleWaitTimeoutMS) * time.Millisecond
}

// Location resolves the configured timezone; "" and "Local" mean the host zone.
func (f FeederConfig) Location() (*time.Location, error) {
	if f.Timezone == "" || f.Timezone == "Local" {
		return time.Local, nil
	}
	return time.LoadLocation(f.Timezone)
}

// SimulatorConfig tunes the in-process device model.
type SimulatorConfig struct {
	TickMS             int     `mapstructure:"tick_ms"`
	ServoDegPerSec     float64 `mapstructure:"servo_deg_per_sec"`
	FillGramsPerSec    float64 `mapstructure:"fill_grams_per_sec"`
	EatGramsPerSec     float64 `mapstructure:"eat_grams_per_sec"`
	InitialBowlWeightG float64 `mapstructure:"initial_bowl_weight_g"`
}

func (s SimulatorConfig) Tick() time.Duration {
	return time.Duration(s.TickMS) * time.Millisecond
}

// maxSchedulePollMS keeps at least one evaluation inside every minute.
const maxSchedulePollMS = 60_000

var (
	errMissingDeviceID     = errors.New("device.id must not be empty")
	errInvalidTransport    = errors.New("device.transport must be mqtt or sim")
	errInvalidThreshold    = errors.New("feeder.offline_threshold_seconds must be > 0")
	errInvalidDwell        = errors.New("feeder.dispense_dwell_ms must be > 0")
	errInvalidPoll         = errors.New("feeder poll intervals must be > 0")
	errSchedulePollTooLong = fmt.Errorf("feeder.schedule_poll_interval_ms must be <= %d", maxSchedulePollMS)
	errInvalidSimTick      = errors.New("simulator.tick_ms must be > 0")
	errInvalidIdleTimeout  = errors.New("feeder.idle_wait_timeout_ms must be > 0")
	errInvalidMaxWeight    = errors.New("feeder.max_bowl_weight must be > 0")
	errInvalidDefaultAngle = errors.New("feeder.default_dispense_angle must be in (0, 180]")
)

func setDefaults(v *viper.Viper) {
	v.SetDefault("port", "8080")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.encoding", "console")
	v.SetDefault("db.path", "feeder.db")
	v.SetDefault("device.id", "feeder_001")
	v.SetDefault("device.transport", TransportSim)

	v.SetDefault("mqtt.broker.host", "localhost")
	v.SetDefault("mqtt.broker.port", 1883)
	v.SetDefault("mqtt.broker.client_id", "feeder-core")
	v.SetDefault("mqtt.qos", 1)
	v.SetDefault("mqtt.reconnect.initial_delay", 1)
	v.SetDefault("mqtt.reconnect.max_delay", 60)

	v.SetDefault("influxdb.enabled", false)
	v.SetDefault("influxdb.url", "http://localhost:8086")
	v.SetDefault("influxdb.org", "feeder")
	v.SetDefault("influxdb.bucket", "feeder")
	v.SetDefault("influxdb.batch_size", 100)
	v.SetDefault("influxdb.flush_interval", 10)

	v.SetDefault("feeder.offline_threshold_seconds", 20)
	v.SetDefault("feeder.dispense_dwell_ms", 3000)
	v.SetDefault("feeder.schedule_poll_interval_ms", 5000)
	v.SetDefault("feeder.status_poll_interval_ms", 1000)
	v.SetDefault("feeder.idle_wait_timeout_ms", 10000)
	v.SetDefault("feeder.wait_for_idle", true)
	v.SetDefault("feeder.manual_requires_schedule", false)
	v.SetDefault("feeder.max_bowl_weight", 20.0)
	v.SetDefault("feeder.default_dispense_angle", 90.0)
	v.SetDefault("feeder.timezone", "Local")

	v.SetDefault("simulator.tick_ms", 200)
	v.SetDefault("simulator.servo_deg_per_sec", 180.0)
	v.SetDefault("simulator.fill_grams_per_sec", 4.0)
	v.SetDefault("simulator.eat_grams_per_sec", 0.05)
	v.SetDefault("simulator.initial_bowl_weight_g", 0.0)
}

// Load reads configuration from the given directory (config.yml), a .env file in the
// working directory if present, and FEEDER_* environment variables.
// A missing config file is not an error; defaults apply.
func Load(dir string) (Config, error) {
	// .env is optional
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v)
	v.AddConfigPath(dir)
	v.SetConfigName("config")
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks values the coordinator cannot run without.
func (c Config) Validate() error {
	if strings.TrimSpace(c.Device.ID) == "" {
		return errMissingDeviceID
	}
	switch c.Device.Transport {
	case TransportMQTT, TransportSim:
	default:
		return errInvalidTransport
	}
	f := c.Feeder
	if f.OfflineThresholdSeconds <= 0 {
		return errInvalidThreshold
	}
	if f.DispenseDwellMS <= 0 {
		return errInvalidDwell
	}
	if f.SchedulePollIntervalMS <= 0 || f.StatusPollIntervalMS <= 0 {
		return errInvalidPoll
	}
	if f.SchedulePollIntervalMS > maxSchedulePollMS {
		return errSchedulePollTooLong
	}
	if f.IdleWaitTimeoutMS <= 0 {
		return errInvalidIdleTimeout
	}
	if f.MaxBowlWeight <= 0 {
		return errInvalidMaxWeight
	}
	if f.DefaultDispenseAngle <= 0 || f.DefaultDispenseAngle > 180 {
		return errInvalidDefaultAngle
	}
	if _, err := f.Location(); err != nil {
		return fmt.Errorf("feeder.timezone: %w", err)
	}
	if c.Simulator.TickMS <= 0 {
		return errInvalidSimTick
	}
	return nil
}
