package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	sharedcfg "github.com/couchcryptid/storm-data-shared/config"
	"gopkg.in/yaml.v3"

	"github.com/couchcryptid/usgs-station-index/internal/domain"
)

// Config holds all build settings, populated from environment variables
// layered over an optional YAML file named by STATION_INDEX_CONFIG.
type Config struct {
	OutputDir string

	SiteURL     string
	CountyURL   string
	ParameterCd string
	UserAgent   string
	HTTPTimeout time.Duration

	// Politeness pacing. ThrottleRPS > 0 replaces the fixed delays with a
	// token bucket shared by both passes.
	CountyDelay  time.Duration
	StationDelay time.Duration
	ThrottleRPS  float64

	States []string

	LogLevel  string
	LogFormat string

	MetricsTextfile string

	KafkaBrokers []string
	KafkaTopic   string
}

// PublishEnabled reports whether records are also published to Kafka.
func (c *Config) PublishEnabled() bool {
	return len(c.KafkaBrokers) > 0
}

type fileConfig struct {
	Output struct {
		Dir string `yaml:"dir"`
	} `yaml:"output"`

	USGS struct {
		SiteURL     string `yaml:"site_url"`
		CountyURL   string `yaml:"county_url"`
		ParameterCd string `yaml:"parameter_cd"`
		UserAgent   string `yaml:"user_agent"`
		Timeout     string `yaml:"timeout"`
	} `yaml:"usgs"`

	Throttle struct {
		CountyDelay  string `yaml:"county_delay"`
		StationDelay string `yaml:"station_delay"`
		RPS          string `yaml:"rps"`
	} `yaml:"throttle"`

	States []string `yaml:"states"`

	Log struct {
		Level  string `yaml:"level"`
		Format string `yaml:"format"`
	} `yaml:"log"`

	Metrics struct {
		Textfile string `yaml:"textfile"`
	} `yaml:"metrics"`

	Kafka struct {
		Brokers []string `yaml:"brokers"`
		Topic   string   `yaml:"topic"`
	} `yaml:"kafka"`
}

// Load reads configuration, applying defaults where unset. Environment
// variables take precedence over the YAML file.
func Load() (*Config, error) {
	fc, err := loadFile(os.Getenv("STATION_INDEX_CONFIG"))
	if err != nil {
		return nil, err
	}

	httpTimeout, err := parseDuration("HTTP_TIMEOUT", fc.USGS.Timeout, "60s")
	if err != nil {
		return nil, err
	}
	countyDelay, err := parseDuration("COUNTY_DELAY", fc.Throttle.CountyDelay, "200ms")
	if err != nil {
		return nil, err
	}
	stationDelay, err := parseDuration("STATION_DELAY", fc.Throttle.StationDelay, "300ms")
	if err != nil {
		return nil, err
	}
	rps, err := parseRPS(fc.Throttle.RPS)
	if err != nil {
		return nil, err
	}
	states, err := parseStates(fc.States)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		OutputDir:       envOr("OUTPUT_DIR", fc.Output.Dir, "."),
		SiteURL:         envOr("USGS_SITE_URL", fc.USGS.SiteURL, "https://waterservices.usgs.gov/nwis/site/"),
		CountyURL:       envOr("USGS_COUNTY_URL", fc.USGS.CountyURL, "https://help.waterdata.usgs.gov/code/county_query"),
		ParameterCd:     envOr("USGS_PARAMETER_CD", fc.USGS.ParameterCd, "00065"),
		UserAgent:       envOr("USER_AGENT", fc.USGS.UserAgent, "usgs-station-index/1.0"),
		HTTPTimeout:     httpTimeout,
		CountyDelay:     countyDelay,
		StationDelay:    stationDelay,
		ThrottleRPS:     rps,
		States:          states,
		LogLevel:        envOr("LOG_LEVEL", fc.Log.Level, "info"),
		LogFormat:       envOr("LOG_FORMAT", fc.Log.Format, "json"),
		MetricsTextfile: envOr("METRICS_TEXTFILE", fc.Metrics.Textfile, ""),
		KafkaTopic:      envOr("KAFKA_TOPIC", fc.Kafka.Topic, "usgs-stations"),
	}

	if v := os.Getenv("KAFKA_BROKERS"); v != "" {
		cfg.KafkaBrokers = sharedcfg.ParseBrokers(v)
	} else if len(fc.Kafka.Brokers) > 0 {
		cfg.KafkaBrokers = fc.Kafka.Brokers
	}

	if cfg.OutputDir == "" {
		return nil, errors.New("OUTPUT_DIR is required")
	}
	if cfg.ParameterCd == "" {
		return nil, errors.New("USGS_PARAMETER_CD is required")
	}
	if cfg.PublishEnabled() && cfg.KafkaTopic == "" {
		return nil, errors.New("KAFKA_BROKERS is set but KAFKA_TOPIC is empty")
	}

	return cfg, nil
}

func loadFile(path string) (fileConfig, error) {
	var fc fileConfig
	if path == "" {
		return fc, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return fc, fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return fc, fmt.Errorf("parse config file: %w", err)
	}
	return fc, nil
}

// envOr resolves key from the environment, then the file value, then def.
func envOr(key, fileValue, def string) string {
	if fileValue != "" {
		def = fileValue
	}
	return sharedcfg.EnvOrDefault(key, def)
}

func parseDuration(key, fileValue, def string) (time.Duration, error) {
	d, err := time.ParseDuration(envOr(key, fileValue, def))
	if err != nil || d < 0 {
		return 0, fmt.Errorf("invalid %s", key)
	}
	return d, nil
}

func parseRPS(fileValue string) (float64, error) {
	s := envOr("THROTTLE_RPS", fileValue, "0")
	rps, err := strconv.ParseFloat(s, 64)
	if err != nil || rps < 0 {
		return 0, errors.New("invalid THROTTLE_RPS")
	}
	return rps, nil
}

// parseStates returns the configured subset of domain.States, kept in the
// canonical fetch order. An empty setting selects every state.
func parseStates(fileStates []string) ([]string, error) {
	var requested []string
	if v := os.Getenv("STATES"); v != "" {
		requested = strings.Split(v, ",")
	} else {
		requested = fileStates
	}
	if len(requested) == 0 {
		return append([]string(nil), domain.States...), nil
	}

	want := make(map[string]bool, len(requested))
	for _, s := range requested {
		s = strings.ToUpper(strings.TrimSpace(s))
		if s == "" {
			continue
		}
		if !domain.IsKnownState(s) {
			return nil, fmt.Errorf("invalid STATES: unknown state %q", s)
		}
		want[s] = true
	}
	if len(want) == 0 {
		return nil, errors.New("invalid STATES: no states selected")
	}

	states := make([]string, 0, len(want))
	for _, s := range domain.States {
		if want[s] {
			states = append(states, s)
		}
	}
	return states, nil
}
