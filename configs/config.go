package configs

import (
	"context"
	"fmt"
	"os"
	"time"

	secretmanager "cloud.google.com/go/secretmanager/apiv1"
	"github.com/joeshaw/envdecode"
	"github.com/kelseyhightower/envconfig"
	"github.com/pkg/errors"
	secretspb "google.golang.org/genproto/googleapis/cloud/secretmanager/v1"
	"gopkg.in/yaml.v2"
)

const (
	RoutesProviderRoutesAPI  = "routes"
	RoutesProviderDirections = "directions"

	// envPrefix namespaces the structured variables read by envconfig, e.g.
	// MAPS_SEARCH_QUIETPERIOD. Explicit env tags are read by envdecode.
	envPrefix = "maps"
)

var serverConfigSecret = os.Getenv("SERVER_CONFIG_SECRET")

type Places struct {
	APIKey    string `yaml:"apiKey" env:"PLACES_API_KEY"`
	BaseURL   string `yaml:"baseUrl" env:"PLACES_BASE_URL"`
	RateLimit int    `yaml:"rateLimit" env:"PLACES_RATE_LIMIT"`
}

type Routes struct {
	Provider          string        `yaml:"provider" env:"ROUTES_PROVIDER"`
	APIKey            string        `yaml:"apiKey" env:"ROUTES_API_KEY"`
	URL               string        `yaml:"url" env:"ROUTES_URL"`
	FieldMask         string        `yaml:"fieldMask"`
	TravelMode        string        `yaml:"travelMode"`
	RoutingPreference string        `yaml:"routingPreference"`
	Units             string        `yaml:"units"`
	Timeout           time.Duration `yaml:"timeout" env:"ROUTES_TIMEOUT"`
}

type Search struct {
	QuietPeriod    time.Duration `yaml:"quietPeriod" env:"SEARCH_QUIET_PERIOD"`
	MinQueryLength int           `yaml:"minQueryLength" env:"SEARCH_MIN_QUERY_LENGTH"`
	SelectionZoom  float64       `yaml:"selectionZoom"`
}

type Cache struct {
	Autocomplete time.Duration `yaml:"autocomplete"`
	Details      time.Duration `yaml:"details"`
	Route        time.Duration `yaml:"route"`
	Cleanup      time.Duration `yaml:"cleanup"`
}

type Sessions struct {
	TTL     time.Duration `yaml:"ttl" env:"SESSION_TTL"`
	Cleanup time.Duration `yaml:"cleanup"`
}

type Config struct {
	Places   Places   `yaml:"places"`
	Routes   Routes   `yaml:"routes"`
	Search   Search   `yaml:"search"`
	Cache    Cache    `yaml:"cache"`
	Sessions Sessions `yaml:"sessions"`
	Server   struct {
		Port int `yaml:"port" env:"SERVER_PORT"`
	} `yaml:"server"`
	NsqdAddress string `yaml:"nsqdAddress" env:"NSQD_ADDRESS"`
	LogLevel    string `yaml:"logLevel" env:"LOG_LEVEL"`
}

// Default returns the configuration used when nothing overrides it.
func Default() *Config {
	c := &Config{}
	c.Routes.Provider = RoutesProviderRoutesAPI
	c.Routes.Timeout = 10 * time.Second
	c.Search.QuietPeriod = time.Second
	c.Search.MinQueryLength = 2
	c.Search.SelectionZoom = 14
	c.Cache.Autocomplete = 5 * time.Minute
	c.Cache.Details = time.Hour
	c.Cache.Route = 2 * time.Minute
	c.Cache.Cleanup = 15 * time.Minute
	c.Sessions.TTL = 30 * time.Minute
	c.Sessions.Cleanup = time.Minute
	c.Server.Port = 3030
	c.LogLevel = "info"
	return c
}

// Load layers the YAML file, the server config secret and the environment
// over Default, in that order.
func Load(ctx context.Context, configFile string) (*Config, error) {
	c := Default()
	if configFile != "" {
		if err := c.Read(configFile); err != nil {
			return nil, err
		}
	}
	if serverConfigSecret != "" {
		if err := c.ReadServerConfig(ctx, serverConfigSecret); err != nil {
			return nil, err
		}
	}
	if err := c.ReadEnv(); err != nil {
		return nil, err
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Config) Read(configFile string) error {
	f, err := os.Open(configFile)
	if err != nil {
		return errors.Wrap(err, "read config")
	}
	defer f.Close()

	if err = yaml.NewDecoder(f).Decode(c); err != nil {
		return errors.Wrapf(err, "decode config %s", configFile)
	}
	return nil
}

func (c *Config) ReadEnv() error {
	if err := envconfig.Process(envPrefix, c); err != nil {
		return errors.Wrap(err, "envconfig")
	}
	if err := envdecode.Decode(c); err != nil && err != envdecode.ErrNoTargetFieldsAreSet {
		return errors.Wrap(err, "envdecode")
	}
	return nil
}

// ReadServerConfig overlays the YAML stored in a Secret Manager secret version.
func (c *Config) ReadServerConfig(ctx context.Context, secret string) error {
	client, err := secretmanager.NewClient(ctx)
	if err != nil {
		return errors.Wrap(err, "secretmanager client")
	}
	defer client.Close()

	request := &secretspb.AccessSecretVersionRequest{
		Name: secret,
	}
	response, err := client.AccessSecretVersion(ctx, request)
	if err != nil {
		return errors.Wrapf(err, "access secret %s", secret)
	}
	return errors.Wrap(yaml.Unmarshal(response.Payload.Data, c), "decode server config")
}

func (c *Config) Validate() error {
	if c.Places.APIKey == "" {
		return errors.New("places api key is required")
	}
	if c.Routes.APIKey == "" {
		c.Routes.APIKey = c.Places.APIKey
	}
	switch c.Routes.Provider {
	case RoutesProviderRoutesAPI, RoutesProviderDirections:
	default:
		return errors.Errorf("unknown routes provider %q", c.Routes.Provider)
	}
	if c.Search.QuietPeriod <= 0 {
		return errors.Errorf("search quiet period must be positive, got %v", c.Search.QuietPeriod)
	}
	if c.Search.MinQueryLength < 1 {
		return errors.Errorf("search min query length must be at least 1, got %d", c.Search.MinQueryLength)
	}
	return nil
}

func (c *Config) String() string {
	return fmt.Sprintf("Port:%d, PlacesAPI:%s, RoutesProvider:%s, RoutesAPI:%s, QuietPeriod:%v, SessionTTL:%v, NSQD_ADDRESS:%s",
		c.Server.Port, mask(c.Places.APIKey), c.Routes.Provider, mask(c.Routes.APIKey), c.Search.QuietPeriod, c.Sessions.TTL, c.NsqdAddress)
}

func mask(secret string) string {
	if len(secret) <= 4 {
		return "****"
	}
	return secret[:4] + "****"
}
