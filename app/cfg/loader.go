package cfg

import (
	"cmp"
	"fmt"
	"strings"
	"time"

	"github.com/jessevdk/go-flags"
)

// Version is set at build time via -ldflags
var Version = "dev"

const defaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0.0.0 Safari/537.36"

func GetVersion() string {
	return cmp.Or(Version, "unknown")
}

type rawCfg struct {
	// Source account
	Username string `long:"username" env:"BANDCAMP_USERNAME" description:"Bandcamp account whose feed is republished" required:"true"`
	Identity string `long:"identity" env:"IDENTITY" description:"Value of the Bandcamp identity session cookie" required:"true"`
	BaseUrl  string `long:"base-url" env:"BASE_URL" default:"https://bandcamp.com" description:"Base URL of the source site"`

	// Feed configuration
	CacheDuration int    `long:"cache-duration" env:"CACHE_DURATION_SECONDS" default:"3600" description:"Cache duration in seconds"`
	FetchTimeout  int    `long:"fetch-timeout" env:"FETCH_TIMEOUT" default:"30" description:"Upstream fetch timeout in seconds"`
	RulesFile     string `long:"rules-file" env:"RULES_FILE" description:"YAML file overriding the built-in extraction rules (optional)"`

	// Cache warmer
	WarmInterval int `long:"warm-interval" env:"WARM_INTERVAL" default:"0" description:"Background cache refresh interval in seconds (0 disables)"`
	WorkerCount  int `long:"worker-count" env:"WORKER_COUNT" default:"2" description:"Number of background workers for cache refresh"`

	// Application metadata
	Port      string `long:"port" env:"PORT" default:"8000" description:"HTTP server port"`
	UserAgent string `long:"user-agent" env:"USER_AGENT" description:"User agent string for upstream requests"`
	Timezone  string `long:"timezone" env:"TZ" default:"Europe/London" description:"Timezone used to resolve feed dates (e.g., Europe/London)"`
	Verbose   bool   `long:"verbose" env:"VERBOSE" description:"Enable debug logging"`
}

func Load() (*Cfg, error) {
	return LoadArgs(nil)
}

// LoadArgs parses the given arguments instead of os.Args when args is non-nil.
func LoadArgs(args []string) (*Cfg, error) {
	var raw rawCfg

	parser := flags.NewParser(&raw, flags.Default)

	var err error
	if args != nil {
		_, err = parser.ParseArgs(args)
	} else {
		_, err = parser.Parse()
	}
	if err != nil {
		if flagsErr, ok := err.(*flags.Error); ok {
			if flagsErr.Type == flags.ErrHelp {
				return nil, nil
			}
		}
		return nil, fmt.Errorf("failed to parse configuration: %w", err)
	}

	return build(raw)
}

func build(raw rawCfg) (*Cfg, error) {
	if strings.TrimSpace(raw.Username) == "" {
		return nil, fmt.Errorf("BANDCAMP_USERNAME is required")
	}
	if strings.TrimSpace(raw.Identity) == "" {
		return nil, fmt.Errorf("IDENTITY is required")
	}

	nonNegativeFields := map[string]int{
		"cache duration": raw.CacheDuration,
		"fetch timeout":  raw.FetchTimeout,
		"warm interval":  raw.WarmInterval,
	}

	for fieldName, fieldValue := range nonNegativeFields {
		if fieldValue < 0 {
			return nil, fmt.Errorf("%s must be non-negative", fieldName)
		}
	}

	loc, err := time.LoadLocation(raw.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid timezone '%s': %w", raw.Timezone, err)
	}

	fetchTimeout := time.Duration(raw.FetchTimeout) * time.Second
	if fetchTimeout == 0 {
		fetchTimeout = 30 * time.Second
	}

	return &Cfg{
		Username:      strings.TrimSpace(raw.Username),
		Identity:      raw.Identity,
		BaseUrl:       strings.TrimRight(raw.BaseUrl, "/"),
		CacheDuration: time.Duration(raw.CacheDuration) * time.Second,
		FetchTimeout:  fetchTimeout,
		RulesFile:     raw.RulesFile,
		Location:      loc,
		WarmInterval:  time.Duration(raw.WarmInterval) * time.Second,
		WorkerCount:   max(raw.WorkerCount, 1),
		Port:          raw.Port,
		UserAgent:     cmp.Or(raw.UserAgent, defaultUserAgent),
		Timezone:      raw.Timezone,
		Verbose:       raw.Verbose,
		Version:       GetVersion(),
	}, nil
}
