package cfg

import "time"

type Cfg struct {
	// Source account
	Username string
	Identity string
	BaseUrl  string

	// Feed configuration
	CacheDuration time.Duration
	FetchTimeout  time.Duration
	RulesFile     string
	Location      *time.Location

	// Cache warmer
	WarmInterval time.Duration
	WorkerCount  int

	// Application metadata
	Port      string
	UserAgent string
	Timezone  string
	Verbose   bool
	Version   string
}

// FeedURL is the activity-feed page of the configured account.
func (c *Cfg) FeedURL() string {
	return c.BaseUrl + "/" + c.Username + "/feed"
}
