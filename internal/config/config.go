package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"
)

// ErrMissingToken is returned when the blob storage write token is not set.
var ErrMissingToken = errors.New("missing BLOB_READ_WRITE_TOKEN environment variable")

const (
	FetchModeBrowser = "browser"
	FetchModeStatic  = "static"
)

type Config struct {
	AppEnv        string
	HTTPAddr      string
	RedisAddr     string
	RedisPassword string

	ProjectRoot  string
	AssetsDir    string
	ManifestPath string
	DisplayPath  string
	URLMapPath   string
	SiteFile     string

	FetchMode   string
	CleanAssets bool
	Browser     BrowserConfig

	DownloadTimeout time.Duration
	UserAgent       string

	BlobToken     string
	StorageURL    string
	StorageBucket string
	BlobPrefix    string

	Site Site
}

// BrowserConfig holds the waits used while loading a page in the browser.
type BrowserConfig struct {
	NavigationTimeout   time.Duration
	PostNavigationDelay time.Duration
	ScrollDistance      int
	ScrollInterval      time.Duration
	ScrollSettle        time.Duration
	PostScrollDelay     time.Duration
	ViewportWidth       int
	ViewportHeight      int
}

const defaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

func getenv(key, def string) string {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	return v
}

func getenvInt(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return i
}

func getenvBool(key string, def bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def
	}
	return b
}

func getenvDuration(key string, def time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return def
	}
	return d
}

// Load reads configuration from the environment and the optional site file.
func Load() (Config, error) {
	root := getenv("PROJECT_ROOT", ".")
	cfg := Config{
		AppEnv:        getenv("APP_ENV", "development"),
		HTTPAddr:      getenv("HTTP_ADDR", ":8081"),
		RedisAddr:     getenv("REDIS_ADDR", "127.0.0.1:6379"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),

		ProjectRoot:  root,
		AssetsDir:    filepath.Join(root, "tmp-assets"),
		ManifestPath: filepath.Join(root, "raw-scrape-data.json"),
		DisplayPath:  filepath.Join(root, "src", "data", "portfolio-data.json"),
		URLMapPath:   filepath.Join(root, "url-map.json"),
		SiteFile:     getenv("PORTFOLIO_CONFIG", filepath.Join(root, "configs", "portfolio.yaml")),

		FetchMode:   getenv("FETCH_MODE", FetchModeBrowser),
		CleanAssets: getenvBool("CLEAN_ASSETS", true),
		Browser: BrowserConfig{
			NavigationTimeout:   getenvDuration("NAVIGATION_TIMEOUT", 30*time.Second),
			PostNavigationDelay: getenvDuration("POST_NAVIGATION_DELAY", 3*time.Second),
			ScrollDistance:      getenvInt("SCROLL_DISTANCE", 400),
			ScrollInterval:      getenvDuration("SCROLL_INTERVAL", 200*time.Millisecond),
			ScrollSettle:        getenvDuration("SCROLL_SETTLE", 2*time.Second),
			PostScrollDelay:     getenvDuration("POST_SCROLL_DELAY", 2*time.Second),
			ViewportWidth:       1920,
			ViewportHeight:      1080,
		},

		DownloadTimeout: getenvDuration("DOWNLOAD_TIMEOUT", 30*time.Second),
		UserAgent:       getenv("USER_AGENT", defaultUserAgent),

		BlobToken:     os.Getenv("BLOB_READ_WRITE_TOKEN"),
		StorageURL:    os.Getenv("SUPABASE_URL"),
		StorageBucket: getenv("SUPABASE_STORAGE_BUCKET", "portfolio"),
		BlobPrefix:    getenv("BLOB_PREFIX", "portfolio"),

		Site: DefaultSite(),
	}

	if cfg.FetchMode != FetchModeBrowser && cfg.FetchMode != FetchModeStatic {
		return Config{}, fmt.Errorf("unknown FETCH_MODE %q", cfg.FetchMode)
	}

	file, err := LoadSiteFile(cfg.SiteFile)
	if err != nil {
		return Config{}, err
	}
	if file != nil {
		cfg.Site = cfg.Site.Merge(*file)
	}
	if len(cfg.Site.Pages) == 0 {
		return Config{}, fmt.Errorf("no pages configured")
	}
	return cfg, nil
}

// RequireUpload checks the settings the blob publisher cannot run without.
func (c Config) RequireUpload() error {
	if c.BlobToken == "" {
		return ErrMissingToken
	}
	if c.StorageURL == "" {
		return fmt.Errorf("missing SUPABASE_URL environment variable")
	}
	return nil
}
