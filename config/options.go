package config

const (
	defaultLogFile           = "logs.log"
	defaultLogLevel          = "info"
	defaultLogFileMaxSize    = 20
	defaultLogFileMaxBackups = 3
	defaultLogFileMaxAge     = 28
	defaultLogCompress       = false
	defaultPort              = 8080
	defaultHost              = "0.0.0.0"
	defaultData              = "/var/opt/my-library"
	defaultDSN               = defaultData + "/library.db"
	defaultSnapshotMirror    = false
	defaultSnapshotPath      = defaultData + "/library.json"
	defaultWorkerPoolSize    = 2
	defaultSearchLimit       = 5
	defaultSearchTimeout     = 10
	defaultSearchDebounceMs  = 300
	defaultSearchRatePerSec  = 5
	defaultSecretsFile       = ""
)

// Why use mapstructure instead of json, if use json as field tags, it can't recgnize the field, since the viper use mapstructure.
// see: https://pkg.go.dev/github.com/mitchellh/mapstructure#hdr-Field_Tags
type Options struct {
	// LogFile is the file to write logs to
	LogFile string `mapstructure:"log_file"`
	// LogLevel is the level of logging to show
	LogLevel string `mapstructure:"log_level"`
	// LogFileMaxSize is the maximum size of the log file before it is rotated
	LogFileMaxSize int `mapstructure:"log_file_max_size"`
	// LogFileMaxBackups is the maximum number of log files to keep
	LogFileMaxBackups int `mapstructure:"log_file_max_backups"`
	// LogFileMaxAge is the maximum number of days to keep a log file
	LogFileMaxAge int `mapstructure:"log_file_max_age"`
	// LogCompress is whether or not to compress the log files
	LogCompress bool `mapstructure:"log_compress"`
	// DSN is the path of the sqlite database holding the collection
	DSN string `mapstructure:"dsn_uri"`
	// Port is the port to listen on
	Port int `mapstructure:"port"`
	// Host is the host to listen on
	Host string `mapstructure:"host"`
	// Data is the directory to store data
	Data string `mapstructure:"data"`
	// SnapshotMirror enables the background JSON mirror of the collection
	SnapshotMirror bool `mapstructure:"snapshot_mirror"`
	// SnapshotPath is the file the JSON mirror is written to
	SnapshotPath   string `mapstructure:"snapshot_path"`
	WorkerPoolSize int    `mapstructure:"worker_pool_size"`
	// SearchLimit is the maximum number of results requested per provider
	SearchLimit int `mapstructure:"search_limit"`
	// SearchTimeout is the per-request provider timeout, in seconds
	SearchTimeout int `mapstructure:"search_timeout"`
	// SearchDebounceMs is the quiet period before a search is issued
	SearchDebounceMs int `mapstructure:"search_debounce_ms"`
	// SearchRatePerSec caps outbound requests per provider
	SearchRatePerSec int `mapstructure:"search_rate_per_sec"`
	// SecretsFile is an INI file holding provider API keys
	SecretsFile string `mapstructure:"secrets_file"`
}

func GetDefaultOptions() *Options {
	Opts = &Options{
		LogFile:           defaultLogFile,
		LogLevel:          defaultLogLevel,
		LogFileMaxSize:    defaultLogFileMaxSize,
		LogFileMaxBackups: defaultLogFileMaxBackups,
		LogFileMaxAge:     defaultLogFileMaxAge,
		LogCompress:       defaultLogCompress,
		DSN:               defaultDSN,
		Port:              defaultPort,
		Host:              defaultHost,
		Data:              defaultData,
		SnapshotMirror:    defaultSnapshotMirror,
		SnapshotPath:      defaultSnapshotPath,
		WorkerPoolSize:    defaultWorkerPoolSize,
		SearchLimit:       defaultSearchLimit,
		SearchTimeout:     defaultSearchTimeout,
		SearchDebounceMs:  defaultSearchDebounceMs,
		SearchRatePerSec:  defaultSearchRatePerSec,
		SecretsFile:       defaultSecretsFile,
	}
	return Opts
}
