package cfg

type Cfg struct {
	// Database configuration
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string

	// Application configuration
	Port              string
	WorkerCount       int
	SchedulerInterval int
	FetchTimeout      int
	APIAccessKey      string
	RunOnce           bool

	// Translation configuration
	TranslationEnabled bool
	TranslationTarget  string

	// Application metadata
	UserAgent string
	Timezone  string
	Debug     bool
	Version   string
}
