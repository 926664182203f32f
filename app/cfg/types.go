package cfg

type Cfg struct {
	// Database configuration
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string

	// Application configuration
	CategoriesDir     string
	Port              string
	WorkerCount       int
	SchedulerInterval int
	APIAccessKey      string

	// Grok completion endpoint
	GrokAPIURL string
	GrokAPIKey string
	GrokModel  string

	// Blog CRUD publish surface
	BlogAPIURL string
	BlogAPIKey string

	// Application metadata
	UserAgent string
	Timezone  string
	Debug     bool
	Version   string
}
