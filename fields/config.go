package fields

// Config is the process-wide medico configuration, loaded once at startup
// from config.yaml and passed explicitly to the services that need it.
type Config struct {
	Port           string `yaml:"port"`
	IsDebug        bool   `yaml:"is_debug"`
	DatabaseURL    string `yaml:"db_url"`
	DatabasePath   string `yaml:"db_path"`
	DatabaseDriver string `yaml:"db_driver"`
	UploadDir      string `yaml:"upload_dir"`

	// JWTKey signs partner and member bearer tokens.
	JWTKey        string `yaml:"jwt_key"`
	TokenLifeDays int    `yaml:"token_life_days"`

	AdminKey      string `yaml:"admin_key"`
	AdminUser     string `yaml:"admin_user"`
	AdminPassword string `yaml:"admin_password"`

	Cors               string `yaml:"cors"`
	LogSamplingTickMs  int    `yaml:"log_sampling_tick_ms"`
	LogSamplingAfterMs int    `yaml:"log_sampling_after_ms"`

	Discount DiscountPolicy `yaml:"discount"`
}

// Defaults fills zero values with sane development defaults.
func (c *Config) Defaults() {
	if c.Port == "" {
		c.Port = ":8080"
	}
	if c.DatabasePath == "" {
		c.DatabasePath = "medico.db"
	}
	if c.UploadDir == "" {
		c.UploadDir = "uploads"
	}
	if c.TokenLifeDays <= 0 {
		c.TokenLifeDays = 7
	}
	c.Discount.Defaults()
}
