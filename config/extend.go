package config

var ExtConfig Extend

// Extend mirrors config/settings.yml.
type Extend struct {
	Application ApplicationConfig `yaml:"application"`
	Mongodb     MongodbConfig     `yaml:"mongodb"`
	Redis       RedisConfig       `yaml:"redis"`
	JWT         JWTConfig         `yaml:"jwt"`
	Assessor    AssessorConfig    `yaml:"assessor"`
}

type ApplicationConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
	Mode string `yaml:"mode"` // dev or prod
}

type MongodbConfig struct {
	DSN      string `yaml:"dsn"`
	ReviewDB string `yaml:"reviewdb"`
}

// RedisConfig is optional: an empty Dsn disables the catalog cache.
type RedisConfig struct {
	Dsn      string `yaml:"dsn"`
	DB       int    `yaml:"db"`
	Password string `yaml:"password"`
}

type JWTConfig struct {
	Secret  string `yaml:"secret"`
	Timeout int64  `yaml:"timeout"` // seconds
}

// AssessorConfig tunes the simulated quality model. Zero values fall back
// to the defaults in service.NewAssessor.
type AssessorConfig struct {
	GrammarErrorProb     float64 `yaml:"grammarerrorprob"`
	PunctuationErrorProb float64 `yaml:"punctuationerrorprob"`
	SemanticErrorProb    float64 `yaml:"semanticerrorprob"`
	Seed                 int64   `yaml:"seed"` // non-zero pins the RNG for reproduction runs
}
