package configuration

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sync"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

var singleton = sync.OnceValue(func() *Configuration {
	c := &Configuration{}
	if err := c.load([]string{".env", ".env.local"}); err != nil {
		panic(err)
	}
	return c
})

// Use returns the process-wide configuration, loading it on first call.
func Use() *Configuration {
	return singleton()
}

type Configuration struct {
	ServerPort int    `env:"APP_PORT" envDefault:"8080"`
	LogLevel   string `env:"LOG_LEVEL" envDefault:"info"`
	LogPath    string `env:"LOG_PATH" envDefault:""`

	// ConfigFilePath points at the TOML file holding the output directory
	// paths; the file is created with defaults when missing.
	ConfigFilePath    string `env:"CONFIG_FILE" envDefault:"Config.toml"`
	DefaultDataDir    string `env:"DATA_DIR" envDefault:"/app/data"`
	PhonebookFilename string `env:"PHONEBOOK_FILENAME" envDefault:"rem.xml"`

	// KeepEmptyGroups keeps a group in the saved file after its last contact
	// is deleted instead of dropping it.
	KeepEmptyGroups bool `env:"KEEP_EMPTY_GROUPS" envDefault:"false"`

	BasicAuthUsername string `env:"BASIC_AUTH_USERNAME" envDefault:"admin"`
	BasicAuthPassword string `env:"BASIC_AUTH_PASSWORD" envDefault:"admin"`

	logger *logrus.Logger
}

func (c *Configuration) Logger() *logrus.Logger {
	return c.logger
}

func (c *Configuration) LogrusLogLevel() logrus.Level {
	switch c.LogLevel {
	case "silent":
		return logrus.PanicLevel
	case "error":
		return logrus.ErrorLevel
	case "warn":
		return logrus.WarnLevel
	case "info":
		return logrus.InfoLevel
	case "debug":
		return logrus.DebugLevel
	default:
		return logrus.InfoLevel
	}
}

func (c *Configuration) SocketAddress() string {
	return fmt.Sprintf(":%d", c.ServerPort)
}

func LoadEnv(envFiles []string) (int, error) {
	existing := make([]string, 0, len(envFiles))
	for _, file := range envFiles {
		if _, err := os.Stat(file); err == nil {
			existing = append(existing, file)
		}
	}
	if len(existing) == 0 {
		return 0, nil
	}
	return len(existing), godotenv.Load(existing...)
}

func (c *Configuration) load(envFiles []string) error {
	n, err := LoadEnv(envFiles)
	if err != nil {
		return err
	}
	if n == 0 {
		wd, _ := os.Getwd()
		log.Println("No .env files found. Tried:")
		for _, file := range envFiles {
			log.Println(filepath.Join(wd, file))
		}
	}
	if err := env.Parse(c); err != nil {
		return err
	}

	logger := logrus.New()
	logger.SetLevel(c.LogrusLogLevel())
	logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	if c.LogPath != "" {
		if err := os.MkdirAll(filepath.Dir(c.LogPath), 0o755); err != nil {
			return err
		}
		f, err := os.OpenFile(c.LogPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return err
		}
		logger.SetOutput(f)
	}
	c.logger = logger
	return nil
}
