package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"log"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/spigell/skillmatch/internal/logger"
	"github.com/spigell/skillmatch/internal/matcher"
)

const (
	app = "skillmatch"
)

type Config struct {
	Matcher *MatcherConfig `mapstructure:"matcher" validate:"required"`
	Store   *StoreConfig   `mapstructure:"store" validate:"required"`
	Rank    *RankConfig    `mapstructure:"rank" validate:"required"`
	AI      *AIConfig      `mapstructure:"ai"`
}

type MatcherConfig struct {
	MaxFeatures int               `mapstructure:"max-features" validate:"gte=0"`
	KeyTerms    int               `mapstructure:"key-terms" validate:"gte=0"`
	Aliases     map[string]string `mapstructure:"aliases"`
}

type StoreConfig struct {
	Path string `mapstructure:"path" validate:"required"`
}

type RankConfig struct {
	MinimumScore int    `mapstructure:"minimum-score" validate:"gte=0,lte=100"`
	ExcludeFile  string `mapstructure:"exclude-file"`
	Concurrency  int    `mapstructure:"concurrency" validate:"gte=0"`
	AcceptScore  int    `mapstructure:"accept-score" validate:"gte=0,lte=100"`
	RejectScore  int    `mapstructure:"reject-score" validate:"gte=0,lte=100,ltefield=AcceptScore"`
}

type AIConfig struct {
	Enabled         bool          `mapstructure:"enabled"`
	Provider        string        `mapstructure:"provider" validate:"omitempty,oneof=gemini"`
	MinimumFitScore float64       `mapstructure:"minimum-fit-score" validate:"gte=0,lte=1"`
	Gemini          *GeminiConfig `mapstructure:"gemini" validate:"required_if=Enabled true"`
	Prompt          *PromptConfig `mapstructure:"prompt"`
}

// PromptConfig holds reviewer preferences rendered into the AI prompt.
type PromptConfig struct {
	ExtraCriteria string `mapstructure:"extra-criteria"`
	DealBreakers  string `mapstructure:"deal-breakers"`
	Keywords      string `mapstructure:"keywords"`
	Tone          string `mapstructure:"tone"`
	Region        string `mapstructure:"region"`
	Instructions  string `mapstructure:"instructions"`
}

type GeminiConfig struct {
	APIKeyFile   string `mapstructure:"api-key-file"`
	Model        string `mapstructure:"model"`
	MaxRetries   int    `mapstructure:"max-retries" validate:"gte=0"`
	MaxLogLength int    `mapstructure:"max-log-length" validate:"gte=0"`
}

var (
	// Used for flags.
	cfgFile string

	rootCmd = &cobra.Command{
		Use:   app,
		Short: "skillmatch scores how well candidates' skills cover job requirements",
	}
)

// Execute executes the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	for key, env := range map[string]string{
		"store.path":               "SKILLMATCH_DB",
		"ai.gemini.api-key-file":   "GEMINI_API_KEY_FILE",
		"rank.exclude-file":        "SKILLMATCH_EXCLUDE_FILE",
		"matcher.max-features":     "SKILLMATCH_MAX_FEATURES",
		"rank.concurrency":         "SKILLMATCH_CONCURRENCY",
		"ai.enabled":               "SKILLMATCH_AI_ENABLED",
		"ai.gemini.model":          "GEMINI_MODEL",
		"ai.gemini.max-log-length": "GEMINI_MAX_LOG_LENGTH",
	} {
		if err := viper.BindEnv(key, env); err != nil {
			log.Fatalf("binding %s environment variable: %v", env, err)
		}
	}

	viper.SetDefault("matcher.max-features", 1000)
	viper.SetDefault("matcher.key-terms", 5)
	viper.SetDefault("store.path", app+".db")
	viper.SetDefault("rank.concurrency", 4)
	viper.SetDefault("rank.accept-score", 80)
	viper.SetDefault("rank.reject-score", 60)
	viper.SetDefault("ai.provider", "gemini")
	viper.SetDefault("ai.minimum-fit-score", 0.5)

	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "a config file (default is skillmatch.yaml in current directory)")
	rootCmd.PersistentFlags().BoolP("debug", "d", false, "verbose/debug output")
	rootCmd.PersistentFlags().BoolP("json", "j", false, "json format for logging")

	viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
	viper.BindPFlag("json", rootCmd.PersistentFlags().Lookup("json"))
}

func initConfig() {
	// .env only seeds the environment; a missing file is fine.
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.Fatalf("loading .env: %v", err)
	}

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigName(app)
		viper.SetConfigType("yaml")
	}

	// Every command works on defaults, so only an explicit or broken config is fatal.
	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile != "" || !errors.As(err, &notFound) {
			log.Fatal(err)
		}
	}
}

var validate = validator.New(validator.WithRequiredStructEnabled())

func getConfig() (*Config, error) {
	var config *Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, err
	}

	if config == nil {
		return nil, errors.New("config is empty")
	}

	if err := validate.Struct(config); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return config, nil
}

// setup builds the logger and the validated config shared by every command.
func setup() (*Config, *zap.Logger) {
	logger, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}

	config, err := getConfig()
	if err != nil {
		logger.Fatal("getting a config", zap.Error(err))
	}

	return config, logger
}

func newMatcher(cfg *Config, logger *zap.Logger) *matcher.Matcher {
	return matcher.New(matcher.Options{
		MaxFeatures: cfg.Matcher.MaxFeatures,
		KeyTerms:    cfg.Matcher.KeyTerms,
		Aliases:     cfg.Matcher.Aliases,
		Logger:      logger.Named("matcher"),
	})
}
