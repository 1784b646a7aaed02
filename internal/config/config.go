package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/cyber-phys/hyperplex/internal/util"

	"github.com/go-playground/validator"
)

// Supported AI adapters.
const (
	AdapterOpenAI = "openai"
	AdapterOllama = "ollama"
)

// ErrInvalid is returned when the environment does not describe a usable
// configuration.
var ErrInvalid = errors.New("invalid configuration")

type AIConfig struct {
	Adapter string `validate:"required,oneof=openai ollama"`

	ChatURL   string
	ChatKey   string
	ChatModel string
	// StructureModel overrides ChatModel for concept extraction.
	StructureModel string

	ImageURL   string
	ImageKey   string
	ImageModel string

	SpeechURL   string
	SpeechKey   string
	SpeechModel string
	SpeechVoice string  `validate:"required"`
	SpeechSpeed float64 `validate:"gte=0.25,lte=4"`

	MaxConcurrentRequests int64 `validate:"min=1"`
}

type OCRConfig struct {
	URL           string `validate:"required,url"`
	Token         string
	Version       string
	InitialDelay  time.Duration `validate:"gt=0"`
	Interval      time.Duration `validate:"gt=0"`
	MaxAttempts   int           `validate:"min=0"`
	SubmitRetries int           `validate:"min=1"`
}

type CaptureConfig struct {
	Iterations int           `validate:"min=0"`
	Interval   time.Duration `validate:"min=0"`
	Command    string
}

type S3Config struct {
	Region    string
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
}

// Enabled reports whether audio should go to S3.
func (c S3Config) Enabled() bool {
	return c.Bucket != ""
}

// Config is the full runtime configuration, read from the environment.
type Config struct {
	Debug bool

	AI      AIConfig
	OCR     OCRConfig
	Capture CaptureConfig
	S3      S3Config

	GraphPath     string `validate:"required"`
	AudioDir      string `validate:"required"`
	MaxChunkChars int    `validate:"min=1"`
}

var validate = validator.New()

// Load reads the configuration from the process environment and validates
// it. Call util.LoadEnv first to pick up a .env file.
func Load() (Config, error) {
	cfg := Config{
		Debug: util.GetEnvBool("DEBUG", false),

		AI: AIConfig{
			Adapter: strings.ToLower(util.GetEnvString("AI_ADAPTER", AdapterOpenAI)),

			ChatURL:   util.GetEnv("AI_CHAT_URL"),
			ChatKey:   util.GetEnv("AI_CHAT_KEY"),
			ChatModel: util.GetEnvString("AI_CHAT_MODEL", "gpt-4o-mini"),

			StructureModel: util.GetEnv("AI_STRUCTURE_MODEL"),

			ImageURL:   util.GetEnv("AI_IMAGE_URL"),
			ImageKey:   util.GetEnv("AI_IMAGE_KEY"),
			ImageModel: util.GetEnvString("AI_IMAGE_MODEL", "gpt-4o"),

			SpeechURL:   util.GetEnv("AI_SPEECH_URL"),
			SpeechKey:   util.GetEnv("AI_SPEECH_KEY"),
			SpeechModel: util.GetEnvString("AI_SPEECH_MODEL", "gpt-4o-mini-tts"),
			SpeechVoice: util.GetEnvString("AI_SPEECH_VOICE", "alloy"),
			SpeechSpeed: util.GetEnvFloat("AI_SPEECH_SPEED", 1.0),

			MaxConcurrentRequests: int64(util.GetEnvInt("AI_MAX_CONCURRENT_REQUESTS", 4)),
		},

		OCR: OCRConfig{
			URL:           util.GetEnvString("OCR_URL", "https://api.replicate.com/v1"),
			Token:         util.GetEnv("OCR_TOKEN"),
			Version:       util.GetEnv("OCR_VERSION"),
			InitialDelay:  millis("OCR_INITIAL_DELAY_MS", 2000),
			Interval:      millis("OCR_INTERVAL_MS", 1000),
			MaxAttempts:   util.GetEnvInt("OCR_MAX_ATTEMPTS", 600),
			SubmitRetries: util.GetEnvInt("OCR_SUBMIT_RETRIES", 1),
		},

		Capture: CaptureConfig{
			Iterations: util.GetEnvInt("CAPTURE_ITERATIONS", 1000),
			Interval:   millis("CAPTURE_INTERVAL_MS", 10000),
			Command:    util.GetEnv("SCREENSHOT_CMD"),
		},

		S3: S3Config{
			Region:    util.GetEnv("AWS_REGION"),
			Endpoint:  util.GetEnv("AWS_ENDPOINT"),
			AccessKey: util.GetEnv("AWS_ACCESS_KEY"),
			SecretKey: util.GetEnv("AWS_SECRET_KEY"),
			Bucket:    util.GetEnv("AWS_BUCKET"),
		},

		GraphPath:     util.GetEnvString("GRAPH_PATH", "hypergraph.json"),
		AudioDir:      util.GetEnvString("AUDIO_DIR", "audio"),
		MaxChunkChars: util.GetEnvInt("TTS_MAX_CHUNK_CHARS", 2500),
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks field constraints and the cross-field rules the struct
// tags cannot express.
func (c Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalid, err)
	}
	if c.S3.Enabled() && c.S3.Region == "" {
		return fmt.Errorf("%w: AWS_REGION is required when AWS_BUCKET is set", ErrInvalid)
	}
	return nil
}

func millis(key string, defaultValue int) time.Duration {
	return time.Duration(util.GetEnvInt(key, defaultValue)) * time.Millisecond
}
