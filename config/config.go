package config

import (
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

type Config struct {
	Server   Server
	Database Database
	AI       AI
	Gemini   Gemini
	OpenAI   OpenAI
	Storage  Storage
}

// AI holds settings shared by every model provider.
type AI struct {
	Timeout time.Duration
}

type Server struct {
	Port string
}

type Database struct {
	Host     string
	Port     string
	User     string
	Password string
	Name     string
}

type Gemini struct {
	ApiKey string
	Model  string
}

type OpenAI struct {
	ApiKey     string
	BaseURL    string
	EmbedModel string
	TTSModel   string
	TTSVoice   string
}

type Storage struct {
	AudioBucket string
}

func NewConfig() (*Config, error) {
	viper.SetConfigName(".env")
	viper.SetConfigType("env")
	viper.AddConfigPath(".")

	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		log.Warn().Err(err).Msg("Error reading config file")
	}

	viper.SetDefault("GEMINI_MODEL", "gemini-1.5-flash")
	viper.SetDefault("OPENAI_BASE_URL", "https://api.openai.com/v1")
	viper.SetDefault("OPENAI_EMBED_MODEL", "text-embedding-3-small")
	viper.SetDefault("OPENAI_TTS_MODEL", "tts-1")
	viper.SetDefault("OPENAI_TTS_VOICE", "alloy")
	viper.SetDefault("AI_TIMEOUT_SECONDS", 60)

	var config Config

	config.Server.Port = viper.GetString("SERVER_PORT")
	config.Database.Host = viper.GetString("DATABASE_HOST")
	config.Database.Port = viper.GetString("DATABASE_PORT")
	config.Database.User = viper.GetString("DATABASE_USER")
	config.Database.Password = viper.GetString("DATABASE_PASSWORD")
	config.Database.Name = viper.GetString("DATABASE_NAME")

	config.AI.Timeout = time.Duration(viper.GetInt("AI_TIMEOUT_SECONDS")) * time.Second

	config.Gemini.ApiKey = viper.GetString("GEMINI_API_KEY")
	config.Gemini.Model = viper.GetString("GEMINI_MODEL")

	config.OpenAI.ApiKey = viper.GetString("OPENAI_API_KEY")
	config.OpenAI.BaseURL = viper.GetString("OPENAI_BASE_URL")
	config.OpenAI.EmbedModel = viper.GetString("OPENAI_EMBED_MODEL")
	config.OpenAI.TTSModel = viper.GetString("OPENAI_TTS_MODEL")
	config.OpenAI.TTSVoice = viper.GetString("OPENAI_TTS_VOICE")

	config.Storage.AudioBucket = viper.GetString("AUDIO_GCS_BUCKET")

	log.Info().Str("port", config.Server.Port).Str("database", config.Database.Name).Msg("Config loaded")
	return &config, nil
}
