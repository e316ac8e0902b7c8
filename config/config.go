package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

type Service struct {
	URL string `mapstructure:"url" yaml:"url"`
}

type Services struct {
	Emotion       Service `mapstructure:"emotion" yaml:"emotion"`
	Transcription Service `mapstructure:"transcription" yaml:"transcription"`
	Voice         Service `mapstructure:"voice" yaml:"voice"`
	Evaluation    Service `mapstructure:"evaluation" yaml:"evaluation"`
}

// Capture holds every timing knob of both loops. Tests shrink these to
// millisecond scale, so no code path may hard-wire a wall-clock value.
type Capture struct {
	VideoInterval  time.Duration   `mapstructure:"video_interval" yaml:"video_interval"`
	WarmupDelay    time.Duration   `mapstructure:"warmup_delay" yaml:"warmup_delay"`
	ChunkDuration  time.Duration   `mapstructure:"chunk_duration" yaml:"chunk_duration"`
	ChunkSpacing   time.Duration   `mapstructure:"chunk_spacing" yaml:"chunk_spacing"`
	StaggerOffsets []time.Duration `mapstructure:"stagger_offsets" yaml:"stagger_offsets"`
	MinChunkBytes  int             `mapstructure:"min_chunk_bytes" yaml:"min_chunk_bytes"`
}

type Smoothing struct {
	Window int `mapstructure:"window" yaml:"window"`
}

type Dedup struct {
	CompareDepth        int     `mapstructure:"compare_depth" yaml:"compare_depth"`
	WindowSize          int     `mapstructure:"window_size" yaml:"window_size"`
	SimilarityThreshold float64 `mapstructure:"similarity_threshold" yaml:"similarity_threshold"`
	OverlapThreshold    float64 `mapstructure:"overlap_threshold" yaml:"overlap_threshold"`
	SubsetRatio         float64 `mapstructure:"subset_ratio" yaml:"subset_ratio"`
	SupersetRatio       float64 `mapstructure:"superset_ratio" yaml:"superset_ratio"`
}

// Metrics carries the coefficient set for the scalar performance metrics.
// The two session screens of the product disagreed on the exact weights;
// this is the canonical set, and the alternate screen is reproducible by
// overriding these fields.
type Metrics struct {
	NeutralPositive   float64 `mapstructure:"neutral_positive" yaml:"neutral_positive"`
	ConfidenceGain    float64 `mapstructure:"confidence_gain" yaml:"confidence_gain"`
	NegativePenalty   float64 `mapstructure:"negative_penalty" yaml:"negative_penalty"`
	EngagementNeutral float64 `mapstructure:"engagement_neutral" yaml:"engagement_neutral"`
	EngagementGain    float64 `mapstructure:"engagement_gain" yaml:"engagement_gain"`
	ComposurePenalty  float64 `mapstructure:"composure_penalty" yaml:"composure_penalty"`
	HistorySize       int     `mapstructure:"history_size" yaml:"history_size"`
}

type Root struct {
	LogLevel  string    `mapstructure:"log_level" yaml:"log_level"`
	Services  Services  `mapstructure:"services" yaml:"services"`
	Capture   Capture   `mapstructure:"capture" yaml:"capture"`
	Smoothing Smoothing `mapstructure:"smoothing" yaml:"smoothing"`
	Dedup     Dedup     `mapstructure:"dedup" yaml:"dedup"`
	Metrics   Metrics   `mapstructure:"metrics" yaml:"metrics"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("log_level", "info")

	v.SetDefault("services.emotion.url", "http://localhost:5000")
	v.SetDefault("services.transcription.url", "http://localhost:5000")
	v.SetDefault("services.voice.url", "http://localhost:5000")
	v.SetDefault("services.evaluation.url", "http://localhost:8000")

	v.SetDefault("capture.video_interval", 500*time.Millisecond)
	v.SetDefault("capture.warmup_delay", 2*time.Second)
	v.SetDefault("capture.chunk_duration", 8*time.Second)
	v.SetDefault("capture.chunk_spacing", 6*time.Second)
	v.SetDefault("capture.stagger_offsets", []time.Duration{
		500 * time.Millisecond,
		6500 * time.Millisecond,
		12500 * time.Millisecond,
	})
	v.SetDefault("capture.min_chunk_bytes", 5000)

	v.SetDefault("smoothing.window", 5)

	v.SetDefault("dedup.compare_depth", 3)
	v.SetDefault("dedup.window_size", 5)
	v.SetDefault("dedup.similarity_threshold", 0.75)
	v.SetDefault("dedup.overlap_threshold", 0.8)
	v.SetDefault("dedup.subset_ratio", 0.9)
	v.SetDefault("dedup.superset_ratio", 1.2)

	v.SetDefault("metrics.neutral_positive", 0.7)
	v.SetDefault("metrics.confidence_gain", 1.2)
	v.SetDefault("metrics.negative_penalty", 0.3)
	v.SetDefault("metrics.engagement_neutral", 0.9)
	v.SetDefault("metrics.engagement_gain", 1.1)
	v.SetDefault("metrics.composure_penalty", 0.4)
	v.SetDefault("metrics.history_size", 30)
}

// Load reads config.yaml from the working directory or ./config, falling
// back to defaults for anything unset. A missing file is not an error.
func Load() (*Root, error) {
	v := viper.New()
	setDefaults(v)
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("config")
	v.SetEnvPrefix("capture")
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Root
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	return &cfg, nil
}

// LoadFile reads an explicit yaml config, layered over the defaults.
func LoadFile(path string) (*Root, error) {
	v := viper.New()
	setDefaults(v)
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	var cfg Root
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return &cfg, nil
}

// Default returns the built-in configuration without touching the
// filesystem. Tests start from here.
func Default() *Root {
	v := viper.New()
	setDefaults(v)
	var cfg Root
	if err := v.Unmarshal(&cfg); err != nil {
		panic(err)
	}
	return &cfg
}
