package media_downloader

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/hashicorp/go-multierror"
	"github.com/ilyakaznacheev/cleanenv"

	"github.com/alanbriolat/media-downloader/resolve"
	"github.com/alanbriolat/media-downloader/ytdlopts"
)

const appDirName = "media-downloader"

// Config is loaded from a YAML file and/or MEDIA_DOWNLOADER_* environment variables.
type Config struct {
	// ScratchRoot holds the per-attempt scratch directories. Defaults to <tmp>/media-downloader/download.
	ScratchRoot string `yaml:"scratch_root" env:"MEDIA_DOWNLOADER_SCRATCH_ROOT"`
	// StagingRoot holds the staging directories handed to callers. Defaults to <tmp>/media-downloader/downloaded.
	StagingRoot       string `yaml:"staging_root" env:"MEDIA_DOWNLOADER_STAGING_ROOT"`
	StagingNameLength int    `yaml:"staging_name_length" env:"MEDIA_DOWNLOADER_STAGING_NAME_LENGTH" env-default:"4"`
	YtDlpPath         string `yaml:"yt_dlp_path" env:"MEDIA_DOWNLOADER_YT_DLP_PATH" env-default:"yt-dlp"`
	// HistoryPath is a bbolt database recording completed downloads. Empty disables history.
	HistoryPath string                `yaml:"history_path" env:"MEDIA_DOWNLOADER_HISTORY_PATH"`
	Formats     ytdlopts.FormatConfig `yaml:"formats"`
}

func DefaultConfig() Config {
	return Config{
		StagingNameLength: resolve.DefaultNameLength,
		YtDlpPath:         "yt-dlp",
		Formats:           ytdlopts.DefaultFormatConfig(),
	}
}

// LoadConfig reads configPath if set, then applies the environment on top.
func LoadConfig(configPath string) (Config, error) {
	var config Config
	var err error
	if configPath != "" {
		err = cleanenv.ReadConfig(configPath, &config)
	} else {
		err = cleanenv.ReadEnv(&config)
	}
	if err != nil {
		return Config{}, fmt.Errorf("failed to load configuration: %w", err)
	}
	if err := config.Validate(); err != nil {
		return Config{}, err
	}
	return config, nil
}

// Validate reports every problem with the configuration at once.
func (c *Config) Validate() error {
	var result error
	if c.StagingNameLength < 1 || c.StagingNameLength > 32 {
		result = multierror.Append(result, fmt.Errorf("staging_name_length must be between 1 and 32, got %d", c.StagingNameLength))
	}
	if c.YtDlpPath == "" {
		result = multierror.Append(result, fmt.Errorf("yt_dlp_path must be set"))
	}
	if c.Formats.AudioFormat == "" {
		result = multierror.Append(result, fmt.Errorf("formats.audio_format must be set"))
	}
	if c.Formats.ThumbnailFormat == "" {
		result = multierror.Append(result, fmt.Errorf("formats.thumbnail_format must be set"))
	}
	if c.Formats.AudioFormat != "" && c.Formats.AudioFormat == c.Formats.ThumbnailFormat {
		result = multierror.Append(result, fmt.Errorf("formats.audio_format and formats.thumbnail_format must differ"))
	}
	if c.Formats.OutputTemplate == "" {
		result = multierror.Append(result, fmt.Errorf("formats.output_template must be set"))
	}
	return result
}

// ScratchDir is ScratchRoot, or its default.
func (c *Config) ScratchDir() string {
	if c.ScratchRoot != "" {
		return c.ScratchRoot
	}
	return filepath.Join(os.TempDir(), appDirName, "download")
}

// StagingDir is StagingRoot, or its default.
func (c *Config) StagingDir() string {
	if c.StagingRoot != "" {
		return c.StagingRoot
	}
	return filepath.Join(os.TempDir(), appDirName, "downloaded")
}

func (c *Config) resolveConfig() resolve.Config {
	return resolve.Config{
		StagingRoot:  c.StagingDir(),
		AudioExt:     c.Formats.AudioFormat,
		ThumbnailExt: c.Formats.ThumbnailFormat,
		NameLength:   c.StagingNameLength,
	}
}
