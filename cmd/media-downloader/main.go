package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"os/signal"

	"github.com/schollz/progressbar/v3"
	"github.com/urfave/cli/v2"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/alanbriolat/media-downloader"
	"github.com/alanbriolat/media-downloader/async"
	"github.com/alanbriolat/media-downloader/generic"
	_ "github.com/alanbriolat/media-downloader/hosts"
	"github.com/alanbriolat/media-downloader/internal/boltdb"
	"github.com/alanbriolat/media-downloader/media"
	"github.com/alanbriolat/media-downloader/util"
)

func main() {
	config := zap.NewDevelopmentConfig()
	config.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	logger, err := config.Build()
	if err != nil {
		log.Fatalf("can't initialize zap logger: %v", err)
	}
	defer logger.Sync()
	zap.RedirectStdLog(logger)
	zap.ReplaceGlobals(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	ctx = media_downloader.ContextWithLogger(ctx, logger)

	configFlag := &cli.StringFlag{
		Name:    "config",
		Usage:   "load configuration from `FILE`",
		EnvVars: []string{"MEDIA_DOWNLOADER_CONFIG"},
	}
	historyFlag := &cli.StringFlag{
		Name:  "history",
		Usage: "record downloads in the history database at `FILE`",
	}

	app := &cli.App{
		Name:  "media-downloader",
		Usage: "download audio and/or video with yt-dlp",
		Flags: []cli.Flag{configFlag, historyFlag},
		Commands: []*cli.Command{
			{
				Name:      "download",
				Usage:     "download each URL, printing the result as JSON",
				ArgsUsage: "URL...",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "type",
						Value: string(media.TypeVideo),
						Usage: "one of audio, video, audio_video",
					},
					&cli.StringFlag{
						Name:  "filename",
						Usage: "rename the video file to `NAME`",
					},
					&cli.StringFlag{
						Name:  "host",
						Usage: "only try the host called `NAME`",
					},
				},
				Action: func(c *cli.Context) error {
					mediaType, err := media.ParseType(c.String("type"))
					if err != nil {
						return err
					}
					if c.NArg() == 0 {
						return cli.Exit("at least one URL is required", 2)
					}
					appConfig, err := loadConfig(c)
					if err != nil {
						return err
					}
					return withDownloader(c, appConfig, func(d *media_downloader.Downloader) error {
						for _, url := range c.Args().Slice() {
							req := media.Request{URL: url, MediaType: mediaType, CustomFilename: c.String("filename")}
							if err := download(ctx, d, req); err != nil {
								return err
							}
						}
						return nil
					})
				},
			},
			{
				Name:  "history",
				Usage: "list recorded downloads",
				Action: func(c *cli.Context) error {
					appConfig, err := loadConfig(c)
					if err != nil {
						return err
					}
					if appConfig.HistoryPath == "" {
						return cli.Exit("no history database configured", 2)
					}
					h, err := boltdb.New(appConfig.HistoryPath)
					if err != nil {
						return err
					}
					defer h.Close()
					results, err := h.ListResults()
					if err != nil {
						return err
					}
					for i := range results {
						printResult(&results[i])
					}
					return nil
				},
			},
			{
				Name:  "hosts",
				Usage: "list known hosts in match order",
				Action: func(c *cli.Context) error {
					for _, name := range media_downloader.DefaultHostRegistry.List() {
						fmt.Println(name)
					}
					return nil
				},
			},
		},
		HideHelpCommand: true,
	}

	result := async.Run(func() error { return app.Run(os.Args) })

	select {
	case err = <-result:
		if err != nil {
			logger.Fatal(err.Error())
		}
	case <-ctx.Done():
		logger.Error(ctx.Err().Error())
		stop()
	}
}

func loadConfig(c *cli.Context) (media_downloader.Config, error) {
	config, err := media_downloader.LoadConfig(c.String("config"))
	if err != nil {
		return config, err
	}
	if history := c.String("history"); history != "" {
		config.HistoryPath = history
	}
	return config, nil
}

func withDownloader(c *cli.Context, config media_downloader.Config, f func(d *media_downloader.Downloader) error) error {
	bar := progressbar.DefaultBytes(-1, "downloading")
	defer bar.Close()
	opts := []media_downloader.Option{
		media_downloader.WithLogger(zap.L()),
		media_downloader.WithProgress(func(downloaded int64, expected int64) {
			if expected > 0 && bar.GetMax64() != expected {
				bar.ChangeMax64(expected)
			}
			generic.Unwrap_(bar.Set64(downloaded))
		}),
	}
	if config.HistoryPath != "" {
		h, err := boltdb.New(config.HistoryPath)
		if err != nil {
			return err
		}
		defer h.Close()
		opts = append(opts, media_downloader.WithHistory(h))
	}
	if name := c.String("host"); name != "" {
		registry := &media_downloader.HostRegistry{}
		registry.MustAdd(media_downloader.Host{
			Name: name,
			Match: func(s string) (media_downloader.HostConfig, error) {
				match, err := media_downloader.DefaultHostRegistry.MatchWith(name, s)
				if err != nil {
					return nil, err
				}
				return match.Config, nil
			},
		})
		opts = append(opts, media_downloader.WithHostRegistry(registry))
	}
	return f(media_downloader.NewDownloader(config, opts...))
}

func download(ctx context.Context, d *media_downloader.Downloader, req media.Request) error {
	logger := media_downloader.LoggerFrom(ctx, zap.L()).Sugar()
	logger.Infof("Downloading %s as %s", req.URL, req.MediaType)

	select {
	case r := <-async.RunResult(func() (*media.Result, error) { return d.Download(ctx, req) }):
		result, err := r.Parts()
		if err != nil {
			return fmt.Errorf("download failed: %w", err)
		}
		logger.Infof("Download complete! Files in %q: %s", result.RootPath, util.ListFilesHuman(result.RootPath))
		printResult(result)
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func printResult(result *media.Result) {
	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		zap.S().Errorf("Failed to encode result: %v", err)
		return
	}
	fmt.Println(string(data))
}
