package main

import (
	"context"
	"os"
	"os/signal"
	"path/filepath"
	"time"

	"reflectup/internal/adapters/enlarger"
	"reflectup/internal/adapters/file"
	"reflectup/internal/adapters/host"
	"reflectup/internal/adapters/raster"
	"reflectup/internal/adapters/render"
	"reflectup/internal/adapters/storage"
	"reflectup/internal/core/domain"
	"reflectup/internal/core/port"
	"reflectup/internal/core/service"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

func main() {
	log.Info().Msg("starting reflectup...")

	viper.AddConfigPath(".")
	viper.SetConfigType("toml")

	log.Info().Msg("reading config file...")
	err := viper.ReadInConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("could not read config file")
	}

	var logLevel zerolog.Level

	switch viper.GetString("plugin.log_level") {
	case "info":
		logLevel = zerolog.InfoLevel
	case "debug":
		logLevel = zerolog.DebugLevel
	default:
		logLevel = zerolog.InfoLevel
	}

	zerolog.SetGlobalLevel(logLevel)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	store := newStorage()

	root := viper.GetString("host.root")
	if root == "" {
		root = "design"
	}

	fs, err := host.NewFS(root, store)
	if err != nil {
		log.Panic().Err(err).Msg("failed opening host draft")
	}

	width := viper.GetInt("render.canvas_width")
	if width == 0 {
		width = render.DefaultCanvasWidth
	}
	height := viper.GetInt("render.canvas_height")
	if height == 0 {
		height = render.DefaultCanvasHeight
	}

	reflection, err := render.NewReflection(width, height)
	if err != nil {
		log.Panic().Err(err).Msg("failed initializing reflection renderer")
	}

	session := service.NewSession(raster.NewLoader(), reflection, newEnlarger(),
		fs, fs, fs, host.NewLogNotifier())

	go func() {
		if err := session.Watch(ctx); err != nil && ctx.Err() == nil {
			log.Error().Err(err).Msg("selection watcher stopped")
		}
	}()

	if len(os.Args) > 1 {
		path := os.Args[1]
		data, err := os.ReadFile(path)
		if err != nil {
			log.Fatal().Err(err).Str("path", path).Msg("could not read upload")
		}
		if err := session.HandleUpload(filepath.Base(path), data); err != nil {
			log.Fatal().Err(err).Msg("upload rejected")
		}
	} else {
		ref, err := fs.Current(ctx)
		if err != nil {
			log.Fatal().Err(err).Msg("could not read current selection")
		}
		if ref == "" {
			log.Fatal().Msg("no image selected in the draft and no upload given")
		}
		if err := session.HandleSelection(ctx, domain.SelectionEvent{Ref: ref}); err != nil {
			log.Fatal().Err(err).Msg("could not adopt selection")
		}
	}

	if viper.IsSet("reflection") {
		params := domain.ReflectionParameters{
			Direction:  domain.Direction(viper.GetString("reflection.direction")),
			OffsetStop: viper.GetFloat64("reflection.offset_stop"),
			Opacity:    viper.GetFloat64("reflection.opacity"),
		}
		if err := session.SetParameters(params); err != nil {
			log.Fatal().Err(err).Msg("invalid reflection parameters in config")
		}
	}

	if snap := session.Snapshot(); snap.Preview != nil {
		previewPath := viper.GetString("output.preview_path")
		if previewPath == "" {
			previewPath = "preview.png"
		}
		if err := file.WriteAtomic(previewPath, snap.Preview.Data); err != nil {
			log.Fatal().Err(err).Msg("could not write preview")
		}
		log.Info().Str("path", previewPath).Msg("preview written")
	}

	factor := viper.GetInt("enlarge.factor")
	if factor == 0 {
		factor = 2
	}

	if err := session.Enlarge(ctx, factor); err != nil {
		log.Fatal().Err(err).Msg("enlargement failed")
	}

	outcome, err := session.Accept(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("could not apply result to the draft")
	}

	log.Info().Str("outcome", string(outcome)).Msg("done")
}

func newStorage() storage.Storage {
	if viper.GetString("host.storage") == "s3" {
		store, err := storage.NewS3(storage.S3Config{
			Endpoint:        viper.GetString("s3.endpoint"),
			Region:          viper.GetString("s3.region"),
			AccessKeyID:     viper.GetString("s3.access_key_id"),
			SecretAccessKey: viper.GetString("s3.secret_access_key"),
			Bucket:          viper.GetString("s3.bucket"),
			PublicURL:       viper.GetString("s3.public_url"),
		})
		if err != nil {
			log.Panic().Err(err).Msg("failed initializing s3 storage")
		}
		return store
	}

	root := viper.GetString("host.root")
	if root == "" {
		root = "design"
	}

	store, err := storage.NewLocal(filepath.Join(root, "objects"), viper.GetString("host.base_url"))
	if err != nil {
		log.Panic().Err(err).Msg("failed initializing local storage")
	}
	return store
}

func newEnlarger() port.Enlarger {
	if viper.GetString("enlarge.mode") == "local" {
		return enlarger.NewLocal()
	}

	endpoint := viper.GetString("enlarge.endpoint")
	if endpoint == "" {
		log.Panic().Msg("no enlargement endpoint in config")
	}

	timeoutStr := viper.GetString("enlarge.timeout")
	if timeoutStr == "" {
		timeoutStr = "90s"
	}
	timeout, err := time.ParseDuration(timeoutStr)
	if err != nil {
		log.Panic().Err(err).Msg("invalid timeout for enlargement in config")
	}

	return enlarger.NewHTTP(endpoint, viper.GetString("enlarge.api_key"), timeout)
}
