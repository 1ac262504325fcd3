package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/forPelevin/furycut/internal/pipeline"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func run(cmd *cobra.Command, input string) error {
	v := viper.New()
	if err := v.BindPFlags(cmd.Flags()); err != nil {
		return err
	}

	// Optional furycut.yaml next to the working directory; flags win over it.
	v.SetConfigName("furycut")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return fmt.Errorf("read config: %w", err)
		}
	}

	absIn, err := filepath.Abs(input)
	if err != nil {
		return err
	}

	logf := func(format string, args ...any) {
		fmt.Fprintf(cmd.OutOrStdout(), format+"\n", args...)
	}
	if v.GetBool("quiet") {
		logf = nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Hour)
	defer cancel()

	cfg := pipeline.Config{
		Input:    absIn,
		Version:  v.GetString("version"),
		Trainers: v.GetStringSlice("trainers"),
		OutPath:  v.GetString("out"),
		Logf:     logf,

		TransitionJump: v.GetInt("transition-jump"),
		EarlyInterval:  v.GetInt("early-interval"),
		NormalInterval: v.GetInt("normal-interval"),
		EarlyMinutes:   v.GetInt("early-minutes"),

		Workers: v.GetInt("workers"),

		FFmpegPath:    getenvDefault("FFMPEG_PATH", "ffmpeg"),
		FFprobePath:   getenvDefault("FFPROBE_PATH", "ffprobe"),
		TesseractPath: getenvDefault("TESSERACT_PATH", "tesseract"),
		TesseractLang: getenvDefault("TESSERACT_LANG", "eng"),
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	return pipeline.Run(ctx, cfg)
}

func getenvDefault(k, def string) string {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	return v
}
