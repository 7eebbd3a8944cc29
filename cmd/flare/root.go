package main

import (
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/handiism/flare/internal/audio"
	"github.com/handiism/flare/internal/config"
	"github.com/handiism/flare/internal/logger"
	"github.com/handiism/flare/internal/player"
	"github.com/handiism/flare/internal/player/beep"
	"github.com/handiism/flare/internal/playlist"
	"github.com/handiism/flare/internal/session"
	"github.com/handiism/flare/internal/terminal"
	"github.com/handiism/flare/internal/thumbnail"
	"github.com/handiism/flare/internal/tui"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var flags struct {
	config   string
	volume   int
	logFile  string
	logLevel string
	ext      string
}

var rootCmd = &cobra.Command{
	Use:          "flare [music-dir]",
	Short:        "Flare plays a directory of music in the terminal.",
	Args:         cobra.MaximumNArgs(1),
	SilenceUsage: true,
	RunE:         run,
}

func init() {
	f := rootCmd.Flags()
	f.StringVar(&flags.config, "config", "", "path to config file (default "+config.DefaultPath()+")")
	f.IntVar(&flags.volume, "volume", 50, "initial volume, 0-100")
	f.StringVar(&flags.logFile, "log-file", "", "log file path, empty string disables logging")
	f.StringVar(&flags.logLevel, "log-level", "info", "log level: debug, info, warn, error")
	f.StringVar(&flags.ext, "ext", "", "fixed track extension, e.g. .mp3")
}

// Execute executes the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func loadSettings(cmd *cobra.Command) (*config.Settings, error) {
	path := flags.config
	if path == "" {
		path = config.DefaultPath()
	}

	settings, err := config.Load(path)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	settings.ApplyEnv()

	changed := cmd.Flags().Changed
	if changed("volume") {
		settings.Volume = flags.volume
	}
	if changed("log-file") {
		settings.LogFile = flags.logFile
	}
	if changed("log-level") {
		settings.LogLevel = flags.logLevel
	}
	if changed("ext") {
		settings.TrackExtension = flags.ext
	}

	if err := settings.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return settings, nil
}

func musicDir(args []string) (string, error) {
	if len(args) > 0 {
		return tui.ValidateDir(args[0])
	}
	dir, err := tui.PromptDirectory("")
	if errors.Is(err, tui.ErrCancelled) {
		return "", errors.New("no music directory given")
	}
	return dir, err
}

func run(cmd *cobra.Command, args []string) error {
	settings, err := loadSettings(cmd)
	if err != nil {
		return err
	}

	dir, err := musicDir(args)
	if err != nil {
		return err
	}

	log, err := logger.New(logger.DefaultConfig(settings.LogFile, settings.LogLevel))
	if err != nil {
		return fmt.Errorf("create logger: %w", err)
	}
	defer func() { _ = log.Sync() }()

	list, err := playlist.Load(dir, playlist.LoadOptions{
		Extensions:     settings.Extensions,
		FixedExtension: settings.TrackExtension,
	})
	if err != nil {
		return err
	}

	term := terminal.New(os.Stdin, os.Stdout)
	if !term.IsTerminal() {
		return errors.New("flare needs an interactive terminal")
	}
	width, _, err := term.Size()
	if err != nil {
		return fmt.Errorf("terminal size: %w", err)
	}
	if err := term.EnterRawMode(); err != nil {
		return err
	}

	engine := player.NewEngine(beep.New(), player.Options{
		Volume:       settings.Volume,
		TickInterval: settings.TickInterval(),
		Artwork:      audio.NewArtworkExtractor(settings.ThumbnailMaxSize, log.Named("artwork")),
		Logger:       log.Named("player"),
	})

	thumb := thumbnail.New(thumbnail.Options{
		Command:     settings.ThumbnailCommand,
		KillTimeout: settings.ThumbnailKillTimeout(),
		Logger:      log.Named("thumbnail"),
	})

	filled, empty := settings.Glyphs()
	sess, err := session.New(session.Options{
		Playlist:  list,
		Engine:    engine,
		Thumbnail: thumb,
		Renderer:  terminal.NewRenderer(os.Stdout, width),
		Keys:      terminal.NewKeyReader(os.Stdin),
		Size:      term.Size,
		Restore:   term.Restore,
		Config: session.Config{
			VolumeStep:   settings.VolumeStep,
			SeekStep:     settings.SeekStepSeconds,
			LoopInterval: settings.LoopInterval(),
			BarSlots:     settings.BarSlots,
			FilledGlyph:  filled,
			EmptyGlyph:   empty,
		},
		Logger: log.Named("session"),
	})
	if err != nil {
		_ = term.Restore()
		return err
	}
	defer func() {
		if err := sess.Close(); err != nil {
			log.Warn("close session", zap.Error(err))
		}
	}()

	log.Info("starting", zap.String("dir", dir), zap.Int("tracks", list.Count()))

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return sess.Run(ctx)
}
