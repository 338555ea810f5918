package main

import (
	"context"
	"encoding/json"
	"fmt"
	"math/rand/v2"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/joho/godotenv/autoload"

	"github.com/gdamore/tcell/v2"
	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/KevinGhlee/portfolio/internal/config"
	"github.com/KevinGhlee/portfolio/internal/effects"
	"github.com/KevinGhlee/portfolio/internal/logging"
	"github.com/KevinGhlee/portfolio/internal/preview"
	"github.com/KevinGhlee/portfolio/internal/server"
	"github.com/KevinGhlee/portfolio/internal/session"
)

var (
	verbose     bool
	effectsPath string
	watch       bool
	variantName string
	fps         int
	seed        uint64

	logger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "portfolio",
	Short: "Personal portfolio page with a deferred particle field and pointer spotlight",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		logger, err = logging.New(verbose)
		return err
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
	SilenceUsage: true,
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the portfolio page",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe(cmd.Context())
	},
}

var previewCmd = &cobra.Command{
	Use:   "preview",
	Short: "Preview a particle variant and the spotlight in the terminal",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runPreview(cmd.Context())
	},
}

var fieldCmd = &cobra.Command{
	Use:   "field",
	Short: "Print one generated particle batch as JSON",
	RunE: func(cmd *cobra.Command, args []string) error {
		catalog, err := config.LoadEffects(effectsPath)
		if err != nil {
			return err
		}
		v, err := catalog.Lookup(variantName)
		if err != nil {
			return err
		}
		var src effects.Source
		if seed != 0 {
			src = effects.NewSource(seed)
		}
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(struct {
			Variant   effects.Variant `json:"variant"`
			Particles effects.Batch   `json:"particles"`
		}{v, effects.Generate(v, src)})
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
	rootCmd.PersistentFlags().StringVar(&effectsPath, "effects", os.Getenv("PORTFOLIO_EFFECTS"), "Variants file (YAML); built-in presets when empty")

	serveCmd.Flags().BoolVar(&watch, "watch", false, "Reload the variants file when it changes")

	previewCmd.Flags().StringVar(&variantName, "variant", "", "Variant to preview (default variant when empty)")
	previewCmd.Flags().IntVar(&fps, "fps", 60, "Frames per second")

	fieldCmd.Flags().StringVar(&variantName, "variant", "", "Variant to generate (default variant when empty)")
	fieldCmd.Flags().Uint64Var(&seed, "seed", 0, "Random seed; 0 prints the deterministic fallback batch")

	rootCmd.AddCommand(serveCmd, previewCmd, fieldCmd)
}

func runServe(ctx context.Context) error {
	cfg, err := config.FromEnv()
	if err != nil {
		return err
	}
	if cfg.Release {
		gin.SetMode(gin.ReleaseMode)
	}
	catalog, err := config.LoadEffects(effectsPath)
	if err != nil {
		return err
	}

	views := session.New(catalog, session.Options{TTL: cfg.SessionTTL, MaxViews: cfg.MaxViews})
	srv, err := server.New(views, logger, server.WithResumeURL(cfg.ResumeURL))
	if err != nil {
		return err
	}
	logger.Info("Effects loaded",
		zap.Strings("variants", catalog.Names()),
		zap.String("default", catalog.Default),
		zap.Duration("session_ttl", cfg.SessionTTL),
		zap.Int("max_views", cfg.MaxViews))

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return srv.Run(ctx, cfg.Addr())
	})
	g.Go(func() error {
		return views.Run(ctx, time.Minute, func(n int) {
			logger.Debug("Expired idle views", zap.Int("count", n))
		})
	})
	if watch && effectsPath != "" {
		g.Go(func() error {
			return config.WatchEffects(ctx, effectsPath,
				func(c *effects.Catalog) {
					views.SetCatalog(c)
					logger.Info("Effects reloaded", zap.Strings("variants", c.Names()))
				},
				func(err error) {
					logger.Warn("Effects reload failed", zap.Error(err))
				})
		})
	}
	return g.Wait()
}

func runPreview(ctx context.Context) error {
	catalog, err := config.LoadEffects(effectsPath)
	if err != nil {
		return err
	}
	v, err := catalog.Lookup(variantName)
	if err != nil {
		return err
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		return err
	}
	if err := screen.Init(); err != nil {
		return err
	}
	defer screen.Fini()

	return preview.New(screen, preview.Options{
		Variant: v,
		FPS:     fps,
		NewSource: func() effects.Source {
			return effects.NewSource(rand.Uint64())
		},
	}).Run(ctx)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}
