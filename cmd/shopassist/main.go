package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/young1lin/shopassist/internal/completion"
	"github.com/young1lin/shopassist/internal/config"
	"github.com/young1lin/shopassist/internal/handler"
	"github.com/young1lin/shopassist/internal/shopping"
	"github.com/young1lin/shopassist/pkg/logger"
)

var (
	Version   = "dev"
	BuildDate = "unknown"
)

var (
	cfgFile string
	port    int
	showVer bool
)

var rootCmd = &cobra.Command{
	Use:   "shopassist",
	Short: "Shopping assistant backend backed by an LLM with web search",
	Long: `A small web backend that forwards shopping queries to a hosted
language model with web search enabled, and returns the suggested
product in a fixed JSON shape. A chat endpoint answers follow-up
questions about the item.`,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		if showVer {
			fmt.Printf("shopassist %s (built %s)\n", Version, BuildDate)
			return nil
		}

		cfg, err := loadConfig(cfgFile, port)
		if err != nil {
			return err
		}

		if err := logger.Init(cfg.Logging.Level, cfg.Logging.Format); err != nil {
			return err
		}
		defer logger.Sync()

		logger.Info("starting server",
			zap.String("version", Version),
			zap.String("host", cfg.Server.Host),
			zap.Int("port", cfg.Server.Port),
			zap.String("search_model", cfg.Completion.SearchModel),
			zap.String("chat_model", cfg.Completion.ChatModel),
			zap.Bool("web_search", cfg.Completion.WebSearch),
		)

		return startServer(cfg)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file path (default ./config.yaml if present)")
	rootCmd.PersistentFlags().IntVarP(&port, "port", "p", 0, "listen port (overrides config)")
	rootCmd.Flags().BoolVarP(&showVer, "version", "v", false, "show version")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// loadConfig loads the configuration and applies command line overrides.
// The result is validated again so overrides get the same checks as the file.
func loadConfig(path string, portOverride int) (*config.Config, error) {
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}

	// Override config with command line flags
	if portOverride != 0 {
		cfg.Server.Port = portOverride
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func startServer(cfg *config.Config) error {
	provider := completion.NewOpenAIProvider(&cfg.Completion)
	service := shopping.NewService(provider, &cfg.Completion)

	shopHandler, err := handler.NewShopHandler(service)
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      shopHandler,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		logger.Error("server error", zap.Error(err))
		return err
	case <-quit:
	}

	logger.Info("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("server forced to shutdown", zap.Error(err))
		return err
	}

	logger.Info("server stopped")
	return nil
}
