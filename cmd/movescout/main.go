package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	_ "github.com/joho/godotenv/autoload"
	"github.com/labstack/echo/v4"
	echoMiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/octobees/movescout/internal/auth"
	"github.com/octobees/movescout/internal/config"
	"github.com/octobees/movescout/internal/entity"
	"github.com/octobees/movescout/internal/handler"
	"github.com/octobees/movescout/internal/logger"
	middlewarepkg "github.com/octobees/movescout/internal/middleware"
	"github.com/octobees/movescout/internal/report"
	"github.com/octobees/movescout/internal/router"
	"github.com/octobees/movescout/internal/service"
)

var version = "0.1.0"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "movescout",
		Short:         "MoveScout finds and quotes moving companies for a customer move",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.AddCommand(newDiscoverCmd(), newServeCmd(), newTokenCmd(), newVersionCmd())
	return rootCmd
}

func newDiscoverCmd() *cobra.Command {
	var (
		req    entity.CustomerRequest
		sample bool
	)
	cmd := &cobra.Command{
		Use:   "discover",
		Short: "Run one discovery session and write its report",
		RunE: func(cmd *cobra.Command, args []string) error {
			if sample {
				req = applySample(req, cmd)
			}
			cfg, log, err := loadRuntime()
			if err != nil {
				return err
			}
			defer log.Sync()

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			a, err := buildApp(ctx, cfg, log)
			if err != nil {
				return err
			}
			defer a.Close()

			result, err := a.pipeline.Run(ctx, req)
			if err != nil {
				return err
			}
			return printResult(cmd.OutOrStdout(), result)
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&req.CurrentAddress, "from", "", "current address")
	flags.StringVar(&req.DestinationAddress, "to", "", "destination address")
	flags.StringVar(&req.MoveOutDate, "move-out", "", "move-out date")
	flags.StringVar(&req.MoveInDate, "move-in", "", "move-in date")
	flags.StringVar(&req.ApartmentSize, "size", "", "apartment size, e.g. 2BR")
	flags.StringVar(&req.SpecialItems, "special-items", "none", "items needing special handling")
	flags.BoolVar(&req.PackingNeeded, "packing", false, "packing service needed")
	flags.BoolVar(&req.StorageNeeded, "storage", false, "storage needed")
	flags.BoolVar(&sample, "sample", false, "fill unset fields with the Brooklyn sample move")
	return cmd
}

// applySample fills every flag the caller did not set with the sample move.
func applySample(req entity.CustomerRequest, cmd *cobra.Command) entity.CustomerRequest {
	s := sampleRequest()
	set := func(name string) bool { return cmd.Flags().Changed(name) }
	if !set("from") {
		req.CurrentAddress = s.CurrentAddress
	}
	if !set("to") {
		req.DestinationAddress = s.DestinationAddress
	}
	if !set("move-out") {
		req.MoveOutDate = s.MoveOutDate
	}
	if !set("move-in") {
		req.MoveInDate = s.MoveInDate
	}
	if !set("size") {
		req.ApartmentSize = s.ApartmentSize
	}
	if !set("special-items") {
		req.SpecialItems = s.SpecialItems
	}
	if !set("packing") {
		req.PackingNeeded = s.PackingNeeded
	}
	if !set("storage") {
		req.StorageNeeded = s.StorageNeeded
	}
	return req
}

func sampleRequest() entity.CustomerRequest {
	return entity.CustomerRequest{
		CurrentAddress:     "523 Franklin Ave, Brooklyn, New York",
		DestinationAddress: "1875 Atlantic Ave, Brooklyn, New York",
		MoveOutDate:        "10/10/2025",
		MoveInDate:         "10/10/2025",
		ApartmentSize:      "2BR",
		SpecialItems:       "none",
		PackingNeeded:      true,
	}
}

func printResult(w io.Writer, result service.RunResult) error {
	fmt.Fprintf(w, "Session %s: found %d moving companies\n\n", result.SessionID, len(result.Companies))
	for i, c := range result.Companies {
		fmt.Fprintf(w, "%d. %s\n", i+1, c.Name)
		if c.Contact.Phone != "" {
			fmt.Fprintf(w, "   Phone: %s\n", report.DisplayPhone(c.Contact.Phone))
		}
		if c.URL != "" {
			fmt.Fprintf(w, "   Website: %s\n", c.URL)
		}
		fmt.Fprintf(w, "   Estimated Cost: %s\n", c.Quotation.EstimatedCost)
	}
	_, err := fmt.Fprintf(w, "\nReport saved to %s\n", result.ReportPath)
	return err
}

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the discovery API over HTTP",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := loadRuntime()
			if err != nil {
				return err
			}
			defer log.Sync()

			ctx, cancel := context.WithTimeout(cmd.Context(), 10*time.Second)
			a, err := buildApp(ctx, cfg, log)
			cancel()
			if err != nil {
				return err
			}
			defer a.Close()

			return serve(cfg, a.pipeline, log)
		},
	}
}

func serve(cfg *config.Config, pipeline *service.Pipeline, log *zap.Logger) error {
	jwtManager := auth.NewJWTManager(cfg.JWTSecret, cfg.TokenTTL)

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(middlewarepkg.RequestID())
	e.Use(middlewarepkg.Logging(log.Named("http")))
	e.Use(echoMiddleware.Recover())

	router.Register(e, cfg, jwtManager, router.Handlers{
		Discover: handler.NewDiscoverHandler(pipeline, log.Named("handler")),
	})

	serverErr := make(chan error, 1)
	go func() {
		log.Info("listening", zap.String("port", cfg.Port))
		serverErr <- e.Start(":" + cfg.Port)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-quit:
		log.Info("shutting down", zap.String("signal", sig.String()))
	case err := <-serverErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Warn("graceful shutdown failed", zap.Error(err))
	}
	return nil
}

func newTokenCmd() *cobra.Command {
	var (
		subject string
		ttl     time.Duration
	)
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Issue an operator token for the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}
			if ttl <= 0 {
				ttl = cfg.TokenTTL
			}
			token, err := auth.NewJWTManager(cfg.JWTSecret, ttl).GenerateToken(strings.TrimSpace(subject), auth.RoleOperator)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}
	cmd.Flags().StringVar(&subject, "subject", "operator", "token subject")
	cmd.Flags().DurationVar(&ttl, "ttl", 0, "token lifetime, defaults to JWT_TTL")
	return cmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "movescout v%s\n", version)
		},
	}
}

func loadRuntime() (*config.Config, *zap.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load config: %w", err)
	}
	log, err := logger.New(cfg.LogLevel)
	if err != nil {
		return nil, nil, err
	}
	return cfg, log, nil
}
