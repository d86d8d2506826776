package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/MakeNowJust/heredoc"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"github.com/unkn0wn-root/actionrun/internal/bindings"
	"github.com/unkn0wn-root/actionrun/internal/catalog"
	"github.com/unkn0wn-root/actionrun/internal/config"
	"github.com/unkn0wn-root/actionrun/internal/hostevent"
	"github.com/unkn0wn-root/actionrun/internal/httpclient"
	"github.com/unkn0wn-root/actionrun/internal/identity"
	"github.com/unkn0wn-root/actionrun/internal/logging"
	"github.com/unkn0wn-root/actionrun/internal/metrics"
	"github.com/unkn0wn-root/actionrun/internal/panel"
	"github.com/unkn0wn-root/actionrun/internal/telemetry"
	"github.com/unkn0wn-root/actionrun/internal/theme"
	"github.com/unkn0wn-root/actionrun/internal/ui"
	"github.com/unkn0wn-root/actionrun/internal/watcher"
)

var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

func main() {
	os.Exit(run())
}

func run() int {
	var (
		catalogPath     string
		credentialsPath string
		timeout         time.Duration
		insecure        bool
		follow          bool
		proxyURL        string
		token           string
		org             string
		metricsAddr     string
		noColor         bool
		showVersion     bool
		invokeName      string
		headersRaw      string
		paramsRaw       string
		logLevel        string
		traceOTEndpoint string
		traceOTInsecure bool
		traceOTService  string
	)

	telemetryCfg := telemetry.ConfigFromEnv(os.Getenv)
	traceOTEndpoint = telemetryCfg.Endpoint
	traceOTInsecure = telemetryCfg.Insecure
	traceOTService = telemetryCfg.ServiceName

	flag.Usage = usage
	flag.StringVar(&catalogPath, "catalog", "", "Path to the action catalog (JSON or YAML)")
	flag.StringVar(&credentialsPath, "credentials", "", "Path to the credentials file")
	flag.DurationVar(&timeout, "timeout", 0, "Invocation timeout (defaults to settings, then 30s)")
	flag.BoolVar(&insecure, "insecure", false, "Skip TLS certificate verification")
	flag.BoolVar(&follow, "follow", true, "Follow redirects")
	flag.StringVar(&proxyURL, "proxy", "", "HTTP proxy URL")
	flag.StringVar(&token, "token", "", "Bearer token sent as authorization")
	flag.StringVar(&org, "org", "", "Organisation id sent as x-org-id")
	flag.StringVar(&metricsAddr, "metrics-addr", "", "Serve Prometheus metrics on this address")
	flag.BoolVar(&noColor, "no-color", false, "Disable colours")
	flag.BoolVar(&showVersion, "version", false, "Show actionrun version")
	flag.StringVar(&invokeName, "invoke", "", "Invoke this action without the TUI and print the response")
	flag.StringVar(&headersRaw, "headers", "", "Headers JSON object used with -invoke")
	flag.StringVar(&paramsRaw, "params", "", "Params JSON object used with -invoke")
	flag.StringVar(&logLevel, "log-level", "", "Log level: debug, info, warn or error")
	flag.StringVar(
		&traceOTEndpoint,
		"trace-otel-endpoint",
		traceOTEndpoint,
		"OTLP collector endpoint for invocation spans",
	)
	flag.BoolVar(
		&traceOTInsecure,
		"trace-otel-insecure",
		traceOTInsecure,
		"Disable TLS for OTLP trace export",
	)
	flag.StringVar(
		&traceOTService,
		"trace-otel-service",
		traceOTService,
		"Override service.name resource attribute for exported spans",
	)
	flag.Parse()

	telemetryCfg.Endpoint = strings.TrimSpace(traceOTEndpoint)
	telemetryCfg.Insecure = traceOTInsecure
	telemetryCfg.ServiceName = strings.TrimSpace(traceOTService)
	telemetryCfg.Version = version

	if showVersion {
		fmt.Printf("actionrun %s\n", version)
		fmt.Printf("  commit: %s\n", commit)
		fmt.Printf("  built:  %s\n", date)
		return exitOK
	}

	headless := strings.TrimSpace(invokeName) != ""

	settings, _, err := config.LoadSettings()
	if err != nil {
		log.Printf("settings load error: %v", err)
		settings = config.Settings{}
	}
	if logLevel == "" {
		logLevel = settings.LogLevel
	}

	logger, closeLog := openLogger(headless, logging.ParseLevel(logLevel))
	defer closeLog()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if catalogPath == "" {
		catalogPath = settings.CatalogOr(config.CatalogPath())
	}
	cat, err := catalog.Load(catalogPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "catalog load error: %v\n", err)
		return exitFailed
	}

	if timeout <= 0 {
		timeout = settings.TimeoutOr(config.DefaultTimeout)
	}
	client := httpclient.NewClient(httpclient.Options{
		Timeout:            timeout,
		FollowRedirects:    follow,
		InsecureSkipVerify: insecure,
		ProxyURL:           proxyURL,
	})

	provider, err := telemetry.New(telemetryCfg)
	if err != nil {
		if telemetryCfg.Enabled() {
			logger.Warn("telemetry init failed", "error", err)
		}
	} else {
		client.SetTelemetry(provider)
		defer func() {
			sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if shutdownErr := provider.Shutdown(sctx); shutdownErr != nil {
				logger.Warn("telemetry shutdown failed", "error", shutdownErr)
			}
		}()
	}

	recorder := metrics.Noop()
	if metricsAddr != "" {
		prom := metrics.NewPrometheus()
		recorder = prom
		shutdown := serveMetrics(metricsAddr, prom.Handler(), logger)
		defer shutdown()
	}

	events := hostevent.Logging(logger)

	if credentialsPath == "" {
		credentialsPath = config.CredentialsPath()
	}
	creds := identity.Chain{
		identity.Static{Token: strings.TrimSpace(token), Org: strings.TrimSpace(org)},
		identity.Env{Getenv: os.Getenv},
	}
	if file, err := identity.NewFile(credentialsPath, events, logger); err != nil {
		logger.Warn("credentials load failed", "path", credentialsPath, "error", err)
	} else {
		creds = append(creds, file)
		if !headless {
			stopWatch := watchCredentials(ctx, file, logger)
			defer stopWatch()
		}
	}

	ctrl := panel.New(
		cat,
		client,
		panel.WithIdentity(creds),
		panel.WithHostEvents(events),
		panel.WithLogger(logger),
		panel.WithMetrics(recorder),
		panel.WithSingleFlight(!settings.Concurrent),
	)

	if headless {
		return runHeadless(ctx, ctrl, headlessRequest{
			Action:  invokeName,
			Headers: headersRaw,
			Params:  paramsRaw,
		}, os.Stdout, os.Stderr)
	}

	bindingMap, _, bindingErr := bindings.Load(config.Dir())
	if bindingErr != nil {
		logger.Warn("bindings load failed", "error", bindingErr)
		bindingMap = bindings.DefaultMap()
	}

	th := selectTheme(settings.DefaultTheme, noColor, logger)

	model := ui.New(ui.Config{
		Controller: ctrl,
		Theme:      &th,
		Bindings:   bindingMap,
		Logger:     logger,
		Context:    ctx,
		Version:    version,
	})

	program := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := program.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return exitFailed
	}
	return exitOK
}

func usage() {
	out := flag.CommandLine.Output()
	fmt.Fprint(out, heredoc.Doc(`
		Run your application backend actions.

		Usage:
		  actionrun [flags]
		  actionrun -invoke <action> [-headers '{...}'] [-params '{...}']

		Actions are read from the catalog file, by default config.json in the
		actionrun config directory (override with ACTIONRUN_CONFIG_DIR).

		Flags:
	`))
	flag.PrintDefaults()
}

// openLogger writes to stderr for headless runs. The TUI owns the terminal,
// so interactive runs log to the log file and fall back to discarding.
func openLogger(headless bool, level slog.Level) (*slog.Logger, func()) {
	if headless {
		return logging.New(os.Stderr, level), func() {}
	}
	f, err := logging.OpenFile(config.LogPath())
	if err != nil {
		log.Printf("log file unavailable: %v", err)
		return logging.NewNop(), func() {}
	}
	return logging.New(f, level), func() { _ = f.Close() }
}

func serveMetrics(addr string, h http.Handler, logger *slog.Logger) func() {
	srv := &http.Server{
		Addr:              addr,
		Handler:           h,
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("metrics server stopped", "addr", addr, "error", err)
		}
	}()
	logger.Info("serving metrics", "addr", addr)
	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = srv.Shutdown(ctx)
	}
}

func watchCredentials(ctx context.Context, file *identity.File, logger *slog.Logger) func() {
	w, err := watcher.New(watcher.Options{})
	if err != nil {
		logger.Warn("credentials watch unavailable", "error", err)
		return func() {}
	}
	if err := file.Watch(ctx, w); err != nil {
		logger.Warn("credentials watch failed", "path", file.Path(), "error", err)
		w.Stop()
		return func() {}
	}
	w.Start()
	return w.Stop
}

// selectTheme honours -no-color, NO_COLOR and terminals without colour
// support before looking up the configured theme.
func selectTheme(key string, noColor bool, logger *slog.Logger) theme.Theme {
	profile := termenv.NewOutput(os.Stdout).EnvColorProfile()
	if noColor || profile == termenv.Ascii {
		lipgloss.SetColorProfile(termenv.Ascii)
		return theme.Monochrome()
	}
	lipgloss.SetColorProfile(profile)

	themes, err := theme.LoadCatalog([]string{config.ThemeDir()})
	if err != nil {
		logger.Warn("theme load failed", "error", err)
	}
	key = strings.ToLower(strings.TrimSpace(key))
	if key != "" {
		if _, ok := themes.Get(key); !ok {
			logger.Warn("theme not found; using built-in default", "theme", key)
		}
	}
	return themes.Resolve(key)
}
