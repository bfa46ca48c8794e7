package main

import (
	"context"
	"crypto/rand"
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"math/big"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/invtrail/invtrail/internal/api"
	"github.com/invtrail/invtrail/internal/auth"
	"github.com/invtrail/invtrail/internal/db"
	"github.com/invtrail/invtrail/internal/store"
	"github.com/invtrail/invtrail/internal/web"
)

// levelRouter is a slog.Handler that routes INFO/WARN to stdout and ERROR+ to stderr.
type levelRouter struct {
	stdout slog.Handler
	stderr slog.Handler
}

func (lr *levelRouter) Enabled(_ context.Context, level slog.Level) bool {
	return level >= slog.LevelInfo
}

func (lr *levelRouter) Handle(ctx context.Context, r slog.Record) error {
	if r.Level >= slog.LevelError {
		return lr.stderr.Handle(ctx, r)
	}
	return lr.stdout.Handle(ctx, r)
}

func (lr *levelRouter) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &levelRouter{
		stdout: lr.stdout.WithAttrs(attrs),
		stderr: lr.stderr.WithAttrs(attrs),
	}
}

func (lr *levelRouter) WithGroup(name string) slog.Handler {
	return &levelRouter{
		stdout: lr.stdout.WithGroup(name),
		stderr: lr.stderr.WithGroup(name),
	}
}

// setupLogger configures structured logging. INFO/WARN go to stdout, ERROR
// goes to stderr. If logPath is non-empty, all levels are also written to
// that file. Returns a cleanup function that closes the log file (if opened).
func setupLogger(logPath string) (func(), error) {
	opts := &slog.HandlerOptions{Level: slog.LevelInfo}

	cleanup := func() {}

	stdoutW := io.Writer(os.Stdout)
	stderrW := io.Writer(os.Stderr)

	if logPath != "" {
		f, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return nil, fmt.Errorf("opening log file: %w", err)
		}
		cleanup = func() { f.Close() }
		stdoutW = io.MultiWriter(os.Stdout, f)
		stderrW = io.MultiWriter(os.Stderr, f)
	}

	handler := &levelRouter{
		stdout: slog.NewTextHandler(stdoutW, opts),
		stderr: slog.NewTextHandler(stderrW, opts),
	}
	slog.SetDefault(slog.New(handler))
	return cleanup, nil
}

// envOr returns the environment value for key, or fallback if unset.
func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func main() {
	// .env is an optional overlay; real environment variables win.
	_ = godotenv.Load()

	fs := flag.NewFlagSet("invtrail", flag.ContinueOnError)

	var dbPath string
	fs.StringVar(&dbPath, "db", envOr("INVTRAIL_DB", "invtrail.sqlite3"), "")
	fs.StringVar(&dbPath, "d", envOr("INVTRAIL_DB", "invtrail.sqlite3"), "")

	var addr string
	fs.StringVar(&addr, "addr", envOr("INVTRAIL_ADDR", ":8080"), "")
	fs.StringVar(&addr, "a", envOr("INVTRAIL_ADDR", ":8080"), "")

	var adminUser string
	fs.StringVar(&adminUser, "user", envOr("INVTRAIL_ADMIN", "admin"), "")
	fs.StringVar(&adminUser, "u", envOr("INVTRAIL_ADMIN", "admin"), "")

	var logPath string
	fs.StringVar(&logPath, "log", envOr("INVTRAIL_LOG", ""), "")
	fs.StringVar(&logPath, "l", envOr("INVTRAIL_LOG", ""), "")

	fs.Usage = func() {
		fmt.Fprint(os.Stdout, `Usage: invtrail [flags]

Flags:
  -d, -db <path>          SQLite database path (default: invtrail.sqlite3)
  -a, -addr <host:port>   listen address (default: :8080)
  -u, -user <name>        admin username on first run (default: admin)
  -l, -log <path>         log file path (default: no file, stdout/stderr only)
  -h, -help               show this help and exit

Flags fall back to INVTRAIL_DB, INVTRAIL_ADDR, INVTRAIL_ADMIN and
INVTRAIL_LOG, read from the environment or an optional .env file.
`)
	}

	if err := fs.Parse(os.Args[1:]); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(0)
		}
		os.Exit(2)
	}

	cleanup, err := setupLogger(logPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer cleanup()

	if err := run(dbPath, addr, adminUser); err != nil {
		slog.Error("server exited", "error", err)
		cleanup()
		os.Exit(1)
	}
}

func run(dbPath, addr, adminUser string) error {
	database, err := db.Open(dbPath)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer database.Close()

	if err := db.Migrate(database); err != nil {
		return fmt.Errorf("migrating database: %w", err)
	}

	ctx := context.Background()

	if err := ensureAdmin(ctx, database, adminUser); err != nil {
		return err
	}

	jwtSecret, err := store.EnsureJWTSecret(ctx, database)
	if err != nil {
		return fmt.Errorf("loading jwt secret: %w", err)
	}

	provider := &auth.StoreProvider{DB: database}

	apiRouter := api.NewRouter(database, provider, jwtSecret)
	webRouter, err := web.NewRouter(database, provider, jwtSecret)
	if err != nil {
		return fmt.Errorf("setting up web router: %w", err)
	}

	// Combine: API routes take priority, web routes handle the rest.
	mux := http.NewServeMux()
	mux.Handle("/api/", apiRouter)
	mux.Handle("/", webRouter)

	server := &http.Server{
		Addr:    addr,
		Handler: api.LoggingMiddleware(mux),
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("server listening", "addr", addr, "db", dbPath)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-stop:
		slog.Info("shutting down", "signal", sig.String())
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutting down server: %w", err)
	}
	return nil
}

// ensureAdmin creates the admin account with a generated password on first
// run. The password is printed once and cannot be recovered.
func ensureAdmin(ctx context.Context, database *sql.DB, username string) error {
	count, err := store.CountUsers(ctx, database)
	if err != nil {
		return fmt.Errorf("checking for existing users: %w", err)
	}
	if count > 0 {
		return nil
	}

	password, err := generatePassword(16)
	if err != nil {
		return fmt.Errorf("generating admin password: %w", err)
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return err
	}

	if _, err := store.CreateUser(ctx, database, username, hash); err != nil {
		return fmt.Errorf("creating admin user: %w", err)
	}

	fmt.Println("Admin account created:")
	fmt.Printf("  Username: %s\n", username)
	fmt.Printf("  Password: %s\n", password)
	fmt.Println()
	fmt.Println("Save this password — it cannot be recovered.")
	return nil
}

// generatePassword creates a random password of the given length.
func generatePassword(length int) (string, error) {
	const charset = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789!@#$%&*"
	result := make([]byte, length)
	for i := range result {
		n, err := rand.Int(rand.Reader, big.NewInt(int64(len(charset))))
		if err != nil {
			return "", err
		}
		result[i] = charset[n.Int64()]
	}
	return string(result), nil
}
