// Package main is the cloudmail command line client: compose a message and
// send it or park it in the drafts folder.
package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"strings"

	"github.com/joho/godotenv"

	"github.com/shineum/cloudmail/internal/config"
	"github.com/shineum/cloudmail/internal/connection"
	"github.com/shineum/cloudmail/internal/message"
	"github.com/shineum/cloudmail/internal/protocol"
)

func main() {
	configPath := flag.String("config", "", "path to YAML configuration file (optional)")
	to := flag.String("to", "", "comma-separated recipient addresses")
	cc := flag.String("cc", "", "comma-separated cc addresses")
	subject := flag.String("subject", "", "message subject")
	body := flag.String("body", "", "message body")
	html := flag.Bool("html", false, "treat the body as HTML")
	draft := flag.Bool("draft", false, "save as draft instead of sending")
	flag.Parse()

	// A .env file next to the binary is a convenience for local use;
	// missing files are fine.
	_ = godotenv.Load()

	cfg, err := loadConfig(*configPath)
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	setupLogger(cfg.Logging.Level)

	if !cfg.AuthConfigured() {
		slog.Error("CLOUDMAIL_TENANT_ID, CLOUDMAIL_CLIENT_ID and CLOUDMAIL_CLIENT_SECRET are required")
		os.Exit(1)
	}
	if *to == "" {
		slog.Error("at least one -to recipient is required")
		os.Exit(1)
	}

	con := connection.New(connection.Config{
		TenantID:     cfg.Auth.TenantID,
		ClientID:     cfg.Auth.ClientID,
		ClientSecret: cfg.Auth.ClientSecret,
	})
	proto := protocol.New(protocol.Config{
		BaseURL: cfg.API.BaseURL,
		Mailbox: cfg.API.Mailbox,
		Casing:  cfg.API.Casing,
	})

	msg, err := message.New(message.Config{Con: con, Protocol: proto})
	if err != nil {
		slog.Error("failed to build message", "error", err)
		os.Exit(1)
	}

	msg.Subject = *subject
	msg.Body = *body
	if !*html {
		msg.BodyType = message.BodyTypeText
	}
	if err := msg.To().Add(splitAddresses(*to)); err != nil {
		slog.Error("invalid recipients", "error", err)
		os.Exit(1)
	}
	if *cc != "" {
		if err := msg.Cc().Add(splitAddresses(*cc)); err != nil {
			slog.Error("invalid cc recipients", "error", err)
			os.Exit(1)
		}
	}

	ctx := context.Background()

	if *draft {
		if err := msg.SaveDraft(ctx, nil); err != nil {
			slog.Error("draft could not be saved", "error", err)
			os.Exit(1)
		}
		slog.Info("draft saved", "message_id", msg.ObjectID(), "folder_id", msg.FolderID())
		return
	}

	if err := msg.Send(ctx, cfg.API.SaveToSentItems); err != nil {
		slog.Error("message could not be sent", "error", err)
		os.Exit(1)
	}
	slog.Info("message sent", "subject", msg.Subject, "recipients", msg.To().Len())
}

// loadConfig loads configuration from the specified path (YAML + env override)
// or from environment variables only if no path is given.
func loadConfig(path string) (*config.Config, error) {
	if path != "" {
		return config.LoadFromFile(path)
	}
	return config.Load()
}

// setupLogger configures the global slog logger with JSON output and the
// specified log level.
func setupLogger(level string) {
	var logLevel slog.Level

	switch level {
	case "debug":
		logLevel = slog.LevelDebug
	case "info":
		logLevel = slog.LevelInfo
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}

	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	})
	slog.SetDefault(slog.New(handler))
}

// splitAddresses splits a comma-separated address list, trimming blanks.
func splitAddresses(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
