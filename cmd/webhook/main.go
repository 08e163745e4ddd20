// Command webhook registers the bot's public /webhook URL with Telegram.
// With -check it only prints environment diagnostics.
package main

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"io/fs"
	"os"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/joho/godotenv"

	"telegram-data-bot/internal/config"
	tele "telegram-data-bot/internal/infra/adapters/telegram"
	"telegram-data-bot/internal/infra/logging"
)

type webhookAPI interface {
	WebhookInfo() (tgbotapi.WebhookInfo, error)
	SetWebhook(url string) error
}

func main() {
	cfgPath := flag.String("config", "config.yaml", "path to YAML config file (optional)")
	check := flag.Bool("check", false, "print environment diagnostics and exit")
	flag.Parse()

	if *check {
		_ = godotenv.Load()
		os.Exit(runCheck(os.Stdout, os.LookupEnv, os.Stat))
	}

	cfg, err := config.LoadConfig(*cfgPath, false)
	if err != nil {
		fmt.Fprintf(os.Stderr, "❌ %v\n", err)
		os.Exit(1)
	}
	if cfg.Bot.PublicURL == "" {
		fmt.Fprintln(os.Stderr, "❌ PUBLIC_URL is not set")
		os.Exit(1)
	}

	bot, err := tele.NewRealTelegramBotAdapter(&cfg.Bot, logging.Nop())
	if err != nil {
		fmt.Fprintf(os.Stderr, "❌ %v\n", err)
		os.Exit(1)
	}
	if err := register(os.Stdout, bot, cfg.Bot.WebhookURL()); err != nil {
		fmt.Fprintf(os.Stderr, "❌ %v\n", err)
		os.Exit(1)
	}
}

// register sets the webhook unless it already points at url.
func register(w io.Writer, api webhookAPI, url string) error {
	fmt.Fprintln(w, "✨ Checking current webhook...")
	info, err := api.WebhookInfo()
	if err != nil {
		fmt.Fprintf(w, "could not read webhook info: %v\n", err)
	} else {
		b, _ := json.MarshalIndent(info, "", "    ")
		fmt.Fprintln(w, string(b))
		if info.URL == url {
			fmt.Fprintln(w, "✅ Webhook is already set and up to date.")
			if info.PendingUpdateCount > 0 {
				fmt.Fprintf(w, "❗ %d pending updates; make sure the server is running to process them.\n", info.PendingUpdateCount)
			}
			return nil
		}
	}

	fmt.Fprintf(w, "🚀 Setting webhook to %s\n", url)
	if err := api.SetWebhook(url); err != nil {
		return err
	}
	fmt.Fprintln(w, "✅ Webhook set.")
	return nil
}

// runCheck prints what the service would see at startup and returns the exit code.
func runCheck(w io.Writer, lookup func(string) (string, bool), stat func(string) (fs.FileInfo, error)) int {
	code := 0
	fmt.Fprintln(w, "--- Environment diagnostics ---")
	if token, ok := lookup("TELEGRAM_BOT_TOKEN"); ok && token != "" {
		fmt.Fprintf(w, "✅ TELEGRAM_BOT_TOKEN loaded. Length: %d\n", len(token))
	} else {
		fmt.Fprintln(w, "❌ TELEGRAM_BOT_TOKEN is not set")
		code = 1
	}
	if u, ok := lookup("PUBLIC_URL"); ok && u != "" {
		fmt.Fprintf(w, "✅ PUBLIC_URL: %s\n", u)
	} else {
		fmt.Fprintln(w, "⚠️  PUBLIC_URL is not set")
	}
	if _, err := stat(".env"); err == nil {
		fmt.Fprintln(w, "✅ .env found in the working directory")
	} else if errors.Is(err, fs.ErrNotExist) {
		fmt.Fprintln(w, "❌ .env NOT found in the working directory")
	} else {
		fmt.Fprintf(w, "❌ cannot read .env: %v\n", err)
	}
	fmt.Fprintln(w, "-------------------------------")
	return code
}
