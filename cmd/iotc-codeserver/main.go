// Command iotc-codeserver issues and redeems verification codes for the
// numeric provisioning path.
//
// Usage:
//
//	iotc-codeserver [flags]
//
// Flags:
//
//	-listen string        Listen address (default ":8088")
//	-log-level string     Log level: debug, info, warn, error (default "info")
//	-log-json             Log in JSON instead of text
//	-code-ttl duration    Default code lifetime (default 10m0s)
//	-max-ttl duration     Longest lifetime a caller may request (default 24h0m0s)
//	-code-digits int      Digits per issued code (default 6)
//	-redeem-rate float    Code exchanges per second; negative disables throttling (default 5)
//	-redeem-burst int     Code exchanges allowed back to back (default 10)
//
// Examples:
//
//	# Start the server and issue a code for alice
//	iotc-codeserver -listen :8088
//	curl -d '{"user_id":"alice","credentials":{"deviceId":"d1","scopeId":"0ne00","deviceKey":"a2V5"}}' \
//	    http://localhost:8088/api/codes
package main

import (
	"context"
	"flag"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/iotc-provision/provision-go/internal/codeserver"
)

var (
	listenAddr  = flag.String("listen", ":8088", "Listen address")
	logLevel    = flag.String("log-level", "info", "Log level: debug, info, warn, error")
	logJSON     = flag.Bool("log-json", false, "Log in JSON instead of text")
	codeTTL     = flag.Duration("code-ttl", codeserver.DefaultCodeTTL, "Default code lifetime")
	maxTTL      = flag.Duration("max-ttl", codeserver.DefaultMaxTTL, "Longest lifetime a caller may request")
	codeDigits  = flag.Int("code-digits", codeserver.DefaultDigits, "Digits per issued code")
	redeemRate  = flag.Float64("redeem-rate", codeserver.DefaultRedeemRate, "Code exchanges per second; negative disables throttling")
	redeemBurst = flag.Int("redeem-burst", codeserver.DefaultRedeemBurst, "Code exchanges allowed back to back")
)

func main() {
	flag.Parse()

	var level slog.Level
	if err := level.UnmarshalText([]byte(*logLevel)); err != nil {
		log.Fatalf("Invalid log level %q: %v", *logLevel, err)
	}
	opts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler = slog.NewTextHandler(os.Stderr, opts)
	if *logJSON {
		handler = slog.NewJSONHandler(os.Stderr, opts)
	}
	logger := slog.New(handler)

	srv, err := codeserver.New(codeserver.Config{
		ListenAddr:  *listenAddr,
		Log:         logger,
		CodeTTL:     *codeTTL,
		MaxTTL:      *maxTTL,
		Digits:      *codeDigits,
		RedeemRate:  *redeemRate,
		RedeemBurst: *redeemBurst,
	})
	if err != nil {
		log.Fatalf("Failed to create server: %v", err)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := srv.Run(ctx); err != nil {
		logger.Error("server failed", "err", err)
		os.Exit(1)
	}
}
