// README: Smoke and load runner against a running ease API; checks HTTP, grace storage and throughput.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

func main() {
	cfg := loadConfig()

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Timeout)
	defer cancel()

	bench := NewRunner(cfg)
	results := bench.RunAll(ctx)

	fmt.Println("\n== Summary ==")
	pass, fail, skipped := 0, 0, 0
	for _, r := range results {
		switch r.Status {
		case StatusPass:
			pass++
		case StatusFail:
			fail++
		case StatusSkip:
			skipped++
		}
	}
	fmt.Printf("PASS=%d FAIL=%d SKIP=%d\n", pass, fail, skipped)

	if fail > 0 || (cfg.Strict && skipped > 0) {
		os.Exit(1)
	}
}

type Config struct {
	BaseURL     string
	DSN         string
	RedisAddr   string
	Strict      bool
	Timeout     time.Duration
	Concurrency int
	Duration    time.Duration
}

func loadConfig() Config {
	var cfg Config
	flag.StringVar(&cfg.BaseURL, "base-url", env("EASE_BENCH_BASE_URL", "http://localhost:8787", asString), "API base URL")
	flag.StringVar(&cfg.DSN, "dsn", os.Getenv("EASE_DB_DSN"), "Postgres DSN of the grace store (empty skips DB checks)")
	flag.StringVar(&cfg.RedisAddr, "redis", os.Getenv("EASE_REDIS_ADDR"), "Redis address of the grace store (empty skips Redis checks)")
	flag.BoolVar(&cfg.Strict, "strict", env("EASE_BENCH_STRICT", false, strconv.ParseBool), "Fail on skipped checks")
	flag.DurationVar(&cfg.Timeout, "timeout", env("EASE_BENCH_TIMEOUT", 60*time.Second, time.ParseDuration), "Total timeout")
	flag.IntVar(&cfg.Concurrency, "concurrency", env("EASE_BENCH_CONCURRENCY", 20, strconv.Atoi), "Concurrency for load checks")
	flag.DurationVar(&cfg.Duration, "duration", env("EASE_BENCH_DURATION", 10*time.Second, time.ParseDuration), "Duration for load checks")
	flag.Parse()
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	if cfg.Concurrency < 1 {
		cfg.Concurrency = 1
	}
	return cfg
}

func asString(s string) (string, error) { return s, nil }

// env parses key with parse, keeping def when the variable is unset or malformed.
func env[T any](key string, def T, parse func(string) (T, error)) T {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	out, err := parse(v)
	if err != nil {
		return def
	}
	return out
}
