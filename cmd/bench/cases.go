// README: Bench cases: environment checks, HTTP contract checks, grace concurrency and load.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"strings"
	"sync"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
)

const (
	StatusPass = "PASS"
	StatusFail = "FAIL"
	StatusSkip = "SKIP"
)

type Runner struct {
	cfg   Config
	httpc *http.Client
	db    *pgxpool.Pool
	redis *redis.Client
}

type Result struct {
	Name    string
	Status  string
	Latency time.Duration
	Note    string
}

type TestCase struct {
	Name string
	Run  func(ctx context.Context, r *Runner) Result
}

func NewRunner(cfg Config) *Runner {
	return &Runner{
		cfg:   cfg,
		httpc: &http.Client{Timeout: 10 * time.Second},
	}
}

func (r *Runner) RunAll(ctx context.Context) []Result {
	if r.cfg.DSN != "" {
		if db, err := pgxpool.New(ctx, r.cfg.DSN); err == nil {
			r.db = db
		}
	}
	if r.cfg.RedisAddr != "" {
		r.redis = redis.NewClient(&redis.Options{Addr: r.cfg.RedisAddr})
	}

	tests := r.cases()
	results := make([]Result, 0, len(tests))

	for _, tc := range tests {
		res := tc.Run(ctx, r)
		res.Name = tc.Name
		results = append(results, res)
		fmt.Printf("%-5s %s", res.Status, tc.Name)
		if res.Latency > 0 {
			fmt.Printf(" (%s)", res.Latency)
		}
		if res.Note != "" {
			fmt.Printf(" - %s", res.Note)
		}
		fmt.Println()
	}

	if r.db != nil {
		r.db.Close()
	}
	if r.redis != nil {
		_ = r.redis.Close()
	}

	return results
}

func arrivalIn(d time.Duration) string {
	return time.Now().Add(d).Format(time.RFC3339)
}

func (r *Runner) cases() []TestCase {
	base := r.cfg.BaseURL
	validOffer := map[string]any{
		"origin":         "Union Station",
		"dest":           "Airport",
		"desiredArrival": arrivalIn(26 * time.Hour),
		"tripMiles":      18,
	}

	return []TestCase{
		{
			Name: "Env: Postgres grace_tokens table",
			Run: func(ctx context.Context, r *Runner) Result {
				if r.db == nil {
					return Result{Status: StatusSkip, Note: "db not configured"}
				}
				ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
				defer cancel()
				var exists bool
				err := r.db.QueryRow(ctx,
					"SELECT EXISTS (SELECT 1 FROM information_schema.tables WHERE table_name=$1)",
					"grace_tokens",
				).Scan(&exists)
				if err != nil {
					return Result{Status: StatusFail, Note: err.Error()}
				}
				if !exists {
					return Result{Status: StatusFail, Note: "missing table: grace_tokens"}
				}
				return Result{Status: StatusPass}
			},
		},
		{
			Name: "Env: Redis grace keys",
			Run: func(ctx context.Context, r *Runner) Result {
				if r.redis == nil {
					return Result{Status: StatusSkip, Note: "redis not configured"}
				}
				ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
				defer cancel()
				if err := r.redis.Ping(ctx).Err(); err != nil {
					return Result{Status: StatusFail, Note: err.Error()}
				}
				keys, _, err := r.redis.Scan(ctx, 0, "ease:grace:*", 1000).Result()
				if err != nil {
					return Result{Status: StatusFail, Note: err.Error()}
				}
				return Result{Status: StatusPass, Note: fmt.Sprintf("holders=%d", len(keys))}
			},
		},

		httpCaseMethod("API: health", http.MethodGet, base+"/health", nil, http.StatusOK),

		httpCase("Offers: engine (valid)", base+"/api/offers", validOffer, http.StatusOK),
		httpCase("Offers: missing fields -> 400", base+"/api/offers", map[string]any{"origin": "A"}, http.StatusBadRequest),
		httpCase("Offers: arrival in past -> 400", base+"/api/offers", map[string]any{
			"origin": "A", "dest": "B", "desiredArrival": arrivalIn(-time.Hour),
		}, http.StatusBadRequest),
		httpCase("Offers: invalid horizon -> 400", base+"/api/offers", map[string]any{
			"origin": "A", "dest": "B", "desiredArrival": arrivalIn(time.Hour), "horizon": "DECADE",
		}, http.StatusBadRequest),
		httpCase("Offers: horizon DAY", base+"/api/offers", map[string]any{
			"origin": "A", "dest": "B", "desiredArrival": arrivalIn(3 * time.Hour), "horizon": "DAY",
		}, http.StatusOK),
		httpCase("Offers: useAI falls back when AI is down", base+"/api/offers", map[string]any{
			"origin": "A", "dest": "B", "desiredArrival": arrivalIn(2 * time.Hour), "useAI": true,
		}, http.StatusOK),
		// 200 with a key, 500 NO_API_KEY/AI_FAILED without one
		httpCase("Offers AI: answers", base+"/api/offers-ai", validOffer, http.StatusOK, http.StatusInternalServerError),
		httpCaseMethod("Offers AI: GET -> 405", http.MethodGet, base+"/api/offers-ai", nil, http.StatusMethodNotAllowed),

		httpCaseMethod("Traffic: now", http.MethodGet, base+"/api/traffic", nil, http.StatusOK),
		httpCaseMethod("Traffic: horizon WEEK", http.MethodGet, base+"/api/traffic?horizon=WEEK&miles=12", nil, http.StatusOK),
		httpCaseMethod("Directions: missing destination -> 400", http.MethodGet, base+"/api/directions?origin=A", nil, http.StatusBadRequest),

		httpCase("Reserve: valid offer id", base+"/api/reserve", map[string]any{
			"offerId": "6f1c7e58-7c1f-5b55-9a3e-2f1b9d5b0c11",
		}, http.StatusOK),
		httpCase("Reserve: missing offer id -> 400", base+"/api/reserve", map[string]any{}, http.StatusBadRequest),

		{
			Name: "Grace: concurrent consume spends at most 3 tokens",
			Run: func(ctx context.Context, r *Runner) Result {
				return concurrentConsume(ctx, r, base)
			},
		},
		{
			Name: "Perf: offers throughput",
			Run: func(ctx context.Context, r *Runner) Result {
				return perfLoad(ctx, r, base+"/api/offers", validOffer)
			},
		},
	}
}

func httpCase(name, url string, body any, okStatuses ...int) TestCase {
	return httpCaseMethod(name, http.MethodPost, url, body, okStatuses...)
}

func httpCaseMethod(name, method, url string, body any, okStatuses ...int) TestCase {
	return TestCase{
		Name: name,
		Run: func(ctx context.Context, r *Runner) Result {
			status, latency, err := r.do(ctx, r.httpc, method, url, body)
			if err != nil {
				return Result{Status: StatusFail, Note: err.Error()}
			}
			note := fmt.Sprintf("status=%d", status)
			if contains(okStatuses, status) {
				return Result{Status: StatusPass, Latency: latency, Note: note}
			}
			return Result{Status: StatusFail, Latency: latency, Note: note}
		},
	}
}

func (r *Runner) do(ctx context.Context, client *http.Client, method, url string, body any) (int, time.Duration, error) {
	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return 0, 0, err
		}
		reader = strings.NewReader(string(b))
	}
	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return 0, 0, err
	}
	req.Header.Set("Content-Type", "application/json")
	start := time.Now()
	resp, err := client.Do(req)
	if err != nil {
		return 0, 0, err
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	_ = resp.Body.Close()
	return resp.StatusCode, time.Since(start), nil
}

// concurrentConsume shares one holder cookie across many simultaneous consumes; a fresh
// holder has three tokens, so exactly three must succeed.
func concurrentConsume(ctx context.Context, r *Runner, base string) Result {
	jar, err := cookiejar.New(nil)
	if err != nil {
		return Result{Status: StatusFail, Note: err.Error()}
	}
	client := &http.Client{Timeout: r.httpc.Timeout, Jar: jar}
	if status, _, err := r.do(ctx, client, http.MethodGet, base+"/api/grace", nil); err != nil || status != http.StatusOK {
		return Result{Status: StatusFail, Note: fmt.Sprintf("issue cookie: status=%d err=%v", status, err)}
	}

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		ok       int
		conflict int
	)
	for i := 0; i < r.cfg.Concurrency; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			status, _, err := r.do(ctx, client, http.MethodPost, base+"/api/grace/consume", nil)
			if err != nil {
				return
			}
			mu.Lock()
			defer mu.Unlock()
			switch status {
			case http.StatusOK:
				ok++
			case http.StatusConflict:
				conflict++
			}
		}()
	}
	wg.Wait()

	want := min(3, r.cfg.Concurrency)
	note := fmt.Sprintf("ok=%d conflict=%d", ok, conflict)
	if ok != want || ok+conflict != r.cfg.Concurrency {
		return Result{Status: StatusFail, Note: note}
	}
	return Result{Status: StatusPass, Note: note}
}

func perfLoad(ctx context.Context, r *Runner, url string, payload any) Result {
	end := time.Now().Add(r.cfg.Duration)
	var (
		count    int64
		errCount int64
		mu       sync.Mutex
		wg       sync.WaitGroup
	)

	for i := 0; i < r.cfg.Concurrency; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for time.Now().Before(end) && ctx.Err() == nil {
				status, _, err := r.do(ctx, r.httpc, http.MethodPost, url, payload)
				mu.Lock()
				if err != nil || status >= 500 {
					errCount++
				} else {
					count++
				}
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	if count == 0 {
		return Result{Status: StatusFail, Note: "no requests completed"}
	}
	rps := float64(count) / r.cfg.Duration.Seconds()
	return Result{Status: StatusPass, Note: fmt.Sprintf("rps=%.1f errors=%d", rps, errCount)}
}

func contains(list []int, v int) bool {
	for _, i := range list {
		if i == v {
			return true
		}
	}
	return false
}
