// Command loadtest drives a running wall with a mix of player traffic:
// playlist polls, ranged video reads, likes and texts requests.
package main

import (
	"bytes"
	"fmt"
	"io"
	"math/rand"
	"net"
	"net/http"
	"os"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	json "github.com/goccy/go-json"
	"github.com/spf13/cobra"
)

type options struct {
	baseURL   string
	workers   int
	duration  time.Duration
	gateValue string
}

var httpClient = &http.Client{
	Timeout: 5 * time.Second,
	Transport: &http.Transport{
		MaxIdleConns:        200,
		MaxIdleConnsPerHost: 200,
		IdleConnTimeout:     30 * time.Second,
		DisableCompression:  true,
		DialContext: (&net.Dialer{
			Timeout:   2 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
	},
}

type result struct {
	endpoint string
	status   int
	latency  time.Duration
	err      bool
}

type stats struct {
	count     int64
	errors    int64
	latencies []time.Duration
}

type mediaEntry struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

type runner struct {
	opts   options
	videos []string
}

func main() {
	opts := options{}
	cmd := &cobra.Command{
		Use:   "loadtest",
		Short: "Load test a running media wall",
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(opts)
		},
	}
	cmd.Flags().StringVar(&opts.baseURL, "url", "http://127.0.0.1:3000", "base URL of the wall")
	cmd.Flags().IntVarP(&opts.workers, "workers", "w", 50, "concurrent clients")
	cmd.Flags().DurationVarP(&opts.duration, "duration", "t", 10*time.Second, "duration of each phase")
	cmd.Flags().StringVar(&opts.gateValue, "gate", "MediaWallPlayer", "X-Requested-With value for the texts endpoint")
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func run(opts options) error {
	fmt.Println("=== Media wall load test ===")
	fmt.Printf("Workers: %d | Phase duration: %s | Target: %s\n\n", opts.workers, opts.duration, opts.baseURL)

	fmt.Print("Waiting for server... ")
	ready := false
	for i := 0; i < 30; i++ {
		resp, err := httpClient.Get(opts.baseURL + "/healthz")
		if err == nil {
			drain(resp)
			ready = true
			break
		}
		time.Sleep(200 * time.Millisecond)
	}
	if !ready {
		return fmt.Errorf("server at %s not responding", opts.baseURL)
	}
	fmt.Println("OK")

	r := &runner{opts: opts}
	if err := r.loadPlaylist(); err != nil {
		return err
	}
	fmt.Printf("Playlist has %d videos\n", len(r.videos))

	fmt.Println("\n--- Phase 1: Playback (playlist polls and ranged reads) ---")
	r.runPhase(func(rng *rand.Rand) result {
		if rng.Float64() < 0.2 {
			return r.getPlaylist()
		}
		return r.getRange(rng)
	})

	fmt.Println("\n--- Phase 2: Mixed player traffic ---")
	r.runPhase(func(rng *rand.Rand) result {
		x := rng.Float64()
		switch {
		case x < 0.50:
			return r.getRange(rng)
		case x < 0.65:
			return r.getPlaylist()
		case x < 0.80:
			return r.getLikes()
		case x < 0.90:
			return r.postLike(rng)
		default:
			return r.postTexts()
		}
	})

	fmt.Println("\n--- Phase 3: Like storm ---")
	r.runPhase(func(rng *rand.Rand) result {
		if rng.Float64() < 0.8 {
			return r.postLike(rng)
		}
		return r.getLikes()
	})
	return nil
}

func (r *runner) loadPlaylist() error {
	resp, err := httpClient.Get(r.opts.baseURL + "/api/videos")
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	var entries []mediaEntry
	if err := json.NewDecoder(resp.Body).Decode(&entries); err != nil {
		return fmt.Errorf("decode playlist: %w", err)
	}
	for _, e := range entries {
		if e.Type == "video" {
			r.videos = append(r.videos, e.Name)
		}
	}
	return nil
}

func (r *runner) runPhase(workFn func(rng *rand.Rand) result) {
	results := make(chan result, 10000)
	var wg sync.WaitGroup
	var totalOps atomic.Int64
	stop := make(chan struct{})

	for i := 0; i < r.opts.workers; i++ {
		wg.Add(1)
		go func(seed int64) {
			defer wg.Done()
			rng := rand.New(rand.NewSource(seed))
			for {
				select {
				case <-stop:
					return
				default:
					res := workFn(rng)
					totalOps.Add(1)
					results <- res
				}
			}
		}(rand.Int63() + int64(i))
	}

	all := make(map[string]*stats)
	done := make(chan struct{})
	go func() {
		for res := range results {
			s, ok := all[res.endpoint]
			if !ok {
				s = &stats{}
				all[res.endpoint] = s
			}
			s.count++
			if res.err {
				s.errors++
			}
			s.latencies = append(s.latencies, res.latency)
		}
		close(done)
	}()

	time.Sleep(r.opts.duration)
	close(stop)
	wg.Wait()
	close(results)
	<-done

	printResults(all, r.opts.duration)
}

func printResults(all map[string]*stats, duration time.Duration) {
	var totalOps, totalErrors int64

	endpoints := make([]string, 0, len(all))
	for ep := range all {
		endpoints = append(endpoints, ep)
	}
	sort.Strings(endpoints)

	fmt.Printf("\n  %-28s %8s %6s %10s %10s %10s %10s\n",
		"Endpoint", "Reqs", "Errs", "Avg", "P50", "P95", "P99")
	fmt.Println("  " + strings.Repeat("-", 94))

	for _, ep := range endpoints {
		s := all[ep]
		totalOps += s.count
		totalErrors += s.errors

		sort.Slice(s.latencies, func(i, j int) bool {
			return s.latencies[i] < s.latencies[j]
		})

		fmt.Printf("  %-28s %8d %6d %10s %10s %10s %10s\n",
			ep, s.count, s.errors,
			fmtDur(avgDuration(s.latencies)),
			fmtDur(percentile(s.latencies, 0.50)),
			fmtDur(percentile(s.latencies, 0.95)),
			fmtDur(percentile(s.latencies, 0.99)))
	}

	if totalOps == 0 {
		fmt.Println("  no requests completed")
		return
	}
	fmt.Println("  " + strings.Repeat("-", 94))
	fmt.Printf("  Total: %d reqs | Errors: %d (%.1f%%) | RPS: %.0f\n",
		totalOps, totalErrors, float64(totalErrors)/float64(totalOps)*100, float64(totalOps)/duration.Seconds())
}

func (r *runner) getPlaylist() result {
	return timed("GET /api/videos", http.StatusOK, func() (*http.Response, error) {
		return httpClient.Get(r.opts.baseURL + "/api/videos")
	})
}

// getRange asks for a 256KiB window at a random offset, the way a player
// seeks. Offsets past the end legitimately yield 416.
func (r *runner) getRange(rng *rand.Rand) result {
	if len(r.videos) == 0 {
		return r.getPlaylist()
	}
	name := r.videos[rng.Intn(len(r.videos))]
	start := rng.Int63n(4 << 20)
	req, _ := http.NewRequest(http.MethodGet, r.opts.baseURL+"/videos/"+name, nil)
	req.Header.Set("Range", fmt.Sprintf("bytes=%d-%d", start, start+256<<10-1))
	res := timed("GET /videos/ (range)", http.StatusPartialContent, func() (*http.Response, error) {
		return httpClient.Do(req)
	})
	if res.status == http.StatusRequestedRangeNotSatisfiable {
		res.err = false
	}
	return res
}

func (r *runner) getLikes() result {
	return timed("GET /api/likes", http.StatusOK, func() (*http.Response, error) {
		return httpClient.Get(r.opts.baseURL + "/api/likes")
	})
}

var languages = []string{"en-US", "de-DE", "fr-FR", "ja-JP", "es-ES"}

func (r *runner) postLike(rng *rand.Rand) result {
	body, _ := json.Marshal(map[string]any{
		"language": languages[rng.Intn(len(languages))],
		"timezone": "UTC",
		"screen":   map[string]int{"width": 1920, "height": 1080},
	})
	return timed("POST /api/likes", http.StatusCreated, func() (*http.Response, error) {
		return httpClient.Post(r.opts.baseURL+"/api/likes", "application/json", bytes.NewReader(body))
	})
}

func (r *runner) postTexts() result {
	req, _ := http.NewRequest(http.MethodPost, r.opts.baseURL+"/api/existential-texts", nil)
	req.Header.Set("X-Requested-With", r.opts.gateValue)
	return timed("POST /api/existential-texts", http.StatusOK, func() (*http.Response, error) {
		return httpClient.Do(req)
	})
}

func timed(endpoint string, want int, do func() (*http.Response, error)) result {
	start := time.Now()
	resp, err := do()
	lat := time.Since(start)
	if err != nil {
		return result{endpoint, 0, lat, true}
	}
	drain(resp)
	return result{endpoint, resp.StatusCode, lat, resp.StatusCode != want}
}

func drain(resp *http.Response) {
	_, _ = io.Copy(io.Discard, resp.Body)
	_ = resp.Body.Close()
}

func avgDuration(d []time.Duration) time.Duration {
	if len(d) == 0 {
		return 0
	}
	var sum time.Duration
	for _, v := range d {
		sum += v
	}
	return sum / time.Duration(len(d))
}

func percentile(d []time.Duration, p float64) time.Duration {
	if len(d) == 0 {
		return 0
	}
	idx := int(float64(len(d)) * p)
	if idx >= len(d) {
		idx = len(d) - 1
	}
	return d[idx]
}

func fmtDur(d time.Duration) string {
	if d < time.Millisecond {
		return fmt.Sprintf("%dus", d.Microseconds())
	}
	return fmt.Sprintf("%.1fms", float64(d.Microseconds())/1000.0)
}
