package main

import (
	"context"
	"flag"
	"fmt"
	"math/rand"
	"os"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	authrank "github.com/moinlabs/authrank"
	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

type subjectState struct {
	id      string
	refresh string
	access  string
	mu      sync.Mutex
}

func main() {
	var (
		subjects    = flag.Int("subjects", 50000, "number of subjects to seed")
		concurrency = flag.Int("concurrency", 256, "number of concurrent workers")
		ops         = flag.Int("ops", 200000, "operations per phase (verify + refresh + rank)")
		redisAddr   = flag.String("redis-addr", "", "redis address; if empty, REDIS_ADDR env or miniredis is used")
	)
	flag.Parse()

	if *subjects <= 0 || *concurrency <= 0 || *ops <= 0 {
		fmt.Fprintln(os.Stderr, "subjects, concurrency, and ops must be > 0")
		os.Exit(2)
	}

	ctx := context.Background()

	addr := *redisAddr
	if addr == "" {
		addr = os.Getenv("REDIS_ADDR")
	}

	var (
		cleanup func()
		client  redis.UniversalClient
	)
	if addr == "" {
		mr, err := miniredis.Run()
		if err != nil {
			fmt.Fprintf(os.Stderr, "failed to start miniredis: %v\n", err)
			os.Exit(1)
		}
		addr = mr.Addr()
		client = redis.NewUniversalClient(&redis.UniversalOptions{
			Addrs: []string{addr},
		})
		cleanup = func() {
			_ = client.Close()
			mr.Close()
		}
		fmt.Printf("using miniredis at %s\n", addr)
	} else {
		client = redis.NewUniversalClient(&redis.UniversalOptions{
			Addrs: []string{addr},
		})
		cleanup = func() { _ = client.Close() }
		fmt.Printf("using redis at %s\n", addr)
	}
	defer cleanup()

	provider := newMemoryProvider(*subjects)

	cfg := authrank.DefaultConfig()
	cfg.JWT.AccessSecret = []byte("loadtest-access-secret")
	cfg.JWT.RefreshSecret = []byte("loadtest-refresh-secret")
	cfg.Metrics.EnableLatencyHistograms = true

	engine, err := authrank.New().
		WithConfig(cfg).
		WithRedis(client).
		WithSubjectProvider(provider).
		Build()
	if err != nil {
		fmt.Fprintf(os.Stderr, "engine build failed: %v\n", err)
		os.Exit(1)
	}
	defer engine.Close()

	states := make([]subjectState, *subjects)
	fmt.Printf("seeding %d subjects...\n", *subjects)
	startSeed := time.Now()
	for i := 0; i < *subjects; i++ {
		id := fmt.Sprintf("sub-%d", i)
		pair, err := engine.IssuePair(ctx, id)
		if err != nil {
			fmt.Fprintf(os.Stderr, "issue failed: %v\n", err)
			os.Exit(1)
		}
		if err := engine.UpdateScore(ctx, id, int64(i%10000)); err != nil {
			fmt.Fprintf(os.Stderr, "score seed failed: %v\n", err)
			os.Exit(1)
		}
		states[i] = subjectState{id: id, refresh: pair.RefreshToken, access: pair.AccessToken}
	}
	fmt.Printf("seeded in %s\n", time.Since(startSeed).Round(time.Millisecond))

	verifyStats := runPhase(*ops, *concurrency, func(r *rand.Rand, _ int) error {
		state := &states[r.Intn(len(states))]
		state.mu.Lock()
		token := state.access
		state.mu.Unlock()
		_, err := engine.VerifyAccess(ctx, token)
		return err
	})

	refreshStats := runPhase(*ops, *concurrency, func(r *rand.Rand, _ int) error {
		state := &states[r.Intn(len(states))]
		state.mu.Lock()
		defer state.mu.Unlock()
		pair, err := engine.Refresh(ctx, state.refresh)
		if err != nil {
			return err
		}
		state.refresh = pair.RefreshToken
		state.access = pair.AccessToken
		return nil
	})

	rankStats := runPhase(*ops, *concurrency, func(r *rand.Rand, _ int) error {
		state := &states[r.Intn(len(states))]
		_, err := engine.Rank(ctx, state.id)
		return err
	})

	fmt.Println("---- results ----")
	printStats("verify", verifyStats)
	printStats("refresh", refreshStats)
	printStats("rank", rankStats)

	snap := engine.MetricsSnapshot()
	fmt.Printf("metrics: refresh_ok=%d refresh_fail=%d rank_index=%d rank_fallback=%d\n",
		snap.Counters[authrank.MetricRefreshSuccess],
		snap.Counters[authrank.MetricRefreshFailure],
		snap.Counters[authrank.MetricRankIndexHit],
		snap.Counters[authrank.MetricRankFallback],
	)
}

func runPhase(ops, concurrency int, op func(r *rand.Rand, i int) error) phaseStats {
	var (
		wg        sync.WaitGroup
		cursor    int64
		failures  int64
		latencies = make([]time.Duration, 0, ops)
		mu        sync.Mutex
	)

	start := time.Now()
	for w := 0; w < concurrency; w++ {
		wg.Add(1)
		go func(worker int) {
			defer wg.Done()
			r := rand.New(rand.NewSource(time.Now().UnixNano() + int64(worker)*7919))
			for {
				i := int(atomic.AddInt64(&cursor, 1)) - 1
				if i >= ops {
					return
				}
				t0 := time.Now()
				err := op(r, i)
				d := time.Since(t0)
				if err != nil {
					atomic.AddInt64(&failures, 1)
				}
				mu.Lock()
				latencies = append(latencies, d)
				mu.Unlock()
			}
		}(w)
	}
	wg.Wait()
	total := time.Since(start)
	return computeStats(total, latencies, failures)
}

type phaseStats struct {
	total    time.Duration
	ops      int
	failures int64
	p50      time.Duration
	p95      time.Duration
	p99      time.Duration
	opsPerS  float64
}

func computeStats(total time.Duration, samples []time.Duration, failures int64) phaseStats {
	if len(samples) == 0 {
		return phaseStats{total: total}
	}
	sort.Slice(samples, func(i, j int) bool { return samples[i] < samples[j] })
	return phaseStats{
		total:    total,
		ops:      len(samples),
		failures: failures,
		p50:      percentile(samples, 50),
		p95:      percentile(samples, 95),
		p99:      percentile(samples, 99),
		opsPerS:  float64(len(samples)) / total.Seconds(),
	}
}

func percentile(samples []time.Duration, p int) time.Duration {
	if len(samples) == 0 {
		return 0
	}
	if p <= 0 {
		return samples[0]
	}
	if p >= 100 {
		return samples[len(samples)-1]
	}
	idx := (len(samples) - 1) * p / 100
	return samples[idx]
}

func printStats(name string, s phaseStats) {
	fmt.Printf("%s: ops=%d failures=%d total=%s ops/sec=%.0f p50=%s p95=%s p99=%s\n",
		name,
		s.ops,
		s.failures,
		s.total.Round(time.Millisecond),
		s.opsPerS,
		s.p50.Round(time.Microsecond),
		s.p95.Round(time.Microsecond),
		s.p99.Round(time.Microsecond),
	)
}

type memoryProvider struct {
	mu       sync.RWMutex
	subjects map[string]authrank.Subject
}

func newMemoryProvider(n int) *memoryProvider {
	p := &memoryProvider{subjects: make(map[string]authrank.Subject, n)}
	for i := 0; i < n; i++ {
		id := fmt.Sprintf("sub-%d", i)
		p.subjects[id] = authrank.Subject{ID: id, Score: int64(i % 10000)}
	}
	return p
}

func (p *memoryProvider) GetSubjectByID(_ context.Context, id string) (authrank.Subject, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	s, ok := p.subjects[id]
	if !ok {
		return authrank.Subject{}, authrank.ErrSubjectNotFound
	}
	return s, nil
}

func (p *memoryProvider) CountSubjectsWithScoreGreaterThan(_ context.Context, score int64) (int64, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	var count int64
	for _, s := range p.subjects {
		if s.Score > score {
			count++
		}
	}
	return count, nil
}

func (p *memoryProvider) UpdateSubjectScore(_ context.Context, id string, score int64) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	s, ok := p.subjects[id]
	if !ok {
		return authrank.ErrSubjectNotFound
	}
	s.Score = score
	p.subjects[id] = s
	return nil
}
