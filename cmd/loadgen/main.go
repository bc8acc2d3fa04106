// loadgen drives the gateway's /buy endpoint with concurrent shoppers and
// prints a summary plus the gateway's own metrics at the end.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"math/rand"
	"net/http"
	"net/url"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"github.com/failfastlab/orderflow/pkg/logging"
	"github.com/failfastlab/orderflow/pkg/shutdown"
)

func main() {
	log := logging.New()

	target := flag.String("target", "http://localhost:8080", "gateway base URL")
	inventory := flag.String("inventory", "http://localhost:8003", "inventory base URL for catalog preload")
	workers := flag.Int("workers", 50, "concurrent shoppers")
	duration := flag.Duration("duration", 30*time.Second, "how long to run")
	flag.Parse()

	ctx, cancel := shutdown.WithSignals(context.Background())
	defer cancel()
	ctx, timeoutCancel := context.WithTimeout(ctx, *duration)
	defer timeoutCancel()

	catalog, err := preloadCatalog(ctx, *inventory)
	if err != nil {
		log.Warn("catalog preload failed, falling back to generated ids", "err", err)
	}

	var sent, ok, rejected, failed int64
	hc := &http.Client{Timeout: 120 * time.Second}

	var wg sync.WaitGroup
	for i := 0; i < *workers; i++ {
		wg.Add(1)
		go func(seed int64) {
			defer wg.Done()
			rng := rand.New(rand.NewSource(seed))
			for ctx.Err() == nil {
				pid := pickProduct(rng, catalog)
				qty := pickQty(rng)

				atomic.AddInt64(&sent, 1)
				code, err := buy(ctx, hc, *target, pid, qty)
				switch {
				case err != nil:
					if ctx.Err() != nil {
						return
					}
					atomic.AddInt64(&failed, 1)
				case code == http.StatusOK:
					atomic.AddInt64(&ok, 1)
				case code == http.StatusServiceUnavailable:
					atomic.AddInt64(&rejected, 1)
				default:
					atomic.AddInt64(&failed, 1)
				}

				pause(ctx, time.Duration(10+rng.Intn(90))*time.Millisecond)
			}
		}(int64(i) + time.Now().UnixNano())
	}
	wg.Wait()

	log.Info("load finished",
		"sent", atomic.LoadInt64(&sent),
		"ok", atomic.LoadInt64(&ok),
		"rejected", atomic.LoadInt64(&rejected),
		"failed", atomic.LoadInt64(&failed),
	)
	if err := printGatewayMetrics(*target); err != nil {
		log.Warn("metrics fetch failed", "err", err)
	}
}

func preloadCatalog(ctx context.Context, inventoryURL string) ([]string, error) {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, inventoryURL+"/products?offset=0&limit=200", nil)
	if err != nil {
		return nil, err
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var products []struct {
		ID string `json:"id"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&products); err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(products))
	for _, p := range products {
		ids = append(ids, p.ID)
	}
	return ids, nil
}

func pickProduct(rng *rand.Rand, catalog []string) string {
	if len(catalog) == 0 {
		return fmt.Sprintf("p%04d", 1+rng.Intn(600))
	}
	return catalog[rng.Intn(len(catalog))]
}

// Mostly single-unit purchases, the occasional two.
func pickQty(rng *rand.Rand) int {
	if rng.Intn(4) == 3 {
		return 2
	}
	return 1
}

func buy(ctx context.Context, hc *http.Client, target, productID string, qty int) (int, error) {
	u := fmt.Sprintf("%s/buy?product_id=%s&qty=%d", target, url.QueryEscape(productID), qty)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u, nil)
	if err != nil {
		return 0, err
	}
	resp, err := hc.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()
	return resp.StatusCode, nil
}

func printGatewayMetrics(target string) error {
	resp, err := http.Get(target + "/metrics")
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	var out map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return err
	}
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

func pause(ctx context.Context, d time.Duration) {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
	case <-ctx.Done():
	}
}
