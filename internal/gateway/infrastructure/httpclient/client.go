// Package httpclient implements the gateway's outbound clients for the
// catalog, the reservation store and the payment gateway. Deadlines come
// from the caller's context; the underlying http.Client carries none of its
// own so unbounded mode really is unbounded.
package httpclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/failfastlab/orderflow/pkg/apperr"
	"github.com/failfastlab/orderflow/pkg/tracing"
)

func newHTTPClient() *http.Client {
	return &http.Client{}
}

func doJSON(ctx context.Context, hc *http.Client, method, url string, body, out any) error {
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			return err
		}
	}
	req, err := http.NewRequestWithContext(ctx, method, url, &buf)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	tracing.InjectHTTPHeaders(ctx, req)

	resp, err := hc.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("%s %s: %w", method, url, apperr.FromStatus(resp.StatusCode))
	}
	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
