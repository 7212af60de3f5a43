package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/diillson/maternity-reports-go/internal/domain/entity"
	"github.com/diillson/maternity-reports-go/internal/domain/repository"
)

// HTTPDeliverer chama POST /api/reports/generate de outra instância.
type HTTPDeliverer struct {
	client *http.Client
	url    string
	secret string
}

var _ repository.Deliverer = (*HTTPDeliverer)(nil)

// NewHTTPDeliverer cria o cliente. secret, se presente, vai como Bearer.
func NewHTTPDeliverer(client *http.Client, url, secret string) *HTTPDeliverer {
	if client == nil {
		client = &http.Client{Timeout: 2 * time.Minute}
	}
	return &HTTPDeliverer{client: client, url: url, secret: secret}
}

func (d *HTTPDeliverer) Deliver(ctx context.Context, req entity.DeliverRequest) entity.DeliverResult {
	body, err := json.Marshal(req)
	if err != nil {
		return failed(err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, d.url, bytes.NewReader(body))
	if err != nil {
		return failed(err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if d.secret != "" {
		httpReq.Header.Set("Authorization", "Bearer "+d.secret)
	}

	resp, err := d.client.Do(httpReq)
	if err != nil {
		return failed(fmt.Errorf("calling %s: %w", d.url, err))
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return failed(fmt.Errorf("reading response of %s: %w", d.url, err))
	}

	var result entity.DeliverResult
	if err := json.Unmarshal(raw, &result); err != nil {
		return failed(fmt.Errorf("unexpected response from %s (status %d): %s", d.url, resp.StatusCode, bytes.TrimSpace(raw)))
	}
	if resp.StatusCode >= 300 && result.Success {
		return failed(fmt.Errorf("unexpected status %d from %s", resp.StatusCode, d.url))
	}
	if !result.Success && result.Error == "" {
		result.Error = fmt.Sprintf("remote delivery failed with status %d", resp.StatusCode)
	}
	return result
}
