package voipms

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"

	"phonedir/internal/config"
)

const MethodGetSubAccounts = "getSubAccounts"

var DefaultCollectionKeys = []string{"sub_accounts", "subaccounts", "accounts"}

type Client struct {
	cfg            config.Config
	httpClient     *http.Client
	collectionKeys []string
}

func NewClient(cfg config.Config, collectionKeys []string) *Client {
	if len(collectionKeys) == 0 {
		collectionKeys = DefaultCollectionKeys
	}
	return &Client{
		cfg:            cfg,
		httpClient:     &http.Client{Timeout: time.Duration(cfg.TimeoutMs) * time.Millisecond},
		collectionKeys: collectionKeys,
	}
}

func (c *Client) GetSubAccounts(ctx context.Context) ([]map[string]any, error) {
	payload, err := c.Call(ctx, MethodGetSubAccounts, nil)
	if err != nil {
		return nil, err
	}
	return extractRecords(MethodGetSubAccounts, payload, c.collectionKeys)
}

// Call performs one GET against the REST endpoint. There is no retry: every
// failure is returned as a *RemoteError.
func (c *Client) Call(ctx context.Context, method string, params map[string]string) (map[string]any, error) {
	u, err := url.Parse(c.cfg.APIURL)
	if err != nil {
		return nil, err
	}

	q := u.Query()
	q.Set("api_username", c.cfg.APIUsername)
	q.Set("api_password", c.cfg.APIPassword)
	q.Set("method", method)
	for k, v := range params {
		if strings.TrimSpace(v) != "" {
			q.Set(k, v)
		}
	}
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &RemoteError{Method: method, Kind: KindTransport, Err: redact(err)}
	}
	body, err := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	if err != nil {
		return nil, &RemoteError{Method: method, Kind: KindTransport, Err: redact(err)}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &RemoteError{Method: method, Kind: KindHTTPStatus, StatusCode: resp.StatusCode, Payload: string(body)}
	}

	var payload map[string]any
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()
	if err := dec.Decode(&payload); err != nil || payload == nil {
		if err == nil {
			err = errors.New("null payload")
		}
		return nil, &RemoteError{Method: method, Kind: KindDecode, StatusCode: resp.StatusCode, Payload: string(body), Err: err}
	}

	if status, _ := payload["status"].(string); status != "success" {
		return nil, &RemoteError{Method: method, Kind: KindAPI, StatusCode: resp.StatusCode, Payload: string(body)}
	}
	return payload, nil
}

func extractRecords(method string, payload map[string]any, keys []string) ([]map[string]any, error) {
	found := false
	for _, key := range keys {
		raw, ok := payload[key]
		if !ok {
			continue
		}
		found = true
		records := toRecords(raw)
		if len(records) > 0 {
			return records, nil
		}
	}
	if found {
		return []map[string]any{}, nil
	}

	available := make([]string, 0, len(payload))
	for k := range payload {
		available = append(available, k)
	}
	sort.Strings(available)
	if len(available) == 1 && available[0] == "status" {
		return []map[string]any{}, nil
	}
	return nil, &ShapeError{Method: method, Expected: keys, Available: available}
}

func toRecords(v any) []map[string]any {
	switch t := v.(type) {
	case []any:
		out := make([]map[string]any, 0, len(t))
		for _, item := range t {
			if m, ok := item.(map[string]any); ok {
				out = append(out, m)
			}
		}
		return out
	case map[string]any:
		return []map[string]any{t}
	default:
		return nil
	}
}

// redact strips the query string, which carries the api password, from url errors.
func redact(err error) error {
	var uerr *url.Error
	if !errors.As(err, &uerr) {
		return err
	}
	if u, parseErr := url.Parse(uerr.URL); parseErr == nil {
		u.RawQuery = ""
		return &url.Error{Op: uerr.Op, URL: u.String(), Err: uerr.Err}
	}
	return &url.Error{Op: uerr.Op, URL: "<redacted>", Err: uerr.Err}
}
