package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"golang.org/x/oauth2"

	"stridelog/internal/store"
)

// Client talks to the authoritative record store over its REST API.
// Reads are ordered date-descending by the server; writes are upserts
// keyed by record id, deletes are scoped by id AND account.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a record-store client. The token comes from the
// session layer; here it is just a TokenSource the HTTP client draws on.
func NewClient(baseURL string, tokenSource oauth2.TokenSource) *Client {
	return &Client{
		baseURL:    baseURL,
		httpClient: oauth2.NewClient(context.Background(), tokenSource),
	}
}

// ListRecords fetches the full record set for an account, date descending.
func (c *Client) ListRecords(ctx context.Context, accountID string) ([]store.Record, error) {
	path := fmt.Sprintf("/accounts/%s/records", url.PathEscape(accountID))
	resp, err := c.do(ctx, http.MethodGet, path, nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var wire []Record
	if err := json.NewDecoder(resp.Body).Decode(&wire); err != nil {
		return nil, fmt.Errorf("decoding records: %w", err)
	}

	records := make([]store.Record, 0, len(wire))
	for _, r := range wire {
		records = append(records, r.ToStore())
	}
	return records, nil
}

// UpsertRecords inserts-or-replaces records by id, tagged with the
// account. Used for both single saves and the repair upload of records
// produced offline.
func (c *Client) UpsertRecords(ctx context.Context, accountID string, records []store.Record) error {
	if len(records) == 0 {
		return nil
	}

	wire := make([]Record, 0, len(records))
	for _, r := range records {
		w := FromStore(r)
		w.AccountID = accountID
		wire = append(wire, w)
	}

	body, err := json.Marshal(wire)
	if err != nil {
		return fmt.Errorf("encoding records: %w", err)
	}

	path := fmt.Sprintf("/accounts/%s/records", url.PathEscape(accountID))
	resp, err := c.do(ctx, http.MethodPut, path, body)
	if err != nil {
		return err
	}
	resp.Body.Close()
	return nil
}

// DeleteRecord removes a record, filtered by id AND account id so one
// account can never delete another's rows.
func (c *Client) DeleteRecord(ctx context.Context, accountID string, id int64) error {
	path := fmt.Sprintf("/accounts/%s/records/%d", url.PathEscape(accountID), id)
	resp, err := c.do(ctx, http.MethodDelete, path, nil)
	if err != nil {
		return err
	}
	resp.Body.Close()
	return nil
}

// Head fetches the change signal for an account's record set.
func (c *Client) Head(ctx context.Context, accountID string) (*Head, error) {
	path := fmt.Sprintf("/accounts/%s/records/head", url.PathEscape(accountID))
	resp, err := c.do(ctx, http.MethodGet, path, nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var head Head
	if err := json.NewDecoder(resp.Body).Decode(&head); err != nil {
		return nil, fmt.Errorf("decoding head: %w", err)
	}
	return &head, nil
}

func (c *Client) do(ctx context.Context, method, path string, body []byte) (*http.Response, error) {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		b, _ := io.ReadAll(resp.Body)
		resp.Body.Close()
		return nil, fmt.Errorf("API error %d: %s", resp.StatusCode, string(b))
	}

	return resp, nil
}
