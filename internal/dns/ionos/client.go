package ionos

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/go-logr/logr"
)

const zonesPath = "/dns/v1/zones"

// client talks to the IONOS DNS REST API. It holds no mutable state; headers
// are built per request.
type client struct {
	endpoint string
	apiKey   string
	http     *http.Client
	log      logr.Logger
}

func newClient(endpoint, prefix, secret string, httpClient *http.Client, log logr.Logger) *client {
	return &client{
		endpoint: strings.TrimRight(endpoint, "/"),
		apiKey:   prefix + "." + secret,
		http:     httpClient,
		log:      log,
	}
}

func zonePath(zoneID string) string {
	return zonesPath + "/" + url.PathEscape(zoneID)
}

func recordsPath(zoneID string) string {
	return zonePath(zoneID) + "/records"
}

func recordPath(zoneID, recordID string) string {
	return recordsPath(zoneID) + "/" + url.PathEscape(recordID)
}

// newRequest builds a request with a fresh header set.
func (c *client) newRequest(ctx context.Context, method, path string, body interface{}) (*http.Request, error) {
	var bodyReader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("ionos: marshal request body: %w", err)
		}
		bodyReader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.endpoint+path, bodyReader)
	if err != nil {
		return nil, fmt.Errorf("ionos: build request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-API-Key", c.apiKey)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return req, nil
}

// do executes a single request and returns the response body of a 200
// answer. There is no retry.
func (c *client) do(ctx context.Context, method, path string, body interface{}) ([]byte, error) {
	req, err := c.newRequest(ctx, method, path, body)
	if err != nil {
		return nil, err
	}

	c.log.V(1).Info("API request", "method", method, "path", path)
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &TransportError{Method: method, Path: path, Err: err}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &TransportError{Method: method, Path: path, Err: err}
	}

	if resp.StatusCode != http.StatusOK {
		return nil, &APIError{
			StatusCode: resp.StatusCode,
			Status:     resp.Status,
			Message:    errorMessage(data),
		}
	}
	return data, nil
}

// listZones returns all zones of the account in API order.
func (c *client) listZones(ctx context.Context) ([]zone, error) {
	data, err := c.do(ctx, http.MethodGet, zonesPath, nil)
	if err != nil {
		return nil, err
	}
	return decodeJSON[[]zone](data)
}

// getZone returns a zone including its records.
func (c *client) getZone(ctx context.Context, zoneID string) (*zoneDetail, error) {
	data, err := c.do(ctx, http.MethodGet, zonePath(zoneID), nil)
	if err != nil {
		return nil, err
	}
	zd, err := decodeJSON[zoneDetail](data)
	if err != nil {
		return nil, err
	}
	return &zd, nil
}

// patchZone replaces, per name and type, the records of a zone with the given set.
func (c *client) patchZone(ctx context.Context, zoneID string, records []recordRequest) error {
	_, err := c.do(ctx, http.MethodPatch, zonePath(zoneID), records)
	return err
}

// createRecords adds records to a zone without touching existing ones.
func (c *client) createRecords(ctx context.Context, zoneID string, records []recordRequest) error {
	_, err := c.do(ctx, http.MethodPost, recordsPath(zoneID), records)
	return err
}

// updateRecord replaces the content of a single record.
func (c *client) updateRecord(ctx context.Context, zoneID, recordID string, update recordUpdate) error {
	_, err := c.do(ctx, http.MethodPut, recordPath(zoneID, recordID), update)
	return err
}

// deleteRecord removes a single record.
func (c *client) deleteRecord(ctx context.Context, zoneID, recordID string) error {
	_, err := c.do(ctx, http.MethodDelete, recordPath(zoneID, recordID), nil)
	return err
}
