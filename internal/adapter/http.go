package adapter

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/go-resty/resty/v2"

	"github.com/avoronov/cellarsync/internal/config"
	"github.com/avoronov/cellarsync/internal/logger"
	"github.com/avoronov/cellarsync/models"
)

type httpCloudStore struct {
	client *resty.Client
	logger *logger.Logger
}

// listResponse is the wire shape of a paginated collection listing.
type listResponse struct {
	Records    []models.TrackedRecord `json:"records"`
	NextCursor string                 `json:"next_cursor,omitempty"`
}

// uploadResponse is the wire shape of an asset upload acknowledgement.
type uploadResponse struct {
	URL string `json:"url"`
}

// NewHTTPCloudStore constructs an HTTP/REST implementation of [CloudStore].
// It normalises and validates the base URL from cfg.BaseURL and configures
// the underlying client with the resolved base URL and request timeout.
//
// Returns an error if cfg.BaseURL is empty or cannot be parsed as a valid URL.
func NewHTTPCloudStore(cfg config.Cloud, logger *logger.Logger) (CloudStore, error) {
	baseURL, err := normalizeBaseURL(cfg.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid cloud base url: %w", err)
	}

	client := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(cfg.RequestTimeout)

	return &httpCloudStore{client: client, logger: logger}, nil
}

func normalizeBaseURL(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", fmt.Errorf("empty address")
	}

	if !strings.Contains(raw, "://") {
		raw = "https://" + raw
	}

	u, err := url.Parse(raw)
	if err != nil {
		return "", err
	}
	if u.Scheme == "" || u.Host == "" {
		return "", fmt.Errorf("address must include host and scheme")
	}

	return strings.TrimRight(u.String(), "/"), nil
}

// Ping implements [CloudStore]. It issues a lightweight GET to the health
// endpoint; any transport or non-2xx failure means the store is unreachable.
func (h *httpCloudStore) Ping(ctx context.Context) error {
	resp, err := h.client.R().
		SetContext(ctx).
		Get("/api/health")
	if err != nil {
		return fmt.Errorf("ping request: %w", err)
	}

	return mapHTTPError(resp)
}

// ListPage implements [CloudStore]. It GETs one page of the collection using
// the opaque server-provided cursor; an empty returned cursor marks the last
// page.
func (h *httpCloudStore) ListPage(ctx context.Context, kind models.EntityKind, cursor string, pageSize int) ([]models.TrackedRecord, string, error) {
	req := h.client.R().
		SetContext(ctx).
		SetQueryParam("page_size", strconv.Itoa(pageSize))
	if cursor != "" {
		req.SetQueryParam("cursor", cursor)
	}

	resp, err := req.Get("/api/" + string(kind))
	if err != nil {
		return nil, "", fmt.Errorf("list %s request: %w", kind, err)
	}
	if err = mapHTTPError(resp); err != nil {
		return nil, "", err
	}

	var page listResponse
	if err = json.Unmarshal(resp.Body(), &page); err != nil {
		return nil, "", fmt.Errorf("decode %s list response: %w", kind, err)
	}

	for i := range page.Records {
		page.Records[i].Kind = kind
	}

	return page.Records, page.NextCursor, nil
}

// Put implements [CloudStore]. It PUTs the full record envelope to the
// collection, creating or replacing the remote copy.
func (h *httpCloudStore) Put(ctx context.Context, kind models.EntityKind, record models.TrackedRecord) error {
	resp, err := h.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(record).
		Put("/api/" + string(kind) + "/" + url.PathEscape(record.ID))
	if err != nil {
		return fmt.Errorf("put %s/%s request: %w", kind, record.ID, err)
	}

	return mapHTTPError(resp)
}

// Delete implements [CloudStore].
func (h *httpCloudStore) Delete(ctx context.Context, kind models.EntityKind, id string) error {
	resp, err := h.client.R().
		SetContext(ctx).
		Delete("/api/" + string(kind) + "/" + url.PathEscape(id))
	if err != nil {
		return fmt.Errorf("delete %s/%s request: %w", kind, id, err)
	}

	return mapHTTPError(resp)
}

// UploadAsset implements [CloudStore]. It PUTs the raw bytes to the object
// store and returns the canonical remote URL from the acknowledgement body.
func (h *httpCloudStore) UploadAsset(ctx context.Context, path string, data []byte) (string, error) {
	resp, err := h.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/octet-stream").
		SetBody(data).
		Put("/api/assets/" + strings.TrimLeft(path, "/"))
	if err != nil {
		return "", fmt.Errorf("upload asset %s request: %w", path, err)
	}
	if err = mapHTTPError(resp); err != nil {
		return "", err
	}

	var ack uploadResponse
	if err = json.Unmarshal(resp.Body(), &ack); err != nil {
		return "", fmt.Errorf("decode upload ack for %s: %w", path, err)
	}
	if ack.URL == "" {
		return "", fmt.Errorf("%w: upload ack for %s missing url", ErrBadRequest, path)
	}

	return ack.URL, nil
}

// DownloadAsset implements [CloudStore]. The URL is absolute (as stored in
// the record's asset reference), so the configured base URL is bypassed.
func (h *httpCloudStore) DownloadAsset(ctx context.Context, assetURL string) ([]byte, error) {
	resp, err := h.client.R().
		SetContext(ctx).
		Get(assetURL)
	if err != nil {
		return nil, fmt.Errorf("download asset request: %w", err)
	}
	if err = mapHTTPError(resp); err != nil {
		return nil, err
	}

	return resp.Body(), nil
}

// DeleteAsset implements [CloudStore].
func (h *httpCloudStore) DeleteAsset(ctx context.Context, path string) error {
	resp, err := h.client.R().
		SetContext(ctx).
		Delete("/api/assets/" + strings.TrimLeft(path, "/"))
	if err != nil {
		return fmt.Errorf("delete asset %s request: %w", path, err)
	}

	return mapHTTPError(resp)
}

// Stats implements [CloudStore].
func (h *httpCloudStore) Stats(ctx context.Context) (models.CloudStats, error) {
	resp, err := h.client.R().
		SetContext(ctx).
		Get("/api/stats")
	if err != nil {
		return models.CloudStats{}, fmt.Errorf("stats request: %w", err)
	}
	if err = mapHTTPError(resp); err != nil {
		return models.CloudStats{}, err
	}

	var stats models.CloudStats
	if err = json.Unmarshal(resp.Body(), &stats); err != nil {
		return models.CloudStats{}, fmt.Errorf("decode stats response: %w", err)
	}

	return stats, nil
}
