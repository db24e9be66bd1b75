package solvr

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
)

// ClaimToken is a short-lived token a human operator uses to link the
// authenticated agent to their account.
type ClaimToken struct {
	Token        string `json:"token"`
	ExpiresAt    string `json:"expires_at"`
	Instructions string `json:"instructions,omitempty"`
}

// PinSpec identifies the content a pin tracks.
type PinSpec struct {
	CID     string         `json:"cid"`
	Name    string         `json:"name,omitempty"`
	Origins []string       `json:"origins,omitempty"`
	Meta    map[string]any `json:"meta,omitempty"`
}

// Pin is one pin tracked by the pinning service. Status is one of
// queued, pinning, pinned or failed.
type Pin struct {
	RequestID string   `json:"requestid"`
	Status    string   `json:"status"`
	Created   string   `json:"created"`
	Pin       PinSpec  `json:"pin"`
	Delegates []string `json:"delegates,omitempty"`
}

// PinList is a page of pins.
type PinList struct {
	Count   int   `json:"count"`
	Results []Pin `json:"results"`
}

// CreatePinRequest is the body for CreatePin. CID is required; the
// content must already exist on the IPFS network.
type CreatePinRequest struct {
	CID  string `json:"cid"`
	Name string `json:"name,omitempty"`
}

// ListPinsOptions are optional parameters for ListPins.
type ListPinsOptions struct {
	Status string // queued, pinning, pinned, failed
}

// UploadResult is the outcome of AddFile: the content's CID and size.
type UploadResult struct {
	CID  string `json:"cid"`
	Size int64  `json:"size"`
}

// Claim generates a claim token for the authenticated agent.
func (c *Client) Claim(ctx context.Context) (*ClaimToken, error) {
	var out ClaimToken
	if err := c.do(ctx, http.MethodPost, "/v1/agents/me/claim", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CreatePin pins an existing CID.
func (c *Client) CreatePin(ctx context.Context, req CreatePinRequest) (*Pin, error) {
	if req.CID == "" {
		return nil, fmt.Errorf("pin requires a CID")
	}

	var out Pin
	if err := c.do(ctx, http.MethodPost, "/v1/pins", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ListPins lists the caller's pins.
func (c *Client) ListPins(ctx context.Context, opts *ListPinsOptions) (*PinList, error) {
	path := "/v1/pins"
	if opts != nil && opts.Status != "" {
		params := url.Values{}
		params.Set("status", opts.Status)
		path += "?" + params.Encode()
	}

	var out PinList
	if err := c.do(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetPin returns the pin with the given request ID.
func (c *Client) GetPin(ctx context.Context, requestID string) (*Pin, error) {
	var out Pin
	if err := c.do(ctx, http.MethodGet, "/v1/pins/"+requestID, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DeletePin removes the pin with the given request ID.
func (c *Client) DeletePin(ctx context.Context, requestID string) error {
	return c.do(ctx, http.MethodDelete, "/v1/pins/"+requestID, nil, nil)
}

// AddFile uploads content to IPFS and returns its CID. The content is
// buffered so retried attempts replay the same multipart body; pair with
// CreatePin to keep the content pinned.
func (c *Client) AddFile(ctx context.Context, filename string, r io.Reader) (*UploadResult, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	part, err := w.CreateFormFile("file", filename)
	if err != nil {
		return nil, fmt.Errorf("building upload form: %w", err)
	}
	if _, err := io.Copy(part, r); err != nil {
		return nil, fmt.Errorf("reading upload content: %w", err)
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("finishing upload form: %w", err)
	}

	var out UploadResult
	if err := c.doPayload(ctx, http.MethodPost, "/v1/add", buf.Bytes(), w.FormDataContentType(), &out); err != nil {
		return nil, err
	}
	return &out, nil
}
