package client

import "context"

// Health returns the server's health status, "ok" when it is serving.
func (c *Client) Health(ctx context.Context) (string, error) {
	var resp struct {
		Status string `json:"status"`
	}
	if err := c.get(ctx, "/healthz", &resp); err != nil {
		return "", err
	}
	return resp.Status, nil
}
