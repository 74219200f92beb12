package providers

import (
	"context"
	"encoding/json"
	"net/http"

	"weatherhub.app/errors"
)

// getJSON issues a GET with the given headers and decodes a 2xx JSON body
// into out. Non-2xx responses are translated into weather errors at the
// point of the call: 404 means the location is outside the provider's
// coverage, 429 means the provider is throttling us, and 5xx is a transient
// upstream failure.
func getJSON(ctx context.Context, client *http.Client, url string, headers map[string]string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return errors.NewInvalidURLError(url)
	}
	for key, value := range headers {
		req.Header.Set(key, value)
	}

	resp, err := client.Do(req)
	if err != nil {
		return errors.NewNetworkError(err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return errors.NewUnsupportedLocationError("location is outside provider coverage")
	case resp.StatusCode == http.StatusTooManyRequests:
		return errors.NewRateLimitedError()
	case resp.StatusCode >= 500:
		return errors.NewAPIError(resp.StatusCode, "provider returned a server error")
	case resp.StatusCode < 200 || resp.StatusCode >= 300:
		return errors.NewAPIError(resp.StatusCode, "")
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return errors.NewDecodingError(err)
	}
	return nil
}
