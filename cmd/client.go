package cmd

import (
	"fmt"
	"net/http"
)

// callDaemon sends a request to the local daemon API. Any status other than
// 200 is an error, so another process on the port is never mistaken for it.
func callDaemon(method, path string) (*http.Response, error) {
	req, err := http.NewRequest(method, daemonURL(path), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("daemon not running: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		_ = resp.Body.Close()
		return nil, fmt.Errorf("unexpected daemon response: %s", resp.Status)
	}

	return resp, nil
}
