package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
)

// apiAddr resolves the schedulerd base URL: the -address flag, falling back
// to an environment variable (the way Nomad's CLI falls back to NOMAD_ADDR).
func apiAddr(flagVal string) string {
	if flagVal != "" {
		return flagVal
	}
	if v := os.Getenv("SCHEDCTL_ADDR"); v != "" {
		return v
	}
	return "http://127.0.0.1:4646"
}

func doRequest(method, url string, body any) ([]byte, int, error) {
	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return nil, 0, err
		}
		reader = bytes.NewReader(b)
	}

	req, err := http.NewRequest(method, url, reader)
	if err != nil {
		return nil, 0, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, 0, err
	}
	defer resp.Body.Close()

	out, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, resp.StatusCode, err
	}
	if resp.StatusCode >= 300 {
		return out, resp.StatusCode, fmt.Errorf("request failed: %s", out)
	}
	return out, resp.StatusCode, nil
}
