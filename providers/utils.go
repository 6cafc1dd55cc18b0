package providers

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/damgoweb/pinmap/pinlib"
)

func flushResponse(resp io.ReadCloser) {
	io.Copy(io.Discard, resp) // nolint: errcheck
	resp.Close()
}

func decodeResponse(body io.Reader, value interface{}) error {
	jsonDecoder := json.NewDecoder(bufio.NewReader(body))

	if err := jsonDecoder.Decode(value); err != nil {
		return fmt.Errorf("%w: cannot parse a response: %v", pinlib.ErrMalformedResponse, err)
	}

	return nil
}

func endpointParameter(parameters map[string]string, defaultValue string) string {
	if value := strings.TrimSpace(parameters["endpoint"]); value != "" {
		return strings.TrimRight(value, "/")
	}

	return defaultValue
}
