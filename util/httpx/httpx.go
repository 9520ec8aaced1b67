package httpx

import (
	"net"
	"net/http"
	"time"
)

var defaultClient = &http.Client{
	Timeout: 15 * time.Second,
	Transport: &http.Transport{
		DialContext: (&net.Dialer{
			Timeout:   5 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		MaxIdleConns:        100,
		MaxConnsPerHost:     100,
		MaxIdleConnsPerHost: 10,
		IdleConnTimeout:     90 * time.Second,
	},
}

// Client returns the shared tuned HTTP client used by out-of-process callers
// such as the setupadmin CLI.
func Client() *http.Client { return defaultClient }
