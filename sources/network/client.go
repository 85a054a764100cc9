package network

import (
	"context"
	"net"
	"net/http"
	"runtime"
	"time"

	"blackcenter/sources/tracing"

	"golang.org/x/net/proxy"
)

func NewClient(dialer proxy.Dialer, log *tracing.Logger) *http.Client {
	dc := func(ctx context.Context, network, address string) (net.Conn, error) {
		return dialer.Dial(network, address)
	}

	log.I("Outbound HTTP client initialized")

	return &http.Client{
		Transport: &http.Transport{
			DialContext:           dc,
			MaxIdleConns:          20,
			IdleConnTimeout:       10 * time.Minute,
			TLSHandshakeTimeout:   10 * time.Second,
			ExpectContinueTimeout: 5 * time.Second,
			MaxIdleConnsPerHost:   runtime.GOMAXPROCS(0) + 1,
		},
	}
}
