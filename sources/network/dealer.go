package network

import (
	"blackcenter/sources/configuration"
	"blackcenter/sources/tracing"

	"golang.org/x/net/proxy"
)

func NewProxyDialer(config *configuration.Config, log *tracing.Logger) proxy.Dialer {
	if !config.Proxy.Enabled {
		return proxy.Direct
	}

	dialer, err := proxy.SOCKS5(
		"tcp",
		config.Proxy.Address,
		&proxy.Auth{User: config.Proxy.User, Password: config.Proxy.Password},
		proxy.Direct,
	)

	if err != nil {
		log.F("Failed to create proxy dialer", tracing.InnerError, err)
	}

	log.I("Proxy dialer initialized", tracing.ProxyUrl, config.Proxy.Address)
	return dialer
}
