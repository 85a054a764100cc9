package persistence

import (
	"net/http"

	"blackcenter/sources/configuration"
	"blackcenter/sources/tracing"

	"github.com/go-resty/resty/v2"
)

// NewAppwriteClient builds the REST client for the remote document store. The
// underlying http.Client comes from the network module so outbound calls share
// the proxy and transport settings with the rest of the process.
func NewAppwriteClient(config *configuration.Config, httpClient *http.Client, log *tracing.Logger) *resty.Client {
	client := resty.NewWithClient(httpClient).
		SetBaseURL(config.Appwrite.Endpoint).
		SetTimeout(config.Appwrite.Timeout).
		SetHeader("Content-Type", "application/json").
		SetHeader("X-Appwrite-Project", config.Appwrite.ProjectID).
		SetHeader("X-Appwrite-Key", config.Appwrite.APIKey)

	log.I("Appwrite client initialized", "endpoint", config.Appwrite.Endpoint, "project_id", config.Appwrite.ProjectID)
	return client
}
