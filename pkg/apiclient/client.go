package apiclient

import (
	"net/http"
	"strings"
	"time"
)

// DefaultTimeout bounds every request made with a client built by NewClient.
const DefaultTimeout = 15 * time.Second

// Client talks to the marketplace REST API.
type Client struct {
	BaseURL    string
	HTTPClient *http.Client

	// Language is sent as Accept-Language ("ar" or "en") so the backend
	// localizes its messages.
	Language string

	// DeviceID, when set, is sent as X-Device-ID.
	DeviceID string
}

// NewClient creates a client for the API rooted at baseURL.
func NewClient(baseURL string) *Client {
	return &Client{
		BaseURL: strings.TrimSuffix(baseURL, "/"),
		HTTPClient: &http.Client{
			Timeout: DefaultTimeout,
		},
		Language: "en",
	}
}
