package rpc

import (
	"context"
	"fmt"
	"net/http"

	"icon-keeper/internal/logger"
)

// httpClient HTTP客户端实现
type httpClient struct {
	config    *HTTPConfig
	client    *http.Client
	transport *http.Transport
}

/**
 * Create new HTTP client bound to a base URL
 * @param {HTTPConfig} config - HTTP client configuration
 * @returns {HTTPClient} HTTP client interface
 * @description
 * - Creates HTTP client with the configured default timeout
 * - Timeout applies per request via context
 * @example
 * config := DefaultHTTPConfig()
 * client := NewHTTPClient(config)
 * defer client.Close()
 */
func NewHTTPClient(config *HTTPConfig) HTTPClient {
	if config == nil {
		config = DefaultHTTPConfig()
	}

	transport := &http.Transport{}
	return &httpClient{
		config:    config,
		transport: transport,
		client: &http.Client{
			Transport: transport,
			Timeout:   config.Timeout,
		},
	}
}

/**
 * Send GET request
 * @param {string} path - API endpoint path
 * @param {map[string]interface{}} params - Query parameters
 * @returns {HTTPResponse} Response data
 * @returns {error} Error if request fails
 * @description
 * - Constructs URL with base URL and path
 * - Adds query parameters to request
 * - Sends HTTP GET request and parses response
 * @throws
 * - URL construction errors
 * - HTTP request errors
 * - Response parsing errors
 */
func (c *httpClient) Get(path string, params map[string]interface{}) (*HTTPResponse, error) {
	url, err := buildURL(c.config.BaseURL, path, params)
	if err != nil {
		return nil, fmt.Errorf("failed to build URL: %w", err)
	}

	logger.Debugf("Sending GET request to %s", url)

	ctx, cancel := context.WithTimeout(context.Background(), c.config.Timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, "GET", url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}

	httpResp, err := deserializeResponse(resp)
	if err != nil {
		return nil, fmt.Errorf("failed to deserialize response: %w", err)
	}

	return httpResp, nil
}

/**
 * Send POST request with JSON body
 * @param {string} path - API endpoint path
 * @param {interface{}} data - Request body data
 * @returns {HTTPResponse} Response data
 * @returns {error} Error if request fails
 * @description
 * - Constructs URL with base URL and path
 * - Serializes request body to JSON
 * - Sends HTTP POST request and parses response
 * @throws
 * - URL construction errors
 * - Data serialization errors
 * - HTTP request errors
 * - Response parsing errors
 */
func (c *httpClient) Post(path string, data interface{}) (*HTTPResponse, error) {
	url, err := buildURL(c.config.BaseURL, path, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build URL: %w", err)
	}

	body, err := serializeData(data)
	if err != nil {
		return nil, fmt.Errorf("failed to serialize data: %w", err)
	}

	logger.Debugf("Sending POST request to %s", url)

	ctx, cancel := context.WithTimeout(context.Background(), c.config.Timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, "POST", url, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}

	httpResp, err := deserializeResponse(resp)
	if err != nil {
		return nil, fmt.Errorf("failed to deserialize response: %w", err)
	}

	return httpResp, nil
}

/**
 * Close HTTP client connection
 * @returns {error} Error if closing fails
 * @description
 * - Closes idle connections held by client and transport
 */
func (c *httpClient) Close() error {
	if c.client != nil {
		c.client.CloseIdleConnections()
	}
	if c.transport != nil {
		c.transport.CloseIdleConnections()
	}
	return nil
}
