package services

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

/**
 * Test health probe against a healthy server
 * @param {*testing.T} t - Testing framework instance
 */
func TestHealthProbeHealthy(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/health" {
			t.Errorf("Expected /health, got %s", r.URL.Path)
		}
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	}))
	defer server.Close()

	probe := NewHealthProbe(endpointFromURL(t, server.URL), 2*time.Second)
	if !probe.IsHealthy() {
		t.Error("Probe should report healthy for a 200 response")
	}
}

/**
 * Test health probe against a failing server
 * @param {*testing.T} t - Testing framework instance
 * @description
 * - Non-2xx status collapses to false, never to an error
 */
func TestHealthProbeUnhealthyStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	probe := NewHealthProbe(endpointFromURL(t, server.URL), 2*time.Second)
	if probe.IsHealthy() {
		t.Error("Probe should report unhealthy for a 500 response")
	}
}

/**
 * Test health probe against a dead endpoint
 * @param {*testing.T} t - Testing framework instance
 * @description
 * - Connection refused collapses to false, never panics
 */
func TestHealthProbeConnectionRefused(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	endpoint := endpointFromURL(t, server.URL)
	server.Close()

	probe := NewHealthProbe(endpoint, 500*time.Millisecond)
	if probe.IsHealthy() {
		t.Error("Probe should report unhealthy when nothing listens")
	}
}

/**
 * Test that the probe can be called repeatedly
 * @param {*testing.T} t - Testing framework instance
 * @description
 * - The probe is a pure query; repeated calls see the server's current state
 */
func TestHealthProbeRepeatable(t *testing.T) {
	healthy := true
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if healthy {
			w.WriteHeader(http.StatusOK)
		} else {
			w.WriteHeader(http.StatusServiceUnavailable)
		}
	}))
	defer server.Close()

	probe := NewHealthProbe(endpointFromURL(t, server.URL), 2*time.Second)
	if !probe.IsHealthy() {
		t.Error("First probe should be healthy")
	}
	healthy = false
	if probe.IsHealthy() {
		t.Error("Second probe should see the degraded state")
	}
	healthy = true
	if !probe.IsHealthy() {
		t.Error("Third probe should see the recovery")
	}
}
