package models

import (
	"errors"
	"fmt"
	"testing"
)

/**
 * Test failure reason extraction
 * @param {*testing.T} t - Testing framework instance
 * @description
 * - Wrapped failures keep their reason
 * - Foreign errors collapse to network_error
 */
func TestReasonOf(t *testing.T) {
	fail := NewFailure(ReasonConfigError, "entry %s not found", "index.js")
	if ReasonOf(fail) != ReasonConfigError {
		t.Errorf("Expected config_error, got %v", ReasonOf(fail))
	}

	wrapped := fmt.Errorf("search icons: %w", fail)
	if ReasonOf(wrapped) != ReasonConfigError {
		t.Errorf("Wrapped failure must keep its reason, got %v", ReasonOf(wrapped))
	}

	if ReasonOf(errors.New("dial tcp: refused")) != ReasonNetworkError {
		t.Error("Foreign errors must collapse to network_error")
	}
}

func TestFailureError(t *testing.T) {
	fail := NewFailure(ReasonValidationError, "description must not be empty")
	if fail.Error() != "validation_error: description must not be empty" {
		t.Errorf("Unexpected message: %s", fail.Error())
	}
}
