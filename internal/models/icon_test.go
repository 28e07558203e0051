package models

import (
	"encoding/json"
	"testing"
)

/**
 * Test that icon objects pass through without losing unknown fields
 * @param {*testing.T} t - Testing framework instance
 * @description
 * - Icon objects are opaque beyond name/source
 * - Unknown fields must survive an unmarshal/marshal round trip byte-exact
 */
func TestIconRecordPassthrough(t *testing.T) {
	raw := `{"name":"home","source":"element-plus","svg":"<svg viewBox=\"0 0 24 24\"/>","tags":["house",42,null],"nested":{"a":{"b":1.5}}}`

	var icon IconRecord
	if err := json.Unmarshal([]byte(raw), &icon); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	if icon.Name != "home" {
		t.Errorf("Expected name home, got %q", icon.Name)
	}
	if icon.Source != "element-plus" {
		t.Errorf("Expected source element-plus, got %q", icon.Source)
	}

	out, err := json.Marshal(icon)
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}

	// 语义等价比较：键序可能变化，值必须逐字节保留
	var before, after map[string]json.RawMessage
	json.Unmarshal([]byte(raw), &before)
	if err := json.Unmarshal(out, &after); err != nil {
		t.Fatalf("Re-unmarshal failed: %v", err)
	}
	if len(before) != len(after) {
		t.Fatalf("Field count changed: %d -> %d", len(before), len(after))
	}
	for key, value := range before {
		if string(after[key]) != string(value) {
			t.Errorf("Field %s changed: %s -> %s", key, value, after[key])
		}
	}
}

/**
 * Test icon objects missing the well-known fields
 * @param {*testing.T} t - Testing framework instance
 */
func TestIconRecordMissingWellKnownFields(t *testing.T) {
	var icon IconRecord
	if err := json.Unmarshal([]byte(`{"svg":"<svg/>"}`), &icon); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	if icon.Name != "" || icon.Source != "" {
		t.Errorf("Missing fields must stay empty, got %q/%q", icon.Name, icon.Source)
	}
	if _, has := icon.Fields["svg"]; !has {
		t.Error("Unknown field svg must be kept")
	}
}

/**
 * Test search query shape validation
 * @param {*testing.T} t - Testing framework instance
 * @description
 * - Exactly one of name/names must be set
 */
func TestSearchQueryValidate(t *testing.T) {
	cases := []struct {
		query SearchQuery
		valid bool
	}{
		{SearchQuery{Name: "home"}, true},
		{SearchQuery{Names: []string{"home", "user"}}, true},
		{SearchQuery{}, false},
		{SearchQuery{Name: "home", Names: []string{"user"}}, false},
	}
	for _, c := range cases {
		err := c.query.Validate()
		if c.valid && err != nil {
			t.Errorf("Query %+v should be valid, got %v", c.query, err)
		}
		if !c.valid {
			if ReasonOf(err) != ReasonValidationError {
				t.Errorf("Query %+v: expected validation_error, got %v", c.query, err)
			}
		}
	}
}

/**
 * Test generate request validation
 * @param {*testing.T} t - Testing framework instance
 */
func TestGenerateRequestValidate(t *testing.T) {
	if err := (GenerateRequest{Description: "a red delete icon"}).Validate(); err != nil {
		t.Errorf("Valid request rejected: %v", err)
	}
	if err := (GenerateRequest{Description: "  "}).Validate(); ReasonOf(err) != ReasonValidationError {
		t.Errorf("Blank description must be a validation_error, got %v", err)
	}
}

/**
 * Test that an unset model stays off the wire
 * @param {*testing.T} t - Testing framework instance
 */
func TestGenerateRequestWireForm(t *testing.T) {
	out, err := json.Marshal(GenerateRequest{Description: "an icon", Style: StyleDefault})
	if err != nil {
		t.Fatal(err)
	}
	var body map[string]json.RawMessage
	json.Unmarshal(out, &body)
	if _, has := body["model"]; has {
		t.Error("Unset model must be omitted from the body")
	}

	out, _ = json.Marshal(GenerateRequest{Description: "an icon", Style: StyleDefault, Model: ModelOpenAI})
	json.Unmarshal(out, &body)
	if string(body["model"]) != `"openai"` {
		t.Errorf("Expected model openai, got %s", body["model"])
	}
}
