package utils

import (
	"encoding/json"
	"reflect"
	"testing"
)

func TestFlexibleStringListShapes(t *testing.T) {
	want := []string{"pool", "garden", "parking"}

	payloads := map[string]string{
		"json array":     `["pool","garden","parking"]`,
		"encoded array":  `"[\"pool\",\"garden\",\"parking\"]"`,
		"csv string":     `"pool, garden, parking"`,
		"padded entries": `[" pool","garden ","","parking"]`,
	}

	for name, payload := range payloads {
		var got FlexibleStringList
		if err := json.Unmarshal([]byte(payload), &got); err != nil {
			t.Fatalf("%s: %v", name, err)
		}
		if !reflect.DeepEqual([]string(got), want) {
			t.Errorf("%s: got %v, want %v", name, got, want)
		}
	}
}

func TestFlexibleStringListEmpty(t *testing.T) {
	var got FlexibleStringList
	if err := json.Unmarshal([]byte(`""`), &got); err != nil {
		t.Fatal(err)
	}
	if len(got) != 0 {
		t.Fatalf("empty string should decode to empty list, got %v", got)
	}

	if err := json.Unmarshal([]byte(`42`), &got); err == nil {
		t.Fatal("numeric payload should fail to decode")
	}
}

func TestFlexibleStringMapShapes(t *testing.T) {
	want := map[string]string{"facebook": "fb.com/x", "instagram": "ig.com/x"}

	payloads := map[string]string{
		"object":         `{"facebook":"fb.com/x","instagram":"ig.com/x"}`,
		"encoded object": `"{\"facebook\":\"fb.com/x\",\"instagram\":\"ig.com/x\"}"`,
	}

	for name, payload := range payloads {
		var got FlexibleStringMap
		if err := json.Unmarshal([]byte(payload), &got); err != nil {
			t.Fatalf("%s: %v", name, err)
		}
		if !reflect.DeepEqual(map[string]string(got), want) {
			t.Errorf("%s: got %v, want %v", name, got, want)
		}
	}

	var empty FlexibleStringMap
	if err := json.Unmarshal([]byte(`""`), &empty); err != nil {
		t.Fatal(err)
	}
	if len(empty) != 0 {
		t.Fatalf("empty string should decode to empty map, got %v", empty)
	}
}
