package utils

import (
	"encoding/json"
	"strings"
)

// FlexibleStringList tolerates the three shapes clients send for list
// fields: a JSON array, a JSON-encoded string of an array, or a CSV
// string. Handlers decode into this type once at the edge so everything
// downstream sees one canonical []string.
type FlexibleStringList []string

func (f *FlexibleStringList) UnmarshalJSON(data []byte) error {
	var arr []string
	if err := json.Unmarshal(data, &arr); err == nil {
		*f = normalizeList(arr)
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	*f = ParseStringList(s)
	return nil
}

// ParseStringList decodes a string payload that is either a JSON array
// ("[\"a\",\"b\"]") or CSV ("a, b").
func ParseStringList(s string) []string {
	s = strings.TrimSpace(s)
	if s == "" {
		return []string{}
	}
	if strings.HasPrefix(s, "[") {
		var arr []string
		if err := json.Unmarshal([]byte(s), &arr); err == nil {
			return normalizeList(arr)
		}
	}
	return normalizeList(strings.Split(s, ","))
}

func normalizeList(in []string) []string {
	out := make([]string, 0, len(in))
	for _, v := range in {
		v = strings.TrimSpace(v)
		if v != "" {
			out = append(out, v)
		}
	}
	return out
}

// FlexibleStringMap tolerates an object or a JSON-encoded object string,
// used for nested sub-records such as social-media links or company info.
type FlexibleStringMap map[string]string

func (f *FlexibleStringMap) UnmarshalJSON(data []byte) error {
	var m map[string]string
	if err := json.Unmarshal(data, &m); err == nil {
		*f = m
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	s = strings.TrimSpace(s)
	if s == "" {
		*f = map[string]string{}
		return nil
	}
	m = map[string]string{}
	if err := json.Unmarshal([]byte(s), &m); err != nil {
		return err
	}
	*f = m
	return nil
}
