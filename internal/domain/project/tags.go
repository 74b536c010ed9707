package project

import (
	"encoding/json"
	"fmt"
	"strings"
)

// ParseTags accepts tags either as a comma separated list ("FIELD, LOI")
// or as a JSON array (`["FIELD", "LOI"]`) and returns a clean slice.
// Non-string array elements are stringified.
func ParseTags(raw string) []string {
	s := strings.TrimSpace(raw)
	if s == "" {
		return []string{}
	}
	if strings.HasPrefix(s, "[") && strings.HasSuffix(s, "]") {
		var arr []any
		if err := json.Unmarshal([]byte(s), &arr); err == nil {
			items := make([]string, 0, len(arr))
			for _, v := range arr {
				if str, ok := v.(string); ok {
					items = append(items, str)
					continue
				}
				items = append(items, fmt.Sprint(v))
			}
			return cleanTags(items)
		}
	}
	return cleanTags(strings.Split(s, ","))
}

func cleanTags(raw []string) []string {
	tags := make([]string, 0, len(raw))
	for _, t := range raw {
		if t = strings.TrimSpace(t); t != "" {
			tags = append(tags, t)
		}
	}
	return tags
}
