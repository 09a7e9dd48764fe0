package models

import "strings"

// MergeString overwrites dst with v when v is present and not blank.
func MergeString(dst *string, v *string) {
	if v == nil || strings.TrimSpace(*v) == "" {
		return
	}
	*dst = *v
}
