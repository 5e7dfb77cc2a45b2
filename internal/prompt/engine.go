// Copyright (c) 2026 Fablery. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package prompt

import (
	"fmt"
	"strings"
)

/*
Fill substitutes {identifier} placeholders in a template.

Every occurrence of {key} is replaced for each entry in vars. A nil value
substitutes an empty string. Placeholders without a matching entry are left
untouched, which keeps literal braces in JSON output examples intact.

Parameters:
  - template: The template text containing {identifier} placeholders
  - vars: Placeholder values; strings and numbers are rendered verbatim

Returns:
  - string: The template with all known placeholders substituted
*/
func Fill(template string, vars map[string]any) string {
	result := template
	for key, value := range vars {
		result = strings.ReplaceAll(result, "{"+key+"}", stringify(value))
	}
	return result
}

// stringify renders a placeholder value, treating nil as empty.
func stringify(value any) string {
	if value == nil {
		return ""
	}
	if s, ok := value.(string); ok {
		return s
	}
	return fmt.Sprint(value)
}
