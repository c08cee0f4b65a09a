// Package redact obfuscates personally identifiable information in log
// output. Messages carrying key=value pairs are rewritten so the values
// of sensitive keys never reach a log sink.
package redact

import (
	"regexp"
	"strings"
)

// PIIFields lists the field names considered personally identifiable.
var PIIFields = []string{"name", "email", "phone", "ssn", "password"}

// DefaultRedaction replaces sensitive values in filtered output.
const DefaultRedaction = "***"

// Filter replaces the value of every listed field in message with the
// redaction string. Fields are key=value pairs terminated by the
// separator; everything between the equals sign and the next separator
// is considered the value. With no fields or no separator there is
// nothing to delimit, and the message is returned unchanged.
func Filter(fields []string, redaction, message, separator string) string {
	if len(fields) == 0 || separator == "" {
		return message
	}
	quoted := make([]string, len(fields))
	for i, f := range fields {
		quoted[i] = regexp.QuoteMeta(f)
	}
	pattern := regexp.MustCompile(
		"(" + strings.Join(quoted, "|") + ")=[^" + regexp.QuoteMeta(separator) + "]*",
	)
	return pattern.ReplaceAllString(message, "${1}="+redaction)
}
