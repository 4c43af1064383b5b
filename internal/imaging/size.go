package imaging

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
)

// DataURIPrefix is the scheme tag used when a JPEG payload is handed to an
// HTTP JSON body or an image widget.
const DataURIPrefix = "data:image/jpeg;base64,"

var dataURIPattern = regexp.MustCompile(`^data:image/[a-z]+;base64,`)

var sizeUnits = []string{"Bytes", "KB", "MB", "GB"}

// StripDataURI removes a leading data:image/<subtype>;base64, tag if present.
func StripDataURI(s string) string {
	return dataURIPattern.ReplaceAllString(s, "")
}

// HasDataURIPrefix reports whether s starts with a recognised image data URI tag.
func HasDataURIPrefix(s string) bool {
	return dataURIPattern.MatchString(s)
}

// DataURI wraps a raw base64 payload as a JPEG data URI.
func DataURI(payload string) string {
	return DataURIPrefix + StripDataURI(payload)
}

// MeasureBase64Size returns the exact decoded byte length of a base64
// payload, with or without a data URI prefix.
func MeasureBase64Size(s string) int64 {
	if s == "" {
		return 0
	}
	data := StripDataURI(s)
	raw := int64(len(data)) * 3 / 4

	padding := int64(len(data) - len(strings.TrimRight(data, "=")))
	if padding > 2 {
		padding = 2
	}
	return raw - padding
}

// FormatFileSize renders a byte count with a base-1024 unit and two decimals.
func FormatFileSize(bytes int64) string {
	if bytes <= 0 {
		return "0 Bytes"
	}
	// Integer equivalent of floor(log(bytes)/log(1024)); the float form
	// lands just below exact powers of 1024.
	i := 0
	for unit := int64(1024); bytes >= unit && i < len(sizeUnits)-1; unit *= 1024 {
		i++
	}
	value := float64(bytes) / math.Pow(1024, float64(i))
	return strconv.FormatFloat(value, 'f', 2, 64) + " " + sizeUnits[i]
}

// ValidateSize checks a base64 payload against a byte budget. An empty
// payload is always valid.
func ValidateSize(payload string, maxSizeBytes int64) error {
	if payload == "" {
		return nil
	}
	size := MeasureBase64Size(payload)
	if size > maxSizeBytes {
		return fmt.Errorf("%w: image is %s, limit is %s",
			ErrImageTooLarge, FormatFileSize(size), FormatFileSize(maxSizeBytes))
	}
	return nil
}
