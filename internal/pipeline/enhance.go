package pipeline

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/chatpipe-io/chatpipe/internal/external"
)

// enhanceContent appends a short natural-language fragment built from the
// fetched payload. Dispatch is on the payload's explicit kind; raw payloads
// leave the content unmodified.
func enhanceContent(content string, data *external.Data) string {
	switch data.Kind {
	case external.KindWeather:
		if data.Weather == nil {
			return content
		}
		w := data.Weather
		// Shortest exact representation, so "72" stays "72" and "72.5"
		// is not rounded away.
		temp := strconv.FormatFloat(w.Temperature, 'f', -1, 64)
		return fmt.Sprintf("%s It's currently %s°F and %s in %s.",
			content, temp, w.Condition, w.Location)
	case external.KindProducts:
		if len(data.Products) == 0 {
			return content
		}
		parts := make([]string, len(data.Products))
		for i, p := range data.Products {
			parts[i] = fmt.Sprintf("%s ($%.2f)", p.Name, p.Price)
		}
		return fmt.Sprintf("%s Here are some products you might be interested in: %s.",
			content, strings.Join(parts, ", "))
	default:
		return content
	}
}
