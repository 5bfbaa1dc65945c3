package metrics

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"

	"github.com/selivandex/vitals-bot/pkg/models"
)

// Source names one payload category and the dotted path of the scalar field
// inside it. Definitions list sources in priority order; the first source
// that yields a value for a day wins, and the rest are ignored for that day.
type Source struct {
	Category models.DataCategory
	Path     string
}

// Definition declares how one logical metric is derived from raw payloads
// and how its deviations are judged. Definitions are configuration data;
// nothing in the extractor branches on a metric name.
type Definition struct {
	Name       string
	Sources    []Source
	Direction  models.Directionality
	WindowDays int
}

// Extract pulls the metric's scalar out of one raw payload. A missing field,
// a wrong type, malformed JSON, or a non-finite number are all absence, not
// errors: the sample simply has no value for that day.
func Extract(payload []byte, path string) *float64 {
	var doc interface{}
	if err := json.Unmarshal(payload, &doc); err != nil {
		return nil
	}

	node := doc
	for _, segment := range strings.Split(path, ".") {
		obj, ok := node.(map[string]interface{})
		if !ok {
			return nil
		}
		node, ok = obj[segment]
		if !ok {
			return nil
		}
	}

	var v float64
	switch value := node.(type) {
	case float64:
		v = value
	case string:
		parsed, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return nil
		}
		v = parsed
	default:
		return nil
	}

	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return &v
}
