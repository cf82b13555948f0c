// Package external fetches auxiliary structured data (weather, product
// listings) for the pipeline. Three sources implement the same contract: a
// plain HTTP API, an MCP tool server and an offline canned substitute.
//
// Failures never raise: every source reports Success=false with a generic
// error description and callers must check the flag.
package external

import (
	"context"
	"encoding/json"
)

// DataKind tags the decoded payload so callers can dispatch on an explicit
// tag instead of probing fields.
type DataKind string

const (
	KindWeather  DataKind = "weather"
	KindProducts DataKind = "products"
	KindRaw      DataKind = "raw"
)

// Forecast is one day of a weather forecast.
type Forecast struct {
	Day       string `json:"day"`
	High      int    `json:"high"`
	Low       int    `json:"low"`
	Condition string `json:"condition"`
}

// Weather is the weather record data type.
type Weather struct {
	Location    string     `json:"location"`
	Temperature float64    `json:"temperature"`
	Condition   string     `json:"condition"`
	Forecast    []Forecast `json:"forecast,omitempty"`
}

// Product is one entry of the product listing data type.
type Product struct {
	ID    int     `json:"id"`
	Name  string  `json:"name"`
	Price float64 `json:"price"`
}

// Data is a tagged union of the known payload kinds. Exactly one of the
// payload fields matching Kind is set; unrecognized payloads are carried
// verbatim under KindRaw.
type Data struct {
	Kind     DataKind
	Weather  *Weather
	Products []Product
	Raw      json.RawMessage
}

// Response is the uniform result of an external data call.
type Response struct {
	Success bool
	Data    *Data
	Error   string
}

// Client fetches or submits named external resources.
type Client interface {
	// Fetch performs a GET-style lookup of a named data type.
	Fetch(ctx context.Context, dataType string, params map[string]any) Response
	// Submit performs a POST-style submission of a named resource.
	Submit(ctx context.Context, dataType string, body any) Response
}

// decodeData maps a raw payload onto the tagged union. The kind is decided by
// the requested data type, not by sniffing the payload; a payload that does
// not decode as its declared kind is carried as raw.
func decodeData(dataType string, raw []byte) *Data {
	switch dataType {
	case "weather":
		var w Weather
		if err := json.Unmarshal(raw, &w); err == nil {
			return &Data{Kind: KindWeather, Weather: &w}
		}
	case "products":
		var ps []Product
		if err := json.Unmarshal(raw, &ps); err == nil {
			return &Data{Kind: KindProducts, Products: ps}
		}
	}
	return &Data{Kind: KindRaw, Raw: json.RawMessage(raw)}
}
