package external

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"
)

// OfflineClient is the canned substitute used when the live API is switched
// off. It recognizes the weather and products data types; anything else
// yields Success=false.
type OfflineClient struct {
	mu  sync.Mutex
	seq int

	now func() time.Time
}

// NewOfflineClient creates the offline substitute.
func NewOfflineClient() *OfflineClient {
	return &OfflineClient{now: time.Now}
}

func (c *OfflineClient) Fetch(_ context.Context, dataType string, params map[string]any) Response {
	switch dataType {
	case "weather":
		location := "Unknown"
		if city, ok := params["city"].(string); ok && city != "" {
			location = city
		}
		return Response{Success: true, Data: &Data{
			Kind: KindWeather,
			Weather: &Weather{
				Location:    location,
				Temperature: 72,
				Condition:   "Sunny",
				Forecast: []Forecast{
					{Day: "Monday", High: 75, Low: 60, Condition: "Partly Cloudy"},
					{Day: "Tuesday", High: 78, Low: 62, Condition: "Sunny"},
				},
			},
		}}
	case "products":
		return Response{Success: true, Data: &Data{
			Kind: KindProducts,
			Products: []Product{
				{ID: 1, Name: "Laptop", Price: 999.99},
				{ID: 2, Name: "Smartphone", Price: 699.99},
				{ID: 3, Name: "Headphones", Price: 149.99},
			},
		}}
	default:
		return Response{Success: false, Error: fmt.Sprintf("Unknown endpoint: %s", dataType)}
	}
}

func (c *OfflineClient) Submit(_ context.Context, dataType string, body any) Response {
	switch dataType {
	case "feedback":
		receipt := map[string]any{
			"id":         c.nextSeq(),
			"feedback":   body,
			"receivedAt": c.now().UTC().Format(time.RFC3339),
		}
		return rawResponse(receipt)
	case "orders":
		order := map[string]any{
			"orderId":   fmt.Sprintf("ORD-%04d", c.nextSeq()),
			"items":     orderItems(body),
			"total":     orderTotal(body),
			"status":    "pending",
			"createdAt": c.now().UTC().Format(time.RFC3339),
		}
		return rawResponse(order)
	default:
		return Response{Success: false, Error: fmt.Sprintf("Unknown endpoint: %s", dataType)}
	}
}

func (c *OfflineClient) nextSeq() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.seq++
	return c.seq
}

func rawResponse(v any) Response {
	raw, err := json.Marshal(v)
	if err != nil {
		return Response{Success: false, Error: submitFailedError}
	}
	return Response{Success: true, Data: &Data{Kind: KindRaw, Raw: raw}}
}

func orderItems(body any) []any {
	m, ok := body.(map[string]any)
	if !ok {
		return nil
	}
	items, _ := m["items"].([]any)
	return items
}

func orderTotal(body any) float64 {
	var total float64
	for _, item := range orderItems(body) {
		entry, ok := item.(map[string]any)
		if !ok {
			continue
		}
		price, _ := entry["price"].(float64)
		qty, ok := entry["quantity"].(float64)
		if !ok {
			qty = 1
		}
		total += price * qty
	}
	return total
}
