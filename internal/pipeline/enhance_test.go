package pipeline

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/chatpipe-io/chatpipe/internal/external"
)

func TestEnhanceContentWeather(t *testing.T) {
	data := &external.Data{
		Kind:    external.KindWeather,
		Weather: &external.Weather{Location: "London", Temperature: 72, Condition: "Sunny"},
	}

	got := enhanceContent("Let me check.", data)
	require.Equal(t, "Let me check. It's currently 72°F and Sunny in London.", got)
}

func TestEnhanceContentWeatherKeepsFractionalTemperature(t *testing.T) {
	data := &external.Data{
		Kind:    external.KindWeather,
		Weather: &external.Weather{Location: "Oslo", Temperature: 72.5, Condition: "Cloudy"},
	}

	got := enhanceContent("Let me check.", data)
	require.Equal(t, "Let me check. It's currently 72.5°F and Cloudy in Oslo.", got)
}

func TestEnhanceContentProducts(t *testing.T) {
	data := &external.Data{
		Kind: external.KindProducts,
		Products: []external.Product{
			{ID: 1, Name: "Laptop", Price: 999.99},
			{ID: 2, Name: "Headphones", Price: 149.9},
		},
	}

	got := enhanceContent("Sure.", data)
	require.Equal(t, "Sure. Here are some products you might be interested in: Laptop ($999.99), Headphones ($149.90).", got)
}

func TestEnhanceContentLeavesOtherShapesAlone(t *testing.T) {
	raw := &external.Data{Kind: external.KindRaw, Raw: json.RawMessage(`{"foo":"bar"}`)}
	require.Equal(t, "As is.", enhanceContent("As is.", raw))

	empty := &external.Data{Kind: external.KindProducts}
	require.Equal(t, "As is.", enhanceContent("As is.", empty))

	noWeather := &external.Data{Kind: external.KindWeather}
	require.Equal(t, "As is.", enhanceContent("As is.", noWeather))
}
