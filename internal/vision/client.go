package vision

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strings"
)

var (
	// ErrEmptyResponse is returned when the model reply has no content.
	ErrEmptyResponse = errors.New("vision model returned an empty response")
	// ErrMalformedResponse is returned when the reply cannot be parsed or
	// does not match the request schema.
	ErrMalformedResponse = errors.New("vision model returned a malformed response")
)

// Client answers a prompt about zero or more images.
type Client interface {
	Query(ctx context.Context, req Request) (*Response, error)
}

// ModelConfig selects the model for a single request. It is passed with every
// call; clients keep no per-model state.
type ModelConfig struct {
	Provider    string  `json:"provider,omitempty" yaml:"provider" mapstructure:"provider"`
	Model       string  `json:"model" yaml:"model" mapstructure:"model"`
	Temperature float64 `json:"temperature" yaml:"temperature" mapstructure:"temperature"`
	MaxTokens   int     `json:"max_tokens" yaml:"max_tokens" mapstructure:"max_tokens"`
}

// DefaultModelConfig returns the model settings used when none are given.
func DefaultModelConfig() ModelConfig {
	return ModelConfig{
		Model:       "gpt-4o-mini",
		Temperature: 0.3,
		MaxTokens:   500,
	}
}

// WithDefaults fills zero fields from DefaultModelConfig.
func (m ModelConfig) WithDefaults() ModelConfig {
	d := DefaultModelConfig()
	if m.Model == "" {
		m.Model = d.Model
	}
	if m.MaxTokens <= 0 {
		m.MaxTokens = d.MaxTokens
	}
	if m.Temperature < 0 {
		m.Temperature = d.Temperature
	}
	return m
}

// QualifiedName returns "provider/model" when a provider is set and the model
// name is not already qualified. Gateways route on this form.
func (m ModelConfig) QualifiedName() string {
	if m.Provider == "" || strings.Contains(m.Model, "/") {
		return m.Model
	}
	return m.Provider + "/" + m.Model
}

// Request is one vision query.
type Request struct {
	// Images are encoded PNG or JPEG screenshots. A request may have none.
	Images [][]byte
	// Prompt is the user instruction.
	Prompt string
	// Schema is the JSON schema the reply must satisfy. Optional.
	Schema json.RawMessage
	// Model selects the model for this request.
	Model ModelConfig
}

// MaxCoordinate bounds the magnitude of a reported coordinate; anything
// larger cannot be a pixel position and is rejected as malformed.
const MaxCoordinate = 1e6

// Coordinate is a point in the pixel space of the image that was sent.
type Coordinate struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// UnmarshalJSON accepts integer or fractional values and rounds them.
func (c *Coordinate) UnmarshalJSON(data []byte) error {
	var raw struct {
		X *float64 `json:"x"`
		Y *float64 `json:"y"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if raw.X == nil || raw.Y == nil {
		return fmt.Errorf("coordinate requires both x and y")
	}
	for _, v := range []float64{*raw.X, *raw.Y} {
		if math.IsNaN(v) || math.Abs(v) > MaxCoordinate {
			return fmt.Errorf("coordinate value %g out of range", v)
		}
	}
	c.X = int(math.Round(*raw.X))
	c.Y = int(math.Round(*raw.Y))
	return nil
}

// Response is the parsed model reply. The common locator fields are decoded
// eagerly; strategy-specific fields are read with Decode.
type Response struct {
	Answer             string          `json:"answer,omitempty"`
	Coordinate         *Coordinate     `json:"coordinates,omitempty"`
	Confidence         string          `json:"confidence,omitempty"`
	ElementDescription string          `json:"element_description,omitempty"`
	Raw                json.RawMessage `json:"-"`
}

// Decode unmarshals the raw reply into v.
func (r *Response) Decode(v any) error {
	if len(r.Raw) == 0 {
		return ErrEmptyResponse
	}
	if err := json.Unmarshal(r.Raw, v); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	return nil
}

// ParseResponse turns model output text into a Response, validating it
// against schema when one is given.
func ParseResponse(content string, schema json.RawMessage) (*Response, error) {
	if strings.TrimSpace(content) == "" {
		return nil, ErrEmptyResponse
	}

	raw, err := parseStructuredJSON(content)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	if err := validateStructuredJSON(schema, raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}

	resp := &Response{Raw: raw}
	if err := json.Unmarshal(raw, resp); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	resp.Confidence = strings.ToLower(strings.TrimSpace(resp.Confidence))
	return resp, nil
}
