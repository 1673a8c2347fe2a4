package dto

import (
	"encoding/json"

	"github.com/startinfo/academy_api/model"
	"github.com/startinfo/academy_api/shared"
)

// SimulatorConfig is passed through to the circuit simulator untouched. The
// values keep whatever JSON shape was stored.
type SimulatorConfig struct {
	Files       interface{} `json:"files" swaggertype:"object"`
	Parts       interface{} `json:"parts" swaggertype:"array,object"`
	Connections interface{} `json:"connections" swaggertype:"array,object"`
}

// DecodeSimulatorConfig returns (nil, false) when the lesson has no simulator,
// when either stored payload is not valid JSON or when either is JSON null.
// Callers serve the lesson with a null config in that case instead of
// failing the request. Missing or falsy keys fall back to an empty object or
// list.
func DecodeSimulatorConfig(sim *model.Simulator) (*SimulatorConfig, bool) {
	if sim == nil {
		return nil, false
	}

	var config, components interface{}
	if err := shared.JSONUnmarshal([]byte(sim.Config), &config); err != nil || config == nil {
		return nil, false
	}
	if err := shared.JSONUnmarshal([]byte(sim.Components), &components); err != nil || components == nil {
		return nil, false
	}

	return &SimulatorConfig{
		Files:       simulatorField(config, "files", map[string]interface{}{}),
		Parts:       simulatorField(components, "parts", []interface{}{}),
		Connections: simulatorField(components, "connections", []interface{}{}),
	}, true
}

// simulatorField reads key from a decoded JSON object. Non-objects and falsy
// values yield def.
func simulatorField(payload interface{}, key string, def interface{}) interface{} {
	obj, ok := payload.(map[string]interface{})
	if !ok {
		return def
	}
	v, ok := obj[key]
	if !ok || isFalsy(v) {
		return def
	}
	return v
}

func isFalsy(v interface{}) bool {
	switch t := v.(type) {
	case nil:
		return true
	case bool:
		return !t
	case string:
		return t == ""
	case float64:
		return t == 0
	case json.Number:
		f, err := t.Float64()
		return err == nil && f == 0
	}
	return false
}
