package simulation

import (
	"encoding/json"
	"fmt"

	"google.golang.org/protobuf/types/known/structpb"

	"github.com/lao-tseu-is-alive/go-space-flock/pkg/behavior"
)

// TuningMessage encodes t for the world actor. The keys are the JSON names of
// behavior.Tuning, so the message reads like the flock section of a config file.
func TuningMessage(t behavior.Tuning) (*structpb.Struct, error) {
	raw, err := json.Marshal(t)
	if err != nil {
		return nil, fmt.Errorf("failed to encode tuning: %w", err)
	}
	var fields map[string]interface{}
	if err := json.Unmarshal(raw, &fields); err != nil {
		return nil, fmt.Errorf("failed to encode tuning: %w", err)
	}
	return structpb.NewStruct(fields)
}

// decodeTuning applies the keys present in msg over base.
func decodeTuning(base behavior.Tuning, msg *structpb.Struct) (behavior.Tuning, error) {
	raw, err := json.Marshal(msg.AsMap())
	if err != nil {
		return base, fmt.Errorf("failed to decode tuning: %w", err)
	}
	if err := json.Unmarshal(raw, &base); err != nil {
		return base, fmt.Errorf("failed to decode tuning: %w", err)
	}
	return base, nil
}
