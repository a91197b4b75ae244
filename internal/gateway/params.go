package gateway

import (
	"github.com/cleohq/cleo/internal/apperr"
	"github.com/go-viper/mapstructure/v2"
)

// decodeParams decodes a Dispatch caller's untyped params (typically a
// map[string]interface{} produced by unmarshaling a CLI/JSON-RPC
// request) into a typed options struct, reusing the mapstructure
// decoder viper already pulls in for this codebase's config layer
// rather than hand-writing a type-switch per handler.
func decodeParams(raw interface{}, out interface{}) error {
	if raw == nil {
		return nil
	}
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           out,
		WeaklyTypedInput: true,
		TagName:          "json",
	})
	if err != nil {
		return apperr.Wrap(apperr.CodeInvalidInput, "building params decoder", err)
	}
	if err := dec.Decode(raw); err != nil {
		return apperr.Wrap(apperr.CodeInvalidInput, "decoding operation params", err)
	}
	return nil
}
