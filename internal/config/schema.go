package config

import (
	"encoding/json"
	"fmt"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
)

// schemaSource is the CUE schema the loaded YAML must satisfy. Embedding
// the closed #Config definition rejects misspelled top-level keys instead
// of silently dropping them.
const schemaSource = `
#severity: "hidden" | "info" | "warning" | "error"
#ruleCfg:  bool | {severity?: #severity}
#Config: {
	rules?: {[string]: #ruleCfg}
	files?: [...string]
	ignore?: [...string]
	overrides?: [...{
		files: [...string]
		rules: {[string]: #ruleCfg}
	}]
	"exclude-generated"?: bool
}
#Config
`

// validateSchema checks a decoded config document against schemaSource.
func validateSchema(raw map[string]any) error {
	ctx := cuecontext.New()

	schemaVal := ctx.CompileString(schemaSource)
	if err := schemaVal.Err(); err != nil {
		return fmt.Errorf("invalid config schema: %w", err)
	}

	if raw == nil {
		raw = map[string]any{}
	}
	data, err := json.Marshal(raw)
	if err != nil {
		return fmt.Errorf("serialize config: %w", err)
	}

	dataVal := ctx.CompileBytes(data)
	if err := dataVal.Err(); err != nil {
		return fmt.Errorf("compile config: %w", err)
	}

	merged := schemaVal.Unify(dataVal)
	if err := merged.Validate(cue.Concrete(true)); err != nil {
		return fmt.Errorf("config does not match schema: %w", err)
	}
	return nil
}
