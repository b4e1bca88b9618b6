package http

import (
	"bytes"
	"context"
	_ "embed"
	"fmt"

	"github.com/getkin/kin-openapi/openapi3"
)

//go:embed openapi.yaml
var rawSpec []byte

const specEndpoint = "/js"

// LoadSpec parses and validates the embedded API document, with the
// evaluation route moved to endpoint.
func LoadSpec(ctx context.Context, endpoint string) (*openapi3.T, error) {
	data := rawSpec
	if endpoint != "" && endpoint != specEndpoint {
		data = bytes.Replace(rawSpec, []byte("\n  "+specEndpoint+":\n"), []byte("\n  "+endpoint+":\n"), 1)
	}

	doc, err := openapi3.NewLoader().LoadFromData(data)
	if err != nil {
		return nil, fmt.Errorf("load openapi document: %w", err)
	}
	if err := doc.Validate(ctx); err != nil {
		return nil, fmt.Errorf("validate openapi document: %w", err)
	}
	return doc, nil
}
