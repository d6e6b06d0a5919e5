package req

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
)

// maxBodySize bounds a request body.
const maxBodySize = 1 << 16

func Decode[T any](body io.Reader) (T, error) {
	var payload T

	dec := json.NewDecoder(io.LimitReader(body, maxBodySize))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&payload); err != nil {
		return payload, fmt.Errorf("decode request: %w", err)
	}
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return payload, errors.New("decode request: body must contain a single JSON object")
	}
	return payload, nil
}
