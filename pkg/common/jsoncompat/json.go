// Package jsoncompat routes JSON encoding through sonic using the standard
// library compatible configuration.
package jsoncompat

import (
	"io"

	"github.com/bytedance/sonic"
)

type Encoder = sonic.Encoder
type Decoder = sonic.Decoder

var api = sonic.ConfigStd

func Marshal(v any) ([]byte, error) { return api.Marshal(v) }

func Unmarshal(data []byte, v any) error { return api.Unmarshal(data, v) }

func NewEncoder(w io.Writer) Encoder { return api.NewEncoder(w) }

func NewDecoder(r io.Reader) Decoder { return api.NewDecoder(r) }
