// pkg/codec/codec.go
package codec

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
)

type Codec interface {
	Marshal(v any) ([]byte, error)
	Unmarshal(data []byte, v any) error
	ContentType() string
}

var ErrTrailingContent = errors.New("json trailing content")

// jsonStrict never escapes HTML, rejects unknown fields and trailing data.
type jsonStrict struct{ indent string }

var (
	JSONStrict Codec = jsonStrict{}
	JSONIndent Codec = jsonStrict{indent: "  "}
)

func (c jsonStrict) Marshal(v any) ([]byte, error) {
	buf := &bytes.Buffer{}
	enc := json.NewEncoder(buf)
	enc.SetEscapeHTML(false)
	if c.indent != "" {
		enc.SetIndent("", c.indent)
	}
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

func (jsonStrict) Unmarshal(data []byte, v any) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("json decode: %w", err)
	}
	var extra any
	if err := dec.Decode(&extra); err != io.EOF {
		return ErrTrailingContent
	}
	return nil
}

func (jsonStrict) ContentType() string { return "application/json" }
