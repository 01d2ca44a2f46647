package layout

import (
	"github.com/Deanly/struct-layout-sub000/codec"
	"github.com/Deanly/struct-layout-sub000/convert"
	"github.com/Deanly/struct-layout-sub000/errs"
	"github.com/Deanly/struct-layout-sub000/schema"
)

// scalarHandler encodes a single value with the field codec. Optional
// scalars carry a *codec.Optional, which writes the presence tag itself.
type scalarHandler struct{}

func (scalarHandler) encode(_ *Engine, dst []byte, f *schema.Field, v any) ([]byte, error) {
	return appendValue(dst, f.Codec, f.Target, v)
}

func (scalarHandler) decode(_ *Engine, data []byte, offset int, f *schema.Field) (any, int, error) {
	return decodeValue(data, offset, f.Codec, f.Target)
}

// customHandler runs a user supplied codec. It shares the scalar conversion
// rules; the codec decides its own span.
type customHandler struct{ scalarHandler }

func appendValue(dst []byte, c codec.Codec, target convert.Target, v any) ([]byte, error) {
	if codec.IsNil(v) {
		if codec.AcceptsNil(c) {
			return c.Append(dst, nil)
		}
		if target.Nullable() {
			return dst, errs.Encodef(errs.ErrNullValue, "%s value is required", target)
		}
	}

	wv, err := convert.Convert(target, c.Native(), v)
	if err != nil {
		return dst, err
	}

	return c.Append(dst, wv)
}

func decodeValue(data []byte, offset int, c codec.Codec, target convert.Target) (any, int, error) {
	raw, n, err := c.Decode(data, offset)
	if err != nil {
		return nil, 0, err
	}
	if raw == nil {
		return nil, n, nil
	}

	v, err := convert.Convert(c.Native(), target, raw)
	if err != nil {
		return nil, 0, err
	}

	return v, n, nil
}
