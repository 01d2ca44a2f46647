package layout

import (
	"github.com/Deanly/struct-layout-sub000/errs"
	"github.com/Deanly/struct-layout-sub000/schema"
)

// sequenceHandler encodes a collection of scalar elements preceded by its
// length according to the field's length mode.
type sequenceHandler struct{}

func (sequenceHandler) encode(_ *Engine, dst []byte, f *schema.Field, v any) ([]byte, error) {
	dst, present := appendPresence(dst, f, v)
	if !present {
		return dst, nil
	}

	rv, err := collection(v)
	if err != nil {
		return dst, err
	}
	if dst, err = appendCount(dst, f, rv.Len()); err != nil {
		return dst, err
	}

	for i := 0; i < rv.Len(); i++ {
		dst, err = appendValue(dst, f.ElementCodec, f.ElementTarget, rv.Index(i).Interface())
		if err != nil {
			return dst, errs.WithField(encodeFailure(err, ""), indexPath(i))
		}
	}

	return dst, nil
}

func (sequenceHandler) decode(_ *Engine, data []byte, offset int, f *schema.Field) (any, int, error) {
	pos := offset
	n, present, err := readPresence(data, pos, f)
	if err != nil || !present {
		return nil, n, err
	}
	pos += n

	count, n, err := readCount(data, pos, f, minElementSpan(f.ElementCodec))
	if err != nil {
		return nil, 0, err
	}
	pos += n

	out := newContainer(f.ElementTarget.GoType(), count)
	for i := 0; count < 0 || i < count; i++ {
		if count < 0 && pos >= len(data) {
			break
		}

		v, n, err := decodeValue(data, pos, f.ElementCodec, f.ElementTarget)
		if err != nil {
			return nil, 0, errs.WithField(decodeFailure(err, "", pos), indexPath(i))
		}
		out.add(v)
		pos += n

		if count < 0 && n == 0 {
			break
		}
	}

	return out.result(f), pos - offset, nil
}

// objectSequenceHandler encodes a collection of records, either of one
// nested schema or of dispatcher selected variants.
type objectSequenceHandler struct{}

func (objectSequenceHandler) encode(e *Engine, dst []byte, f *schema.Field, v any) ([]byte, error) {
	dst, present := appendPresence(dst, f, v)
	if !present {
		return dst, nil
	}

	rv, err := collection(v)
	if err != nil {
		return dst, err
	}
	if dst, err = appendCount(dst, f, rv.Len()); err != nil {
		return dst, err
	}

	for i := 0; i < rv.Len(); i++ {
		el := rv.Index(i).Interface()
		rec, err := objectRecord(f, el)
		if err == nil {
			dst, err = e.appendRecord(dst, rec)
		}
		if err != nil {
			return dst, errs.WithField(encodeFailure(err, ""), indexPath(i))
		}
	}

	return dst, nil
}

func (objectSequenceHandler) decode(e *Engine, data []byte, offset int, f *schema.Field) (any, int, error) {
	pos := offset
	n, present, err := readPresence(data, pos, f)
	if err != nil || !present {
		return nil, n, err
	}
	pos += n

	count, n, err := readCount(data, pos, f, objectNoDataSpan(f))
	if err != nil {
		return nil, 0, err
	}
	pos += n

	out := newContainer(recordType, count)
	for i := 0; count < 0 || i < count; i++ {
		if count < 0 && pos >= len(data) {
			break
		}

		rec, n, err := decodeObject(e, data, pos, f)
		if err != nil {
			return nil, 0, errs.WithField(decodeFailure(err, "", pos), indexPath(i))
		}
		out.add(rec)
		pos += n

		if count < 0 && n == 0 {
			break
		}
	}

	return out.result(f), pos - offset, nil
}
