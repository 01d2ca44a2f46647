// Package layout encodes schema records to bytes and decodes them back.
//
// An Engine walks a schema's fields in processing order and hands each one to
// the handler for its kind. Handlers convert between the in-memory value and
// the codec's native type, write length prefixes and presence tags, and
// recurse into nested schemas through the engine.
//
// Engines hold no per-call state and are safe for concurrent use.
package layout

import (
	"bytes"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/Deanly/struct-layout-sub000/errs"
	"github.com/Deanly/struct-layout-sub000/hexdump"
	"github.com/Deanly/struct-layout-sub000/internal/options"
	"github.com/Deanly/struct-layout-sub000/internal/pool"
	"github.com/Deanly/struct-layout-sub000/schema"
)

// Engine is the struct encoder and decoder.
type Engine struct {
	logger    logrus.FieldLogger
	dumpLimit int
	handlers  map[schema.Kind]handler
}

// New creates an Engine.
//
// Parameters:
//   - opts: Engine options (WithLogger, WithDumpLimit)
//
// Returns:
//   - *Engine: Engine safe for concurrent use
//   - error: Invalid option value
func New(opts ...Option) (*Engine, error) {
	cfg := defaultConfig()
	if err := options.Apply(cfg, opts...); err != nil {
		return nil, err
	}

	return &Engine{
		logger:    cfg.logger,
		dumpLimit: cfg.dumpLimit,
		handlers: map[schema.Kind]handler{
			schema.Scalar:            scalarHandler{},
			schema.CustomCodec:       customHandler{},
			schema.Sequence:          sequenceHandler{},
			schema.SequenceOfObjects: objectSequenceHandler{},
			schema.NestedObject:      nestedHandler{},
			schema.PolymorphicObject: polymorphicHandler{},
		},
	}, nil
}

// Encode serializes rec. A nil record encodes to an empty slice.
//
// Returns:
//   - []byte: Encoded bytes owned by the caller
//   - error: *errs.EncodeError or *errs.ConversionError naming the failing field path
func (e *Engine) Encode(rec *schema.Record) ([]byte, error) {
	if rec == nil {
		return []byte{}, nil
	}

	buf := pool.GetEncodeBuffer()
	defer pool.PutEncodeBuffer(buf)

	out, err := e.appendRecord(buf.B, rec)
	if err != nil {
		e.logEncodeFailure(rec, err)
		return nil, err
	}
	buf.B = out

	return bytes.Clone(out), nil
}

// Append serializes rec onto dst and returns the extended slice.
// On error dst is returned unchanged in length.
func (e *Engine) Append(dst []byte, rec *schema.Record) ([]byte, error) {
	if rec == nil {
		return dst, nil
	}

	out, err := e.appendRecord(dst, rec)
	if err != nil {
		e.logEncodeFailure(rec, err)
		return dst, err
	}

	return out, nil
}

// Decode deserializes a record of s from the start of data.
// Bytes after the record are ignored.
func (e *Engine) Decode(data []byte, s *schema.Schema) (*schema.Record, error) {
	rec, _, err := e.DecodeAt(data, 0, s)
	return rec, err
}

// DecodeAt deserializes a record of s starting at data[offset].
//
// Parameters:
//   - data: Input buffer; decoded values never alias it
//   - offset: Position of the first record byte
//   - s: Schema of the record
//
// Returns:
//   - *schema.Record: Decoded record
//   - int: Number of bytes consumed
//   - error: *errs.DecodeError or *errs.ConversionError for the first failing field
func (e *Engine) DecodeAt(data []byte, offset int, s *schema.Schema) (*schema.Record, int, error) {
	if s == nil {
		return nil, 0, errs.Schemaf("", "", errs.ErrInvalidSchema, "nil schema")
	}
	if offset < 0 || offset > len(data) {
		return nil, 0, errs.Decodef(offset, errs.ErrInsufficientData, "offset outside %d byte input", len(data))
	}

	rec, n, err := e.decodeRecord(data, offset, s)
	if err != nil {
		e.logDecodeFailure(s, data, offset, err)
		return nil, 0, err
	}

	return rec, n, nil
}

// CalculateSize returns the encoded size of rec. Records of fully fixed
// schemas are measured without encoding. A nil record has size 0.
func (e *Engine) CalculateSize(rec *schema.Record) (int, error) {
	if rec == nil {
		return 0, nil
	}
	if span, fixed := rec.Schema().FixedSpan(); fixed {
		return span, nil
	}

	buf := pool.GetEncodeBuffer()
	defer pool.PutEncodeBuffer(buf)

	out, err := e.appendRecord(buf.B, rec)
	if err != nil {
		return 0, err
	}
	buf.B = out

	return len(out), nil
}

// Dump encodes rec and returns its hex dump.
func (e *Engine) Dump(rec *schema.Record) (string, error) {
	data, err := e.Encode(rec)
	if err != nil {
		return "", err
	}

	return hexdump.Dump(data), nil
}

func (e *Engine) appendRecord(dst []byte, rec *schema.Record) ([]byte, error) {
	s := rec.Schema()
	for i, f := range s.All() {
		h, err := e.handler(f)
		if err != nil {
			return dst, err
		}

		dst, err = h.encode(e, dst, f, rec.At(i))
		if err != nil {
			return dst, encodeFailure(err, f.Name)
		}
	}

	return dst, nil
}

func (e *Engine) decodeRecord(data []byte, offset int, s *schema.Schema) (*schema.Record, int, error) {
	rec := schema.NewRecord(s)
	pos := offset
	for i, f := range s.All() {
		h, err := e.handler(f)
		if err != nil {
			return nil, 0, err
		}

		v, n, err := h.decode(e, data, pos, f)
		if err != nil {
			return nil, 0, decodeFailure(err, f.Name, pos)
		}
		rec.SetAt(i, v)
		pos += n
	}

	return rec, pos - offset, nil
}

func (e *Engine) handler(f *schema.Field) (handler, error) {
	h, ok := e.handlers[f.Kind]
	if !ok {
		return nil, errs.WithField(errs.Schemaf("", "", errs.ErrUnsupportedType, "field kind %s", f.Kind), f.Name)
	}

	return h, nil
}

func (e *Engine) logEncodeFailure(rec *schema.Record, err error) {
	e.logger.WithFields(logrus.Fields{
		"schema": rec.Schema().Name(),
		"error":  err,
	}).Debug("layout: encode failed")
}

func (e *Engine) logDecodeFailure(s *schema.Schema, data []byte, offset int, err error) {
	entry := e.logger.WithFields(logrus.Fields{
		"schema": s.Name(),
		"offset": offset,
		"error":  err,
	})

	if e.dumpLimit == 0 || offset >= len(data) {
		entry.Debug("layout: decode failed")
		return
	}

	var dump strings.Builder
	end := min(len(data), offset+e.dumpLimit)
	_ = hexdump.Format(&dump, data[offset:end], hexdump.WithBaseOffset(offset))
	entry.Debugf("layout: decode failed\n%s", dump.String())
}

// encodeFailure attaches the field name to a handler error. Errors without
// field context are wrapped into an EncodeError.
func encodeFailure(err error, field string) error {
	if isTyped(err) {
		return errs.WithField(err, field)
	}

	return &errs.EncodeError{Field: field, Err: err}
}

// decodeFailure is encodeFailure for the decode path; offset is the start of
// the failing field.
func decodeFailure(err error, field string, offset int) error {
	if isTyped(err) {
		return errs.WithField(err, field)
	}

	return &errs.DecodeError{Field: field, Offset: offset, Err: err}
}

func isTyped(err error) bool {
	switch err.(type) {
	case *errs.DecodeError, *errs.EncodeError, *errs.ConversionError, *errs.SchemaError:
		return true
	default:
		return false
	}
}
