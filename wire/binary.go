package wire

import (
	"bytes"
	"encoding/binary"
	"fmt"

	"github.com/gogpu/ink"
)

// binaryHeader begins every marshaled coded batch. The trailing newline
// keeps accidental text concatenation from parsing.
const binaryHeader = "ink coded stroke v1\n"

// Presence bits for the optional channels, in marshal order.
const (
	maskPressure byte = 1 << iota
	maskTilt
	maskOrientation

	maskKnown = maskPressure | maskTilt | maskOrientation
)

// MarshalBinary frames the coded batch as little-endian bytes: the header,
// tool type, stroke unit length, an optional-channel presence mask, the
// sample count, then each present channel as a float32 scale followed by
// count int32 deltas. It refuses a batch whose runs fail validation, since
// the frame could not be decoded back.
func (c CodedStrokeInputBatch) MarshalBinary() ([]byte, error) {
	n, err := c.validate()
	if err != nil {
		return nil, err
	}

	var mask byte
	if len(c.Pressure.Deltas) > 0 {
		mask |= maskPressure
	}
	if len(c.Tilt.Deltas) > 0 {
		mask |= maskTilt
	}
	if len(c.Orientation.Deltas) > 0 {
		mask |= maskOrientation
	}

	w := new(writer)
	w.writeHeader()
	w.writeByte(byte(c.ToolType))
	w.writeFloat32(c.StrokeUnitLengthInCentimeters)
	w.writeByte(mask)
	w.writeUint32(uint32(n))

	w.writeRun(c.XStrokeSpace)
	w.writeRun(c.YStrokeSpace)
	w.writeRun(c.ElapsedTimeSeconds)
	if mask&maskPressure != 0 {
		w.writeRun(c.Pressure)
	}
	if mask&maskTilt != 0 {
		w.writeRun(c.Tilt)
	}
	if mask&maskOrientation != 0 {
		w.writeRun(c.Orientation)
	}
	return w.bytes(), nil
}

// UnmarshalBinary parses bytes produced by MarshalBinary, replacing the
// receiver. It checks framing only; Decode applies the structural wire
// validation and DecodeBatch the per-sample checks.
func (c *CodedStrokeInputBatch) UnmarshalBinary(data []byte) error {
	r := newReader(data)
	if err := r.checkHeader(); err != nil {
		return err
	}

	tool, err := r.readByte("tool type")
	if err != nil {
		return err
	}
	unitLength, err := r.readFloat32("stroke unit length")
	if err != nil {
		return err
	}
	mask, err := r.readByte("channel mask")
	if err != nil {
		return err
	}
	if mask&^maskKnown != 0 {
		return fmt.Errorf("%w: unknown channel mask %#02x", ErrBadHeader, mask)
	}
	n, err := r.readUint32("sample count")
	if err != nil {
		return err
	}

	out := CodedStrokeInputBatch{
		ToolType:                      ink.ToolType(tool),
		StrokeUnitLengthInCentimeters: unitLength,
	}
	if out.XStrokeSpace, err = r.readRun("x_stroke_space", n); err != nil {
		return err
	}
	if out.YStrokeSpace, err = r.readRun("y_stroke_space", n); err != nil {
		return err
	}
	if out.ElapsedTimeSeconds, err = r.readRun("elapsed_time_seconds", n); err != nil {
		return err
	}
	if mask&maskPressure != 0 {
		if out.Pressure, err = r.readRun("pressure", n); err != nil {
			return err
		}
	}
	if mask&maskTilt != 0 {
		if out.Tilt, err = r.readRun("tilt", n); err != nil {
			return err
		}
	}
	if mask&maskOrientation != 0 {
		if out.Orientation, err = r.readRun("orientation", n); err != nil {
			return err
		}
	}
	*c = out
	return nil
}

type writer struct {
	buf bytes.Buffer
}

func (w *writer) bytes() []byte { return w.buf.Bytes() }

func (w *writer) writeHeader() {
	w.buf.WriteString(binaryHeader)
}

func (w *writer) writeByte(b byte) {
	w.buf.WriteByte(b)
}

func (w *writer) writeUint32(n uint32) {
	binary.Write(&w.buf, binary.LittleEndian, n)
}

func (w *writer) writeFloat32(f float32) {
	binary.Write(&w.buf, binary.LittleEndian, f)
}

func (w *writer) writeRun(run NumericRun) {
	w.writeFloat32(run.Scale)
	binary.Write(&w.buf, binary.LittleEndian, run.Deltas)
}

type reader struct {
	*bytes.Reader
}

func newReader(data []byte) reader {
	return reader{bytes.NewReader(data)}
}

func (r reader) checkHeader() error {
	buf := make([]byte, len(binaryHeader))
	if n, err := r.Read(buf); err != nil || n != len(buf) {
		return fmt.Errorf("%w: data shorter than header", ErrBadHeader)
	}
	if string(buf) != binaryHeader {
		return fmt.Errorf("%w: %q", ErrBadHeader, string(buf))
	}
	return nil
}

func (r reader) readByte(field string) (byte, error) {
	b, err := r.ReadByte()
	if err != nil {
		return 0, fmt.Errorf("%w: %s", ErrTruncated, field)
	}
	return b, nil
}

func (r reader) readUint32(field string) (uint32, error) {
	var n uint32
	if err := binary.Read(r, binary.LittleEndian, &n); err != nil {
		return 0, fmt.Errorf("%w: %s", ErrTruncated, field)
	}
	return n, nil
}

func (r reader) readFloat32(field string) (float32, error) {
	var f float32
	if err := binary.Read(r, binary.LittleEndian, &f); err != nil {
		return 0, fmt.Errorf("%w: %s", ErrTruncated, field)
	}
	return f, nil
}

func (r reader) readRun(field string, n uint32) (NumericRun, error) {
	scale, err := r.readFloat32(field)
	if err != nil {
		return NumericRun{}, err
	}
	if n == 0 {
		return NumericRun{Scale: scale}, nil
	}
	// Check the declared size against the remaining bytes before
	// allocating, so a corrupt count cannot balloon memory.
	if int64(r.Len()) < 4*int64(n) {
		return NumericRun{}, fmt.Errorf("%w: %s needs %d deltas, %d bytes left", ErrTruncated, field, n, r.Len())
	}
	deltas := make([]int32, n)
	if err := binary.Read(r, binary.LittleEndian, deltas); err != nil {
		return NumericRun{}, fmt.Errorf("%w: %s", ErrTruncated, field)
	}
	return NumericRun{Scale: scale, Deltas: deltas}, nil
}
