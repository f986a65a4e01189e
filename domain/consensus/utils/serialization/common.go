package serialization

import (
	"encoding/binary"
	"io"

	"github.com/321cherish/ckb/domain/consensus/model/externalapi"
	"github.com/pkg/errors"
)

// errNoEncodingForType signifies that there's no encoding for the given type.
var errNoEncodingForType = errors.New("there's no encoding for this type")

// WriteElement writes the little endian representation of element to w.
// Byte slices are written with a uint64 length prefix so that adjacent
// variable length fields cannot be confused with each other.
func WriteElement(w io.Writer, element interface{}) error {
	var scratch [8]byte

	switch e := element.(type) {
	case uint8:
		scratch[0] = e
		_, err := w.Write(scratch[:1])
		return err

	case bool:
		if e {
			scratch[0] = 0x01
		}
		_, err := w.Write(scratch[:1])
		return err

	case uint32:
		binary.LittleEndian.PutUint32(scratch[:4], e)
		_, err := w.Write(scratch[:4])
		return err

	case int64:
		binary.LittleEndian.PutUint64(scratch[:], uint64(e))
		_, err := w.Write(scratch[:])
		return err

	case uint64:
		binary.LittleEndian.PutUint64(scratch[:], e)
		_, err := w.Write(scratch[:])
		return err

	case []byte:
		err := WriteElement(w, uint64(len(e)))
		if err != nil {
			return err
		}
		_, err = w.Write(e)
		return err

	case externalapi.DomainHash:
		_, err := w.Write(e.ByteSlice())
		return err

	case *externalapi.DomainHash:
		_, err := w.Write(e.ByteSlice())
		return err

	case externalapi.DomainTransactionID:
		_, err := w.Write(e.ByteArray()[:])
		return err

	case *externalapi.DomainOutpoint:
		return WriteElements(w, e.TransactionID, e.Index)
	}

	return errors.Wrapf(errNoEncodingForType, "couldn't find a way to write type %T", element)
}

// WriteElements writes multiple items to w. It is equivalent to multiple
// calls to writeElement.
func WriteElements(w io.Writer, elements ...interface{}) error {
	for _, element := range elements {
		err := WriteElement(w, element)
		if err != nil {
			return err
		}
	}
	return nil
}
