package session

import (
	"bytes"
	"errors"
	"reflect"
	"time"

	"github.com/vmihailenco/msgpack/v5"
)

// record is the stored form of a session.
type record struct {
	Created int64          `msgpack:"created"`
	Data    map[string]any `msgpack:"data"`
}

// Encode serializes the session data and creation time with MessagePack.
func Encode(s *Session) ([]byte, error) {
	return encode(record{
		Created: s.Created().Unix(),
		Data:    s.Items(),
	})
}

// Decode reconstructs a persisted session stored under id.
func Decode(id string, b []byte) (*Session, error) {
	var rec record
	if err := decode(b, &rec); err != nil {
		return nil, err
	}
	return Load(id, time.Unix(rec.Created, 0), rec.Data), nil
}

// Marshal serializes a bare session data map.
func Marshal(data map[string]any) ([]byte, error) {
	return encode(data)
}

// Unmarshal decodes a map produced by Marshal.
func Unmarshal(b []byte) (map[string]any, error) {
	var data map[string]any
	if err := decode(b, &data); err != nil {
		return nil, err
	}
	if data == nil {
		data = make(map[string]any)
	}
	return data, nil
}

func encode(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := msgpack.NewEncoder(&buf)
	enc.SetSortMapKeys(true)
	if err := enc.Encode(v); err != nil {
		return nil, errors.Join(ErrEncode, err)
	}
	return buf.Bytes(), nil
}

func decode(b []byte, v any) error {
	dec := msgpack.NewDecoder(bytes.NewReader(b))
	dec.UseLooseInterfaceDecoding(true)
	if err := dec.Decode(v); err != nil {
		return errors.Join(ErrDecode, err)
	}
	return nil
}

// sameValue reports whether a and b would be stored identically.
func sameValue(a, b any) bool {
	if reflect.DeepEqual(a, b) {
		return true
	}
	na, err := normalize(a)
	if err != nil {
		return false
	}
	nb, err := normalize(b)
	if err != nil {
		return false
	}
	return reflect.DeepEqual(na, nb)
}

// normalize returns v as it reads back from the store.
func normalize(v any) (any, error) {
	b, err := encode(v)
	if err != nil {
		return nil, err
	}
	var out any
	if err := decode(b, &out); err != nil {
		return nil, err
	}
	return out, nil
}
