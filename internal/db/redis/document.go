package redis

import (
	"context"
	"encoding/binary"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/redis/rueidis"

	"github.com/kailas-cloud/libris/internal/db"
)

// PutDocument writes the document as a hash; the vector field holds little-endian FLOAT32 bytes.
func (s *Store) PutDocument(ctx context.Context, def *db.IndexDefinition, doc *db.Document) error {
	if doc.Key == "" {
		return fmt.Errorf("document key is required")
	}
	if def.Prefix != "" && !strings.HasPrefix(doc.Key, def.Prefix) {
		return fmt.Errorf("key %q outside index prefix %q", doc.Key, def.Prefix)
	}

	cmd := s.b().Hset().Key(doc.Key).FieldValue()
	for k, v := range doc.Fields {
		if f, ok := def.Field(k); ok && f.Type == db.IndexFieldTag {
			v = db.CleanTag(v)
		}
		cmd = cmd.FieldValue(k, v)
	}
	if vf, ok := def.VectorField(); ok && len(doc.Vector) > 0 {
		if len(doc.Vector) != vf.VectorDim {
			return fmt.Errorf("vector has %d dimensions, index expects %d", len(doc.Vector), vf.VectorDim)
		}
		cmd = cmd.FieldValue(vf.Name, vectorToBytes(doc.Vector))
	}

	if err := s.do(ctx, cmd.Build()).Error(); err != nil {
		return &db.Error{Op: db.OpHSet, Err: err}
	}
	return nil
}

// Get retrieves a value by key.
func (s *Store) Get(ctx context.Context, key string) ([]byte, error) {
	data, err := s.do(ctx, s.b().Get().Key(key).Build()).AsBytes()
	switch {
	case rueidis.IsRedisNil(err):
		return nil, db.ErrKeyNotFound
	case err != nil:
		return nil, &db.Error{Op: db.OpGet, Err: err}
	}
	return data, nil
}

// Set stores a value without expiry.
func (s *Store) Set(ctx context.Context, key string, value []byte) error {
	if err := s.do(ctx, s.b().Set().Key(key).Value(rueidis.BinaryString(value)).Build()).Error(); err != nil {
		return &db.Error{Op: db.OpSet, Err: err}
	}
	return nil
}

// SetWithTTL stores a value with SET EX.
func (s *Store) SetWithTTL(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	cmd := s.b().Set().Key(key).Value(rueidis.BinaryString(value)).Ex(ttl).Build()
	if err := s.do(ctx, cmd).Error(); err != nil {
		return &db.Error{Op: db.OpSet, Err: err}
	}
	return nil
}

func vectorToBytes(v []float32) string {
	buf := make([]byte, len(v)*4)
	for i, f := range v {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(f))
	}
	return rueidis.BinaryString(buf)
}
