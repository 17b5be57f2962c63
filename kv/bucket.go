// Copyright (c) 2026 The Ember developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package kv

type (
	// GetFunc adapts a func to the Get method.
	GetFunc func(key []byte) (value []byte, err error)
	// HasFunc adapts a func to the Has method.
	HasFunc func(key []byte) (bool, error)
	// IsNotFoundFunc adapts a func to the IsNotFound method.
	IsNotFoundFunc func(error) bool
	// PutFunc adapts a func to the Put method.
	PutFunc func(key, value []byte) error
	// DeleteFunc adapts a func to the Delete method.
	DeleteFunc func(key []byte) error
	// NewBatchFunc adapts a func to the NewBatch method.
	NewBatchFunc func() Batch
)

func (f GetFunc) Get(key []byte) ([]byte, error)    { return f(key) }
func (f HasFunc) Has(key []byte) (bool, error)      { return f(key) }
func (f IsNotFoundFunc) IsNotFound(err error) bool  { return f(err) }
func (f PutFunc) Put(key, value []byte) error       { return f(key, value) }
func (f DeleteFunc) Delete(key []byte) error        { return f(key) }
func (f NewBatchFunc) NewBatch() Batch              { return f() }

// Bucket provides a logical namespace within a kv store by key prefixing.
type Bucket string

// NewGetter creates a bucket getter from the source getter.
func (b Bucket) NewGetter(src Getter) Getter {
	return &struct {
		GetFunc
		HasFunc
		IsNotFoundFunc
	}{
		func(key []byte) ([]byte, error) {
			return src.Get(b.makeKey(key))
		},
		func(key []byte) (bool, error) {
			return src.Has(b.makeKey(key))
		},
		src.IsNotFound,
	}
}

// NewPutter creates a bucket putter from the source putter. Batches created
// through it prefix their keys too.
func (b Bucket) NewPutter(src Putter) Putter {
	return &struct {
		PutFunc
		DeleteFunc
		NewBatchFunc
	}{
		func(key, value []byte) error {
			return src.Put(b.makeKey(key), value)
		},
		func(key []byte) error {
			return src.Delete(b.makeKey(key))
		},
		func() Batch {
			return &bucketBatch{b, src.NewBatch()}
		},
	}
}

// NewGetPutter creates a bucket getter/putter from the source.
func (b Bucket) NewGetPutter(src GetPutter) GetPutter {
	return &struct {
		Getter
		Putter
	}{b.NewGetter(src), b.NewPutter(src)}
}

func (b Bucket) makeKey(key []byte) []byte {
	return append(append(make([]byte, 0, len(b)+len(key)), b...), key...)
}

type bucketBatch struct {
	bucket Bucket
	src    Batch
}

func (bb *bucketBatch) Put(key, value []byte) error {
	return bb.src.Put(bb.bucket.makeKey(key), value)
}

func (bb *bucketBatch) Len() int { return bb.src.Len() }

func (bb *bucketBatch) Write() error { return bb.src.Write() }
