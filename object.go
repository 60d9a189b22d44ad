package jsonstreams

import (
	"errors"
	"iter"
)

// An Object is an open JSON object being written.  Members are written in
// call order.  Sub-containers opened with SubObject or SubArray must be
// closed before the Object can be written to again.
//
// An Object must not be used from several goroutines at the same time.
type Object struct {
	c *container
}

// Write writes a member.  The key must be a string (or a type with string
// kind, or an encoding.TextMarshaler), the value can be anything the
// Encoder accepts.  Key and value are written together or not at all.
func (o *Object) Write(key, value any) error {
	if err := o.c.check(opWrite); err != nil {
		return err
	}
	k, err := o.c.encodeKey(key)
	if err != nil {
		return err
	}
	v, err := o.c.encode(value)
	if err != nil {
		return err
	}
	return o.c.writeItem(k, v)
}

// IterWrite writes all the (key, value) pairs of seq in order, stopping at the
// first error.
func (o *Object) IterWrite(seq iter.Seq2[any, any]) error {
	return WriteSeq2(o, seq)
}

// WriteSeq2 writes all the (key, value) pairs of seq to o in order, stopping
// at the first error.
func WriteSeq2[K, V any](o *Object, seq iter.Seq2[K, V]) error {
	for k, v := range seq {
		if err := o.Write(k, v); err != nil {
			return err
		}
	}
	return nil
}

// SubObject starts an object as the value of the given key.  The returned
// Object must be closed before o can be used again.
func (o *Object) SubObject(key any) (*Object, error) {
	c, err := o.openChild(opSubObject, key, openObjectBytes, closeObjectBytes)
	if err != nil {
		return nil, err
	}
	return &Object{c: c}, nil
}

// SubArray starts an array as the value of the given key.  The returned
// Array must be closed before o can be used again.
func (o *Object) SubArray(key any) (*Array, error) {
	c, err := o.openChild(opSubArray, key, openArrayBytes, closeArrayBytes)
	if err != nil {
		return nil, err
	}
	return &Array{c: c}, nil
}

func (o *Object) openChild(op string, key any, openBytes, closeBytes []byte) (*container, error) {
	if err := o.c.check(op); err != nil {
		return nil, err
	}
	k, err := o.c.encodeKey(key)
	if err != nil {
		return nil, err
	}
	return o.c.openChild(op, k, openBytes, closeBytes)
}

// WithSubObject opens a sub-object for the given key, passes it to f and
// closes it when f returns or panics.  Closing it in f is allowed.
func (o *Object) WithSubObject(key any, f func(*Object) error) error {
	child, err := o.SubObject(key)
	if err != nil {
		return err
	}
	return scoped(child, child.c, f)
}

// WithSubArray opens a sub-array for the given key, passes it to f and
// closes it when f returns or panics.  Closing it in f is allowed.
func (o *Object) WithSubArray(key any, f func(*Array) error) error {
	child, err := o.SubArray(key)
	if err != nil {
		return err
	}
	return scoped(child, child.c, f)
}

// Close writes the closing brace.  Any further operation on o fails with
// ErrStreamClosed, including Close.
func (o *Object) Close() error {
	return o.c.close()
}

// scoped calls f(x) and makes sure c is closed afterwards, even if f panics.
func scoped[T any](x T, c *container, f func(T) error) (err error) {
	defer func() {
		err = errors.Join(err, c.closeIfOpen())
	}()
	return f(x)
}
