package jsonstreams

import "iter"

// An Array is an open JSON array being written.  Sub-containers opened with
// SubObject or SubArray must be closed before the Array can be written to
// again.
//
// An Array must not be used from several goroutines at the same time.
type Array struct {
	c *container
}

// Write writes one element.
func (a *Array) Write(value any) error {
	if err := a.c.check(opWrite); err != nil {
		return err
	}
	v, err := a.c.encode(value)
	if err != nil {
		return err
	}
	return a.c.writeItem(nil, v)
}

// IterWrite writes all the values of seq in order, stopping at the first
// error.
func (a *Array) IterWrite(seq iter.Seq[any]) error {
	return WriteSeq(a, seq)
}

// WriteSeq writes all the values of seq to a in order, stopping at the first
// error.
func WriteSeq[V any](a *Array, seq iter.Seq[V]) error {
	for v := range seq {
		if err := a.Write(v); err != nil {
			return err
		}
	}
	return nil
}

// SubObject starts an object as the next element.  The returned Object must
// be closed before a can be used again.
func (a *Array) SubObject() (*Object, error) {
	if err := a.c.check(opSubObject); err != nil {
		return nil, err
	}
	c, err := a.c.openChild(opSubObject, nil, openObjectBytes, closeObjectBytes)
	if err != nil {
		return nil, err
	}
	return &Object{c: c}, nil
}

// SubArray starts an array as the next element.  The returned Array must be
// closed before a can be used again.
func (a *Array) SubArray() (*Array, error) {
	if err := a.c.check(opSubArray); err != nil {
		return nil, err
	}
	c, err := a.c.openChild(opSubArray, nil, openArrayBytes, closeArrayBytes)
	if err != nil {
		return nil, err
	}
	return &Array{c: c}, nil
}

// WithSubObject opens a sub-object, passes it to f and closes it when f
// returns or panics.  Closing it in f is allowed.
func (a *Array) WithSubObject(f func(*Object) error) error {
	child, err := a.SubObject()
	if err != nil {
		return err
	}
	return scoped(child, child.c, f)
}

// WithSubArray opens a sub-array, passes it to f and closes it when f
// returns or panics.  Closing it in f is allowed.
func (a *Array) WithSubArray(f func(*Array) error) error {
	child, err := a.SubArray()
	if err != nil {
		return err
	}
	return scoped(child, child.c, f)
}

// Close writes the closing bracket.  Any further operation on a fails with
// ErrStreamClosed, including Close.
func (a *Array) Close() error {
	return a.c.close()
}
