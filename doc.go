// Package jsonstreams implements writing JSON documents as a stream.
//
// Values are written to the output as soon as they are given, so a document
// of any size can be produced without building it in memory first.  This is
// useful when exporting large data sets.
//
// A stream is either an object or an array:
//
//	s, err := jsonstreams.CreateArrayStream("out.json", jsonstreams.WithIndent(2))
//	if err != nil {
//	    return err
//	}
//	s.Write("foo")
//	s.Write(42)
//	return s.Close()
//
// Containers can be nested with SubObject and SubArray.  While a
// sub-container is open its parent cannot be written to; closing the
// sub-container makes the parent writable again.
//
//	o, err := s.SubObject()
//	...
//	o.Write("name", "value")
//	o.Close()
//
// The With... functions bind the lifetime of a container to a function call,
// so the output is always a complete JSON document, even on error paths:
//
//	err := jsonstreams.WriteObjectFile("out.json", func(s *jsonstreams.ObjectStream) error {
//	    return s.WithSubArray("items", func(a *jsonstreams.Array) error {
//	        return jsonstreams.WriteSeq(a, slices.Values(items))
//	    })
//	})
//
// Scalar values, and nested structures passed directly to Write, are
// rendered by an Encoder (see WithEncoder).  Object keys must be strings.
//
// Streams are not safe for concurrent use.
//
// The jsonstreams command in cmd/jsonstreams uses this package to turn JSON
// or CSV records into a single JSON document.
package jsonstreams
