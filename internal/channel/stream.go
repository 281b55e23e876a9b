package channel

import (
	"encoding/json"
	"fmt"
	"io"
	"sync"
)

// Sink receives committed messages.
type Sink interface {
	Send(Message) error
}

// SinkFunc adapts a function to Sink.
type SinkFunc func(Message) error

// Send calls f.
func (f SinkFunc) Send(m Message) error { return f(m) }

// StreamSink writes one JSON message per line.
type StreamSink struct {
	mu  sync.Mutex
	enc *json.Encoder
}

// NewStreamSink returns a sink writing newline-delimited JSON to w.
func NewStreamSink(w io.Writer) *StreamSink {
	return &StreamSink{enc: json.NewEncoder(w)}
}

// Send encodes m on its own line.
func (s *StreamSink) Send(m Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.enc.Encode(m); err != nil {
		return fmt.Errorf("channel: write %s: %w", m.Type, err)
	}
	return nil
}

// Decoder reads newline-delimited inbound messages.
type Decoder struct {
	dec *json.Decoder
}

// NewDecoder returns a decoder reading from r.
func NewDecoder(r io.Reader) *Decoder {
	return &Decoder{dec: json.NewDecoder(r)}
}

// Next returns the next inbound message. It returns io.EOF at the end of
// the stream.
func (d *Decoder) Next() (Inbound, error) {
	var in Inbound
	if err := d.dec.Decode(&in); err != nil {
		if err == io.EOF {
			return Inbound{}, io.EOF
		}
		return Inbound{}, fmt.Errorf("channel: decode: %w", err)
	}
	return in, nil
}
