// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package zmq

// MultipartMessage is an ordered sequence of Messages sent or received as
// one logical unit via ZMQ_SNDMORE/ZMQ_RCVMORE framing (spec.md §4.5
// "Multipart messages").
type MultipartMessage struct {
	Frames []*Message
}

// NewMultipartMessage wraps frames as a MultipartMessage.
func NewMultipartMessage(frames ...*Message) *MultipartMessage {
	return &MultipartMessage{Frames: frames}
}

// Dispose disposes every frame. Safe to call more than once; each
// Message.Dispose is itself idempotent.
func (mm *MultipartMessage) Dispose() error {
	var first error
	for _, f := range mm.Frames {
		if err := f.Dispose(); err != nil && first == nil {
			first = err
		}
	}
	return first
}

// SendMultipart sends every frame in mm in order, setting FlagSendMore on
// all but the last. If an intermediate frame fails, the frames after it
// are disposed before returning the error; the failed frame itself is
// left as Send leaves it, undisposed (spec.md §4.5 "Partial multipart
// failure cleanup") — frames already placed on
// the wire are not retried or rolled back, matching the engine's own
// all-or-nothing-per-frame semantics.
func (s *Socket) SendMultipart(mm *MultipartMessage, flags Flag) error {
	if len(mm.Frames) == 0 {
		return ErrInvalidArgument
	}
	for i, f := range mm.Frames {
		frameFlags := flags
		if i < len(mm.Frames)-1 {
			frameFlags |= FlagSendMore
		}
		if err := s.Send(f, frameFlags); err != nil {
			for _, rest := range mm.Frames[i+1:] {
				_ = rest.Dispose()
			}
			return err
		}
	}
	return nil
}

// RecvMultipart receives frames until HasMore reports false, returning
// them as a MultipartMessage. On a receive failure partway through, the
// frames already collected are disposed before the error is returned.
func (s *Socket) RecvMultipart(flags Flag) (*MultipartMessage, error) {
	var frames []*Message
	for {
		m, err := s.Recv(flags)
		if err != nil {
			for _, f := range frames {
				_ = f.Dispose()
			}
			return nil, err
		}
		frames = append(frames, m)
		if !m.More() {
			break
		}
	}
	return &MultipartMessage{Frames: frames}, nil
}
