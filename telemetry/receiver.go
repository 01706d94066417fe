package telemetry

import (
	"context"
	"io"
	"time"

	"github.com/calvinmclean/codebot"
)

const defaultIdleDelay = 50 * time.Millisecond

// Receiver reprints every telegram heard on the radio, one classified line per telegram
type Receiver struct {
	radio Radio
	out   io.Writer
	clock codebot.Clock

	// IdleDelay follows every poll, whether or not something was received
	IdleDelay time.Duration
	// Newline terminates each printed line
	Newline string
	// OnError is called for receive and write faults. The loop keeps going either way
	OnError func(error)
}

func NewReceiver(radio Radio, out io.Writer, clock codebot.Clock) *Receiver {
	return &Receiver{
		radio:     radio,
		out:       out,
		clock:     clock,
		IdleDelay: defaultIdleDelay,
		Newline:   "\n",
	}
}

// Poll runs a single receive-classify-print iteration. The bool is false when nothing
// was received
func (r *Receiver) Poll() (Message, bool) {
	defer r.clock.Sleep(r.IdleDelay)

	data, err := r.radio.Receive()
	if err != nil {
		r.fail(err)
		return Message{}, false
	}
	if len(data) == 0 {
		return Message{}, false
	}

	msg := Classify(string(data))
	if msg.Kind == KindRaw && msg.Raw == "" {
		return Message{}, false
	}

	_, err = io.WriteString(r.out, msg.String()+r.Newline)
	if err != nil {
		r.fail(err)
	}

	return msg, true
}

// Run polls until the context is done
func (r *Receiver) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		r.Poll()
	}
}

func (r *Receiver) fail(err error) {
	if r.OnError != nil {
		r.OnError(err)
	}
}
