package emit

// Subscriber consumes the lines of one read session. Exactly one of
// OnError or OnComplete ends the sequence, unless the subscription is
// cancelled first.
type Subscriber interface {
	OnSubscribe(s Subscription)
	OnNext(line string)
	OnError(err error)
	OnComplete()
}

// Subscription is the consumer's handle on a read session.
type Subscription interface {
	// Request authorizes n more OnNext calls. A non-positive n is a protocol
	// violation and ends the subscription with ErrInvalidDemand.
	Request(n int64)
	// Cancel stops deliveries and further reads. No signal follows it.
	Cancel()
}

// Noop is a Subscription that ignores every call. It is handed to
// subscribers whose session failed before it could start.
var Noop Subscription = noop{}

type noop struct{}

func (noop) Request(int64) {}
func (noop) Cancel()       {}
