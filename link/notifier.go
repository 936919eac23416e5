package link

// Notifier is a coalescing wakeup signal. Notify never blocks; a pending signal
// absorbs any number of further Notify calls until it is consumed.
type Notifier struct {
	ch chan struct{}
}

// NewNotifier returns a ready-to-use notifier.
func NewNotifier() *Notifier {
	return &Notifier{ch: make(chan struct{}, 1)}
}

// Notify schedules one wakeup, folding into any signal already
// pending.
func (n *Notifier) Notify() {
	select {
	case n.ch <- struct{}{}:
	default:
	}
}

// C returns the channel a Reactive processor's scheduling loop blocks
// on.
func (n *Notifier) C() <-chan struct{} { return n.ch }
