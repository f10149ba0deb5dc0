package audit

// Sink é o que os use cases enxergam; o Dispatcher é a implementação real.
type Sink interface {
	Dispatch(ev Event)
}

var _ Sink = (*Dispatcher)(nil)
