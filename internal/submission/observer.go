package submission

// Observer is told after every committed state change. It reads the new
// state back from the Sender.
type Observer interface {
	StateChanged()
}

// ObserverFunc adapts a function to the Observer interface.
type ObserverFunc func()

func (f ObserverFunc) StateChanged() { f() }
