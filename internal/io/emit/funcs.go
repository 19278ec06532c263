package emit

// Funcs is a Subscriber assembled from optional callbacks:
//
//	emit.DoOnNext(print).
//		DoOnError(report).
//		DoOnComplete(done)
//
// Without an OnSubscribe callback it requests Unbounded demand as soon as
// it is subscribed.
type Funcs struct {
	onSubscribe func(Subscription)
	onNext      func(string)
	onError     func(error)
	onComplete  func()
}

// DoOnNext starts a Funcs subscriber with an OnNext callback.
func DoOnNext(fn func(line string)) *Funcs {
	return (&Funcs{}).DoOnNext(fn)
}

// DoOnSubscribe sets the OnSubscribe callback. The callback is then
// responsible for requesting demand.
func (f *Funcs) DoOnSubscribe(fn func(s Subscription)) *Funcs {
	f.onSubscribe = fn
	return f
}

// DoOnNext sets the OnNext callback.
func (f *Funcs) DoOnNext(fn func(line string)) *Funcs {
	f.onNext = fn
	return f
}

// DoOnError sets the OnError callback.
func (f *Funcs) DoOnError(fn func(err error)) *Funcs {
	f.onError = fn
	return f
}

// DoOnComplete sets the OnComplete callback.
func (f *Funcs) DoOnComplete(fn func()) *Funcs {
	f.onComplete = fn
	return f
}

func (f *Funcs) OnSubscribe(s Subscription) {
	if f.onSubscribe == nil {
		s.Request(Unbounded)
		return
	}
	f.onSubscribe(s)
}

func (f *Funcs) OnNext(line string) {
	if f.onNext != nil {
		f.onNext(line)
	}
}

func (f *Funcs) OnError(err error) {
	if f.onError != nil {
		f.onError(err)
	}
}

func (f *Funcs) OnComplete() {
	if f.onComplete != nil {
		f.onComplete()
	}
}
