package sprig

// Completion is the single notification a sequence delivers when it
// finishes (nil error), fails (*StepError) or is reset (ErrReset).
type Completion struct {
	settled   bool
	err       error
	callbacks []func(error)
}

// Then registers fn to run when the completion settles. If it has already
// settled, fn runs immediately. Returns c so calls can be chained.
func (c *Completion) Then(fn func(err error)) *Completion {
	if c.settled {
		fn(c.err)
		return c
	}
	c.callbacks = append(c.callbacks, fn)
	return c
}

// Chain starts next once c settles successfully and returns a Completion
// for the whole chain. If c settles with an error, next is not called and
// the chain settles with that error.
func (c *Completion) Chain(next func() *Completion) *Completion {
	out := &Completion{}
	c.Then(func(err error) {
		if err != nil {
			out.settle(err)
			return
		}
		next().Then(out.settle)
	})
	return out
}

// Settled reports whether the completion has fired.
func (c *Completion) Settled() bool {
	return c.settled
}

// Err returns the settlement error. Only meaningful once Settled is true.
func (c *Completion) Err() error {
	return c.err
}

func (c *Completion) settle(err error) {
	if c.settled {
		return
	}
	c.settled = true
	c.err = err
	callbacks := c.callbacks
	c.callbacks = nil
	for _, fn := range callbacks {
		fn(err)
	}
}
