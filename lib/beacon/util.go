package beacon

import "golang.org/x/sync/errgroup"

// sequential runs fs in order and stops at the first error.
func sequential(fs ...func() error) (err error) {
	for _, f := range fs {
		err = f()
		if err != nil {
			break
		}
	}
	return
}

// concurrent runs fs in parallel, waits for all of them
// and returns the first error.
func concurrent(fs ...func() error) error {
	g := new(errgroup.Group)
	for _, f := range fs {
		g.Go(f)
	}
	return g.Wait()
}
