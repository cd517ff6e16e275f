package config

import (
	"errors"
	"fmt"

	"github.com/qdm12/gosettings"
	"github.com/qdm12/gosettings/reader"
	"github.com/qdm12/gotree"
)

type Files struct {
	// Jobs is the number of files searched in parallel.
	Jobs *int
}

func (f *Files) setDefaults() {
	f.Jobs = gosettings.DefaultPointer(f.Jobs, 1)
}

var ErrJobsNotPositive = errors.New("jobs must be at least 1")

func (f Files) Validate() (err error) {
	if *f.Jobs < 1 {
		return fmt.Errorf("%w: %d", ErrJobsNotPositive, *f.Jobs)
	}
	return nil
}

func (f Files) String() string {
	return f.toLinesNode().String()
}

func (f Files) toLinesNode() *gotree.Node {
	node := gotree.New("Files")
	node.Appendf("Jobs: %d", *f.Jobs)
	return node
}

func (f *Files) read(r *reader.Reader) (err error) {
	if f.Jobs != nil {
		return nil
	}

	jobs, err := r.Uint16Ptr("IPGREP_JOBS")
	if err != nil {
		return err
	} else if jobs != nil {
		f.Jobs = ptrTo(int(*jobs))
	}
	return nil
}
