package pipeline

import (
	"wrangle/pkg/data"
)

// Transformer learns parameters from a training partition and applies them
// unchanged to any partition.
type Transformer interface {
	Fit(train *data.Dataset) error
	Transform(ds *data.Dataset) (*data.Dataset, error)
}

// Pipeline chains transformers. Each step is fit on the output of the
// previous step over train.
type Pipeline struct {
	steps []Transformer
}

func NewPipeline(steps ...Transformer) *Pipeline {
	return &Pipeline{steps: steps}
}

// Fit fits every step on train and returns train transformed by all steps.
func (p *Pipeline) Fit(train *data.Dataset) (*data.Dataset, error) {
	for _, step := range p.steps {
		if err := step.Fit(train); err != nil {
			return nil, err
		}
		var err error
		if train, err = step.Transform(train); err != nil {
			return nil, err
		}
	}
	return train, nil
}

// Transform applies the fitted steps to ds.
func (p *Pipeline) Transform(ds *data.Dataset) (*data.Dataset, error) {
	for _, step := range p.steps {
		var err error
		if ds, err = step.Transform(ds); err != nil {
			return nil, err
		}
	}
	return ds, nil
}

// Apply fits on train and transforms train followed by each of rest, in order.
func (p *Pipeline) Apply(train *data.Dataset, rest ...*data.Dataset) ([]*data.Dataset, error) {
	fitted, err := p.Fit(train)
	if err != nil {
		return nil, err
	}
	out := []*data.Dataset{fitted}
	for _, ds := range rest {
		t, err := p.Transform(ds)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, nil
}

// Func adapts a stateless dataset function into a Transformer whose Fit is a
// no-op.
type Func func(ds *data.Dataset) (*data.Dataset, error)

func (f Func) Fit(*data.Dataset) error { return nil }

func (f Func) Transform(ds *data.Dataset) (*data.Dataset, error) { return f(ds) }
