package model

import (
	"github.com/go-playground/validator/v10"

	bterrors "github.com/matzehuels/branchtime/pkg/errors"
)

// paramsValidate checks the struct tags on Parameters.
var paramsValidate *validator.Validate

func init() {
	paramsValidate = validator.New()
}

// Parameters are the global model scalars for one run.
type Parameters struct {
	// MutationRate is the per-character mutation rate r.
	MutationRate float64 `toml:"mutation_rate" yaml:"mutation_rate" validate:"gt=0"`

	// Lambda is the lineage division rate.
	Lambda float64 `toml:"lambda" yaml:"lambda" validate:"gt=0"`

	// SamplingProbability is the chance that an extant lineage is sampled.
	SamplingProbability float64 `toml:"sampling_probability" yaml:"sampling_probability" validate:"gte=0,lte=1"`

	// GridSize is the number of time points T.
	GridSize int `toml:"grid_size" yaml:"grid_size" validate:"gt=0"`

	// Characters is the total number of trackable characters K.
	Characters int `toml:"characters" yaml:"characters" validate:"gte=0"`
}

// Validate returns an INVALID_PARAMETER error describing every field that
// is out of range or not finite.
func (p Parameters) Validate() error {
	if err := bterrors.FromValidator(paramsValidate.Struct(p)); err != nil {
		return err
	}
	for _, f := range []struct {
		name string
		v    float64
	}{
		{"mutation_rate", p.MutationRate},
		{"lambda", p.Lambda},
		{"sampling_probability", p.SamplingProbability},
	} {
		if err := bterrors.ValidateFinite(f.name, f.v); err != nil {
			return err
		}
	}
	return nil
}
