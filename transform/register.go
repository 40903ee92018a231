package transform

import "github.com/modelvault/modelvault/persist"

// Class names for the registry. Importing this package makes every
// transform reconstructible by persist.Load.
const (
	ClassLinearScaler = "transform.LinearScaler"
	ClassMinMaxScaler = "transform.MinMaxScaler"
	ClassNormalizer   = "transform.Normalizer"
)

func init() {
	persist.Register[*LinearScaler](ClassLinearScaler, newLinearScaler)
	persist.Register[*MinMaxScaler](ClassMinMaxScaler, newMinMaxScaler)
	persist.Register[*Normalizer](ClassNormalizer, newNormalizer)
}
