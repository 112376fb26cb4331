// pkg/driver/types.go
package driver

// Reading is one decoded weight measurement from a scale.
type Reading struct {
	Weight   float64
	Stable   bool
	Overload bool
}
