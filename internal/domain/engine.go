package domain

import "fmt"

// RunMode distinguishes live-capital execution from shadow simulation.
type RunMode string

const (
	RunModePrimary RunMode = "PRIMARY"
	RunModeShadow  RunMode = "SHADOW"
)

// AssetClass identifies the instrument universe an engine trades.
type AssetClass string

const (
	AssetClassStock  AssetClass = "stock"
	AssetClassCrypto AssetClass = "crypto"
)

// EngineIdentity uniquely identifies one strategy configuration.
// Immutable once created; a new version is a new identity.
type EngineIdentity struct {
	EngineKey     string
	EngineVersion string
	RunMode       RunMode
	AssetClass    AssetClass
}

// String returns a stable human-readable identity label, used in logs
// and as a map key for per-engine results.
func (id EngineIdentity) String() string {
	return fmt.Sprintf("%s/%s/%s/%s", id.EngineKey, id.EngineVersion, id.RunMode, id.AssetClass)
}
