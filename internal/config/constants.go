package config

// DefaultCacheLimit is the number of distinct input kinds a call site
// specializes before it goes megamorphic.
const DefaultCacheLimit = 5

// MaxCacheLimit bounds configured limits; guards are tried linearly.
const MaxCacheLimit = 64

// DefaultLogLevel is used when neither the config file nor the CLI sets one.
const DefaultLogLevel = "warn"

// Target names, one per native representation a coercion can produce.
const (
	TargetI1     = "i1"
	TargetI8     = "i8"
	TargetI16    = "i16"
	TargetI32    = "i32"
	TargetI64    = "i64"
	TargetFloat  = "float"
	TargetDouble = "double"
)

// Targets lists every known target name in width order.
var Targets = []string{TargetI1, TargetI8, TargetI16, TargetI32, TargetI64, TargetFloat, TargetDouble}

// IsTarget reports whether name is a known target.
func IsTarget(name string) bool {
	for _, t := range Targets {
		if t == name {
			return true
		}
	}
	return false
}

// Log field names shared by every component that logs.
const (
	SiteLogField   = "site"
	TargetLogField = "target"
	KindLogField   = "kind"
)
