package api

// CoreFeatures is a bitset of WebAssembly proposals this module supports
// beyond the MVP: bulk-memory, reference-types and SIMD (spec.md §1
// "PURPOSE & SCOPE"). Each feature owns one bit, starting at bit 0, so the
// zero value means "nothing enabled".
type CoreFeatures uint64

const (
	// CoreFeatureBulkMemoryOperations covers table.init/copy/fill,
	// memory.init/copy/fill and elem.drop/data.drop (spec.md §4.1 family 9).
	CoreFeatureBulkMemoryOperations CoreFeatures = 1 << iota

	// CoreFeatureReferenceTypes covers funcref/externref, ref.null/ref.is_null/
	// ref.func and table.get/set/grow/size (spec.md §4.1 family 7).
	CoreFeatureReferenceTypes

	// CoreFeatureSIMD covers the v128 value type and vector instructions
	// (spec.md §4.1 family 10).
	CoreFeatureSIMD
)

// CoreFeaturesV2 is the default feature set: all proposals this module
// implements, enabled.
const CoreFeaturesV2 = CoreFeatureBulkMemoryOperations | CoreFeatureReferenceTypes | CoreFeatureSIMD

// IsEnabled returns true if the feature is enabled.
func (f CoreFeatures) IsEnabled(feature CoreFeatures) bool {
	return f&feature != 0
}

// SetEnabled toggles a feature, returning the updated set.
func (f CoreFeatures) SetEnabled(feature CoreFeatures, enabled bool) CoreFeatures {
	if enabled {
		return f | feature
	}
	return f &^ feature
}

// String renders the enabled feature names, comma-separated.
func (f CoreFeatures) String() string {
	var s string
	for _, e := range []struct {
		flag CoreFeatures
		name string
	}{
		{CoreFeatureBulkMemoryOperations, "bulk-memory"},
		{CoreFeatureReferenceTypes, "reference-types"},
		{CoreFeatureSIMD, "simd"},
	} {
		if f.IsEnabled(e.flag) {
			if s != "" {
				s += ","
			}
			s += e.name
		}
	}
	if s == "" {
		return "none"
	}
	return s
}
