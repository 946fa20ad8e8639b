package api

import "testing"

// TestCoreFeatures_ZeroIsInvalid reminds maintainers that a bitset cannot use zero as a flag!
// This is why we start iota with 1.
func TestCoreFeatures_ZeroIsInvalid(t *testing.T) {
	f := CoreFeatures(0)
	f = f.SetEnabled(0, true)
	if f.IsEnabled(0) {
		t.Fatal("zero feature flag should never report enabled")
	}
}

func TestCoreFeatures(t *testing.T) {
	f := CoreFeatures(0)
	if f.IsEnabled(CoreFeatureSIMD) {
		t.Fatal("simd should start disabled")
	}
	f = f.SetEnabled(CoreFeatureSIMD, true)
	if !f.IsEnabled(CoreFeatureSIMD) {
		t.Fatal("simd should be enabled")
	}
	if f.IsEnabled(CoreFeatureBulkMemoryOperations) {
		t.Fatal("bulk-memory should remain disabled")
	}
	f = f.SetEnabled(CoreFeatureSIMD, false)
	if f.IsEnabled(CoreFeatureSIMD) {
		t.Fatal("simd should be disabled again")
	}
}
