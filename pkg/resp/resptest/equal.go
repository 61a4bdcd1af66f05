// Package resptest provides assertion helpers for RESP values.
//
// Equal implements domain equality: two doubles that are both NaN compare
// equal. That rule only makes sense in tests, so it lives here and not in
// package resp.
package resptest

import (
	"math"
	"testing"

	"github.com/yndnr/kvwire-go/pkg/resp"
)

// Equal reports whether a and b are the same value. Arrays compare
// element-wise and are sensitive to order and length. NaN equals NaN.
func Equal(a, b resp.Value) bool {
	if a.Kind() != b.Kind() {
		return false
	}
	switch a.Kind() {
	case resp.KindNull:
		return true
	case resp.KindBoolean:
		return a.Bool() == b.Bool()
	case resp.KindInteger:
		return a.Int() == b.Int()
	case resp.KindBigInteger:
		return a.BigInt().Cmp(b.BigInt()) == 0
	case resp.KindDouble:
		x, y := a.Float(), b.Float()
		if math.IsNaN(x) || math.IsNaN(y) {
			return math.IsNaN(x) && math.IsNaN(y)
		}
		return x == y
	case resp.KindArray:
		if a.Len() != b.Len() {
			return false
		}
		for i := 0; i < a.Len(); i++ {
			if !Equal(a.Index(i), b.Index(i)) {
				return false
			}
		}
		return true
	default:
		return a.Text() == b.Text()
	}
}

// AssertEqual fails the test when got and want differ.
func AssertEqual(t testing.TB, got, want resp.Value) {
	t.Helper()
	if !Equal(got, want) {
		t.Errorf("value = %s (%s), want %s (%s)", got, got.Kind(), want, want.Kind())
	}
}
