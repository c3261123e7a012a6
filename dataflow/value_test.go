package dataflow

import (
	"encoding/json"
	"testing"
)

func TestDataType_EqualAcrossKindIsFalse(t *testing.T) {
	if None.Equal(Int(0)) {
		t.Fatal("None must not equal Int(0)")
	}
}

func TestDataType_CompareCrossVariantOrdersByKind(t *testing.T) {
	if !None.Less(Int(0)) {
		t.Fatal("None must sort before Integer regardless of value")
	}
	if !Int(0).Less(Text("")) {
		t.Fatal("Integer must sort before Text")
	}
	if !Text("").Less(Bool(false)) {
		t.Fatal("Text must sort before Boolean")
	}
	if !Bool(false).Less(Float(0)) {
		t.Fatal("Boolean must sort before Float")
	}
}

func TestDataType_CompareWithinVariant(t *testing.T) {
	if !Int(1).Less(Int(2)) {
		t.Fatal("1 must sort before 2")
	}
	if !Text("a").Less(Text("b")) {
		t.Fatal("\"a\" must sort before \"b\"")
	}
	if !Bool(false).Less(Bool(true)) {
		t.Fatal("false must sort before true")
	}
	if !Float(1.5).Less(Float(2.5)) {
		t.Fatal("1.5 must sort before 2.5")
	}
}

func TestComparisonOp_Matches(t *testing.T) {
	cases := []struct {
		op       ComparisonOp
		a, b     DataType
		expected bool
	}{
		{OpEqual, Int(1), Int(1), true},
		{OpEqual, Int(1), Int(2), false},
		{OpNotEqual, Int(1), Int(2), true},
		{OpGreaterThan, Int(50), Int(30), true},
		{OpGreaterThan, Int(20), Int(30), false},
		{OpLessThan, Int(20), Int(30), true},
		{OpGreaterEqual, Int(30), Int(30), true},
		{OpLessEqual, Int(30), Int(30), true},
	}
	for _, c := range cases {
		if got := c.op.Matches(c.a, c.b); got != c.expected {
			t.Errorf("%v.Matches(%v, %v) = %v, want %v", c.op, c.a, c.b, got, c.expected)
		}
	}
}

func TestComparisonOp_UnknownPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected Matches to panic on an unknown op")
		}
	}()
	ComparisonOp(99).Matches(Int(1), Int(1))
}

func TestDataType_JSONRoundTrip(t *testing.T) {
	values := []DataType{Int(42), Text("hi"), Bool(true), Float(3.5), None}
	for _, v := range values {
		b, err := json.Marshal(v)
		if err != nil {
			t.Fatalf("Marshal(%v): %v", v, err)
		}
		var got DataType
		if err := json.Unmarshal(b, &got); err != nil {
			t.Fatalf("Unmarshal(%s): %v", b, err)
		}
		if !got.Equal(v) {
			t.Errorf("round trip: got %v, want %v", got, v)
		}
	}
}

func TestDataType_UnmarshalUnknownKind(t *testing.T) {
	var d DataType
	err := json.Unmarshal([]byte(`{"kind":"Bogus"}`), &d)
	if err == nil {
		t.Fatal("expected an error for an unknown kind")
	}
}
