package sparse

import "testing"

func TestSetValue(t *testing.T) {
	m := NewIntMatrix(4, 4, DefaultNullValue)
	m.Set(2, 3, 4711)
	if v := m.Value(2, 3); v != 4711 {
		t.Fatalf("expected 4711, got %d", v)
	}
	if v := m.Value(1, 1); v != DefaultNullValue {
		t.Fatalf("expected null value, got %d", v)
	}
}

func TestOverwrite(t *testing.T) {
	m := NewIntMatrix(4, 4, DefaultNullValue)
	m.Set(0, 0, 1)
	m.Set(0, 0, 2)
	if m.ValueCount() != 1 {
		t.Fatalf("expected 1 stored value, got %d", m.ValueCount())
	}
	if v := m.Value(0, 0); v != 2 {
		t.Fatalf("expected overwritten value 2, got %d", v)
	}
}

func TestInsertionOrderIndependence(t *testing.T) {
	m := NewIntMatrix(10, 10, DefaultNullValue)
	m.Set(5, 5, 1)
	m.Set(1, 1, 2)
	m.Set(3, 7, 3)
	if m.Value(5, 5) != 1 || m.Value(1, 1) != 2 || m.Value(3, 7) != 3 {
		t.Fatal("value lost or corrupted under out-of-order insertion")
	}
	if m.ValueCount() != 3 {
		t.Fatalf("expected 3 values, got %d", m.ValueCount())
	}
}
