package domain

import (
	"reflect"
	"testing"
)

func TestMedicineListRoundTrip(t *testing.T) {
	cases := []MedicineList{
		{"Paracetamol", "Ibuprofen", "Paracetamol"},
		{"Amoxicillin, 500mg", "Cough syrup"},
		{},
	}
	for _, in := range cases {
		v, err := in.Value()
		if err != nil {
			t.Fatalf("value: %v", err)
		}
		var out MedicineList
		if err := out.Scan(v); err != nil {
			t.Fatalf("scan: %v", err)
		}
		if !reflect.DeepEqual(in, out) {
			t.Fatalf("round trip mismatch: got %#v want %#v", out, in)
		}
	}
}

func TestMedicineListScanLegacy(t *testing.T) {
	var m MedicineList
	if err := m.Scan([]byte("Aspirin, Zyrtec, Aspirin")); err != nil {
		t.Fatalf("scan: %v", err)
	}
	want := MedicineList{"Aspirin", "Zyrtec", "Aspirin"}
	if !reflect.DeepEqual(m, want) {
		t.Fatalf("got %#v want %#v", m, want)
	}
}

func TestMedicineListScanNull(t *testing.T) {
	m := MedicineList{"stale"}
	if err := m.Scan(nil); err != nil {
		t.Fatalf("scan: %v", err)
	}
	if len(m) != 0 {
		t.Fatalf("expected empty list, got %#v", m)
	}
}

func TestMedicineListScanLegacyWithLeadingBracket(t *testing.T) {
	var m MedicineList
	if err := m.Scan("[Rx] Aspirin, Zinc"); err != nil {
		t.Fatalf("scan: %v", err)
	}
	want := MedicineList{"[Rx] Aspirin", "Zinc"}
	if !reflect.DeepEqual(m, want) {
		t.Fatalf("got %#v want %#v", m, want)
	}
}
