package bitx

import "testing"

func TestSetClearAssign(t *testing.T) {
	var r uint32
	r = Set(r, Bit[uint32](5))
	if !Has(r, 5) || r != 0x20 {
		t.Fatalf("Set: got %#x", r)
	}
	r = Assign(r, Bit[uint32](0), true)
	r = Assign(r, Bit[uint32](5), false)
	if r != 0x1 {
		t.Fatalf("Assign: got %#x", r)
	}
	if r = Clear(r, 0x1); r != 0 {
		t.Fatalf("Clear: got %#x", r)
	}
}

func TestReplaceField(t *testing.T) {
	cases := []struct {
		v, value, mask uint32
		shift          uint8
		want           uint32
	}{
		{0x0000, 0x2, 0xF, 4, 0x0020},
		{0xFFFF, 0x0, 0xF, 8, 0xF0FF},
		{0x1234, 0x7, 0xF, 12, 0x7234},
		{0x0000, 0x1F, 0xF, 0, 0x000F}, // truncated to mask
	}
	for _, tc := range cases {
		got := Replace(tc.v, tc.value, tc.mask, tc.shift)
		if got != tc.want {
			t.Fatalf("Replace(%#x,%#x,%#x,%d)=%#x want %#x", tc.v, tc.value, tc.mask, tc.shift, got, tc.want)
		}
		if f := Field(got, tc.mask, tc.shift); f != tc.value&tc.mask {
			t.Fatalf("Field=%#x want %#x", f, tc.value&tc.mask)
		}
	}
}
