package heys

import (
	"math/rand"
	"testing"
)

func mustTables(t *testing.T, s SBox) *CipherTables {
	t.Helper()
	tables, err := BuildTables(s)
	if err != nil {
		t.Fatalf("BuildTables failed: %v", err)
	}
	return tables
}

func TestSBoxValidateRejectsNonBijective(t *testing.T) {
	bad := DefaultSBox
	bad[1] = bad[0] // duplicate output value
	if err := bad.Validate(); err == nil {
		t.Fatal("expected Validate to reject a non-bijective s-box")
	}
}

func TestSBoxInverseRoundTrips(t *testing.T) {
	inv := DefaultSBox.Inverse()
	for x := 0; x < SBoxSize; x++ {
		if inv[DefaultSBox[x]] != byte(x) {
			t.Fatalf("inverse mismatch at x=%d", x)
		}
	}
}

func TestPermutationFixedPoint(t *testing.T) {
	perm := Permute16()
	if perm[FixedPointMask] != FixedPointMask {
		t.Fatalf("PERM[0x%04x] = 0x%04x, want fixed point", FixedPointMask, perm[FixedPointMask])
	}
}

func TestPermutationInvolution(t *testing.T) {
	perm := Permute16()
	rng := rand.New(rand.NewSource(7))
	for i := 0; i < 2000; i++ {
		w := uint16(rng.Uint32())
		if perm[perm[w]] != w {
			t.Fatalf("PERM[PERM[0x%04x]] != 0x%04x", w, w)
		}
	}
}

func TestPermutationInvolutionExhaustive(t *testing.T) {
	perm := Permute16()
	for w := 0; w < 1<<16; w++ {
		if int(perm[perm[w]]) != w {
			t.Fatalf("PERM[PERM[%d]] != %d", w, w)
		}
	}
}

func TestPermutationSamples(t *testing.T) {
	perm := Permute16()
	cases := []struct{ in, want uint16 }{
		{0x2B12, 0x40D6},
		{0x59CB, 0x7A1D},
		{0x1001, 0x0009},
	}
	for _, c := range cases {
		if got := perm[c.in]; got != c.want {
			t.Errorf("PERM[0x%04x] = 0x%04x, want 0x%04x", c.in, got, c.want)
		}
	}
}

func TestExpandedSBoxInverse(t *testing.T) {
	tables := mustTables(t, DefaultSBox)
	for w := 0; w < 1<<16; w += 37 {
		x := uint16(w)
		if tables.SBox16Inv[tables.SBox16[x]] != x {
			t.Fatalf("SBOX16_INV[SBOX16[0x%04x]] != 0x%04x", x, x)
		}
		if tables.SBox16[tables.SBox16Inv[x]] != x {
			t.Fatalf("SBOX16[SBOX16_INV[0x%04x]] != 0x%04x", x, x)
		}
	}
}

func TestRoundTripKnownAnswer(t *testing.T) {
	tables := mustTables(t, DefaultSBox)
	keys := []uint16{0xFECC, 0x1488, 0xA23F, 0xE323, 0x1444, 0x2012, 0x0EAA}
	cipher, err := New(tables, keys)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	const x = 0x4213
	ct := cipher.EncryptBlock(x)
	pt := cipher.DecryptBlock(ct)
	if pt != x {
		t.Fatalf("decrypt(encrypt(0x%04x)) = 0x%04x, want 0x%04x", x, pt, x)
	}
}

func TestRoundTripRandomProperty(t *testing.T) {
	tables := mustTables(t, DefaultSBox)
	rng := rand.New(rand.NewSource(42))

	for trial := 0; trial < 200; trial++ {
		keys := make([]uint16, 7)
		for i := range keys {
			keys[i] = uint16(rng.Uint32())
		}
		cipher, err := New(tables, keys)
		if err != nil {
			t.Fatalf("New failed: %v", err)
		}
		x := uint16(rng.Uint32())
		if got := cipher.DecryptBlock(cipher.EncryptBlock(x)); got != x {
			t.Fatalf("trial %d: round-trip failed for key=%v x=0x%04x got=0x%04x", trial, keys, x, got)
		}
	}
}

func TestEncryptDecryptVectorWrappers(t *testing.T) {
	tables := mustTables(t, DefaultSBox)
	keys := []uint16{0x42, 0xfc, 0xaf, 0x13, 0x1488, 0x1984, 0xeaa}
	cipher, err := New(tables, keys)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	inputs := make([]uint16, 256)
	for i := range inputs {
		inputs[i] = uint16(i)
	}
	ct := cipher.Encrypt(inputs)
	pt := cipher.Decrypt(ct)
	for i, x := range inputs {
		if pt[i] != x {
			t.Fatalf("vector round-trip mismatch at %d: got 0x%04x want 0x%04x", i, pt[i], x)
		}
	}
}

func TestNewRejectsShortKeySchedule(t *testing.T) {
	tables := mustTables(t, DefaultSBox)
	if _, err := New(tables, []uint16{0x01}); err == nil {
		t.Fatal("expected ParameterError for a key schedule of length 1")
	}
}
