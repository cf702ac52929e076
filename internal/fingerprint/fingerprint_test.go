package fingerprint

import "testing"

func TestCompute_Deterministic(t *testing.T) {
	ctx := ContextKey("enterprise", "eu", "2024", "contoso")
	a := Compute("sla.availability.contoso", "0.9995", ctx, 3, 0)
	b := Compute("sla.availability.contoso", "0.9995", ctx, 3, 0)
	if a != b {
		t.Errorf("identical inputs produced %q and %q", a, b)
	}
	if len(a) != DefaultWidth {
		t.Errorf("fingerprint length = %d, want %d", len(a), DefaultWidth)
	}
}

func TestCompute_AnyInputChangesHash(t *testing.T) {
	ctx := ContextKey("enterprise", "eu", "2024", "contoso")
	base := Compute("sla.availability.contoso", "0.9995", ctx, 3, 0)

	variants := []string{
		Compute("sla.availability.other", "0.9995", ctx, 3, 0),
		Compute("sla.availability.contoso", "0.999", ctx, 3, 0),
		Compute("sla.availability.contoso", "0.9995", ContextKey("basic", "eu", "2024", "contoso"), 3, 0),
		Compute("sla.availability.contoso", "0.9995", ctx, 4, 0),
	}
	for i, v := range variants {
		if v == base {
			t.Errorf("variant %d collided with the base fingerprint", i)
		}
	}
}

func TestCompute_SeparatorPreventsFieldMerging(t *testing.T) {
	// "ab"+"c" and "a"+"bc" must never hash alike
	a := Compute("ab", "c", "-", -1, 0)
	b := Compute("a", "bc", "-", -1, 0)
	if a == b {
		t.Error("adjacent fields merged across the separator")
	}
}

func TestCompute_MissingInputsUsePlaceholder(t *testing.T) {
	a := Compute("", "", "", -1, 0)
	b := Compute(MissingToken, MissingToken, MissingToken, -1, 0)
	if a != b {
		t.Error("empty and placeholder inputs should hash identically")
	}
	// Whitespace-only counts as missing
	c := Compute("  ", "\t", " ", -1, 0)
	if c != a {
		t.Error("whitespace-only inputs should hash as missing")
	}
}

func TestCompute_Width(t *testing.T) {
	full := Compute("k", "v", "c", 1, 64)
	if len(full) != 64 {
		t.Errorf("width 64 gave length %d", len(full))
	}
	short := Compute("k", "v", "c", 1, 8)
	if len(short) != 8 {
		t.Errorf("width 8 gave length %d", len(short))
	}
	if full[:8] != short {
		t.Error("truncation must be a prefix of the full hash")
	}
	// Oversized width clamps to the hash length
	if got := Compute("k", "v", "c", 1, 500); len(got) != 64 {
		t.Errorf("oversized width gave length %d", len(got))
	}
}

func TestContextKey(t *testing.T) {
	if got := ContextKey("enterprise", "eu", "2024", "contoso"); got != "enterprise:eu:2024:contoso" {
		t.Errorf("ContextKey = %q", got)
	}
	if got := ContextKey("", "eu", "", ""); got != "-:eu:-:-" {
		t.Errorf("ContextKey with gaps = %q", got)
	}
}

func TestPageBucket(t *testing.T) {
	if got := PageBucket(7); got != "p7" {
		t.Errorf("PageBucket(7) = %q", got)
	}
	if got := PageBucket(0); got != "p0" {
		t.Errorf("PageBucket(0) = %q", got)
	}
	if got := PageBucket(-1); got != MissingToken {
		t.Errorf("PageBucket(-1) = %q", got)
	}
}
