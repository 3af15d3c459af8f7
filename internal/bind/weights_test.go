package bind

import (
	"errors"
	"math"
	"math/rand"
	"testing"

	"skinbind/internal/skin"
)

func TestAccumulateCoefficientPassthrough(t *testing.T) {
	table := skin.NewTable([][]skin.BoneWeight{
		{{Bone: 5, Weight: 1}},
		{{Bone: 5, Weight: 1}},
	})
	acc := Accumulate([]Contribution{{Vertex: 0, Coefficient: 2}, {Vertex: 1, Coefficient: 1}}, table)
	if len(acc) != 1 || math.Abs(acc[5]-3) > 1e-12 {
		t.Fatalf("want {5: 3}, got %v", acc)
	}
	norm, err := Normalize(acc)
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	if math.Abs(norm[5]-1) > 1e-12 {
		t.Fatalf("single contributor should normalize to 1, got %v", norm)
	}
}

func TestAccumulateSkipsNonPositiveCoefficients(t *testing.T) {
	table := skin.NewTable([][]skin.BoneWeight{
		{{Bone: 0, Weight: 1}},
		{{Bone: 1, Weight: 1}},
		{{Bone: 2, Weight: 1}},
		{{Bone: 3, Weight: 1}},
	})
	acc := Accumulate([]Contribution{
		{Vertex: 0, Coefficient: -0.5},
		{Vertex: 1, Coefficient: 0},
		{Vertex: 2, Coefficient: math.NaN()},
		{Vertex: 3, Coefficient: 0.25},
	}, table)
	if len(acc) != 1 || acc[3] != 0.25 {
		t.Fatalf("only vertex 3 should contribute, got %v", acc)
	}
}

func TestAccumulateBlendsSharedBones(t *testing.T) {
	table := skin.NewTable([][]skin.BoneWeight{
		{{Bone: 0, Weight: 0.5}, {Bone: 1, Weight: 0.5}},
		{{Bone: 1, Weight: 1}},
	})
	acc := Accumulate([]Contribution{{Vertex: 0, Coefficient: 0.5}, {Vertex: 1, Coefficient: 0.5}}, table)
	if math.Abs(acc[0]-0.25) > 1e-12 || math.Abs(acc[1]-0.75) > 1e-12 {
		t.Fatalf("unexpected blend %v", acc)
	}
}

func TestNormalizeSumsToOne(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	for n := 0; n < 200; n++ {
		w := make(Weights)
		for i := 0; i < 1+rng.Intn(8); i++ {
			w[rng.Intn(64)] += rng.Float64()*3 + 1e-3
		}
		out, err := Normalize(w)
		if err != nil {
			t.Fatalf("Normalize(%v): %v", w, err)
		}
		if math.Abs(out.Sum()-1) > 1e-5 {
			t.Fatalf("normalized weights sum to %g", out.Sum())
		}
		if len(out) != len(w) {
			t.Fatalf("normalize changed the key set: %v -> %v", w, out)
		}
	}
}

func TestNormalizeDoesNotMutateInput(t *testing.T) {
	w := Weights{1: 2, 2: 6}
	if _, err := Normalize(w); err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	if w[1] != 2 || w[2] != 6 {
		t.Fatalf("input was modified: %v", w)
	}
}

func TestNormalizeZeroSum(t *testing.T) {
	for _, w := range []Weights{{}, {3: 0}, nil, {1: math.Inf(1)}} {
		out, err := Normalize(w)
		if !errors.Is(err, ErrNoContribution) {
			t.Fatalf("Normalize(%v): want ErrNoContribution, got %v", w, err)
		}
		if out != nil {
			t.Fatalf("no weights expected on failure, got %v", out)
		}
	}
}
