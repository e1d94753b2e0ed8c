package bow

import (
	"errors"
	"testing"

	"github.com/cognicore/lexicorp/pkg/lexicorp/internalerr"
	"github.com/cognicore/lexicorp/pkg/lexicorp/vocabulary"
)

func TestEncodeAll(t *testing.T) {
	texts := [][]string{{"b", "b"}, {"b", "c", "c"}}
	v := vocabulary.Build(texts)

	vectors, err := EncodeAll(texts, v)
	if err != nil {
		t.Fatalf("EncodeAll: %v", err)
	}

	want := []Vector{
		{{ID: 0, Count: 2}},
		{{ID: 0, Count: 1}, {ID: 1, Count: 2}},
	}
	if len(vectors) != len(want) {
		t.Fatalf("got %d vectors, want %d", len(vectors), len(want))
	}
	for i := range want {
		if !vectors[i].Equal(want[i]) {
			t.Errorf("vector %d = %v, want %v", i, vectors[i], want[i])
		}
	}
}

func TestEncodeSortsByID(t *testing.T) {
	v := vocabulary.Build([][]string{{"z", "y", "x"}})

	vec, err := Encode([]string{"x", "z", "x", "y", "x"}, v)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	want := Vector{{ID: 0, Count: 1}, {ID: 1, Count: 1}, {ID: 2, Count: 3}}
	if !vec.Equal(want) {
		t.Errorf("Encode = %v, want %v", vec, want)
	}
}

func TestEncodeIsDeterministic(t *testing.T) {
	text := []string{"q", "w", "e", "q", "r", "w", "q"}
	v := vocabulary.Build([][]string{text})

	first, err := Encode(text, v)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	for i := 0; i < 20; i++ {
		again, err := Encode(text, v)
		if err != nil {
			t.Fatalf("Encode: %v", err)
		}
		if !again.Equal(first) {
			t.Fatalf("encoding differs: %v vs %v", again, first)
		}
	}
}

func TestEncodeEmpty(t *testing.T) {
	vec, err := Encode(nil, vocabulary.New())
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if len(vec) != 0 {
		t.Errorf("expected empty vector, got %v", vec)
	}
}

func TestEncodeUnknownToken(t *testing.T) {
	v := vocabulary.Build([][]string{{"known"}})

	_, err := EncodeAll([][]string{{"known"}, {"known", "stranger"}}, v)
	if err == nil {
		t.Fatal("expected error for unknown token")
	}

	var unknown *UnknownTokenError
	if !errors.As(err, &unknown) {
		t.Fatalf("expected UnknownTokenError, got %T: %v", err, err)
	}
	if unknown.Token != "stranger" {
		t.Errorf("Token = %q, want stranger", unknown.Token)
	}
	if !errors.Is(err, internalerr.ErrUnknownToken) {
		t.Error("error should match ErrUnknownToken")
	}
}
