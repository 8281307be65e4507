package columns_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/KaramelBytes/bmicsv/internal/columns"
)

func TestNormalize(t *testing.T) {
	cases := map[string]string{
		"Peso (kg)":      "peso_kg",
		"  ALTURA  ":     "altura",
		"Altura em m":    "altura_em_m",
		"4.altura_em_m":  "4_altura_em_m",
		"Estatura__(m)":  "estatura_m",
		"Massa Corpórea": "massa_corporea",
		"Tamanho ñ":      "tamanho_n",
		"--":             "",
		"Height [m]":     "height_m",
		"Peso\u00a0(kg)": "peso_kg",
	}
	for in, want := range cases {
		if got := columns.Normalize(in); got != want {
			t.Errorf("Normalize(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestResolve_Synonyms(t *testing.T) {
	r := columns.NewResolver(nil, nil)
	b, err := r.Resolve([]string{"paciente", "Peso (kg)", "Altura"}, columns.Overrides{})
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if b.Weight != "Peso (kg)" || b.Height != "Altura" {
		t.Fatalf("unexpected binding: %+v", b)
	}
}

func TestResolve_OrderIndependent(t *testing.T) {
	r := columns.NewResolver(nil, nil)
	orders := [][]string{
		{"Nome", "WEIGHT", "Height (m)"},
		{"Height (m)", "Nome", "WEIGHT"},
		{"WEIGHT", "Height (m)", "Nome"},
	}
	for _, headers := range orders {
		b, err := r.Resolve(headers, columns.Overrides{})
		if err != nil {
			t.Fatalf("%v: %v", headers, err)
		}
		if b.Weight != "WEIGHT" || b.Height != "Height (m)" {
			t.Fatalf("%v: unexpected binding %+v", headers, b)
		}
	}
}

func TestResolve_TokenFallback(t *testing.T) {
	r := columns.NewResolver(nil, nil)
	b, err := r.Resolve([]string{"Peso (kg)", "Altura em m"}, columns.Overrides{})
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if b.Height != "Altura em m" {
		t.Fatalf("expected token match for height, got %+v", b)
	}
	// exact synonyms beat token matches regardless of position
	b, err = r.Resolve([]string{"altura_em_cm", "peso", "altura"}, columns.Overrides{})
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if b.Height != "altura" {
		t.Fatalf("exact match should win, got %+v", b)
	}
}

func TestResolve_Overrides(t *testing.T) {
	r := columns.NewResolver(nil, nil)
	b, err := r.Resolve([]string{"kg", "cm", "peso"}, columns.Overrides{Weight: "kg", Height: "cm"})
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if b.Weight != "kg" || b.Height != "cm" {
		t.Fatalf("overrides ignored: %+v", b)
	}
	// overrides match raw names only
	if _, err := r.Resolve([]string{"Peso (kg)", "altura"}, columns.Overrides{Weight: "peso_kg"}); err == nil {
		t.Fatalf("expected error for override that only matches after normalization")
	}
	// a partial override is completed by the heuristic
	b, err = r.Resolve([]string{"kg", "altura"}, columns.Overrides{Weight: "kg"})
	if err != nil || b.Height != "altura" {
		t.Fatalf("partial override: %+v, %v", b, err)
	}
}

func TestResolve_ExtraSynonyms(t *testing.T) {
	r := columns.NewResolver([]string{"Peso Corporal"}, []string{"Alt."})
	b, err := r.Resolve([]string{"PESO_CORPORAL", "alt"}, columns.Overrides{})
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if b.Weight != "PESO_CORPORAL" || b.Height != "alt" {
		t.Fatalf("unexpected binding: %+v", b)
	}
}

func TestResolve_Unresolved(t *testing.T) {
	r := columns.NewResolver(nil, nil)
	_, err := r.Resolve([]string{"nome", "idade", "peso"}, columns.Overrides{})
	var ue *columns.UnresolvedError
	if !errors.As(err, &ue) {
		t.Fatalf("expected UnresolvedError, got %v", err)
	}
	if len(ue.Missing) != 1 || ue.Missing[0] != "height" {
		t.Fatalf("unexpected missing roles: %v", ue.Missing)
	}
	if !strings.Contains(err.Error(), "nome, idade, peso") {
		t.Fatalf("error should list headers: %v", err)
	}
}

func TestResolve_TokenPassOrderIndependent(t *testing.T) {
	r := columns.NewResolver(nil, nil)
	orders := [][]string{
		{"peso", "Altura (cm)", "Tamanho camisa"},
		{"peso", "Tamanho camisa", "Altura (cm)"},
		{"Tamanho camisa", "Altura (cm)", "peso"},
		{"Altura (cm)", "peso", "Tamanho camisa"},
	}
	for _, headers := range orders {
		b, err := r.Resolve(headers, columns.Overrides{})
		if err != nil {
			t.Fatalf("%v: %v", headers, err)
		}
		if b.Weight != "peso" || b.Height != "Altura (cm)" {
			t.Fatalf("%v: unexpected binding %+v", headers, b)
		}
	}
}

func TestResolve_TokenPassPrefersLeadingToken(t *testing.T) {
	r := columns.NewResolver(nil, nil)
	for _, headers := range [][]string{
		{"Peso", "Medida altura", "Estatura em cm"},
		{"Peso", "Estatura em cm", "Medida altura"},
	} {
		b, err := r.Resolve(headers, columns.Overrides{})
		if err != nil {
			t.Fatalf("%v: %v", headers, err)
		}
		if b.Height != "Estatura em cm" {
			t.Fatalf("%v: height %q, want %q", headers, b.Height, "Estatura em cm")
		}
	}
}

func TestResolve_TokenPassSkipsDerivedAndMixedHeaders(t *testing.T) {
	r := columns.NewResolver(nil, nil)
	tests := []struct {
		name    string
		headers []string
		want    columns.Binding
	}{
		{"body mass index", []string{"Body mass index", "Peso (lb)", "altura"}, columns.Binding{Weight: "Peso (lb)", Height: "altura"}},
		{"imc column", []string{"IMC peso", "peso_atual", "altura"}, columns.Binding{Weight: "peso_atual", Height: "altura"}},
		{"header naming both roles", []string{"Razao peso altura", "peso", "Altura em m"}, columns.Binding{Weight: "peso", Height: "Altura em m"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b, err := r.Resolve(tt.headers, columns.Overrides{})
			if err != nil {
				t.Fatalf("resolve: %v", err)
			}
			if b != tt.want {
				t.Fatalf("got %+v, want %+v", b, tt.want)
			}
		})
	}
}

func TestResolve_ReservedOutputNames(t *testing.T) {
	r := columns.NewResolver(nil, nil).Reserve("peso_ideal")
	b, err := r.Resolve([]string{"Peso ideal", "Peso medido", "altura"}, columns.Overrides{})
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if b.Weight != "Peso medido" {
		t.Fatalf("reserved header bound as weight: %+v", b)
	}
}
