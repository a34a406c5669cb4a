package cloud

import (
	"errors"
	"strings"
	"testing"

	"iontrap-job-client/internal/domain"
	"iontrap-job-client/internal/domain/model"
)

func TestToOpenQASM(t *testing.T) {
	t.Run("renders program with gates, params and measurement", func(t *testing.T) {
		circuit := &model.StaticCircuit{
			NumQubits: 2,
			Gates: []model.Operation{
				{Gate: "Hadamard", Wires: []int{0}},
				{Gate: "CNOT", Wires: []int{0, 1}},
				{Gate: "RX", Wires: []int{1}, Params: []float64{0.5}},
			},
		}

		got, err := ToOpenQASM(circuit)
		if err != nil {
			t.Fatalf("expected no error, but got: %v", err)
		}

		want := "OPENQASM 2.0;\n" +
			"include \"qelib1.inc\";\n" +
			"qreg q[2];\n" +
			"creg c[2];\n" +
			"h q[0];\n" +
			"cx q[0],q[1];\n" +
			"rx(0.5) q[1];\n" +
			"measure q -> c;\n"
		if got != want {
			t.Errorf("program mismatch:\ngot:\n%s\nwant:\n%s", got, want)
		}
	})

	t.Run("translates inverse and phase gates", func(t *testing.T) {
		circuit := &model.StaticCircuit{
			NumQubits: 1,
			Gates: []model.Operation{
				{Gate: "S.inv", Wires: []int{0}},
				{Gate: "T.inv", Wires: []int{0}},
				{Gate: "PhaseShift", Wires: []int{0}, Params: []float64{1.5707963267948966}},
			},
		}
		got, err := ToOpenQASM(circuit)
		if err != nil {
			t.Fatalf("expected no error, but got: %v", err)
		}
		for _, line := range []string{"sdg q[0];", "tdg q[0];", "u1(1.5707963267948966) q[0];"} {
			if !strings.Contains(got, line) {
				t.Errorf("expected program to contain %q:\n%s", line, got)
			}
		}
	})

	t.Run("rejects unsupported gate", func(t *testing.T) {
		circuit := &model.StaticCircuit{
			NumQubits: 1,
			Gates:     []model.Operation{{Gate: "QubitUnitary", Wires: []int{0}}},
		}
		_, err := ToOpenQASM(circuit)
		if err == nil {
			t.Fatal("expected an error for unsupported gate, but got nil")
		}
		if !errors.Is(err, domain.ErrValidation) {
			t.Errorf("expected error to be ErrValidation, but got %v", err)
		}
	})

	t.Run("rejects out-of-range wire", func(t *testing.T) {
		circuit := &model.StaticCircuit{
			NumQubits: 1,
			Gates:     []model.Operation{{Gate: "PauliX", Wires: []int{3}}},
		}
		_, err := ToOpenQASM(circuit)
		if !errors.Is(err, domain.ErrValidation) {
			t.Errorf("expected error to be ErrValidation, but got %v", err)
		}
	})

	t.Run("rejects empty circuit register", func(t *testing.T) {
		_, err := ToOpenQASM(&model.StaticCircuit{NumQubits: 0})
		if !errors.Is(err, domain.ErrValidation) {
			t.Errorf("expected error to be ErrValidation, but got %v", err)
		}
	})
}

func TestSupportedGates(t *testing.T) {
	gates := SupportedGates()
	if len(gates) != len(openQASMGates) {
		t.Fatalf("expected %d gates, got %d", len(openQASMGates), len(gates))
	}
	seen := make(map[string]bool, len(gates))
	for _, g := range gates {
		seen[g] = true
	}
	for _, name := range []string{"CNOT", "Hadamard", "Toffoli", "PhaseShift"} {
		if !seen[name] {
			t.Errorf("expected %s to be supported", name)
		}
	}
}
