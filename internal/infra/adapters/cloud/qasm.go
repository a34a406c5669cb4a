package cloud

import (
	"fmt"
	"strconv"
	"strings"

	"iontrap-job-client/internal/domain"
	"iontrap-job-client/internal/domain/model"
)

// openQASMGates maps framework-level gate names to OpenQASM 2.0 (qelib1)
// equivalents. This is the full vocabulary the remote service accepts;
// anything outside it is rejected before submission.
var openQASMGates = map[string]string{
	"CNOT":       "cx",
	"CZ":         "cz",
	"U3":         "u3",
	"U2":         "u2",
	"U1":         "u1",
	"Identity":   "id",
	"PauliX":     "x",
	"PauliY":     "y",
	"PauliZ":     "z",
	"Hadamard":   "h",
	"S":          "s",
	"S.inv":      "sdg",
	"T":          "t",
	"T.inv":      "tdg",
	"RX":         "rx",
	"RY":         "ry",
	"RZ":         "rz",
	"CRX":        "crx",
	"CRY":        "cry",
	"CRZ":        "crz",
	"SWAP":       "swap",
	"Toffoli":    "ccx",
	"CSWAP":      "cswap",
	"PhaseShift": "u1",
}

// SupportedGates returns the framework-level gate names the adapter can
// translate, for capability negotiation by the host.
func SupportedGates() []string {
	names := make([]string, 0, len(openQASMGates))
	for name := range openQASMGates {
		names = append(names, name)
	}
	return names
}

// ToOpenQASM renders the circuit as an OpenQASM 2.0 program with a full
// register measurement at the end, the form the remote service executes.
func ToOpenQASM(c model.Circuit) (string, error) {
	n := c.Qubits()
	if n <= 0 {
		return "", fmt.Errorf("%w: circuit must have at least one qubit", domain.ErrValidation)
	}

	var b strings.Builder
	b.WriteString("OPENQASM 2.0;\n")
	b.WriteString("include \"qelib1.inc\";\n")
	fmt.Fprintf(&b, "qreg q[%d];\n", n)
	fmt.Fprintf(&b, "creg c[%d];\n", n)

	for i, op := range c.Operations() {
		gate, ok := openQASMGates[op.Gate]
		if !ok {
			return "", fmt.Errorf("%w: gate %q (operation %d) is not supported by the remote service", domain.ErrValidation, op.Gate, i)
		}
		if len(op.Wires) == 0 {
			return "", fmt.Errorf("%w: gate %q (operation %d) has no wires", domain.ErrValidation, op.Gate, i)
		}
		for _, w := range op.Wires {
			if w < 0 || w >= n {
				return "", fmt.Errorf("%w: gate %q (operation %d) wire %d out of range [0,%d)", domain.ErrValidation, op.Gate, i, w, n)
			}
		}

		b.WriteString(gate)
		if len(op.Params) > 0 {
			b.WriteByte('(')
			for j, p := range op.Params {
				if j > 0 {
					b.WriteByte(',')
				}
				b.WriteString(strconv.FormatFloat(p, 'g', -1, 64))
			}
			b.WriteByte(')')
		}
		b.WriteByte(' ')
		for j, w := range op.Wires {
			if j > 0 {
				b.WriteByte(',')
			}
			fmt.Fprintf(&b, "q[%d]", w)
		}
		b.WriteString(";\n")
	}

	b.WriteString("measure q -> c;\n")
	return b.String(), nil
}
