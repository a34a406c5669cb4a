package model

import (
	"fmt"

	"iontrap-job-client/internal/domain"
)

// Operation is one gate application in an ordered circuit.
type Operation struct {
	Gate   string    `json:"gate"`
	Wires  []int     `json:"wires"`
	Params []float64 `json:"params,omitempty"`
}

// Circuit is the narrow view of a host-framework circuit that the client
// consumes: an ordered gate sequence plus the qubit count. Translation to
// the vendor wire format happens at the adapter boundary; nothing else in
// the client inspects circuit internals.
type Circuit interface {
	Qubits() int
	Operations() []Operation
}

// StaticCircuit is a concrete Circuit, loadable from JSON. Hosts with
// richer circuit objects adapt them to the Circuit interface instead.
type StaticCircuit struct {
	NumQubits int         `json:"num_qubits"`
	Gates     []Operation `json:"gates"`
}

var _ Circuit = (*StaticCircuit)(nil)

func (c *StaticCircuit) Qubits() int             { return c.NumQubits }
func (c *StaticCircuit) Operations() []Operation { return c.Gates }

// Validate checks structural sanity before submission: positive qubit
// count and all wires in range. Gate-name support is checked by the
// translation layer, which owns the vendor gate table.
func (c *StaticCircuit) Validate() error {
	if c.NumQubits <= 0 {
		return fmt.Errorf("%w: circuit must have at least one qubit", domain.ErrValidation)
	}
	for i, op := range c.Gates {
		if len(op.Wires) == 0 {
			return fmt.Errorf("%w: gate %d (%s) has no wires", domain.ErrValidation, i, op.Gate)
		}
		for _, w := range op.Wires {
			if w < 0 || w >= c.NumQubits {
				return fmt.Errorf("%w: gate %d (%s) wire %d out of range [0,%d)", domain.ErrValidation, i, op.Gate, w, c.NumQubits)
			}
		}
	}
	return nil
}
