// Package trolley models the wheeled carts that carry canisters between robots
// and CSR shelving, and their drawer topology.
//
// A trolley has a Class: Normal carts serve drawers an operator reaches
// directly, Lift (elevator) carts serve the upper drawer levels.
package trolley
