// Package physics provides the longitudinal vehicle primitives used by the
// simulator.
//
// Every function is pure and stateless:
//
//   - [TireRadius]: rolling radius from a metric tire size
//   - [RollingResistance] and [AeroDrag]: resistive forces
//   - [AirDensity] and [PowerCorrection]: ISA troposphere derate by induction type
//   - [WheelTorque] and [WheelForce]: engine torque to thrust at the contact patch
//   - [SpeedToRPM] and [RPMToSpeed]: exact inverses at a given gearing
//
// # Units
//
// SI throughout: meters, kilograms, newtons, m/s. Tire width is in
// millimeters and rim diameter in inches, as printed on the sidewall.
// [ConvertSpeed] turns m/s into display units.
package physics
