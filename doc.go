// Package radarsim is the root entry point of the engine: a shooting-
// and-bouncing-rays (SBR) scene simulator with a polarization-aware
// physical-optics kernel, a coherent per-sample baseband synthesizer,
// and RCS/LiDAR/interference front-ends, tied together at one of three
// configurable fidelity levels.
//
// SimRadar, SimRCS and SimLidar are the three library entry points;
// everything else lives under internal/ and is reached only through
// them. The engine does not read files, gate on license, inject noise,
// or expose a CLI — those remain the caller's responsibility.
package radarsim
