// Package track implements the two-stage particle tracking core: per-frame
// feature finding (threshold → local maxima → sub-pixel refinement → merge →
// filter) and cross-frame trajectory linking (gated candidate search, exact
// assignment over crowded sub-networks, gap-bridging memory).
//
// The feature finder follows the Crocker–Grier centroid algorithm: candidate
// pixels above an intensity threshold are walked to the centre of brightness
// of a circular window sized by the expected feature diameter, then
// characterised by integrated mass, radius of gyration, eccentricity and
// peak signal. The linker assigns persistent integer trajectory IDs by
// minimising total squared travel distance within each connected component
// of the trajectory↔feature candidate graph.
//
// Frame acquisition, persistence and plotting live outside this package;
// it consumes intensity arrays and produces feature tables and trajectories.
package track
