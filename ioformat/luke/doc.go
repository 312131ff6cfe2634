// Package luke reads and writes the plain-text network format described
// in the owning library's external interfaces: a "# KIND OF NETWORK"
// header followed by time-point names, ordinary edges, contingent links,
// and (for OSTNU) an oracle section.
//
// Like ioformat/graphml, this is a thin, out-of-core external
// collaborator: the format says nothing about label algebra or
// propagation, so the reader produces a plain tnet.Graph plus the
// declared network kind, and leaves interpreting that kind to whichever
// algorithm package the caller hands the graph to.
package luke
