// Package graphml reads and writes the GraphML dialect described in the
// external interfaces of the owning library (node attributes name/x/y/
// label/observes/contingent/aLetter/logNormal; edge attributes source/
// target/name/type/value/labeledValues/upperCaseValues/lowerCaseValue/
// wait).
//
// This is a thin, out-of-core external collaborator: no propagation
// kernel depends on it, and it never interprets the labeled payloads it
// reads or writes beyond parsing them into the shapes labelmap/label
// already expose.
package graphml
