// Package store defines the persistence interfaces of the learning engine.
// The engine only reads terms and writes the scheduling state of one
// direction at a time; authoring terms belongs to another system, so the
// interfaces stay deliberately narrow.
package store
