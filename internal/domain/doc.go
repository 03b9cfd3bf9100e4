// Package domain contains the core learning entities of the application:
// vocabulary terms with their two independent recall tracks, the closed
// Direction and Mode enumerations, civil dates, and attempt records.
// It is independent of storage, transport and scheduling policy.
package domain
