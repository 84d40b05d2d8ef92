// Package models defines the core domain entities for Artist Plan.
//
// Every entity except User carries a CreatedBy back-reference to the owning
// user; all reads and writes are scoped to that owner. Embedded collections
// (Subtask on Task, Milestone on Project) are owned child records addressed
// by (parent ID, child ID) and mutated through read-modify-write on the
// parent aggregate.
//
// Derived values (Budget spend, FinancialGoal progress) are never persisted;
// they are recomputed from financial records on every read.
package models
