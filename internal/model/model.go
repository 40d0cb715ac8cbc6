// Package model defines the forum entities, one struct per table row.
//
// Entities are plain values: none of them holds a reference to a related
// entity. Relationships are resolved on demand by the repository and service
// packages, always with a fresh query.
//
// An entity with ID == 0 is transient. The repository assigns the ID on the
// first save and never changes it afterwards.
package model
