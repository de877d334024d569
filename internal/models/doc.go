// Package models defines the records exchanged with the phonebook store.
//
// # Models
//
//   - User: a login account keyed by username, holding a password hash
//   - Person: a contact with a postal address and any number of phone numbers
//   - Phone: a labelled phone number owned by exactly one Person
//
// Values returned by the store are plain copies owned by the caller. Mutating
// them does not write anything back; the store is the only owner of persisted
// state.
//
// # Relationships
//
// Person 1 -> N Phone. Phones carry no identity of their own and are only ever
// created together with their Person, inside the same transaction.
package models
