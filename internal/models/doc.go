// Package models defines the core domain records for Splittab.
//
// # Entities
//
//   - User: a registered account, either a customer or a vendor
//   - Group: a set of customers collaborating to pay a shared bill
//   - Bill: a vendor's itemized tab for one table, addressable by session code
//   - OrderItem: a line item embedded in a bill, splittable among group members
//   - MenuItem: a vendor-owned catalog entry that items are snapshotted from
//   - Card: a tokenized payment method saved by a customer
//
// # Design Principles
//
//  1. Explicit typed records: every field that the original loosely-typed
//     documents looked up with a default is a real field here, with its
//     default documented on the field.
//  2. No pointers between entities: relationships are ID strings, so records
//     can be persisted and compared without cycles.
//  3. Derived values stay consistent at the store: Bill.Subtotal is kept in
//     step with Contents inside the same transaction as every item mutation.
package models
