// Package models defines the core domain models for the shared shopping lists.
//
// # Models
//
//   - List: a named collection of items shared by a set of members
//   - Item: a single purchasable entry within a list
//   - User: an entry of the shared user directory
//   - Member: display projection of a list member
//   - Product: a record from the external product database
//
// # Design Principles
//
// 1. **IDs over pointers**: relationships are expressed with ID strings (ListID, OwnerID, AddedBy)
// 2. **Absence is a state**: optional numbers are pointers, nil means "unset" and is never zero
// 3. **Explicit patches**: partial updates use ListPatch / ItemPatch instead of dynamic maps,
//    so "leave alone" and "clear" are distinguishable
// 4. **Denormalized emails**: List.MemberEmails lets members be displayed without a directory lookup
package models
