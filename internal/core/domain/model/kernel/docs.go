// Package kernel provides the value objects shared by the user and order aggregates:
//   - UUID: identifiers for users and orders
//   - Money: non-negative amounts (shipping fees, collection prices) in minor units
//   - Phone: normalized phone numbers used for login and order contacts
//
// All values are immutable and their zero values fail validation.
package kernel
