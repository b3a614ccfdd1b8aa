// Package user holds the account aggregate and the Role enumeration.
//
// Key business rules:
//   - phone is the mandatory login identifier, email is optional
//   - passwords only ever reach the aggregate as hashes
//   - new accounts start with RoleUser; only admins change roles
package user
