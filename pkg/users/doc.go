// Package users holds the two administrative stores: the user listing
// and the invitations issued to prospective members.
package users
