// Package domain contains the core business entities of the to-do list:
// accounts, tasks and the details attached to them. It is independent of
// any storage or delivery mechanism.
package domain
