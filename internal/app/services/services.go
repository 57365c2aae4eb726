package services

// Services defined in this package:
// - FreshmanService: account binding, profile and classmate lookups
// - ApprovalService: real-identity approval workflow
//
// Persistence is reached through the StudentStore, ApprovalStore and
// IdentityStore interfaces so tests can run without a database.
