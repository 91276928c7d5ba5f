// Package models defines the core domain models for Splitbook.
//
// # Models
//
//   - User: a registered account; owns expenses and participates in splits
//   - Expense: one shared cost event recorded by its owner
//   - ExpenseSplit: one participant's derived share of an Expense
//   - BalanceSheet: per-user summary derived from owned expenses (never stored)
//
// Expenses and their splits are created together and never edited afterwards.
// Relationships are expressed with ID strings rather than pointers.
//
// Monetary values use decimal.Decimal so that split validation compares exact
// values instead of binary floating point approximations.
package models
