// SPDX-License-Identifier: MPL-2.0

// Package pattern resolves user-supplied name patterns against candidate
// lists of application or action names.
//
// A pattern expression is a comma-separated list of sub-patterns. Each
// sub-pattern matches by exact equality first, then by full-string glob when
// it contains '*', and otherwise by case-insensitive substring containment.
// Results keep first-seen order and are de-duplicated across sub-patterns.
package pattern
