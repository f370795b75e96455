// Package diagnostic provides structured errors, warnings and infos for
// the ctor generator.
//
// Key capabilities:
//   - Rejected constructor warnings with the reason
//   - Invalid default expression and duplicate target errors
//   - A combined error for failing runs
package diagnostic
