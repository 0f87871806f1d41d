// Package schema assigns roles to the columns of a raw table.
//
// Detection is heuristic and never blocks progress: a wide World Bank
// export gets its country, code, indicator and year columns guessed
// automatically, and anything the heuristics miss is seeded with a
// default the caller overrides through Assignment.Set.
package schema
