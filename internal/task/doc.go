// Package task owns the ordered task collection and its persistence.
//
// The collection is persisted as a single JSON blob under one fixed key in
// a key-value store:
//
//	{
//	  "schema_version": 1,
//	  "tasks": [
//	    {
//	      "id": "5f0c…",
//	      "name": "Buy milk",
//	      "description": "2% organic",
//	      "progress": 0.0,
//	      "is_completed": false,
//	      "reminder": "2024-01-01T09:00:00Z"
//	    }
//	  ]
//	}
//
// Blobs are validated against an embedded JSON Schema (draft 2020-12) on
// load; an invalid blob resets the collection to empty with a recoverable
// error rather than failing the process.
//
// # Invariants
//
//   - ids are unique for the life of the collection and never reused
//   - slice order is insertion order and survives save/load round trips
//   - setting is_completed true forces progress to 1.0, false forces 0.0;
//     progress is otherwise unclamped
//   - every mutation persists the full collection before returning
//
// The store is single-threaded by contract: one logical caller drives all
// mutations, so the collection carries no lock.
package task
