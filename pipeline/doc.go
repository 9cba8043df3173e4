// Package pipeline runs the two vecbench phases.
//
// Build loads a corpus directory, optionally L2-normalizes it for cosine
// similarity, indexes it and saves the index with the manifest of its source
// files. Evaluate loads a saved index and a query directory, searches every
// query row in one batch and scores top-1 self-retrieval: query row i is
// correct when its nearest neighbour is corpus row i.
package pipeline
