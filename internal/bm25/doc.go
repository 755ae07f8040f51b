// Package bm25 implements an in-memory inverted index with BM25 ranking.
//
// The index is rebuilt each process run; there is no persistence format.
// Documents are identified by caller-supplied string keys, and re-adding a
// key fully replaces its term statistics.
//
// # Scoring
//
// For a query term appearing in n of N documents:
//
//	IDF = ln((N - n + 0.5) / (n + 0.5) + 1)
//
// The "+1" keeps IDF non-negative even for terms appearing in most
// documents, unlike the classic Robertson-Sparck-Jones form. Each document
// containing the term contributes:
//
//	IDF * tf*(k1+1) / (tf + k1*(1 - b + b*docLen/avgDocLen))
//
// with k1 = 1.5 and b = 0.75 by default, configurable per instance. A
// document's total score is the sum over query terms it contains; documents
// matching no query term are excluded from the result entirely.
//
// # Ranking
//
// Results are ordered by descending score. Equal scores are broken by
// document id ascending so that repeated runs produce identical rankings.
//
// # Concurrency
//
// The index performs no internal synchronization. A single instance is
// expected to be owned by one logical session; concurrent callers must wrap
// it in their own lock (see internal/searcher).
package bm25
