// Package ingestion loads documents, splits them into overlapping
// chunks, and feeds them to the vector store.
//
// Supported formats are plain text, markdown, and PDF. Files in a batch
// are processed concurrently, but the batch lands in the store as a
// single mutation so the similarity index rebuilds once.
package ingestion
