// Package testutil holds mocks and fixtures shared by the package tests.
//
// MockProvider and MockBackend are testify mocks for the transcription and
// analysis seams. StaticProber stands in for ffprobe so validation tests do
// not need real audio. NewTestHistory opens a throwaway sqlite history
// database.
package testutil
