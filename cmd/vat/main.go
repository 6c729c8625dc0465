package main

import "voice-analysis-toolkit/cmd/vat/cmd"

// @title Voice Analysis Toolkit API
// @version 1.0
// @description Upload audio, transcribe it with whisper, and analyze the transcript with an LLM.
// @BasePath /api/v1
func main() {
	cmd.Execute()
}
