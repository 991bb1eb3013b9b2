// Package repopilot provides an AI-powered repository documentation service.
// It ingests GitHub repositories into server-side sessions, generates
// multi-chapter markdown documentation with Mermaid diagrams via the Gemini
// API, and answers natural language questions about the ingested code.
//
// This package contains domain types and interfaces following Ben Johnson's
// Standard Package Layout. Implementations live in subdirectories named
// after their primary dependency (e.g., sqlite/, gemini/, gitingest/).
package repopilot
