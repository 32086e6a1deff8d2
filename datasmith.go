// Package datasmith turns free-text scraping requests into structured
// datasets. A planner converts the request into a task, a selector-driven
// scraping pipeline collects raw records from web sources with bounded
// concurrency, and a normalizer/exporter pair packages the result for
// download.
//
// This package contains domain types and interfaces following Ben Johnson's
// Standard Package Layout. Implementations live in subdirectories named
// after their primary dependency (e.g., http/, rod/, gemini/).
package datasmith
