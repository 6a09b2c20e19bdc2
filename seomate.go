// Package seomate turns raw article text into short excerpts, tag sets and
// structured SEO quality reports. A generative-AI text service is the primary
// engine; deterministic heuristics take over when the service is unavailable,
// slow, or returns malformed output.
//
// This package contains domain types and interfaces following Ben Johnson's
// Standard Package Layout. Implementations live in subdirectories named
// after their primary dependency (e.g., sqlite/, openai/, goquery/).
package seomate
